// Package sanitizer converts untrusted HTML email bodies into a safe
// renderable form and a safe plain-text form. Everything not on the
// allow-list is rejected by default; malformed fragments degrade to
// escaped text, never to executable markup.
package sanitizer

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// allowedElements is the closed set of tags an email body may render.
var allowedElements = []string{
	"p", "br", "strong", "em", "u", "b", "i", "a",
	"ul", "ol", "li",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"blockquote", "code", "pre", "div", "span",
	"table", "thead", "tbody", "tr", "th", "td",
	"img",
}

// Sanitizer holds the compiled allow-list policy. A zero Sanitizer is
// not usable; construct with New.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New compiles the email body policy. Scripts, frames, form controls,
// event handlers and data-* attributes are all outside the allow-list
// and therefore stripped. Anchors resolving to a fully qualified URL
// are forced to target="_blank" with rel="noopener noreferrer";
// fragment (#...) and root-relative (/...) links are left alone.
func New() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedElements...)

	p.AllowAttrs("title", "class", "style", "width", "height").Globally()
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")

	// Neutralizes javascript: and friends regardless of casing or
	// whitespace obfuscation: only parseable http/https/mailto URLs
	// (or relative paths) survive in href/src.
	p.AllowStandardURLs()

	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnFullyQualifiedLinks(true)

	return &Sanitizer{policy: p}
}

// SanitizeHTML returns a safe rendering of an untrusted email body.
// Empty input yields an empty string. The result is idempotent:
// sanitizing already-sanitized output returns the same output.
func (s *Sanitizer) SanitizeHTML(raw string) string {
	if raw == "" {
		return ""
	}
	return s.policy.Sanitize(raw)
}

// ExtractPlainText derives the text content of an email body: the
// input is sanitized first, then text nodes are collected from the
// token stream and runs of whitespace collapsed to single spaces.
// Tokenizing instead of regex-stripping means entities are decoded
// correctly and an unclosed tag cannot swallow the rest of the body.
func (s *Sanitizer) ExtractPlainText(raw string) string {
	if raw == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(s.SanitizeHTML(raw)))
	var parts []string
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		case html.TextToken:
			parts = append(parts, tokenizer.Token().Data)
		}
	}
}

// GeneratePreview builds a short plain-text excerpt for list views.
// The text body is preferred when present; otherwise the preview is
// derived from the HTML body. "..." is appended only when the source
// actually exceeds maxLength.
func (s *Sanitizer) GeneratePreview(htmlBody, textBody string, maxLength int) string {
	source := textBody
	if source == "" {
		source = s.ExtractPlainText(htmlBody)
	}
	if source == "" {
		return ""
	}

	runes := []rune(source)
	if len(runes) <= maxLength {
		return source
	}
	return string(runes[:maxLength]) + "..."
}
