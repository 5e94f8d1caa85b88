package sanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeHTML_StripsScriptKeepsContent(t *testing.T) {
	req := require.New(t)
	s := New()

	out := s.SanitizeHTML(`<script>alert(1)</script><p>hi</p>`)

	req.NotContains(out, "<script")
	req.NotContains(out, "alert(1)")
	req.Contains(out, "<p>hi</p>")
}

func TestSanitizeHTML_DisallowedConstructs(t *testing.T) {
	s := New()

	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{
			name:    "iframe",
			input:   `<iframe src="https://evil.example/frame"></iframe><p>kept</p>`,
			missing: []string{"<iframe", "evil.example/frame"},
		},
		{
			name:    "object and embed",
			input:   `<object data="x"></object><embed src="y"><p>kept</p>`,
			missing: []string{"<object", "<embed"},
		},
		{
			name:    "form controls",
			input:   `<form action="/steal"><input name="pw"><button>go</button></form><p>kept</p>`,
			missing: []string{"<form", "<input", "<button"},
		},
		{
			name:    "event handlers",
			input:   `<img src="/cat.png" onerror="alert(1)" onload="x()"><span onclick="y()" onmouseover="z()">kept</span>`,
			missing: []string{"onerror", "onload", "onclick", "onmouseover"},
		},
		{
			name:    "data attributes",
			input:   `<div data-tracking="abc123">kept</div>`,
			missing: []string{"data-tracking"},
		},
		{
			name:    "javascript scheme",
			input:   `<a href="javascript:alert(1)">kept</a>`,
			missing: []string{"javascript"},
		},
		{
			name:    "obfuscated javascript scheme",
			input:   `<a href=" JaVaScRiPt:alert(1)">kept</a><img src="jAvAsCrIpT:steal()">`,
			missing: []string{"alert(1)", "steal()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			out := s.SanitizeHTML(tt.input)
			for _, fragment := range tt.missing {
				req.NotContains(strings.ToLower(out), strings.ToLower(fragment))
			}
			req.Contains(out, "kept")
		})
	}
}

func TestSanitizeHTML_ExternalLinksGetSafeSemantics(t *testing.T) {
	req := require.New(t)
	s := New()

	out := s.SanitizeHTML(`<a href="http://evil.com">x</a>`)
	req.Contains(out, `href="http://evil.com"`)
	req.Contains(out, `target="_blank"`)
	req.Contains(out, "noopener")
	req.Contains(out, "noreferrer")
}

func TestSanitizeHTML_LocalLinksLeftAlone(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		href string
	}{
		{"fragment", "#section-2"},
		{"root relative", "/inbox/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			out := s.SanitizeHTML(`<a href="` + tt.href + `">x</a>`)
			req.Contains(out, tt.href)
			req.NotContains(out, "_blank")
		})
	}
}

func TestSanitizeHTML_NoDuplicatedLinkAttributes(t *testing.T) {
	req := require.New(t)
	s := New()

	out := s.SanitizeHTML(`<a href="https://example.com" target="_blank" rel="noopener noreferrer">x</a>`)
	req.Equal(1, strings.Count(out, "target="))
	req.Equal(1, strings.Count(out, "rel="))
	req.Equal(1, strings.Count(out, "noopener"))
	req.Equal(1, strings.Count(out, "noreferrer"))
}

func TestSanitizeHTML_Idempotent(t *testing.T) {
	s := New()

	inputs := []string{
		`<p>plain</p>`,
		`<a href="https://example.com">link</a>`,
		`<script>x</script><div class="c" style="color:red"><b>bold</b> &amp; <i>italic</i></div>`,
		`<table><thead><tr><th>h</th></tr></thead><tbody><tr><td>d</td></tr></tbody></table>`,
		`<p>unclosed <b>bold`,
		`<img src="/pic.png" alt="pic" width="10" height="10">`,
	}

	for _, input := range inputs {
		once := s.SanitizeHTML(input)
		twice := s.SanitizeHTML(once)
		require.Equal(t, once, twice, "input %q", input)
	}
}

func TestSanitizeHTML_MalformedInputDoesNotPanic(t *testing.T) {
	req := require.New(t)
	s := New()

	inputs := []string{
		"<p><div><span>",
		"<<<>>>",
		"<a href=",
		"text < not a tag",
		strings.Repeat("<div>", 500),
	}

	for _, input := range inputs {
		req.NotPanics(func() { s.SanitizeHTML(input) })
		out := s.SanitizeHTML(input)
		req.NotContains(out, "<script")
	}
}

func TestSanitizeHTML_Empty(t *testing.T) {
	require.Equal(t, "", New().SanitizeHTML(""))
}

func TestExtractPlainText(t *testing.T) {
	s := New()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"paragraphs", "<p>Hello</p><p>world</p>", "Hello world"},
		{"nested tags", "<div><p>a <b>b</b> c</p></div>", "a b c"},
		{"entities", "Fish &amp; Chips &lt;today&gt; &quot;only&quot;", `Fish & Chips <today> "only"`},
		{"nbsp collapsed", "a&nbsp;&nbsp;&nbsp;b", "a b"},
		{"script dropped entirely", "<script>alert(1)</script>visible", "visible"},
		{"whitespace collapsed", "<p>  lots \n\t of   space  </p>", "lots of space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.ExtractPlainText(tt.input))
		})
	}
}

func TestGeneratePreview(t *testing.T) {
	s := New()

	t.Run("both sources absent", func(t *testing.T) {
		require.Equal(t, "", s.GeneratePreview("", "", 100))
	})

	t.Run("text preferred over html", func(t *testing.T) {
		require.Equal(t, "plain wins", s.GeneratePreview("<p>html body</p>", "plain wins", 100))
	})

	t.Run("falls back to html", func(t *testing.T) {
		require.Equal(t, "from html", s.GeneratePreview("<p>from html</p>", "", 100))
	})

	t.Run("long source is truncated with ellipsis", func(t *testing.T) {
		req := require.New(t)
		out := s.GeneratePreview("", strings.Repeat("a", 150), 100)
		req.Len(out, 103)
		req.True(strings.HasSuffix(out, "..."))
	})

	t.Run("exact length is not truncated", func(t *testing.T) {
		source := strings.Repeat("b", 100)
		require.Equal(t, source, s.GeneratePreview("", source, 100))
	})
}
