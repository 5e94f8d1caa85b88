// Package spam assigns a deterministic, explainable risk score to an
// inbound message. Scoring is advisory: every point awarded carries a
// human-readable reason, and the verdict must never be the sole gate
// for rejecting mail.
package spam

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Message is the scorer's view of an inbound email.
type Message struct {
	FromEmail string
	FromName  string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Result is computed fresh per message and never stored.
type Result struct {
	Score   int
	Reasons []string
	IsSpam  bool
}

// RuleTable holds every weight, threshold and signal list in one
// tunable place. The default numbers are tuning constants, not
// calibrated business requirements.
type RuleTable struct {
	Keywords []string

	SubjectKeywordWeight int
	BodyKeywordWeight    int

	URLCountThreshold int
	URLCountWeight    int

	LowTrustTLDs      []string
	LowTrustTLDWeight int

	RepeatRunLength     int
	RepeatedCharsWeight int

	UppercaseMinLength int
	UppercaseRatio     float64
	UppercaseWeight    int

	LongSubjectLength int
	LongSubjectWeight int

	ShortenerDomains []string
	ShortenerWeight  int

	SpamThreshold int
}

// DefaultRules returns the stock rule table.
func DefaultRules() RuleTable {
	return RuleTable{
		Keywords: []string{
			"free", "winner", "casino", "viagra", "lottery", "prize",
			"urgent", "money", "cash bonus", "click here", "act now",
			"limited time", "congratulations", "inheritance",
			"investment opportunity", "no credit check",
		},
		SubjectKeywordWeight: 2,
		BodyKeywordWeight:    1,
		URLCountThreshold:    5,
		URLCountWeight:       2,
		LowTrustTLDs:         []string{".tk", ".ml", ".ga", ".cf", ".gq"},
		LowTrustTLDWeight:    1,
		RepeatRunLength:      5,
		RepeatedCharsWeight:  1,
		UppercaseMinLength:   10,
		UppercaseRatio:       0.7,
		UppercaseWeight:      1,
		LongSubjectLength:    100,
		LongSubjectWeight:    1,
		ShortenerDomains:     []string{"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly"},
		ShortenerWeight:      1,
		SpamThreshold:        5,
	}
}

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// Scorer matches rule keywords with an Aho-Corasick automaton so a
// single pass over subject and body finds every keyword occurrence.
type Scorer struct {
	rules   RuleTable
	matcher *goahocorasick.Machine
}

// NewScorer compiles the keyword automaton for the given rule table.
func NewScorer(rules RuleTable) (*Scorer, error) {
	patterns := make([][]rune, len(rules.Keywords))
	for i, kw := range rules.Keywords {
		patterns[i] = []rune(strings.ToLower(kw))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("keyword automaton build failed: %w", err)
	}
	return &Scorer{rules: rules, matcher: m}, nil
}

// Score applies every rule independently and sums the triggered
// weights. Reasons explain each point awarded, in rule order.
func (s *Scorer) Score(msg Message) Result {
	var result Result
	body := msg.TextBody + "\n" + msg.HTMLBody

	subjectKeywords := s.findKeywords(msg.Subject)
	for _, kw := range subjectKeywords {
		result.Score += s.rules.SubjectKeywordWeight
		result.Reasons = append(result.Reasons, fmt.Sprintf("subject contains spam keyword %q", kw))
	}

	// A keyword already reported for the subject is not counted again
	// when it also appears in the body.
	seen := lo.SliceToMap(subjectKeywords, func(kw string) (string, struct{}) { return kw, struct{}{} })
	for _, kw := range s.findKeywords(body) {
		if _, dup := seen[kw]; dup {
			continue
		}
		result.Score += s.rules.BodyKeywordWeight
		result.Reasons = append(result.Reasons, fmt.Sprintf("body contains spam keyword %q", kw))
	}

	if n := len(urlPattern.FindAllString(body, -1)); n > s.rules.URLCountThreshold {
		result.Score += s.rules.URLCountWeight
		result.Reasons = append(result.Reasons, fmt.Sprintf("message contains %d URLs", n))
	}

	sender := strings.ToLower(msg.FromEmail)
	for _, tld := range s.rules.LowTrustTLDs {
		if strings.HasSuffix(sender, tld) {
			result.Score += s.rules.LowTrustTLDWeight
			result.Reasons = append(result.Reasons, fmt.Sprintf("sender domain has low-trust TLD %q", tld))
		}
	}

	if hasRepeatedRun(msg.Subject, s.rules.RepeatRunLength) {
		result.Score += s.rules.RepeatedCharsWeight
		result.Reasons = append(result.Reasons, "subject contains long runs of repeated characters")
	}

	subjectRunes := []rune(msg.Subject)
	if len(subjectRunes) > s.rules.UppercaseMinLength && uppercaseRatio(subjectRunes) > s.rules.UppercaseRatio {
		result.Score += s.rules.UppercaseWeight
		result.Reasons = append(result.Reasons, "subject is mostly uppercase")
	}

	if len(subjectRunes) > s.rules.LongSubjectLength {
		result.Score += s.rules.LongSubjectWeight
		result.Reasons = append(result.Reasons, "subject is unusually long")
	}

	lowerBody := strings.ToLower(body)
	for _, domain := range s.rules.ShortenerDomains {
		if strings.Contains(lowerBody, domain) {
			result.Score += s.rules.ShortenerWeight
			result.Reasons = append(result.Reasons, fmt.Sprintf("body links through URL shortener %q", domain))
		}
	}

	result.IsSpam = result.Score >= s.rules.SpamThreshold
	return result
}

// findKeywords returns the distinct rule keywords contained in text,
// case-insensitively, in first-occurrence order.
func (s *Scorer) findKeywords(text string) []string {
	if text == "" {
		return nil
	}
	terms := s.matcher.MultiPatternSearch([]rune(strings.ToLower(text)), false)
	found := lo.Map(terms, func(term *goahocorasick.Term, _ int) string { return string(term.Word) })
	return lo.Uniq(found)
}

func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func uppercaseRatio(runes []rune) float64 {
	upper := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(len(runes))
}

// IsBlacklisted reports whether any blacklist entry is contained in
// the address, case-insensitively.
func IsBlacklisted(email string, blacklist []string) bool {
	return listContains(email, blacklist)
}

// IsWhitelisted reports whether any whitelist entry is contained in
// the address, case-insensitively.
func IsWhitelisted(email string, whitelist []string) bool {
	return listContains(email, whitelist)
}

func listContains(email string, list []string) bool {
	addr := strings.ToLower(email)
	return lo.SomeBy(list, func(entry string) bool {
		return entry != "" && strings.Contains(addr, strings.ToLower(entry))
	})
}
