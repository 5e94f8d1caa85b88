package spam

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultRules())
	require.NoError(t, err)
	return s
}

func TestScore_ObviousSpamSubject(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	result := s.Score(Message{
		FromEmail: "promo@deals.example.com",
		Subject:   "WIN FREE MONEY!!!!! CASINO WINNER",
	})

	req.True(result.IsSpam)
	req.NotEmpty(result.Reasons)
	req.GreaterOrEqual(result.Score, DefaultRules().SpamThreshold)
}

func TestScore_CleanMessage(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	result := s.Score(Message{
		FromEmail: "alice@example.com",
		FromName:  "Alice",
		Subject:   "Notes from today's meeting",
		TextBody:  "Attached are the notes we discussed. See you Thursday.",
	})

	req.False(result.IsSpam)
	req.Zero(result.Score)
	req.Empty(result.Reasons)
}

func TestScore_SubjectKeywordsScoreHigherThanBody(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	inSubject := s.Score(Message{FromEmail: "a@b.com", Subject: "casino"})
	inBody := s.Score(Message{FromEmail: "a@b.com", Subject: "hello", TextBody: "casino"})

	req.Equal(2, inSubject.Score)
	req.Equal(1, inBody.Score)
}

func TestScore_BodyKeywordNotDoubleCounted(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	// "lottery" appears in subject, text body and HTML body; only the
	// subject occurrence may award points.
	result := s.Score(Message{
		FromEmail: "a@b.com",
		Subject:   "lottery",
		TextBody:  "you won the lottery",
		HTMLBody:  "<p>lottery results</p>",
	})

	req.Equal(2, result.Score)
	req.Len(result.Reasons, 1)
	req.Contains(result.Reasons[0], "subject")
}

func TestScore_DistinctBodyKeywordsDeduplicatedAcrossBodies(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	result := s.Score(Message{
		FromEmail: "a@b.com",
		Subject:   "hello there",
		TextBody:  "free prize inside, free prize",
		HTMLBody:  "<b>free prize</b>",
	})

	// "free" and "prize", once each.
	req.Equal(2, result.Score)
	req.Len(result.Reasons, 2)
}

func TestScore_URLCount(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	five := strings.Repeat("see https://example.com/x ", 5)
	result := s.Score(Message{FromEmail: "a@b.com", Subject: "links", TextBody: five})
	req.Zero(result.Score, "five URLs are within the threshold")

	six := five + " and http://example.org/y"
	result = s.Score(Message{FromEmail: "a@b.com", Subject: "links", TextBody: six})
	req.Equal(2, result.Score)
	req.Contains(result.Reasons[0], "URLs")
}

func TestScore_URLsCountedAcrossTextAndHTML(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	result := s.Score(Message{
		FromEmail: "a@b.com",
		Subject:   "links",
		TextBody:  strings.Repeat("https://a.example/p ", 3),
		HTMLBody:  strings.Repeat(`<a href="https://b.example/q">q</a> `, 3),
	})

	req.Equal(2, result.Score)
}

func TestScore_LowTrustTLD(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	result := s.Score(Message{FromEmail: "someone@offers.tk", Subject: "hello there"})
	req.Equal(1, result.Score)
	req.Contains(result.Reasons[0], ".tk")

	result = s.Score(Message{FromEmail: "someone@offers.dev", Subject: "hello there"})
	req.Zero(result.Score)
}

func TestScore_SubjectShapeSignals(t *testing.T) {
	s := newTestScorer(t)

	tests := []struct {
		name    string
		subject string
		score   int
	}{
		{"repeated characters", "hello!!!!!", 1},
		{"short shouting not flagged", "HELLO", 0},
		{"mostly uppercase", "READ THIS RIGHT NOW PLEASE", 1},
		{"mixed case not flagged", "Read this right now please", 0},
		{"over one hundred characters", strings.Repeat("word ", 21), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Score(Message{FromEmail: "a@b.com", Subject: tt.subject})
			require.Equal(t, tt.score, result.Score, "subject %q", tt.subject)
			require.Len(t, result.Reasons, tt.score)
		})
	}
}

func TestScore_ShortenerDomains(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	result := s.Score(Message{
		FromEmail: "a@b.com",
		Subject:   "hi",
		TextBody:  "go to bit.ly/x now",
		HTMLBody:  `<a href="https://tinyurl.com/y">y</a>`,
	})

	req.Equal(2, result.Score)
	req.Len(result.Reasons, 2)
}

func TestScore_ReasonsExplainEveryPoint(t *testing.T) {
	req := require.New(t)
	s := newTestScorer(t)

	result := s.Score(Message{
		FromEmail: "promo@win.gq",
		Subject:   "FREE CASINO MONEY WAITING FOR YOU!!!!!",
		TextBody:  "claim your prize at bit.ly/claim " + strings.Repeat("https://x.example/u ", 6),
	})

	req.True(result.IsSpam)

	// Sum of weights implied by reasons must equal the score: 3 subject
	// keywords (2 each) + 1 body keyword + URLs (2) + TLD + repeats +
	// uppercase + shortener.
	req.Equal(3*2+1+2+1+1+1+1, result.Score)
	req.Len(result.Reasons, 9)
}

func TestBlacklistWhitelist(t *testing.T) {
	req := require.New(t)

	list := []string{"spammer.example", "Bad@Actor.com"}

	req.True(IsBlacklisted("anyone@spammer.example", list))
	req.True(IsBlacklisted("BAD@ACTOR.COM", list))
	req.False(IsBlacklisted("alice@example.com", list))
	req.False(IsBlacklisted("alice@example.com", nil))
	req.False(IsBlacklisted("alice@example.com", []string{""}))

	req.True(IsWhitelisted("partner@trusted.example", []string{"trusted.example"}))
	req.False(IsWhitelisted("partner@other.example", []string{"trusted.example"}))
}

func TestScore_CustomRuleTable(t *testing.T) {
	req := require.New(t)

	rules := DefaultRules()
	rules.SpamThreshold = 2
	rules.SubjectKeywordWeight = 5

	s, err := NewScorer(rules)
	req.NoError(err)

	result := s.Score(Message{FromEmail: "a@b.com", Subject: "urgent"})
	req.Equal(5, result.Score)
	req.True(result.IsSpam)
}
