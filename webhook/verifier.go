// Package webhook authenticates inbound delivery callbacks using
// shared-secret HMAC schemes. Two provider variants exist: a plain
// body HMAC and a timestamped token HMAC with a replay window.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// Scheme identifies which signature variant a provider uses.
type Scheme string

const (
	SchemeSimple      Scheme = "simple"
	SchemeTimestamped Scheme = "timestamped"
)

// ReplayWindow is the maximum allowed clock skew between the signature
// timestamp and the server clock for the timestamped scheme.
const ReplayWindow = 15 * time.Minute

// Verifier checks that a webhook payload was produced by the holder of
// the shared secret. All failure paths return false; verification never
// panics and never propagates an error, so a malformed signature is
// indistinguishable from an absent one.
type Verifier struct {
	scheme Scheme
	secret string
	now    func() time.Time
}

// NewVerifier builds a verifier for the given provider scheme.
func NewVerifier(scheme Scheme, secret string) Verifier {
	return Verifier{scheme: scheme, secret: secret, now: time.Now}
}

// NewVerifierAt is NewVerifier with an injected clock, for tests.
func NewVerifierAt(scheme Scheme, secret string, now func() time.Time) Verifier {
	return Verifier{scheme: scheme, secret: secret, now: now}
}

// Scheme returns the provider variant this verifier was built for.
func (v Verifier) Scheme() Scheme {
	return v.scheme
}

// VerifySimple checks signature == hex(HMAC-SHA256(secret, body)).
// A length mismatch short-circuits to false before the constant-time
// comparator, which requires equal-length inputs.
func (v Verifier) VerifySimple(body, signature string) bool {
	if v.secret == "" || body == "" || signature == "" {
		return false
	}
	expected := computeHex(v.secret, body)
	if len(expected) != len(signature) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// VerifyTimestamped checks signature == hex(HMAC-SHA256(apiKey, timestamp+token))
// and rejects timestamps outside the replay window.
func (v Verifier) VerifyTimestamped(token, timestamp, signature string) bool {
	if v.secret == "" || token == "" || timestamp == "" || signature == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := v.now().Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(ReplayWindow.Seconds()) {
		return false
	}

	expected := computeHex(v.secret, timestamp+token)
	if len(expected) != len(signature) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func computeHex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign computes the hex signature for a payload. Used by tests and by
// outbound callbacks we sign ourselves.
func Sign(secret, payload string) string {
	return computeHex(secret, payload)
}
