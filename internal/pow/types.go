// Package pow holds the wire-level data model shared by the solver,
// transport, and client-facade packages: Challenge, ChallengeResponse,
// and Token.
package pow

import "time"

// Challenge is the proof-of-work puzzle issued by the server. Params is
// an opaque parameter blob hashed together with each candidate nonce;
// LeadingZeroBits is the difficulty predicate's input;
// RecommendedAttempts is a display-only estimate of expected work,
// echoed verbatim from the server and never recomputed client-side.
type Challenge struct {
	Params              []byte    `json:"params"`
	LeadingZeroBits     int       `json:"leading_zero_bits"`
	RecommendedAttempts uint64    `json:"recommended_attempts"`
	IssuedAt            time.Time `json:"issued_at"`
	ExpiresAt           time.Time `json:"expires_at"`
	Signature           []byte    `json:"signature"`
}

// ChallengeResponse is the solved challenge submitted back to the
// server. Solution is the signed 64-bit wire form of the nonce found by
// exactly one solver worker; the solver never produces a negative
// value, but the field stays signed to match the issuing service's wire
// format.
type ChallengeResponse struct {
	Params    []byte `json:"params"`
	Solution  int64  `json:"solution"`
	Signature []byte `json:"signature"`
}

// Token is the issuer-signed access credential returned after a
// successful solution submission. It is opaque to the client and is
// not persisted by the core; callers own its lifetime.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}
