package service

import "crypto/subtle"

// Verifier checks the shared verification credential gating moderation
// actions. It is an integrity checkpoint, not a security control; the
// interface exists so a real auth mechanism can replace the static passkey
// without touching call sites.
type Verifier interface {
	Verify(candidate string) bool
}

// passkeyVerifier compares against a single configured passkey
type passkeyVerifier struct {
	passkey string
}

// NewPasskeyVerifier creates a Verifier over a static shared passkey.
// An empty configured passkey rejects everything.
func NewPasskeyVerifier(passkey string) Verifier {
	return &passkeyVerifier{passkey: passkey}
}

func (v *passkeyVerifier) Verify(candidate string) bool {
	if v.passkey == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.passkey), []byte(candidate)) == 1
}
