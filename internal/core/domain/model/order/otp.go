package order

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

// OTPChallenge is the stored side of a one-time handover code: a salted hash and its deadline.
type OTPChallenge struct {
	hash      []byte
	expiresAt time.Time
}

func NewOTPChallenge(hash []byte, expiresAt time.Time) (OTPChallenge, error) {
	if len(hash) == 0 {
		return OTPChallenge{}, errs.NewValueIsRequiredError("otpHash")
	}
	if expiresAt.IsZero() {
		return OTPChallenge{}, errs.NewValueIsRequiredError("otpExpiresAt")
	}
	return OTPChallenge{hash: append([]byte(nil), hash...), expiresAt: expiresAt.UTC()}, nil
}

func (c OTPChallenge) Hash() []byte {
	return append([]byte(nil), c.hash...)
}

func (c OTPChallenge) ExpiresAt() time.Time {
	return c.expiresAt
}

func (c OTPChallenge) isExpired(now time.Time) bool {
	return now.After(c.expiresAt)
}

// CodeMatcher compares a submitted plaintext code with a stored hash.
type CodeMatcher interface {
	Matches(hash []byte, code string) bool
}

// ProofKind names the evidence recorded at handover.
type ProofKind string

const (
	ProofOTP       ProofKind = "OTP"
	ProofPhoto     ProofKind = "PHOTO"
	ProofSignature ProofKind = "SIGNATURE"
)

// Proof is the delivery evidence. PHOTO and SIGNATURE carry a reference to the stored artifact.
type Proof struct {
	kind      ProofKind
	reference string
}

func NewProof(kind ProofKind, reference string) (Proof, error) {
	reference = strings.TrimSpace(reference)
	switch kind {
	case ProofOTP:
		return Proof{kind: kind, reference: reference}, nil
	case ProofPhoto, ProofSignature:
		if reference == "" {
			return Proof{}, errs.NewValueIsRequiredError("proofReference")
		}
		return Proof{kind: kind, reference: reference}, nil
	default:
		return Proof{}, errs.NewValueIsInvalidErrorWithCause("proofKind",
			fmt.Errorf("%q is not OTP, PHOTO or SIGNATURE", string(kind)))
	}
}

func (p Proof) Kind() ProofKind   { return p.kind }
func (p Proof) Reference() string { return p.reference }
