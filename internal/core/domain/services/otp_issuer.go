package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultOTPTTL = 10 * time.Minute
	otpDigits     = 6
)

var otpUpperBound = big.NewInt(1_000_000)

// OTPIssuer issues six-digit handover codes and stores only their bcrypt hash.
type OTPIssuer struct {
	ttl  time.Duration
	cost int
}

func NewOTPIssuer(ttl time.Duration, cost int) OTPIssuer {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return OTPIssuer{ttl: ttl, cost: cost}
}

func (i OTPIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns the plaintext code together with the challenge to store on the order.
func (i OTPIssuer) Issue(now time.Time) (string, order.OTPChallenge, error) {
	n, err := rand.Int(rand.Reader, otpUpperBound)
	if err != nil {
		return "", order.OTPChallenge{}, fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%0*d", otpDigits, n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(code), i.cost)
	if err != nil {
		return "", order.OTPChallenge{}, fmt.Errorf("hash otp: %w", err)
	}

	challenge, err := order.NewOTPChallenge(hash, now.Add(i.ttl))
	if err != nil {
		return "", order.OTPChallenge{}, err
	}
	return code, challenge, nil
}

// Matches implements order.CodeMatcher.
func (i OTPIssuer) Matches(hash []byte, code string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(code)) == nil
}
