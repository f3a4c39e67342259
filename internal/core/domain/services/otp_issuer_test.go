package services_test

import (
	"regexp"
	"testing"
	"time"

	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestOTPIssuer_Issue(t *testing.T) {
	issuer := services.NewOTPIssuer(0, bcrypt.MinCost)

	code, challenge, err := issuer.Issue(now)

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
	assert.Equal(t, now.Add(10*time.Minute), challenge.ExpiresAt())
	assert.NotEqual(t, []byte(code), challenge.Hash(), "plaintext must not be stored")
	assert.True(t, issuer.Matches(challenge.Hash(), code))
	assert.False(t, issuer.Matches(challenge.Hash(), "not-it"))
}

func TestOTPIssuer_IssueIsSalted(t *testing.T) {
	issuer := services.NewOTPIssuer(time.Minute, bcrypt.MinCost)

	_, first, err := issuer.Issue(now)
	require.NoError(t, err)
	_, second, err := issuer.Issue(now)
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash(), second.Hash())
	assert.Equal(t, time.Minute, issuer.TTL())
}
