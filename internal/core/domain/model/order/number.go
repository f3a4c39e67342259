package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)

// GenerateNumber returns a human readable order number such as ORD-20250301-9F2C41AB.
func GenerateNumber(at time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix))), nil
}

func ValidateNumber(number string) error {
	if !numberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("orderNumber", fmt.Errorf("%q does not match ORD-YYYYMMDD-XXXXXXXX", number))
	}
	return nil
}
