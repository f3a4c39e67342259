package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
	PaymentWallet PaymentMethod = "WALLET"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case PaymentCOD, PaymentOnline, PaymentWallet:
		return m, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not COD, ONLINE or WALLET", s))
	}
}

// Payment carries the method and the gateway status, which the core treats as opaque.
type Payment struct {
	method PaymentMethod
	status string
}

func NewPayment(method PaymentMethod, status string) (Payment, error) {
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return Payment{}, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return Payment{}, errs.NewValueIsRequiredError("paymentStatus")
	}
	return Payment{method: method, status: status}, nil
}

func (p Payment) Method() PaymentMethod { return p.method }
func (p Payment) Status() string        { return p.status }

// IsCashOnDelivery reports whether the agent collects the final amount at handover.
func (p Payment) IsCashOnDelivery() bool {
	return p.method == PaymentCOD
}
