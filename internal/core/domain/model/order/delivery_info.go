package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// DeliveryType selects between doorstep delivery and pickup at a station.
type DeliveryType string

const (
	DeliveryHome    DeliveryType = "HOME"
	DeliveryStation DeliveryType = "STATION"
)

func ParseDeliveryType(s string) (DeliveryType, error) {
	t := DeliveryType(strings.ToUpper(strings.TrimSpace(s)))
	if t != DeliveryHome && t != DeliveryStation {
		return "", errs.NewValueIsInvalidErrorWithCause("deliveryType", fmt.Errorf("%q is not HOME or STATION", s))
	}
	return t, nil
}

// DeliveryInfo is the contact and destination of an order.
// Address is set for HOME deliveries, Station for STATION deliveries.
type DeliveryInfo struct {
	deliveryType DeliveryType
	contactName  string
	contactPhone string
	address      string
	station      string
}

func NewDeliveryInfo(deliveryType DeliveryType, contactName, contactPhone, address, station string) (DeliveryInfo, error) {
	info := DeliveryInfo{
		deliveryType: deliveryType,
		contactName:  strings.TrimSpace(contactName),
		contactPhone: strings.TrimSpace(contactPhone),
		address:      strings.TrimSpace(address),
		station:      strings.TrimSpace(station),
	}
	if err := info.Validate(); err != nil {
		return DeliveryInfo{}, err
	}
	return info, nil
}

func (d DeliveryInfo) Validate() error {
	var typeErr, targetErr error
	switch d.deliveryType {
	case DeliveryHome:
		if d.address == "" {
			targetErr = errs.NewValueIsRequiredError("address")
		}
	case DeliveryStation:
		if d.station == "" {
			targetErr = errs.NewValueIsRequiredError("station")
		}
	default:
		typeErr = errs.NewValueIsInvalidErrorWithCause("deliveryType",
			fmt.Errorf("%q is not HOME or STATION", string(d.deliveryType)))
	}

	var nameErr, phoneErr error
	if d.contactName == "" {
		nameErr = errs.NewValueIsRequiredError("contactName")
	}
	if d.contactPhone == "" {
		phoneErr = errs.NewValueIsRequiredError("contactPhone")
	}

	return errors.Join(typeErr, targetErr, nameErr, phoneErr)
}

func (d DeliveryInfo) Type() DeliveryType   { return d.deliveryType }
func (d DeliveryInfo) ContactName() string  { return d.contactName }
func (d DeliveryInfo) ContactPhone() string { return d.contactPhone }
func (d DeliveryInfo) Address() string      { return d.address }
func (d DeliveryInfo) Station() string      { return d.station }
