package payments

import "strings"

// PaymentStatus mirrors the statuses the gateway reports.
// Ref: https://developers.paynow.co.zw/docs/status_update.html#statuses
type PaymentStatus int

const (
	StatusUnknown PaymentStatus = iota
	StatusPaid
	StatusAwaitingDelivery
	StatusDelivered
	StatusCreated
	StatusSent
	StatusCancelled
	StatusDisputed
	StatusRefunded
	StatusError
	StatusOk
)

var statusNames = map[PaymentStatus]string{
	StatusPaid:             "Paid",
	StatusAwaitingDelivery: "Awaiting Delivery",
	StatusDelivered:        "Delivered",
	StatusCreated:          "Created",
	StatusSent:             "Sent",
	StatusCancelled:        "Cancelled",
	StatusDisputed:         "Disputed",
	StatusRefunded:         "Refunded",
	StatusError:            "Error",
	StatusOk:               "Ok",
	StatusUnknown:          "Unknown",
}

var statusByName = func() map[string]PaymentStatus {
	m := make(map[string]PaymentStatus, len(statusNames))
	for s, name := range statusNames {
		m[name] = s
	}
	return m
}()

func (s PaymentStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

func (s PaymentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParsePaymentStatus maps a gateway status string onto PaymentStatus.
// An empty status is an Error; anything outside the gateway vocabulary is Unknown.
func ParsePaymentStatus(raw string) PaymentStatus {
	if raw == "" {
		return StatusError
	}
	if s, ok := statusByName[raw]; ok {
		return s
	}
	return StatusUnknown
}

// PaymentMethod is an express checkout method.
type PaymentMethod int

const (
	MethodEcoCash PaymentMethod = iota + 1
	MethodOneMoney
	MethodInnBucks
	MethodOmari
	MethodVMC
	MethodZimSwitch
)

// methodFamily groups methods by the credential they need.
type methodFamily int

const (
	familyMobile methodFamily = iota + 1 // phone number
	familyCard                           // merchant trace, optional token
)

var methodNames = map[PaymentMethod]string{
	MethodEcoCash:   "ecocash",
	MethodOneMoney:  "onemoney",
	MethodInnBucks:  "innbucks",
	MethodOmari:     "omari",
	MethodVMC:       "vmc",
	MethodZimSwitch: "zimswitch",
}

func (m PaymentMethod) String() string {
	return methodNames[m]
}

func (m PaymentMethod) family() methodFamily {
	switch m {
	case MethodEcoCash, MethodOneMoney, MethodInnBucks, MethodOmari:
		return familyMobile
	case MethodVMC, MethodZimSwitch:
		return familyCard
	}
	return 0
}

// IsMobile reports whether the method is a mobile wallet that needs a phone number.
func (m PaymentMethod) IsMobile() bool { return m.family() == familyMobile }

// IsCard reports whether the method is a card/switch method that needs a merchant trace.
func (m PaymentMethod) IsCard() bool { return m.family() == familyCard }

// ParsePaymentMethod accepts the gateway method name, case-insensitively.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, validationErrorf("unsupported payment method %q", raw)
}

// TestMode selects a sandbox credential that forces a simulated outcome.
type TestMode int

const (
	TestModeNone TestMode = iota
	TestModeSuccess
	TestModeDelayedSuccess
	TestModeUserCancelled
	TestModeInsufficientFunds
)

var testModeNames = map[TestMode]string{
	TestModeNone:              "none",
	TestModeSuccess:           "success",
	TestModeDelayedSuccess:    "delayed",
	TestModeUserCancelled:     "cancelled",
	TestModeInsufficientFunds: "funds",
}

func (t TestMode) String() string {
	return testModeNames[t]
}

// ParseTestMode accepts a test mode name; an empty string means TestModeNone.
func ParseTestMode(raw string) (TestMode, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return TestModeNone, nil
	}
	for t, n := range testModeNames {
		if n == name {
			return t, nil
		}
	}
	return TestModeNone, validationErrorf("unsupported test mode %q", raw)
}
