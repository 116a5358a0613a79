package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment_TotalAndInfoString(t *testing.T) {
	p := testPayment()

	assert.True(t, p.Total().Equal(decimal.RequireFromString("3.5")), "total = %s", p.Total())
	assert.Equal(t, "A, B", p.InfoString())
}

func TestPayment_EmptyCart(t *testing.T) {
	p := NewPayment("INV-0", "USD")

	assert.True(t, p.Total().IsZero())
	assert.Equal(t, "", p.InfoString())
}

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want PaymentStatus
	}{
		{"", StatusError},
		{"Paid", StatusPaid},
		{"Awaiting Delivery", StatusAwaitingDelivery},
		{"Cancelled", StatusCancelled},
		{"Ok", StatusOk},
		{"Error", StatusError},
		{"Unknown", StatusUnknown},
		{"TotallyUnknownValue", StatusUnknown},
		{"paid", StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePaymentStatus(tt.raw))
		})
	}
}

func TestPaymentStatus_String(t *testing.T) {
	assert.Equal(t, "Awaiting Delivery", StatusAwaitingDelivery.String())
	assert.Equal(t, "Unknown", PaymentStatus(99).String())
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" EcoCash ")
	require.NoError(t, err)
	assert.Equal(t, MethodEcoCash, m)
	assert.True(t, m.IsMobile())

	m, err = ParsePaymentMethod("zimswitch")
	require.NoError(t, err)
	assert.True(t, m.IsCard())

	_, err = ParsePaymentMethod("paypal")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseTestMode(t *testing.T) {
	mode, err := ParseTestMode("")
	require.NoError(t, err)
	assert.Equal(t, TestModeNone, mode)

	mode, err = ParseTestMode("delayed")
	require.NoError(t, err)
	assert.Equal(t, TestModeDelayedSuccess, mode)

	_, err = ParseTestMode("bogus")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResolveTestCredential(t *testing.T) {
	tests := []struct {
		name   string
		method PaymentMethod
		mode   TestMode
		input  string
		want   string
	}{
		{"none keeps input", MethodEcoCash, TestModeNone, "0778000111", "0778000111"},
		{"ecocash success", MethodEcoCash, TestModeSuccess, "", "0771111111"},
		{"onemoney aliases ecocash", MethodOneMoney, TestModeInsufficientFunds, "", "0774444444"},
		{"innbucks aliases ecocash", MethodInnBucks, TestModeDelayedSuccess, "", "0772222222"},
		{"omari aliases ecocash", MethodOmari, TestModeUserCancelled, "", "0773333333"},
		{"vmc", MethodVMC, TestModeSuccess, "", "{11111111-1111-1111-1111-111111111111}"},
		{"zimswitch", MethodZimSwitch, TestModeUserCancelled, "", "33333333333333333333333333333333"},
		{"unknown method falls back", PaymentMethod(42), TestModeSuccess, "orig", "orig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTestCredential(tt.method, tt.mode, tt.input))
		})
	}
}

func TestNew_RejectsBadConfigs(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]Config{
		{IntegrationID: "1", IntegrationKey: "a", Currency: "usd"},
		{IntegrationID: "2", IntegrationKey: "b", Currency: "USD"},
	})
	assert.Error(t, err)

	_, err = New([]Config{{IntegrationID: "1", IntegrationKey: "a"}})
	assert.Error(t, err)
}

func TestRegistry_ResolveIsCaseInsensitive(t *testing.T) {
	reg, err := newRegistry([]Config{{IntegrationID: "1", IntegrationKey: "a", Currency: "zwg"}})
	require.NoError(t, err)

	conf, err := reg.resolve("ZwG")
	require.NoError(t, err)
	assert.Equal(t, "1", conf.IntegrationID)

	_, err = reg.resolve("EUR")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}
