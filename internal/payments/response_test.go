package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_InitiationReply(t *testing.T) {
	res := ParseResponse(okReply(testUSDKey), testUSDKey)

	assert.True(t, res.Success)
	assert.Equal(t, StatusOk, res.Status)
	assert.Equal(t, "1e31ae05-f108-45ec-aacf-85d89c59669a", res.GatewayGUID)
	assert.Equal(t, "9510", res.GatewayReference)
	assert.Equal(t, "Payment Status: Ok", res.Message)
	assert.NotEmpty(t, res.Hash)
	assert.Nil(t, res.Amount)
}

func TestParseResponse_StatusUpdate(t *testing.T) {
	body := signedReply(testUSDKey, Fields{
		{"reference", "INV-1001"},
		{"paynowreference", "778899"},
		{"amount", "3.50"},
		{"status", "Paid"},
		{"pollurl", "https://www.paynow.co.zw/Interface/CheckPayment/?guid=ABCDEF01-0000"},
		{"browserurl", "https://www.paynow.co.zw/Payment/ConfirmPayment/9510"},
	})

	res := ParseResponse(body, testUSDKey)

	assert.True(t, res.IsPaid())
	assert.Equal(t, "INV-1001", res.MerchantReference)
	assert.Equal(t, "778899", res.GatewayReference, "paynowreference wins over redirect url digits")
	assert.Equal(t, "ABCDEF01-0000", res.GatewayGUID)
	require.NotNil(t, res.Amount)
	assert.True(t, res.Amount.Equal(decimal.RequireFromString("3.5")))
}

func TestParseResponse_HashMismatch(t *testing.T) {
	body := signedReply("attacker-key", Fields{
		{"status", "Paid"},
		{"reference", "INV-1001"},
		{"instructions", "all good"},
	})

	res := ParseResponse(body, testUSDKey)

	assert.False(t, res.Success)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Security Mismatch: Hashes do not match", res.Message)
	assert.Equal(t, "Paid", res.Upstream["status"])
	assert.Empty(t, res.MerchantReference)
	assert.Empty(t, res.Instructions)
}

func TestParseResponse_TamperedField(t *testing.T) {
	body := signedReply(testUSDKey, Fields{{"status", "Cancelled"}, {"reference", "INV-1"}})
	tampered := parseFields(body)
	tampered.Set("status", "Paid")

	res := ParseResponse(tampered.Encode(), testUSDKey)

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, HashMismatchMessage, res.Message)
}

func TestParseResponse_MissingHashWithKey(t *testing.T) {
	res := ParseResponse("status=Ok", testUSDKey)

	assert.False(t, res.Success)
	assert.Equal(t, HashMismatchMessage, res.Message)
}

func TestParseResponse_WithoutKeySkipsVerification(t *testing.T) {
	res := ParseResponse("status=Sent&hash=NOTCHECKED", "")

	assert.True(t, res.Success)
	assert.Equal(t, StatusSent, res.Status)
}

func TestParseResponse_Messages(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  PaymentStatus
		wantSuccess bool
		wantMessage string
	}{
		{"error with text", "status=Error&error=Invalid+amount", StatusError, false, "Invalid amount"},
		{"error without text", "status=Error", StatusError, false, "Transaction failed upstream"},
		{"missing status", "reference=INV-1", StatusError, false, "Transaction failed upstream"},
		{"instructions", "status=Ok&instructions=Dial+*151%23", StatusOk, true, "Dial *151#"},
		{"unknown status", "status=Pending+Review", StatusUnknown, false, "Payment Status: Unknown"},
		{"cancelled", "status=Cancelled", StatusCancelled, false, "Payment Status: Cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseResponse(tt.body, "")
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}
}

func TestParseResponse_MalformedAmountIsIgnored(t *testing.T) {
	res := ParseResponse("status=Paid&amount=ten+dollars&reference=INV-1", "")

	assert.Nil(t, res.Amount)
	assert.Equal(t, "INV-1", res.MerchantReference)
	assert.True(t, res.Success)
}

func TestParseResponse_GatewayReferenceFromRedirect(t *testing.T) {
	res := ParseResponse("status=Ok&browserurl=https%3A%2F%2Fwww.paynow.co.zw%2FPayment%2FConfirmPayment%2F12345%3Fx%3D6", "")

	assert.Equal(t, "12345", res.GatewayReference)
}

func TestParseResponse_MalformedEscapeStillVerifies(t *testing.T) {
	fields := Fields{{"status", "Ok"}, {"instructions", "Pay 100%zz now"}}
	body := "status=Ok&instructions=Pay+100%zz+now&hash=" + Sign(fields, testUSDKey)

	res := ParseResponse(body, testUSDKey)

	assert.True(t, res.Success, res.Message)
	assert.Equal(t, "Pay 100%zz now", res.Instructions)
}
