package payments

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// HashMismatchMessage is the message of a reply whose hash did not verify.
const HashMismatchMessage = "Security Mismatch: Hashes do not match"

var (
	guidPattern   = regexp.MustCompile(`(?i)guid=([a-f0-9\-]+)`)
	digitsPattern = regexp.MustCompile(`\d+`)
)

// ParseResponse decodes a form-encoded gateway reply. When integrationKey is
// not empty the reply hash is verified first, and a mismatch yields an Error
// response that keeps only the upstream fields.
func ParseResponse(body, integrationKey string) *PaymentResponse {
	fields := parseFields(body)
	data := fields.Map()

	if integrationKey != "" && !Verify(fields, integrationKey) {
		return &PaymentResponse{
			Upstream: data,
			Success:  false,
			Status:   StatusError,
			Message:  HashMismatchMessage,
		}
	}
	return responseFromFields(data)
}

func responseFromFields(data map[string]string) *PaymentResponse {
	status := ParsePaymentStatus(data["status"])

	res := &PaymentResponse{
		Upstream:          data,
		Status:            status,
		Success:           status != StatusError && status != StatusCancelled && status != StatusUnknown,
		Hash:              data["hash"],
		MerchantReference: data["reference"],
		PollURL:           data["pollurl"],
		RedirectURL:       data["browserurl"],
		Instructions:      data["instructions"],
		Token:             data["token"],
	}

	// A malformed amount is treated as absent.
	if raw := data["amount"]; raw != "" {
		if amount, err := decimal.NewFromString(raw); err == nil {
			res.Amount = &amount
		}
	}

	if res.PollURL != "" {
		if m := guidPattern.FindStringSubmatch(res.PollURL); m != nil {
			res.GatewayGUID = m[1]
		}
	}

	if ref := data["paynowreference"]; ref != "" {
		res.GatewayReference = ref
	} else if res.RedirectURL != "" {
		res.GatewayReference = digitsPattern.FindString(res.RedirectURL)
	}

	switch {
	case status == StatusError:
		res.Message = data["error"]
		if res.Message == "" {
			res.Message = "Transaction failed upstream"
		}
	case res.Instructions != "":
		res.Message = res.Instructions
	default:
		res.Message = fmt.Sprintf("Payment Status: %s", status)
	}
	return res
}
