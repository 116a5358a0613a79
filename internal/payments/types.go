package payments

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
}

// Payment describes a merchant transaction. Empty optional fields are left
// out of the signed payload entirely.
type Payment struct {
	MerchantReference string
	Currency          string

	// Optional for web checkout; CustomerEmail is required for express checkout.
	CustomerEmail string
	CustomerPhone string
	CustomerName  string

	Tokenize bool
	// MerchantTrace is limited to 32 characters by the gateway.
	MerchantTrace string

	Items []CartItem
}

// NewPayment returns an empty cart for the given reference and currency.
func NewPayment(reference, currency string) *Payment {
	return &Payment{MerchantReference: reference, Currency: currency}
}

// Add appends an item to the cart, keeping insertion order.
func (p *Payment) Add(title string, amount decimal.Decimal) *Payment {
	p.Items = append(p.Items, CartItem{Title: title, Amount: amount})
	return p
}

// Total is the sum of all item amounts.
func (p *Payment) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// InfoString joins the item titles in cart order.
func (p *Payment) InfoString() string {
	titles := make([]string, len(p.Items))
	for i, item := range p.Items {
		titles[i] = item.Title
	}
	return strings.Join(titles, ", ")
}

// PaymentResponse is the decoded reply to any gateway call or status update.
type PaymentResponse struct {
	Upstream map[string]string `json:"upstream"`
	Success  bool              `json:"success"`
	Status   PaymentStatus     `json:"status"`

	Message           string `json:"message,omitempty"`
	Hash              string `json:"hash,omitempty"`
	Token             string `json:"token,omitempty"`
	MerchantReference string `json:"merchant_reference,omitempty"`
	RedirectURL       string `json:"redirect_url,omitempty"`
	PollURL           string `json:"poll_url,omitempty"`
	GatewayReference  string `json:"gateway_reference,omitempty"`
	GatewayGUID       string `json:"gateway_guid,omitempty"`
	Instructions      string `json:"instructions,omitempty"`

	// Amount is nil when the gateway sent no parseable amount and the caller set none.
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

func (r *PaymentResponse) IsPaid() bool {
	return r.Status == StatusPaid
}

// HashMismatch reports whether the reply was replaced because its hash did not verify.
func (r *PaymentResponse) HashMismatch() bool {
	return r.Status == StatusError && r.Message == HashMismatchMessage
}
