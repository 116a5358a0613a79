package main

import (
	"errors"
	"expvar"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"paynow/internal/payments"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// paymentStats is published under /v1/debug/vars.
var paymentStats = expvar.NewMap("payments")

type cartItemPayload struct {
	Title  string          `json:"title" validate:"required,max=255"`
	Amount decimal.Decimal `json:"amount"`
}

type paymentPayload struct {
	Reference     string            `json:"reference" validate:"omitempty,max=100"`
	Currency      string            `json:"currency" validate:"required,len=3,alpha"`
	Email         string            `json:"email" validate:"omitempty,email"`
	Phone         string            `json:"phone" validate:"omitempty,zwphone"`
	Name          string            `json:"name" validate:"omitempty,max=100"`
	Tokenize      bool              `json:"tokenize"`
	MerchantTrace string            `json:"merchant_trace" validate:"omitempty,max=32"`
	Items         []cartItemPayload `json:"items" validate:"required,min=1,dive"`
}

type expressPayload struct {
	paymentPayload
	Method string `json:"method" validate:"required"`
	// WalletPhone overrides phone as the number charged by a mobile wallet.
	WalletPhone string `json:"wallet_phone" validate:"omitempty,zwphone"`
	Token       string `json:"token" validate:"omitempty,max=64"`
	TestMode    string `json:"test_mode" validate:"omitempty,oneof=none success delayed cancelled funds"`
}

type pollPayload struct {
	PollURL string `json:"poll_url" validate:"required,url,startswith=https://"`
}

func (p paymentPayload) toPayment() (*payments.Payment, error) {
	ref := p.Reference
	if ref == "" {
		ref = uuid.NewString()
	}

	payment := payments.NewPayment(ref, p.Currency)
	payment.CustomerEmail = p.Email
	payment.CustomerPhone = p.Phone
	payment.CustomerName = p.Name
	payment.Tokenize = p.Tokenize
	payment.MerchantTrace = p.MerchantTrace

	for i, item := range p.Items {
		if !item.Amount.IsPositive() {
			return nil, fmt.Errorf("items[%d].amount must be greater than zero", i)
		}
		payment.Add(item.Title, item.Amount)
	}
	return payment, nil
}

// initiateWebHandler starts a browser redirect checkout.
//
// POST /v1/payments/web
func (app *application) initiateWebHandler(w http.ResponseWriter, r *http.Request) {
	var payload paymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payment, err := payload.toPayment()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.logger.Infow("initiating web payment", "client", getClientFromContext(r),
		"reference", payment.MerchantReference, "currency", payment.Currency)

	res, err := app.payments.InitiateWeb(r.Context(), payment)
	app.respondWithGatewayResult(w, r, "web", res, err)
}

// initiateExpressHandler starts a server-to-server checkout.
//
// POST /v1/payments/express
func (app *application) initiateExpressHandler(w http.ResponseWriter, r *http.Request) {
	var payload expressPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	method, err := payments.ParsePaymentMethod(payload.Method)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	mode, err := payments.ParseTestMode(payload.TestMode)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payment, err := payload.toPayment()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.logger.Infow("initiating express payment", "client", getClientFromContext(r),
		"reference", payment.MerchantReference, "currency", payment.Currency,
		"method", method.String(), "test_mode", mode.String())

	res, err := app.payments.InitiateExpress(r.Context(), payment, method, payments.ExpressOptions{
		Phone:    payload.WalletPhone,
		Token:    payload.Token,
		TestMode: mode,
	})
	app.respondWithGatewayResult(w, r, "express", res, err)
}

// traceTransactionHandler recovers a transaction by its merchant trace.
//
// GET /v1/payments/trace?merchant_trace=txn-trace-6759&currency=USD
func (app *application) traceTransactionHandler(w http.ResponseWriter, r *http.Request) {
	trace := r.URL.Query().Get("merchant_trace")
	if err := Validate.Var(trace, "required,max=32"); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("merchant_trace: %w", err))
		return
	}

	res, err := app.payments.TraceTransaction(r.Context(), trace, r.URL.Query().Get("currency"))
	app.respondWithGatewayResult(w, r, "trace", res, err)
}

// pollHandler checks a transaction through the poll URL returned at initiation.
//
// POST /v1/payments/poll
func (app *application) pollHandler(w http.ResponseWriter, r *http.Request) {
	var payload pollPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.checkPollURL(payload.PollURL); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.payments.PollURL(r.Context(), payload.PollURL)
	app.respondWithGatewayResult(w, r, "poll", res, err)
}

// checkPollURL only lets through https URLs on a gateway host, so the poll
// endpoint cannot be pointed at arbitrary or internal addresses.
func (app *application) checkPollURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("poll_url: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("poll_url must use https")
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range app.config.paynow.pollHosts {
		if host == allowed {
			return nil
		}
	}
	return fmt.Errorf("poll_url host %q is not a payment gateway host", u.Hostname())
}

// statusUpdateHandler receives the status updates the gateway posts to the
// result URL. The body is read raw so the hash is checked over the fields in
// the order they were sent.
//
// POST /v1/payments/status/{currency}
func (app *application) statusUpdateHandler(w http.ResponseWriter, r *http.Request) {
	currency := chi.URLParam(r, "currency")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.payments.VerifyStatusUpdate(string(body), currency)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}
	paymentStats.Add("status_updates", 1)

	if res.HashMismatch() {
		paymentStats.Add("hash_mismatches", 1)
		app.badRequestResponse(w, r, errors.New(res.Message))
		return
	}

	app.logger.Infow("status update received", "reference", res.MerchantReference,
		"gateway_reference", res.GatewayReference, "status", res.Status.String(), "paid", res.IsPaid())

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (app *application) respondWithGatewayResult(w http.ResponseWriter, r *http.Request, op string, res *payments.PaymentResponse, err error) {
	paymentStats.Add(op+"_requests", 1)
	if err != nil {
		paymentStats.Add(op+"_errors", 1)
		app.gatewayErrorResponse(w, r, err)
		return
	}
	if res.HashMismatch() {
		paymentStats.Add("hash_mismatches", 1)
		app.logger.Warnw("gateway reply failed verification", "op", op, "reference", res.MerchantReference)
	}

	if err := app.jsonResponse(w, http.StatusOK, res); err != nil {
		app.internalServerError(w, r, err)
	}
}
