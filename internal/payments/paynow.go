package payments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCallbackURL = "http://localhost"
	defaultCurrency    = "USD"
)

// Endpoints are the gateway URLs for each initiation mode.
type Endpoints struct {
	WebInit     string
	ExpressInit string
	Trace       string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		WebInit:     "https://www.paynow.co.zw/interface/initiatetransaction",
		ExpressInit: "https://www.paynow.co.zw/interface/remotetransaction",
		Trace:       "https://www.paynow.co.zw/interface/trace",
	}
}

// Hosts lists the distinct hosts of the endpoints, lowercased.
func (e Endpoints) Hosts() []string {
	var hosts []string
	seen := make(map[string]bool)
	for _, raw := range []string{e.WebInit, e.ExpressInit, e.Trace} {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if !seen[host] {
			seen[host] = true
			hosts = append(hosts, host)
		}
	}
	return hosts
}

// Client signs requests, sends them to the gateway and verifies the replies.
// It holds no mutable state and may be shared between goroutines.
type Client struct {
	registry   *registry
	returnURL  string
	resultURL  string
	endpoints  Endpoints
	httpClient HTTPDoer
	logger     *zap.SugaredLogger
}

type Option func(*Client)

// WithReturnURL sets the default URL the customer is redirected to after paying.
func WithReturnURL(u string) Option {
	return func(c *Client) { c.returnURL = u }
}

// WithResultURL sets the default URL the gateway posts status updates to.
func WithResultURL(u string) Option {
	return func(c *Client) { c.resultURL = u }
}

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.httpClient = doer }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = l }
}

func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// New builds a client with one Config per currency.
func New(configs []Config, opts ...Option) (*Client, error) {
	reg, err := newRegistry(configs)
	if err != nil {
		return nil, err
	}
	c := &Client{
		registry:   reg,
		returnURL:  defaultCallbackURL,
		resultURL:  defaultCallbackURL,
		endpoints:  DefaultEndpoints(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Currencies lists the currency codes the client holds credentials for.
func (c *Client) Currencies() []string {
	return c.registry.currencies()
}

// InitiateWeb starts a browser redirect transaction. Customer details are optional.
func (c *Client) InitiateWeb(ctx context.Context, p *Payment) (*PaymentResponse, error) {
	conf, err := c.registry.resolve(p.Currency)
	if err != nil {
		return nil, err
	}

	c.logger.Debugw("initiating web transaction", "reference", p.MerchantReference, "currency", conf.Currency)

	payload := c.buildCommonPayload(p, conf)
	res, err := c.send(ctx, c.endpoints.WebInit, payload, conf.IntegrationKey)
	if err != nil {
		return nil, err
	}

	if res.MerchantReference == "" {
		res.MerchantReference = p.MerchantReference
	}
	total := p.Total()
	res.Amount = &total
	res.Instructions = fmt.Sprintf("Please proceed to: %s to complete the payment.", res.RedirectURL)
	return res, nil
}

// ExpressOptions carries the per-call credential for an express transaction.
type ExpressOptions struct {
	// Phone overrides Payment.CustomerPhone for mobile wallet methods.
	Phone string
	// Token charges a saved card. Only used by card methods.
	Token    string
	TestMode TestMode
}

// InitiateExpress starts a server-to-server transaction.
//
// The payment must carry a customer email. Mobile wallet methods need a phone
// number; card methods send a merchant trace, falling back to the merchant
// reference, and an optional token. In test mode the phone or token is
// replaced with the sandbox credential for the requested outcome.
func (c *Client) InitiateExpress(ctx context.Context, p *Payment, method PaymentMethod, opts ExpressOptions) (*PaymentResponse, error) {
	if p.CustomerEmail == "" {
		return nil, validationErrorf("express checkout requires a customer email")
	}
	if !method.IsMobile() && !method.IsCard() {
		return nil, validationErrorf("unsupported payment method %d", method)
	}

	conf, err := c.registry.resolve(p.Currency)
	if err != nil {
		return nil, err
	}

	c.logger.Debugw("initiating express transaction",
		"reference", p.MerchantReference, "currency", conf.Currency, "method", method.String())

	payload := c.buildCommonPayload(p, conf)
	payload.Set("method", method.String())

	phone := opts.Phone
	if phone == "" {
		phone = p.CustomerPhone
	}

	if opts.TestMode != TestModeNone {
		switch {
		case method.IsMobile():
			payload.Set("phone", ResolveTestCredential(method, opts.TestMode, phone))
		case method.IsCard():
			payload.Set("token", ResolveTestCredential(method, opts.TestMode, opts.Token))
		}
	} else {
		switch {
		case method.IsMobile():
			if phone == "" {
				return nil, validationErrorf("%s requires a phone number", method)
			}
			payload.Set("phone", phone)
		case method.IsCard():
			if opts.Token != "" {
				payload.Set("token", opts.Token)
			}
			trace := p.MerchantTrace
			if trace == "" {
				trace = p.MerchantReference
			}
			payload.Set("merchanttrace", trace)
		}
	}

	res, err := c.send(ctx, c.endpoints.ExpressInit, payload, conf.IntegrationKey)
	if err != nil {
		return nil, err
	}

	total := p.Total()
	res.Amount = &total
	if res.MerchantReference == "" {
		res.MerchantReference = p.MerchantReference
	}
	return res, nil
}

// TraceTransaction recovers a transaction by the merchant trace sent at
// initiation, for when the poll URL was lost. An empty currency means USD.
func (c *Client) TraceTransaction(ctx context.Context, merchantTrace, currency string) (*PaymentResponse, error) {
	if currency == "" {
		currency = defaultCurrency
	}
	conf, err := c.registry.resolve(currency)
	if err != nil {
		return nil, err
	}

	c.logger.Debugw("tracing transaction", "merchant_trace", merchantTrace, "currency", conf.Currency)

	payload := Fields{
		{"id", conf.IntegrationID},
		{"merchanttrace", merchantTrace},
		{"status", statusMessage},
	}
	return c.send(ctx, c.endpoints.Trace, payload, conf.IntegrationKey)
}

// PollURL checks the status of a transaction through the poll URL the gateway
// returned at initiation. The reply is not hash-verified.
func (c *Client) PollURL(ctx context.Context, pollURL string) (*PaymentResponse, error) {
	body, err := c.post(ctx, pollURL, nil)
	if err != nil {
		return nil, err
	}
	return ParseResponse(body, ""), nil
}

// VerifyStatusUpdate parses a status update the gateway posted to the result
// URL and checks its hash with the key registered for currency.
func (c *Client) VerifyStatusUpdate(body, currency string) (*PaymentResponse, error) {
	conf, err := c.registry.resolve(currency)
	if err != nil {
		return nil, err
	}
	res := ParseResponse(body, conf.IntegrationKey)
	if res.HashMismatch() {
		c.logger.Warnw("status update hash mismatch", "currency", conf.Currency, "reference", res.Upstream["reference"])
	}
	return res, nil
}

// send signs payload, posts it and parses the verified reply.
func (c *Client) send(ctx context.Context, endpoint string, payload Fields, key string) (*PaymentResponse, error) {
	payload.Set(hashField, Sign(payload, key))

	body, err := c.post(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	res := ParseResponse(body, key)
	if res.HashMismatch() {
		c.logger.Warnw("gateway reply hash mismatch", "url", endpoint, "reference", res.Upstream["reference"])
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload Fields) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: paynow request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read reply: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	c.logger.Debugw("received gateway reply", "url", endpoint, "body", string(raw))
	return string(raw), nil
}
