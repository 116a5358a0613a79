package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paynow/internal/auth"
	"paynow/internal/payments"
	"paynow/internal/ratelimiter"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testBasicUser = "ops"
	testBasicPass = "correct horse"
	testUSDKey    = "usd-integration-key"
)

// fakeGateway records the last call and replies with res/err. Status updates
// go to a real client so hashes are checked.
type fakeGateway struct {
	res *payments.PaymentResponse
	err error

	calls       int
	lastPayment *payments.Payment
	lastMethod  payments.PaymentMethod
	lastOpts    payments.ExpressOptions
	lastTrace   string
	lastCur     string
	lastPollURL string

	verifier *payments.Client
}

func (f *fakeGateway) InitiateWeb(ctx context.Context, p *payments.Payment) (*payments.PaymentResponse, error) {
	f.calls++
	f.lastPayment = p
	return f.res, f.err
}

func (f *fakeGateway) InitiateExpress(ctx context.Context, p *payments.Payment, method payments.PaymentMethod, opts payments.ExpressOptions) (*payments.PaymentResponse, error) {
	f.calls++
	f.lastPayment = p
	f.lastMethod = method
	f.lastOpts = opts
	return f.res, f.err
}

func (f *fakeGateway) TraceTransaction(ctx context.Context, merchantTrace, currency string) (*payments.PaymentResponse, error) {
	f.calls++
	f.lastTrace = merchantTrace
	f.lastCur = currency
	return f.res, f.err
}

func (f *fakeGateway) PollURL(ctx context.Context, url string) (*payments.PaymentResponse, error) {
	f.calls++
	f.lastPollURL = url
	return f.res, f.err
}

func (f *fakeGateway) VerifyStatusUpdate(body, currency string) (*payments.PaymentResponse, error) {
	return f.verifier.VerifyStatusUpdate(body, currency)
}

func newTestApplication(t *testing.T, gw *fakeGateway) *application {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testBasicPass), bcrypt.MinCost)
	require.NoError(t, err)

	verifier, err := payments.New([]payments.Config{
		{IntegrationID: "1201", IntegrationKey: testUSDKey, Currency: "USD"},
	})
	require.NoError(t, err)
	gw.verifier = verifier

	cfg := config{
		env: "test",
		auth: authConfig{
			basic: basicConfig{user: testBasicUser, passHash: string(hash)},
			token: tokenConfig{secret: "token-secret", exp: time.Hour, iss: "paynow-api"},
		},
		rateLimiter: ratelimiter.Config{RequestsPerTimeFrame: 100, TimeFrame: time.Minute, Enabled: false},
		paynow:      paynowConfig{pollHosts: payments.DefaultEndpoints().Hosts()},
	}

	return &application{
		config:        cfg,
		logger:        zap.NewNop().Sugar(),
		payments:      gw,
		authenticator: auth.NewJWTAuthenticator(cfg.auth.token.secret, cfg.auth.token.iss, cfg.auth.token.iss, cfg.auth.token.exp),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame),
	}
}

func bearer(t *testing.T, app *application) string {
	t.Helper()
	token, err := app.authenticator.GenerateToken("shop-backend")
	require.NoError(t, err)
	return "Bearer " + token
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
