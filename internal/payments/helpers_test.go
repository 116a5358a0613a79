package payments

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testUSDID  = "1201"
	testUSDKey = "3e9fed89-60e1-4ce5-ab6e-6b1eb2d4f977"
	testZWGID  = "1202"
	testZWGKey = "zwg-secret"
)

// recordingDoer is a transport spy. It records every request and replies with
// reply, or fails with err when set.
type recordingDoer struct {
	mu       sync.Mutex
	requests []*http.Request
	forms    []url.Values
	bodies   []string

	status int
	reply  string
	err    error
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var body string
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		body = string(raw)
	}
	form, _ := url.ParseQuery(body)
	d.requests = append(d.requests, req)
	d.forms = append(d.forms, form)
	d.bodies = append(d.bodies, body)

	if d.err != nil {
		return nil, d.err
	}
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	rec := httptest.NewRecorder()
	rec.WriteHeader(status)
	_, _ = rec.WriteString(d.reply)
	return rec.Result(), nil
}

func (d *recordingDoer) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func (d *recordingDoer) lastForm(t *testing.T) url.Values {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.forms, "no request was sent")
	return d.forms[len(d.forms)-1]
}

// signedReply encodes fields as a gateway reply signed with key.
func signedReply(key string, fields Fields) string {
	fields.Set(hashField, Sign(fields, key))
	return fields.Encode()
}

func okReply(key string) string {
	return signedReply(key, Fields{
		{"status", "Ok"},
		{"browserurl", "https://www.paynow.co.zw/Payment/ConfirmPayment/9510"},
		{"pollurl", "https://www.paynow.co.zw/Interface/CheckPayment/?guid=1e31ae05-f108-45ec-aacf-85d89c59669a"},
	})
}

func newTestClient(t *testing.T, doer HTTPDoer) *Client {
	t.Helper()
	c, err := New([]Config{
		{IntegrationID: testUSDID, IntegrationKey: testUSDKey, Currency: "USD"},
		{IntegrationID: testZWGID, IntegrationKey: testZWGKey, Currency: "zwg", ResultURL: "https://shop.example/zwg/result"},
	},
		WithHTTPClient(doer),
		WithReturnURL("https://shop.example/return"),
		WithResultURL("https://shop.example/result"),
	)
	require.NoError(t, err)
	return c
}

func testPayment() *Payment {
	return NewPayment("INV-1001", "USD").
		Add("A", decimal.RequireFromString("1.0")).
		Add("B", decimal.RequireFromString("2.5"))
}

var bg = context.Background()
