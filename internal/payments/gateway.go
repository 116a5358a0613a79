package payments

import (
	"context"
	"net/http"
)

// HTTPDoer is the transport the client sends gateway requests through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gateway defines the operations a caller can run against the payment gateway.
type Gateway interface {
	InitiateWeb(ctx context.Context, p *Payment) (*PaymentResponse, error)
	InitiateExpress(ctx context.Context, p *Payment, method PaymentMethod, opts ExpressOptions) (*PaymentResponse, error)
	TraceTransaction(ctx context.Context, merchantTrace, currency string) (*PaymentResponse, error)
	PollURL(ctx context.Context, url string) (*PaymentResponse, error)
	VerifyStatusUpdate(body, currency string) (*PaymentResponse, error)
}

var _ Gateway = (*Client)(nil)
