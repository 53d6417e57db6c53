package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/constants"
	"github.com/razorpay/razorpay-go/requests"
	"github.com/razorpay/razorpay-go/resources"
)

type Razorpay struct {
	auth      requests.Auth
	baseURL   string
	transport http.RoundTripper
}

func NewRazorpay(keyID, keySecret, baseURL string) *Razorpay {
	if baseURL == "" {
		baseURL = constants.BASE_URL
	}
	return &Razorpay{
		auth:    requests.Auth{Key: keyID, Secret: keySecret},
		baseURL: strings.TrimRight(baseURL, "/"),
		transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func (r *Razorpay) Enabled() bool { return true }
func (r *Razorpay) KeyID() string { return r.auth.Key }

// orders builds an SDK order resource bound to ctx. razorpay.NewClient keeps
// its request in a package variable, so each call gets its own request.
func (r *Razorpay) orders(ctx context.Context) *resources.Order {
	return &resources.Order{Request: &requests.Request{
		Auth:       r.auth,
		BaseURL:    r.baseURL,
		Headers:    map[string]string{},
		Version:    razorpay.SDKVersion,
		SDKName:    razorpay.SDKName,
		HTTPClient: &http.Client{Timeout: requests.TIMEOUT * time.Second, Transport: ctxTransport{ctx: ctx, base: r.transport}},
	}}
}

func (r *Razorpay) OpenOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	const op = "open order"

	resp, err := r.orders(ctx).Create(map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return "", &GatewayError{Op: op, Err: err}
	}

	id, _ := resp["id"].(string)
	if id == "" {
		return "", &GatewayError{Op: op, Err: errors.New("response without order id")}
	}
	return id, nil
}

// Verify checks signature == hex(HMAC-SHA256(secret, orderID|paymentID)) in
// constant time.
func (r *Razorpay) Verify(orderID, paymentID, signature string) (bool, error) {
	expected := Signature(r.auth.Secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))), nil
}

func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ctxTransport attaches ctx to requests the SDK builds without one.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, fmt.Errorf("razorpay request: %w", err)
	}
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
