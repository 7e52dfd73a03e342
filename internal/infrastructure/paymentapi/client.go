package paymentapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Xausdorf/cashi/internal/domain/payment"
)

const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 30 * time.Second

	maxResponseBytes = 1 << 20
)

type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Client submits payments to the remote payment API. Each call is a single
// attempt; nothing is retried.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	read := cfg.ReadTimeout
	if read <= 0 {
		read = DefaultReadTimeout
	}

	dialer := &net.Dialer{Timeout: connect}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   2,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   connect + read,
		},
	}
}

type successBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Payment *payment.Record `json:"payment"`
}

type errorBody struct {
	Success *bool   `json:"success"`
	Error   *string `json:"error"`
	Code    *string `json:"code"`
}

func (c *Client) SubmitPayment(ctx context.Context, req payment.Request) (*payment.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, payment.NewUnknownError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, payment.NewUnknownError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, payment.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, payment.NewNetworkError(err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return decodeSuccess(raw)
	case resp.StatusCode >= 400:
		return nil, decodeFailure(raw)
	default:
		return nil, payment.NewUnknownError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func decodeSuccess(raw []byte) (*payment.Response, error) {
	var body successBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, payment.NewUnknownError(err)
	}
	if body.Payment == nil {
		return nil, payment.NewError(payment.KindUnknown, "Payment did not complete successfully")
	}
	return &payment.Response{
		Payment: *body.Payment,
		Message: body.Message,
	}, nil
}

func decodeFailure(raw []byte) error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return payment.NewUnknownError(err)
	}

	var code, msg string
	if body.Code != nil {
		code = *body.Code
	}
	if body.Error != nil {
		msg = *body.Error
	}
	return payment.NewError(payment.KindForCode(code), msg)
}
