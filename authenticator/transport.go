package authenticator

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize caps the token endpoint body read into memory.
const maxResponseSize = 1 << 20

// exchangeResult is the raw token endpoint answer
type exchangeResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// newHTTPClient returns the TLS client used when Config.HTTPClient is nil
func newHTTPClient(timeout time.Duration, insecure bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecure, //nolint:gosec // opt-in for test environments
	}
	transport.TLSHandshakeTimeout = timeout

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		// The token endpoint answers directly; a redirect would resend the code elsewhere.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// exchange issues exactly one request and reads the response. Every failure is a *TransportError.
func exchange(ctx context.Context, client HTTPClient, req *http.Request, timeout time.Duration) (*exchangeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &TransportError{Op: "send", Err: contextCause(ctx, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, &TransportError{Op: "read", Err: contextCause(ctx, err)}
	}
	if len(body) > maxResponseSize {
		return nil, &TransportError{Op: "read", Err: fmt.Errorf("response exceeds %d bytes", maxResponseSize)}
	}

	return &exchangeResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// contextCause attaches the context error so deadline failures satisfy errors.Is(err, context.DeadlineExceeded).
func contextCause(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	if ctxErr == nil || errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %w", ctxErr, err)
}
