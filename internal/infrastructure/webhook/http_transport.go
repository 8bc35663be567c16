// Package webhook delivers export payloads to the configured HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oakline/ledger/internal/application/export"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	maxResponseSize = 1 << 20 // 1MB
	maxErrorText    = 512
	defaultTimeout  = 30 * time.Second
	userAgent       = "furniture-ledger-export/1"
	tracerName      = "github.com/oakline/ledger/webhook"
)

var (
	// ErrEndpointUnavailable is returned when no response was received
	ErrEndpointUnavailable = errors.New("export endpoint unavailable")
	// ErrEndpointRejected is returned for a non-2xx response
	ErrEndpointRejected = errors.New("export endpoint rejected the request")
)

// HTTPTransport POSTs JSON payloads. Any 2xx response is a success; otherwise
// the status and the start of the response body are returned in the error.
type HTTPTransport struct {
	client     *http.Client
	logger     *zap.Logger
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// HTTPTransportOption is a functional option for configuring HTTPTransport
type HTTPTransportOption func(*HTTPTransport)

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// WithLogger sets the logger for the transport
func WithLogger(logger *zap.Logger) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.logger = logger
	}
}

// WithTracerProvider records a client span per request with tp instead of the global provider
func WithTracerProvider(tp trace.TracerProvider) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.tracer = tp.Tracer(tracerName)
	}
}

// WithPropagator sets the propagator that writes trace headers onto requests
func WithPropagator(p propagation.TextMapPropagator) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.propagator = p
	}
}

// NewHTTPTransport creates a transport. timeout bounds a whole request when
// the caller's context has no earlier deadline.
func NewHTTPTransport(timeout time.Duration, opts ...HTTPTransportOption) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	t := &HTTPTransport{
		client:     &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send implements export.Transport
func (t *HTTPTransport) Send(ctx context.Context, endpointURL string, payload any) (code int, err error) {
	ctx, span := t.tracer.Start(ctx, "webhook.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.request.method", http.MethodPost)),
	)
	defer func() {
		if code > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", code))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("webhook: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("User-Agent", userAgent)
	t.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	started := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEndpointUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("webhook: failed to read response: %w", err)
	}

	t.logger.Debug("webhook response",
		zap.String("endpoint", endpointURL),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("request_bytes", len(body)),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: HTTP %d %s", ErrEndpointRejected, resp.StatusCode, errorText(resp.StatusCode, respBody))
	}
	return resp.StatusCode, nil
}

// errorText prefers the response body and falls back to the status text
func errorText(code int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(code)
	}
	if len(text) > maxErrorText {
		text = text[:maxErrorText] + "..."
	}
	return text
}

var _ export.Transport = (*HTTPTransport)(nil)
