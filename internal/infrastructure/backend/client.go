// Package backend is the HTTP client of the remote HR REST API. It speaks
// the {success, message, data, meta} envelope and turns non-2xx answers and
// transport failures into *domain.BackendError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/nebsit/hr-gateway/internal/api/metrics"
	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	maxReplyBytes  = 10 << 20
	tracerName     = "github.com/nebsit/hr-gateway/internal/infrastructure/backend"
)

// Config captures the settings of the remote API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues requests against the remote HR API. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
	log     zerolog.Logger
}

// NewClient builds a Client. A default timeout is applied when none is provided.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("backend base url %q: invalid", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
		log:     log,
	}, nil
}

// request describes one call to the remote API.
type request struct {
	op     string // metric and span name, e.g. "auth.login"
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do performs the request and decodes the envelope. The raw body is kept on
// the reply so callers can relay it unchanged.
func (c *Client) do(ctx context.Context, r request) (*ports.BackendReply, error) {
	ctx, span := c.tracer.Start(ctx, "backend "+r.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.method),
			attribute.String("url.path", r.path),
		),
	)
	defer span.End()

	start := time.Now()
	reply, err := c.roundTrip(ctx, r)

	code := "transport_error"
	if reply != nil {
		code = strconv.Itoa(reply.Status)
		span.SetAttributes(attribute.Int("http.response.status_code", reply.Status))
	}
	metrics.BackendRequestDuration.WithLabelValues(r.op, code).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn().Ctx(ctx).Err(err).Str("operation", r.op).Str("code", code).Msg("backend call failed")
		return nil, err
	}
	return reply, nil
}

func (c *Client) roundTrip(ctx context.Context, r request) (*ports.BackendReply, error) {
	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", r.op, err)
		}
		body = bytes.NewReader(buf)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.BackendError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, &domain.BackendError{Err: fmt.Errorf("read reply: %w", err)}
	}

	reply := &ports.BackendReply{Status: resp.StatusCode, Raw: raw}
	decodeErr := json.Unmarshal(raw, reply)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reply, &domain.BackendError{Status: resp.StatusCode, Message: errorMessage(raw, reply)}
	}
	if decodeErr != nil {
		// A 2xx that is not the JSON envelope is indistinguishable from a
		// broken upstream for the user.
		return reply, &domain.BackendError{Err: fmt.Errorf("decode %s reply: %w", r.op, decodeErr)}
	}
	return reply, nil
}

// errorMessage prefers the envelope message and falls back to an "error"
// field some endpoints use.
func errorMessage(raw []byte, reply *ports.BackendReply) string {
	if reply.Message != "" {
		return reply.Message
	}
	var alt struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &alt) == nil {
		return alt.Error
	}
	return ""
}

// Ping issues a HEAD against the base URL. Any HTTP answer counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// notFoundAs replaces a backend 404 with sentinel.
func notFoundAs(err, sentinel error) error {
	var be *domain.BackendError
	if errors.As(err, &be) && be.Status == http.StatusNotFound {
		return sentinel
	}
	return err
}
