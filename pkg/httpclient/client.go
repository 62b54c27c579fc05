package httpclient

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

	"github.com/sirupsen/logrus"

	"quiz-data-client/pkg/logger"
	"quiz-data-client/pkg/metrics"
)

// Client issues JSON requests against one base address. Each request is
// bounded by the client timeout, counted from send until the response
// headers arrive.
type Client struct {
	baseURL        string
	timeout        time.Duration
	client         *http.Client
	defaultHeaders map[string]string
	connectivity   Connectivity
	metrics        *metrics.Metrics
	log            *logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its own Timeout, if
// any, still applies on top of the client timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(hc *Client) { hc.client = c }
}

func WithConnectivity(c Connectivity) Option {
	return func(hc *Client) { hc.connectivity = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(hc *Client) { hc.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(hc *Client) { hc.log = l }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	hc := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
		defaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		connectivity: InterfaceProbe{},
		log:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(hc)
	}
	return hc
}

func (hc *Client) BaseURL() string        { return hc.baseURL }
func (hc *Client) Timeout() time.Duration { return hc.timeout }

// Request describes one round-trip. Path must already be escaped; Route is
// the unexpanded path template used for metrics and logs.
type Request struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Body   any
}

type RequestOption func(*http.Request)

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (hc *Client) applyDefaultHeaders(req *http.Request) {
	for key, value := range hc.defaultHeaders {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
}

// Do sends req and decodes a successful JSON response into out, which may be
// nil. Every failure is an *Error.
func (hc *Client) Do(ctx context.Context, req Request, out any, opts ...RequestOption) error {
	target := hc.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	route := req.Route
	if route == "" {
		route = req.Path
	}

	done := hc.metrics.Track(req.Method, route)
	start := time.Now()
	err := hc.do(ctx, req, target, out, opts)
	done(outcome(err))

	entry := hc.log.Entry().WithFields(logrus.Fields{
		"method":   req.Method,
		"route":    route,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.WithField("kind", KindOf(err).String()).WithError(err).Debug("request failed")
	} else {
		entry.Debug("request completed")
	}
	return err
}

func (hc *Client) do(ctx context.Context, req Request, target string, out any, opts []RequestOption) error {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return &Error{Kind: KindEncode, Method: req.Method, URL: target, Err: err}
		}
		body = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, target, body)
	if err != nil {
		return &Error{Kind: KindUnknown, Method: req.Method, URL: target, Err: err}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	hc.applyDefaultHeaders(httpReq)
	for _, opt := range opts {
		opt(httpReq)
	}

	timer := time.AfterFunc(hc.timeout, func() { cancel(ErrTimeout) })
	resp, err := hc.client.Do(httpReq)
	stopped := timer.Stop()
	if err != nil {
		return hc.classify(ctx, reqCtx, req.Method, target, err)
	}
	defer resp.Body.Close()
	if !stopped {
		// The timer fired while the response was arriving; reqCtx is gone.
		return hc.timeoutError(req.Method, target)
	}

	return handleResponse(resp, req.Method, target, out)
}

func (hc *Client) classify(parent, reqCtx context.Context, method, target string, err error) error {
	switch {
	case errors.Is(context.Cause(reqCtx), ErrTimeout):
		return hc.timeoutError(method, target)
	case parent.Err() != nil:
		return &Error{Kind: KindCanceled, Method: method, URL: target, Err: parent.Err()}
	case hc.connectivity != nil && !hc.connectivity.Online():
		return &Error{Kind: KindOffline, Method: method, URL: target, Err: err}
	default:
		return &Error{Kind: KindNetwork, Method: method, URL: target, Err: err}
	}
}

func (hc *Client) timeoutError(method, target string) error {
	return &Error{
		Kind:   KindTimeout,
		Method: method,
		URL:    target,
		Err:    fmt.Errorf("%w after %s", ErrTimeout, hc.timeout),
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if status := StatusOf(err); status != 0 {
		return strconv.Itoa(status)
	}
	return KindOf(err).String()
}
