package api

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	metrics "github.com/rcrowley/go-metrics"

	"github.com/pqd/pqd-sdk/pkg/util"
	"github.com/pqd/pqd-sdk/pkg/util/log"
)

// HTTP const definitions
const (
	GET    string = http.MethodGet
	POST   string = http.MethodPost
	PUT    string = http.MethodPut
	DELETE string = http.MethodDelete

	defaultTimeout     = time.Second * 60
	responseBufferSize = 2048
)

// Request - the request object used when communicating to an API
type Request struct {
	Method      string
	URL         string
	QueryParams map[string]string
	Headers     map[string]string
	Body        []byte
}

// Response - the response object given back when communicating to an API
type Response struct {
	Code    int
	Body    []byte
	Headers map[string][]string
}

// Client - sends a single request. A response is returned for every status code,
// only transport failures are reported as errors.
type Client interface {
	Send(ctx context.Context, request Request) (*Response, error)
}

type httpClient struct {
	logger     log.FieldLogger
	httpClient *http.Client
	timeout    time.Duration
	proxyURL   string
	userAgent  string
	transport  http.RoundTripper
	metrics    *requestMetrics
}

// ClientOpt - option applied by NewClient
type ClientOpt func(*httpClient)

// WithTimeout - overrides the timeout taken from HTTP_CLIENT_TIMEOUT
func WithTimeout(timeout time.Duration) ClientOpt {
	return func(h *httpClient) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

// WithProxy - sends every request through the proxy
func WithProxy(proxyURL string) ClientOpt {
	return func(h *httpClient) {
		h.proxyURL = proxyURL
	}
}

// WithUserAgent - default User-Agent for requests that do not set one
func WithUserAgent(ua *util.PqdUserAgent) ClientOpt {
	return func(h *httpClient) {
		if ua != nil {
			h.userAgent = ua.FormatUserAgent()
		}
	}
}

// WithTransport - sends requests through rt instead of a transport built from the proxy settings
func WithTransport(rt http.RoundTripper) ClientOpt {
	return func(c *httpClient) {
		c.transport = rt
	}
}

// WithMetricsRegistry - records request metrics into r instead of the default registry
func WithMetricsRegistry(r metrics.Registry) ClientOpt {
	return func(h *httpClient) {
		h.metrics = newRequestMetrics(r)
	}
}

// NewClient - creates a new HTTP client
func NewClient(options ...ClientOpt) Client {
	client := newClient(getTimeoutFromEnvironment())

	for _, o := range options {
		o(client)
	}

	client.initialize()
	return client
}

func newClient(timeout time.Duration) *httpClient {
	return &httpClient{
		timeout: timeout,
		metrics: newRequestMetrics(metrics.DefaultRegistry),
		logger: log.NewFieldLogger().
			WithComponent("httpClient").
			WithPackage("pqd.api"),
	}
}

func parseProxyURL(proxyURL string) *url.URL {
	if proxyURL != "" {
		pURL, err := url.Parse(proxyURL)
		if err == nil {
			return pURL
		}
		log.Errorf("Error parsing proxyURL from config; creating a non-proxy client: %s", err.Error())
	}
	return nil
}

func (c *httpClient) initialize() {
	transport := c.transport
	if transport == nil {
		httpTransport := &http.Transport{}
		if pURL := parseProxyURL(c.proxyURL); pURL != nil {
			httpTransport.Proxy = http.ProxyURL(pURL)
		}
		transport = httpTransport
	}
	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
}

func getTimeoutFromEnvironment() time.Duration {
	cfgHTTPClientTimeout := os.Getenv("HTTP_CLIENT_TIMEOUT")
	if cfgHTTPClientTimeout == "" {
		return defaultTimeout
	}
	timeout, err := time.ParseDuration(cfgHTTPClientTimeout)
	if err != nil {
		log.Tracef("Unable to parse the HTTP_CLIENT_TIMEOUT value, using the default http client timeout")
		return defaultTimeout
	}
	return timeout
}

func (c *httpClient) prepareAPIRequest(ctx context.Context, request Request) (*http.Request, error) {
	requestURL := appendQuery(request.URL, request.QueryParams)

	var body io.Reader
	if request.Body != nil {
		body = bytes.NewReader(request.Body)
	}
	req, err := http.NewRequestWithContext(ctx, request.Method, requestURL, body)
	if err != nil {
		return nil, err
	}

	for key, value := range request.Headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (c *httpClient) prepareAPIResponse(res *http.Response, timer *time.Timer) (*Response, error) {
	var err error
	var responseBuffer bytes.Buffer
	writer := bufio.NewWriter(&responseBuffer)
	for {
		// Reset the timeout timer for reading the response
		timer.Reset(c.timeout)
		_, err = io.CopyN(writer, res.Body, responseBufferSize)
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			break
		}
	}

	if err != nil {
		return nil, err
	}
	if err = writer.Flush(); err != nil {
		return nil, err
	}

	response := Response{
		Code:    res.StatusCode,
		Body:    responseBuffer.Bytes(),
		Headers: res.Header,
	}
	return &response, nil
}

// Send - send the http request and returns the API Response
func (c *httpClient) Send(ctx context.Context, request Request) (*Response, error) {
	startTime := time.Now()
	cancelCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := c.prepareAPIRequest(cancelCtx, request)
	if err != nil {
		log.Errorf("Error preparing api request: %s", err.Error())
		return nil, err
	}
	reqID := uuid.New().String()

	// Logging for the HTTP request
	statusCode := 0
	receivedData := int64(0)
	defer func() {
		duration := time.Since(startTime)
		c.metrics.record(req.Method, statusCode, duration, err)

		logger := c.logger.
			WithField("id", reqID).
			WithField("method", req.Method).
			WithField("status", statusCode).
			WithField("duration(ms)", duration.Milliseconds()).
			WithField("url", req.URL.String())

		if req.ContentLength > 0 {
			logger = logger.WithField("sent(bytes)", req.ContentLength)
		}

		if receivedData > 0 {
			logger = logger.WithField("received(bytes)", receivedData)
		}

		if err != nil {
			logger.WithError(err).
				Trace("request failed")
		} else {
			logger.Trace("request succeeded")
		}
	}()

	// Start the timer to manage the timeout
	timer := time.AfterFunc(c.timeout, func() {
		cancel()
	})
	defer timer.Stop()

	if log.IsHTTPLogTraceEnabled() {
		req = log.WithRequestTrace(reqID, req)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	statusCode = res.StatusCode
	receivedData = res.ContentLength
	parsedResponse, err := c.prepareAPIResponse(res, timer)

	return parsedResponse, err
}
