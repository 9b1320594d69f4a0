package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pqd/pqd-sdk/pkg/util"
	"github.com/pqd/pqd-sdk/pkg/util/log"
)

// Header names and values set on every json request
const (
	HdrContentType    = "Content-Type"
	HdrRequestedWith  = "X-Requested-With"
	HdrAuthorization  = "Authorization"
	ContentTypeJSON   = "application/json"
	RequestedWithXHR  = "XMLHttpRequest"
	bearerTokenPrefix = "Bearer "
	basicTokenPrefix  = "Basic "
)

// RequestOptions - the optional parts of a json request
type RequestOptions struct {
	Headers       map[string]string
	RequestParams map[string]string
}

// RequestOption - sets a field of RequestOptions
type RequestOption func(*RequestOptions)

// WithHeaders - merged over the default headers, later values win
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *RequestOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}

// WithRequestParams - serialized onto the url as a query string
func WithRequestParams(params map[string]string) RequestOption {
	return func(o *RequestOptions) {
		if o.RequestParams == nil {
			o.RequestParams = make(map[string]string)
		}
		for k, v := range params {
			o.RequestParams[k] = v
		}
	}
}

// Requester - builds json requests with bearer or basic authentication on top of a Client
type Requester struct {
	client Client
	logger log.FieldLogger
}

// NewRequester -
func NewRequester(client Client) *Requester {
	return &Requester{
		client: client,
		logger: log.NewFieldLogger().WithComponent("requester").WithPackage("pqd.api"),
	}
}

// Request - sends a json request, adding "Authorization: Bearer <authToken>" when authToken is set.
// Non 2xx responses are returned as is, use CheckStatus to turn them into errors.
func (r *Requester) Request(ctx context.Context, method, url string, body interface{}, authToken string, opts ...RequestOption) (*Response, error) {
	auth := ""
	if authToken != "" {
		auth = BearerAuthorization(authToken)
	}
	return r.send(ctx, method, url, body, auth, opts)
}

// RequestWithBasicAuth - same as Request, authenticating with "Authorization: Basic base64(token + ":")"
func (r *Requester) RequestWithBasicAuth(ctx context.Context, method, url string, body interface{}, token string, opts ...RequestOption) (*Response, error) {
	auth := ""
	if token != "" {
		auth = BasicAuthorization(token)
	}
	return r.send(ctx, method, url, body, auth, opts)
}

// Get -
func (r *Requester) Get(ctx context.Context, url, authToken string, opts ...RequestOption) (*Response, error) {
	return r.Request(ctx, GET, url, nil, authToken, opts...)
}

// Post -
func (r *Requester) Post(ctx context.Context, url string, body interface{}, authToken string, opts ...RequestOption) (*Response, error) {
	return r.Request(ctx, POST, url, body, authToken, opts...)
}

// Put -
func (r *Requester) Put(ctx context.Context, url string, body interface{}, authToken string, opts ...RequestOption) (*Response, error) {
	return r.Request(ctx, PUT, url, body, authToken, opts...)
}

func (r *Requester) send(ctx context.Context, method, url string, body interface{}, auth string, opts []RequestOption) (*Response, error) {
	options := &RequestOptions{}
	for _, o := range opts {
		o(options)
	}

	headers := map[string]string{
		HdrContentType:   ContentTypeJSON,
		HdrRequestedWith: RequestedWithXHR,
	}
	for k, v := range options.Headers {
		headers[k] = v
	}
	if auth != "" {
		headers[HdrAuthorization] = auth
	}

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, ErrEncodeBody.WithCause(err)
		}
	}

	if data != nil {
		r.logger.WithField("url", url).TraceRedacted(log.SensitiveFields, "request body: ", data)
	}
	res, err := r.client.Send(ctx, Request{
		Method:  method,
		URL:     appendQuery(url, options.RequestParams),
		Headers: headers,
		Body:    data,
	})
	if err == nil && res != nil && len(res.Body) > 0 {
		r.logger.WithField("url", url).WithField("status", res.Code).
			TraceRedacted(log.SensitiveFields, "response body: ", res.Body)
	}
	return res, err
}

// BearerAuthorization - the Authorization header value for a session token
func BearerAuthorization(token string) string {
	return bearerTokenPrefix + token
}

// BasicAuthorization - the Authorization header value for a product token, the token is the
// user name and the password is empty
func BasicAuthorization(token string) string {
	return basicTokenPrefix + base64.StdEncoding.EncodeToString([]byte(token+":"))
}

// SerializeParams - key=value pairs joined by "&", keys sorted and both sides escaped
// the way encodeURIComponent escapes them
func SerializeParams(params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for _, k := range util.SortedKeys(params) {
		pairs = append(pairs, encodeURIComponent(k)+"="+encodeURIComponent(params[k]))
	}
	return strings.Join(pairs, "&")
}

// QueryEscape escapes characters encodeURIComponent keeps
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}

func appendQuery(rawURL string, params map[string]string) string {
	if len(params) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + SerializeParams(params)
}
