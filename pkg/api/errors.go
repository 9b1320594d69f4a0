package api

import (
	"fmt"

	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
)

// Errors hit while building requests or reading responses
var (
	ErrEncodeBody     = pqderrors.New(1101, "could not encode the request body")
	ErrDecodeResponse = pqderrors.New(1102, "could not decode the response body")
)

// RequestError - a response whose status code was not 2xx
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Request %s %s failed with status code %d", e.Method, e.URL, e.StatusCode)
}

// CheckStatus - nil for 2xx responses, a *RequestError otherwise
func CheckStatus(method, url string, res *Response) error {
	if res == nil {
		return &RequestError{Method: method, URL: url}
	}
	if res.Code < 200 || res.Code > 299 {
		return &RequestError{Method: method, URL: url, StatusCode: res.Code}
	}
	return nil
}
