package api

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/pqd/pqd-sdk/pkg/util/log"
)

// MockHTTPClient - use for mocking the HTTP client
type MockHTTPClient struct {
	Response      *Response // this for if you want to set your own dummy response
	ResponseCode  int       // this for if you only care about a particular response code
	ResponseError error

	// Handler answers every request when set, use it when requests are sent concurrently
	Handler func(request Request) (*Response, error)

	RespCount int
	Responses []MockResponse
	Requests  []Request // lists all requests the client has received
	sync.Mutex
}

// MockResponse - use for mocking the MockHTTPClient responses
type MockResponse struct {
	RespData  string
	RespCode  int
	ErrString string
}

// SetResponses - queues responses, returned in order
func (c *MockHTTPClient) SetResponses(responses []MockResponse) {
	c.Lock()
	defer c.Unlock()
	c.RespCount = 0
	c.Responses = responses
}

// Send -
func (c *MockHTTPClient) Send(_ context.Context, request Request) (*Response, error) {
	c.Lock()
	defer c.Unlock()

	c.Requests = append(c.Requests, request)

	log.Tracef("%v - %v", request.Method, request.URL)

	if c.Handler != nil {
		return c.Handler(request)
	}
	if len(c.Responses) > 0 {
		return c.sendMultiple(request)
	}
	if c.Response != nil {
		return c.Response, nil
	}
	if c.ResponseError != nil {
		return nil, c.ResponseError
	}
	if c.ResponseCode != 0 {
		return &Response{
			Code: c.ResponseCode,
		}, nil
	}
	return nil, fmt.Errorf("error: no response configured. failed on request: %s", request.URL)
}

// LastRequest - the most recent request, nil when nothing was sent
func (c *MockHTTPClient) LastRequest() *Request {
	c.Lock()
	defer c.Unlock()
	if len(c.Requests) == 0 {
		return nil
	}
	req := c.Requests[len(c.Requests)-1]
	return &req
}

func (c *MockHTTPClient) sendMultiple(request Request) (*Response, error) {
	if c.RespCount >= len(c.Responses) {
		err := fmt.Errorf("error: received more requests than saved responses. failed on request: %s", request.URL)
		log.Error(err)
		return nil, err
	}

	mock := c.Responses[c.RespCount]
	c.RespCount++

	if mock.ErrString != "" {
		return nil, errors.New(mock.ErrString)
	}

	return &Response{
		Code:    mock.RespCode,
		Body:    []byte(mock.RespData),
		Headers: map[string][]string{},
	}, nil
}
