package api

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequesterHeaders(t *testing.T) {
	tests := []struct {
		name            string
		send            func(r *Requester) (*Response, error)
		expectedMethod  string
		expectedURL     string
		expectedBody    string
		expectedHeaders map[string]string
		absentHeaders   []string
	}{
		{
			name: "get-with-bearer",
			send: func(r *Requester) (*Response, error) {
				return r.Get(context.Background(), "http://pqd/product/get/all", "abc")
			},
			expectedMethod: GET,
			expectedURL:    "http://pqd/product/get/all",
			expectedHeaders: map[string]string{
				HdrContentType:   ContentTypeJSON,
				HdrRequestedWith: RequestedWithXHR,
				HdrAuthorization: "Bearer abc",
			},
		},
		{
			name: "post-without-token",
			send: func(r *Requester) (*Response, error) {
				return r.Post(context.Background(), "http://pqd/authentication/login", map[string]string{"username": "alice"}, "")
			},
			expectedMethod: POST,
			expectedURL:    "http://pqd/authentication/login",
			expectedBody:   `{"username":"alice"}`,
			expectedHeaders: map[string]string{
				HdrContentType: ContentTypeJSON,
			},
			absentHeaders: []string{HdrAuthorization},
		},
		{
			name: "put-with-header-override-and-params",
			send: func(r *Requester) (*Response, error) {
				return r.Put(context.Background(), "http://pqd/product/3/update", struct {
					Name string `json:"name"`
				}{"x"}, "abc",
					WithHeaders(map[string]string{HdrContentType: "text/plain", "X-Trace": "1"}),
					WithRequestParams(map[string]string{"b": "two words", "a": "1&2"}))
			},
			expectedMethod: PUT,
			expectedURL:    "http://pqd/product/3/update?a=1%262&b=two%20words",
			expectedBody:   `{"name":"x"}`,
			expectedHeaders: map[string]string{
				HdrContentType:   "text/plain",
				"X-Trace":        "1",
				HdrAuthorization: "Bearer abc",
			},
		},
		{
			name: "basic-auth-on-url-with-query",
			send: func(r *Requester) (*Response, error) {
				return r.RequestWithBasicAuth(context.Background(), POST, "http://pqd/messaging/trigger?productId=4", map[string]string{}, "tok",
					WithRequestParams(map[string]string{"source": "ci"}))
			},
			expectedMethod: POST,
			expectedURL:    "http://pqd/messaging/trigger?productId=4&source=ci",
			expectedBody:   `{}`,
			expectedHeaders: map[string]string{
				HdrAuthorization: "Basic " + base64.StdEncoding.EncodeToString([]byte("tok:")),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &MockHTTPClient{ResponseCode: 200}
			res, err := tc.send(NewRequester(mock))
			require.Nil(t, err)
			assert.Equal(t, 200, res.Code)

			req := mock.LastRequest()
			require.NotNil(t, req)
			assert.Equal(t, tc.expectedMethod, req.Method)
			assert.Equal(t, tc.expectedURL, req.URL)
			assert.Equal(t, tc.expectedBody, string(req.Body))
			for k, v := range tc.expectedHeaders {
				assert.Equal(t, v, req.Headers[k], k)
			}
			for _, k := range tc.absentHeaders {
				assert.NotContains(t, req.Headers, k)
			}
		})
	}
}

func TestRequesterNilBodySendsNoBody(t *testing.T) {
	mock := &MockHTTPClient{ResponseCode: 200}
	_, err := NewRequester(mock).Get(context.Background(), "http://pqd", "")
	assert.Nil(t, err)
	assert.Nil(t, mock.LastRequest().Body)
}

func TestRequesterEncodeError(t *testing.T) {
	mock := &MockHTTPClient{ResponseCode: 200}
	_, err := NewRequester(mock).Post(context.Background(), "http://pqd", make(chan int), "")
	assert.ErrorIs(t, err, ErrEncodeBody)
	assert.Empty(t, mock.Requests)
}

func TestRequesterTransportError(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	mock := &MockHTTPClient{ResponseError: transportErr}
	res, err := NewRequester(mock).Get(context.Background(), "http://pqd", "abc")
	assert.Nil(t, res)
	assert.Equal(t, transportErr, err)
}

func TestBasicAuthorization(t *testing.T) {
	assert.Equal(t, "Basic dG9rZW46", BasicAuthorization("token"))
	assert.Equal(t, "Bearer jwt", BearerAuthorization("jwt"))
}

func TestSerializeParams(t *testing.T) {
	assert.Equal(t, "", SerializeParams(nil))
	assert.Equal(t, "id=1&q=a%2Fb%20c", SerializeParams(map[string]string{"q": "a/b c", "id": "1"}))
	assert.Equal(t, "name=it's%20(*beta*)!%2B1", SerializeParams(map[string]string{"name": "it's (*beta*)!+1"}))
}

func TestCheckStatus(t *testing.T) {
	assert.Nil(t, CheckStatus(GET, "http://pqd", &Response{Code: 200}))
	assert.Nil(t, CheckStatus(GET, "http://pqd", &Response{Code: 204}))

	err := CheckStatus(PUT, "http://pqd/product/1/update", &Response{Code: 401})
	var reqErr *RequestError
	assert.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 401, reqErr.StatusCode)
	assert.Equal(t, "Request PUT http://pqd/product/1/update failed with status code 401", err.Error())

	assert.NotNil(t, CheckStatus(GET, "http://pqd", nil))
}

func TestMockHTTPClientQueuedResponses(t *testing.T) {
	mock := &MockHTTPClient{}
	mock.SetResponses([]MockResponse{
		{RespData: `[]`, RespCode: 200},
		{ErrString: "boom"},
	})
	requester := NewRequester(mock)

	res, err := requester.Get(context.Background(), "http://pqd/a", "")
	assert.Nil(t, err)
	assert.Equal(t, "[]", string(res.Body))

	_, err = requester.Get(context.Background(), "http://pqd/b", "")
	assert.EqualError(t, err, "boom")

	_, err = requester.Get(context.Background(), "http://pqd/c", "")
	assert.NotNil(t, err)
	assert.Len(t, mock.Requests, 3)
}

func TestMockHTTPClientFallbacks(t *testing.T) {
	mock := &MockHTTPClient{Response: &Response{Code: 201, Body: []byte(`{"id":1}`)}}
	res, err := NewRequester(mock).Post(context.Background(), "http://pqd/a", nil, "")
	assert.Nil(t, err)
	assert.Equal(t, 201, res.Code)
	assert.Equal(t, `{"id":1}`, string(res.Body))

	// a client with nothing configured fails the request instead of answering nil
	empty := &MockHTTPClient{}
	res, err = NewRequester(empty).Get(context.Background(), "http://pqd/b", "")
	assert.Nil(t, res)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "http://pqd/b")
	assert.NotNil(t, empty.LastRequest())
}
