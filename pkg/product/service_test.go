package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/pqd/pqd-sdk/pkg/api"
)

const (
	testBaseURL = "http://pqd.test"
	testJWT     = "abc"
)

func newTestService(opts ...ServiceOpt) *Service {
	client := api.NewClient(api.WithTransport(gock.NewTransport()))
	return NewService(api.NewRequester(client), testBaseURL, opts...)
}

func bearer() (string, string) {
	return api.HdrAuthorization, "^Bearer " + testJWT + "$"
}

func TestGetProducts(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/product/get/all").
		MatchHeader(bearer()).
		Reply(http.StatusOK).
		JSON([]map[string]interface{}{
			{"id": 3, "name": "gamma", "token": "t3"},
			{"id": 1, "name": "alpha", "token": "t1"},
			{"id": 2, "name": "beta", "token": "t2"},
		})
	gock.New(testBaseURL).
		Get("/product/1/releaseInfo").
		MatchHeader(bearer()).
		Reply(http.StatusOK).
		JSON([]map[string]interface{}{
			{"id": 12, "created": 1600000002000, "qualityLevel": 0.5},
			{"id": 10, "created": 1600000000000, "qualityLevel": 0.9},
			{"id": 11, "created": 1600000001000, "qualityLevel": 0.7},
		})
	gock.New(testBaseURL).
		Get("/product/2/releaseInfo").
		MatchHeader(bearer()).
		Reply(http.StatusInternalServerError).
		JSON(map[string]string{"message": "boom"})
	gock.New(testBaseURL).
		Get("/product/3/releaseInfo").
		MatchHeader(bearer()).
		Reply(http.StatusOK).
		JSON([]map[string]interface{}{})

	listing, err := newTestService(WithConcurrency(2)).GetProducts(context.Background(), testJWT)
	require.Nil(t, err)
	assert.True(t, gock.IsDone())

	require.Len(t, listing.Products, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{listing.Products[0].ID, listing.Products[1].ID, listing.Products[2].ID})

	releases := listing.Products[0].ReleaseInfo
	require.Len(t, releases, 3)
	assert.Equal(t, []int64{10, 11, 12}, []int64{releases[0].ID, releases[1].ID, releases[2].ID})
	assert.Equal(t, int64(12), listing.Products[0].LatestRelease().ID)

	assert.Nil(t, listing.Products[1].ReleaseInfo, "a failed release fetch leaves the releases unset")
	assert.Nil(t, listing.Products[1].LatestRelease())
	assert.NotNil(t, listing.Products[2].ReleaseInfo)
	assert.Len(t, listing.Products[2].ReleaseInfo, 0)

	require.Len(t, listing.Failures, 1)
	assert.Equal(t, int64(2), listing.Failures[0].ProductID)
	assert.True(t, errors.Is(listing.Failures[0], ErrFetchReleaseInfo))
	var reqErr *api.RequestError
	require.True(t, errors.As(listing.Failures[0], &reqErr))
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}

func TestGetProductsListFailure(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/product/get/all").
		Reply(http.StatusUnauthorized)

	listing, err := newTestService().GetProducts(context.Background(), testJWT)
	assert.Nil(t, listing)
	assert.True(t, errors.Is(err, ErrFetchProducts))
	assert.Contains(t, err.Error(), "Fetching products failed")

	var reqErr *api.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
}

func TestGetProductsDecodeFailure(t *testing.T) {
	defer gock.Off()

	gock.New(testBaseURL).
		Get("/product/get/all").
		Reply(http.StatusOK).
		BodyString(`{"id":"not a list"}`)

	_, err := newTestService().GetProducts(context.Background(), testJWT)
	assert.True(t, errors.Is(err, api.ErrDecodeResponse))
}

func TestGetProductsOrderIsStable(t *testing.T) {
	client := &api.MockHTTPClient{}
	client.Handler = func(request api.Request) (*api.Response, error) {
		if strings.HasSuffix(request.URL, "/product/get/all") {
			return &api.Response{Code: http.StatusOK, Body: []byte(`[{"id":5},{"id":4},{"id":9},{"id":1},{"id":7}]`)}, nil
		}
		if strings.Contains(request.URL, "/product/9/") {
			return nil, fmt.Errorf("connection reset")
		}
		return &api.Response{Code: http.StatusOK, Body: []byte(`[{"id":2},{"id":1}]`)}, nil
	}
	s := NewService(api.NewRequester(client), testBaseURL, WithConcurrency(3))

	for i := 0; i < 5; i++ {
		listing, err := s.GetProducts(context.Background(), testJWT)
		require.Nil(t, err)
		ids := []int64{}
		for _, p := range listing.Products {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []int64{1, 4, 5, 7, 9}, ids)
		require.Len(t, listing.Failures, 1)
		assert.Equal(t, int64(9), listing.Failures[0].ProductID)
		assert.Equal(t, int64(1), listing.Products[0].ReleaseInfo[0].ID)
	}
	assert.Len(t, client.Requests, 30)
}

func TestGetProductsCancelled(t *testing.T) {
	client := &api.MockHTTPClient{}
	client.Handler = func(request api.Request) (*api.Response, error) {
		return &api.Response{Code: http.StatusOK, Body: []byte(`[{"id":1}]`)}, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(api.NewRequester(client), testBaseURL).GetProducts(ctx, testJWT)
	assert.Equal(t, context.Canceled, err)
}

func TestSaveProduct(t *testing.T) {
	request := SaveProductRequest{
		Name:          "pqd",
		UserID:        7,
		SonarqubeInfo: &SonarqubeInfo{BaseURL: "https://sonarcloud.io", ComponentName: "pqd", Token: "sq"},
	}

	t.Run("saved", func(t *testing.T) {
		defer gock.Off()
		gock.New(testBaseURL).
			Post("/product/save").
			MatchHeader(bearer()).
			JSON(map[string]interface{}{
				"name":          "pqd",
				"userId":        7,
				"sonarqubeInfo": map[string]string{"baseUrl": "https://sonarcloud.io", "componentName": "pqd", "token": "sq"},
			}).
			Reply(http.StatusOK).
			JSON(map[string]interface{}{"id": 42, "name": "pqd", "token": "product-token"})

		saved, err := newTestService().SaveProduct(context.Background(), testJWT, request)
		require.Nil(t, err)
		assert.True(t, gock.IsDone())
		assert.Equal(t, int64(42), saved.ID)
		assert.Equal(t, "product-token", saved.Token)
	})

	t.Run("refused", func(t *testing.T) {
		defer gock.Off()
		gock.New(testBaseURL).
			Post("/product/save").
			Reply(http.StatusBadRequest).
			JSON(map[string]string{"message": "bad"})

		saved, err := newTestService().SaveProduct(context.Background(), testJWT, request)
		assert.Nil(t, saved)
		assert.True(t, errors.Is(err, ErrSaveProduct))
	})
}

func TestUpdateProduct(t *testing.T) {
	request := UpdateProductRequest{
		GenerateNewToken: true,
		Product:          Product{ID: 42, Name: "pqd", Token: "old"},
	}

	t.Run("updated", func(t *testing.T) {
		defer gock.Off()
		gock.New(testBaseURL).
			Put("/product/42/update").
			MatchHeader(bearer()).
			JSON(map[string]interface{}{
				"generateNewToken": true,
				"product":          map[string]interface{}{"id": 42, "name": "pqd", "token": "old"},
			}).
			Reply(http.StatusOK).
			JSON(map[string]interface{}{"id": 42, "name": "pqd", "token": "new"})

		updated, err := newTestService().UpdateProduct(context.Background(), testJWT, request, 42)
		require.Nil(t, err)
		assert.True(t, gock.IsDone())
		assert.Equal(t, "new", updated.Token)
	})

	t.Run("refused", func(t *testing.T) {
		defer gock.Off()
		gock.New(testBaseURL).
			Put("/product/42/update").
			Reply(http.StatusForbidden)

		_, err := newTestService().UpdateProduct(context.Background(), testJWT, request, 42)
		assert.True(t, errors.Is(err, ErrUpdateProduct))
		assert.Equal(t, "Updating product failed", ErrUpdateProduct.Text())
	})
}

func TestTriggerReleaseInfoCollection(t *testing.T) {
	url := TriggerURL(testBaseURL+"/", 5)
	assert.Equal(t, "http://pqd.test/messaging/trigger?productId=5", url)

	testCases := map[string]struct {
		status   int
		err      error
		expected TriggerStatus
	}{
		"ok":                {status: http.StatusOK, expected: TriggerOK},
		"unauthorized":      {status: http.StatusUnauthorized, expected: TriggerError},
		"server error":      {status: http.StatusInternalServerError, expected: TriggerError},
		"transport failure": {err: errors.New("no route to host"), expected: TriggerError},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			defer gock.Off()
			mock := gock.New(testBaseURL).
				Post("/messaging/trigger").
				MatchParam("productId", "^5$").
				MatchHeader(api.HdrAuthorization, "^Basic dG9rOg==$").
				JSON(map[string]interface{}{})
			if tc.err != nil {
				mock.ReplyError(tc.err)
			} else {
				mock.Reply(tc.status)
			}

			result := newTestService().TriggerReleaseInfoCollection(context.Background(), url, "tok")
			assert.Equal(t, tc.expected, result.Status)
			assert.True(t, gock.IsDone())
		})
	}
}

func TestConnectionTests(t *testing.T) {
	testCases := map[string]struct {
		tool   Tool
		status int
		run    func(s *Service) (*ConnectionTestResult, error)
	}{
		"sonarqube failure with 200": {
			tool:   Sonarqube,
			status: http.StatusOK,
			run: func(s *Service) (*ConnectionTestResult, error) {
				return s.TestSonarqubeAPIConnection(context.Background(), testJWT, SonarqubeInfo{BaseURL: "https://sonarcloud.io", ComponentName: "pqd", Token: "x"})
			},
		},
		"jira with 400": {
			tool:   Jira,
			status: http.StatusBadRequest,
			run: func(s *Service) (*ConnectionTestResult, error) {
				return s.TestJiraAPIConnection(context.Background(), testJWT, JiraInfo{BaseURL: "https://team.atlassian.net", BoardID: "1", UserEmail: "a@b.c", Token: "x"})
			},
		},
		"jenkins": {
			tool:   Jenkins,
			status: http.StatusOK,
			run: func(s *Service) (*ConnectionTestResult, error) {
				return s.TestJenkinsAPIConnection(context.Background(), testJWT, JenkinsInfo{BaseURL: "http://jenkins:8080"})
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			defer gock.Off()
			gock.New(testBaseURL).
				Post(fmt.Sprintf("/product/test/%s/connection", tc.tool)).
				MatchHeader(bearer()).
				Reply(tc.status).
				JSON(map[string]interface{}{"connectionOk": false, "message": "bad token"})

			result, err := tc.run(newTestService())
			require.Nil(t, err)
			assert.Equal(t, &ConnectionTestResult{ConnectionOk: false, Message: "bad token"}, result)
			assert.True(t, gock.IsDone())
		})
	}

	t.Run("undecodable", func(t *testing.T) {
		defer gock.Off()
		gock.New(testBaseURL).
			Post("/product/test/sonarqube/connection").
			Reply(http.StatusBadGateway).
			BodyString("<html>bad gateway</html>")

		_, err := newTestService().TestConnection(context.Background(), testJWT, Sonarqube, SonarqubeInfo{})
		assert.True(t, errors.Is(err, api.ErrDecodeResponse))
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := newTestService().TestConnection(context.Background(), testJWT, Tool("gitlab"), nil)
		assert.True(t, errors.Is(err, ErrUnknownTool))
	})
}

func TestParseTool(t *testing.T) {
	for _, name := range []string{"jenkins", "sonarqube", "jira"} {
		tool, err := ParseTool(name)
		assert.Nil(t, err)
		assert.Equal(t, Tool(name), tool)
	}
	_, err := ParseTool("Jira")
	assert.NotNil(t, err)
}
