package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pqd/pqd-sdk/pkg/api"
	"github.com/pqd/pqd-sdk/pkg/util"
	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
	log "github.com/pqd/pqd-sdk/pkg/util/log"
)

const (
	productsPath    = "/product/get/all"
	releaseInfoPath = "/product/%d/releaseInfo"
	savePath        = "/product/save"
	updatePath      = "/product/%d/update"
	testPath        = "/product/test/%s/connection"
	triggerPath     = "/messaging/trigger"

	defaultConcurrency = 8
)

// Tool - a third party tool a product can be connected to
type Tool string

// Tools known to the backend
const (
	Jenkins   Tool = "jenkins"
	Sonarqube Tool = "sonarqube"
	Jira      Tool = "jira"
)

// ParseTool -
func ParseTool(name string) (Tool, error) {
	switch tool := Tool(name); tool {
	case Jenkins, Sonarqube, Jira:
		return tool, nil
	}
	return "", ErrUnknownTool.FormatError(name)
}

// ReleaseInfoFailure - a product whose release info could not be fetched
type ReleaseInfoFailure struct {
	ProductID int64
	Err       error
}

func (f ReleaseInfoFailure) Error() string {
	return f.Err.Error()
}

func (f ReleaseInfoFailure) Unwrap() error {
	return f.Err
}

// Listing - the products of a user, ordered by id. Products whose release info could not be
// fetched keep a nil ReleaseInfo and are listed in Failures.
type Listing struct {
	Products []Product
	Failures []ReleaseInfoFailure
}

// ServiceOpt - option applied by NewService
type ServiceOpt func(*Service)

// WithConcurrency - the number of release info requests sent at once
func WithConcurrency(concurrency int) ServiceOpt {
	return func(s *Service) {
		if concurrency > 0 {
			s.concurrency = concurrency
		}
	}
}

// Service - the product endpoints of the PQD api
type Service struct {
	requester   *api.Requester
	baseURL     string
	concurrency int
	logger      log.FieldLogger
}

// NewService -
func NewService(requester *api.Requester, baseURL string, opts ...ServiceOpt) *Service {
	s := &Service{
		requester:   requester,
		baseURL:     baseURL,
		concurrency: defaultConcurrency,
		logger:      log.NewFieldLogger().WithPackage("sdk.product").WithComponent("productService"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) url(format string, args ...interface{}) string {
	return util.JoinURL(s.baseURL, fmt.Sprintf(format, args...))
}

// GetProducts - lists the products of the user and fetches the release info of every product
func (s *Service) GetProducts(ctx context.Context, jwt string) (*Listing, error) {
	products, err := s.fetchProducts(ctx, jwt)
	if err != nil {
		return nil, err
	}

	listing := &Listing{Products: products}
	mutex := sync.Mutex{}

	group := errgroup.Group{}
	group.SetLimit(s.concurrency)
	for i := range listing.Products {
		p := &listing.Products[i]
		group.Go(func() error {
			releases, err := s.fetchReleaseInfo(ctx, p.ID, jwt)
			if err != nil {
				s.logger.WithError(err).WithField("productId", p.ID).Error("could not fetch release info")
				mutex.Lock()
				listing.Failures = append(listing.Failures, ReleaseInfoFailure{ProductID: p.ID, Err: err})
				mutex.Unlock()
				return nil
			}
			sort.SliceStable(releases, func(a, b int) bool { return releases[a].ID < releases[b].ID })
			p.ReleaseInfo = releases
			return nil
		})
	}
	group.Wait()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(listing.Products, func(a, b int) bool { return listing.Products[a].ID < listing.Products[b].ID })
	sort.SliceStable(listing.Failures, func(a, b int) bool { return listing.Failures[a].ProductID < listing.Failures[b].ProductID })
	return listing, nil
}

func (s *Service) fetchProducts(ctx context.Context, jwt string) ([]Product, error) {
	url := s.url(productsPath)
	res, err := s.requester.Get(ctx, url, jwt)
	if err != nil {
		return nil, err
	}
	if res.Code != http.StatusOK {
		return nil, ErrFetchProducts.WithCause(api.CheckStatus(api.GET, url, res))
	}

	products := []Product{}
	if err = decode(res, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) fetchReleaseInfo(ctx context.Context, productID int64, jwt string) ([]ReleaseInfo, error) {
	url := s.url(releaseInfoPath, productID)
	res, err := s.requester.Get(ctx, url, jwt)
	if err != nil {
		return nil, err
	}

	failed := pqderrors.Wrap(ErrFetchReleaseInfo, "product with id "+strconv.FormatInt(productID, 10))
	if res.Code != http.StatusOK {
		return nil, failed.WithCause(api.CheckStatus(api.GET, url, res))
	}

	releases := []ReleaseInfo{}
	if err = decode(res, &releases); err != nil {
		return nil, failed.WithCause(err)
	}
	return releases, nil
}

// SaveProduct - creates a product, the saved product carries its new id and token
func (s *Service) SaveProduct(ctx context.Context, jwt string, request SaveProductRequest) (*Product, error) {
	url := s.url(savePath)
	res, err := s.requester.Post(ctx, url, request, jwt)
	if err != nil {
		return nil, err
	}
	if res.Code != http.StatusOK {
		return nil, ErrSaveProduct.WithCause(api.CheckStatus(api.POST, url, res))
	}

	saved := &Product{}
	if err = decode(res, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdateProduct - replaces the settings of the product with id
func (s *Service) UpdateProduct(ctx context.Context, jwt string, request UpdateProductRequest, id int64) (*Product, error) {
	url := s.url(updatePath, id)
	res, err := s.requester.Put(ctx, url, request, jwt)
	if err != nil {
		return nil, err
	}
	if res.Code != http.StatusOK {
		return nil, ErrUpdateProduct.WithCause(api.CheckStatus(api.PUT, url, res))
	}

	updated := &Product{}
	if err = decode(res, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// TriggerURL - the url a deployment pipeline calls to start collecting release info for a product
func TriggerURL(baseURL string, productID int64) string {
	return util.JoinURL(baseURL, triggerPath) + "?" +
		api.SerializeParams(map[string]string{"productId": strconv.FormatInt(productID, 10)})
}

// TriggerReleaseInfoCollection - starts a release info collection authenticated by the product
// token. Every failure, including transport failures, is reported as TriggerError.
func (s *Service) TriggerReleaseInfoCollection(ctx context.Context, url, token string) TriggerResult {
	res, err := s.requester.RequestWithBasicAuth(ctx, api.POST, url, map[string]interface{}{}, token)
	if err != nil {
		s.logger.WithError(err).WithField("url", url).Error("could not trigger release info collection")
		return TriggerResult{Status: TriggerError}
	}
	if res.Code != http.StatusOK {
		s.logger.WithField("status", res.Code).Debug("release info collection was not triggered")
		return TriggerResult{Status: TriggerError}
	}
	return TriggerResult{Status: TriggerOK}
}

// TestConnection - asks the backend to reach tool with the given settings. The result is decoded
// whatever the status code.
func (s *Service) TestConnection(ctx context.Context, jwt string, tool Tool, body interface{}) (*ConnectionTestResult, error) {
	if _, err := ParseTool(string(tool)); err != nil {
		return nil, err
	}

	res, err := s.requester.Post(ctx, s.url(testPath, tool), body, jwt)
	if err != nil {
		return nil, err
	}

	result := &ConnectionTestResult{}
	if err = decode(res, result); err != nil {
		return nil, err
	}
	return result, nil
}

// TestSonarqubeAPIConnection -
func (s *Service) TestSonarqubeAPIConnection(ctx context.Context, jwt string, body SonarqubeInfo) (*ConnectionTestResult, error) {
	return s.TestConnection(ctx, jwt, Sonarqube, body)
}

// TestJiraAPIConnection -
func (s *Service) TestJiraAPIConnection(ctx context.Context, jwt string, body JiraInfo) (*ConnectionTestResult, error) {
	return s.TestConnection(ctx, jwt, Jira, body)
}

// TestJenkinsAPIConnection -
func (s *Service) TestJenkinsAPIConnection(ctx context.Context, jwt string, body JenkinsInfo) (*ConnectionTestResult, error) {
	return s.TestConnection(ctx, jwt, Jenkins, body)
}

func decode(res *api.Response, v interface{}) error {
	if err := json.Unmarshal(res.Body, v); err != nil {
		return api.ErrDecodeResponse.WithCause(err)
	}
	return nil
}
