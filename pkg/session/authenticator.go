package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/pqd/pqd-sdk/pkg/api"
	"github.com/pqd/pqd-sdk/pkg/util"
	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
	log "github.com/pqd/pqd-sdk/pkg/util/log"
)

const (
	loginPath    = "/authentication/login"
	registerPath = "/authentication/register"
)

// RegisterRequest - the body of a registration
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticator - calls the login and registration endpoints
type Authenticator struct {
	requester *api.Requester
	baseURL   string
	logger    log.FieldLogger
}

// NewAuthenticator -
func NewAuthenticator(requester *api.Requester, baseURL string) *Authenticator {
	return &Authenticator{
		requester: requester,
		baseURL:   baseURL,
		logger:    log.NewFieldLogger().WithPackage("sdk.session").WithComponent("authenticator"),
	}
}

// Login - the response counts as a login only when it names the user and the user id,
// whatever its status code
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Identity, error) {
	url := util.JoinURL(a.baseURL, loginPath)
	res, err := a.requester.Post(ctx, url, loginRequest{Username: username, Password: password}, "")
	if err != nil {
		return nil, err
	}

	body := gjson.ParseBytes(res.Body)
	if !gjson.ValidBytes(res.Body) || body.Get("username").String() == "" || !body.Get("userId").Bool() {
		a.logger.WithField("status", res.Code).Debug("login response did not identify a user")
		return nil, ErrLoginFailed.WithCause(api.CheckStatus(api.POST, url, res))
	}

	identity := &Identity{}
	if err = json.Unmarshal(res.Body, identity); err != nil {
		return nil, ErrLoginFailed.WithCause(api.ErrDecodeResponse.WithCause(err))
	}
	a.logger.WithField("username", identity.Username).Debug("logged in")
	return identity, nil
}

// Register - creates a user, a refusal carries the message sent by the server
func (a *Authenticator) Register(ctx context.Context, request RegisterRequest) error {
	url := util.JoinURL(a.baseURL, registerPath)
	res, err := a.requester.Post(ctx, url, request, "")
	if err != nil {
		return err
	}
	if res.Code == http.StatusOK {
		return nil
	}

	message := gjson.GetBytes(res.Body, "message").String()
	return pqderrors.Wrap(ErrRegisterFailed, message).WithCause(api.CheckStatus(api.POST, url, res))
}
