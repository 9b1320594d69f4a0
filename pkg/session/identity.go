package session

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// State - whether a user is logged in
type State int

// Session states
const (
	Anonymous State = iota
	Authenticated
)

var stateNames = map[State]string{
	Anonymous:     "Anonymous",
	Authenticated: "Authenticated",
}

func (s State) String() string {
	return stateNames[s]
}

// Identity - the logged in user as returned by the login endpoint
type Identity struct {
	UserID    int64  `json:"userId" yaml:"userId"`
	Username  string `json:"username" yaml:"username"`
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	JWT       string `json:"jwt" yaml:"-"`
}

// DisplayName - first and last name when known, the username otherwise
func (i *Identity) DisplayName() string {
	if i.FirstName == "" && i.LastName == "" {
		return i.Username
	}
	if i.LastName == "" {
		return i.FirstName
	}
	if i.FirstName == "" {
		return i.LastName
	}
	return i.FirstName + " " + i.LastName
}

// ExpiresAt - the exp claim of the session token, zero when the token has none. The token is
// not verified, the value is for display only.
func (i *Identity) ExpiresAt() (time.Time, error) {
	claims := &jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(i.JWT, claims); err != nil {
		return time.Time{}, ErrInvalidToken.WithCause(err)
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}, nil
	}
	return time.Unix(claims.ExpiresAt, 0), nil
}
