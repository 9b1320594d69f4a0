package session

import (
	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
)

// Errors hit by the session context and the authenticator
var (
	ErrNoSessionContext = pqderrors.New(1200, "the session context must be created with NewContext before use")
	ErrNotLoggedIn      = pqderrors.New(1201, "not logged in")
	ErrLoginFailed      = pqderrors.New(1202, "Login failed!")
	ErrRegisterFailed   = pqderrors.New(1203, "Registration failed")
	ErrStorage          = pqderrors.New(1204, "could not access the session storage")
	ErrInvalidToken     = pqderrors.New(1205, "could not read the claims of the session token")
	ErrFormIncomplete   = pqderrors.New(1206, "Please complete the form!")
	ErrInvalidField     = pqderrors.Newf(1207, "the value of %s is not valid")
	ErrSessionExpired   = pqderrors.New(1208, "the session was rejected by the server, please login again")
)
