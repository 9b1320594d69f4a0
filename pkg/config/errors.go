package config

import pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"

// Errors hit when validating or parsing config
var (
	ErrBadConfig     = pqderrors.Newf(1401, "error with config %s, please set and/or check its value")
	ErrInvalidOutput = pqderrors.Newf(1402, "output %s is not supported, expected one of text, yaml, json")
	ErrHomeDirectory = pqderrors.New(1403, "could not resolve the home directory for the session file")
)
