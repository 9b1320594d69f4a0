package log

import pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"

// Log Config Errors
var (
	ErrInvalidLogConfig = pqderrors.Newf(1410, "logging configuration error - %v does not meet criteria (%v)")
)
