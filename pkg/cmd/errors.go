package cmd

import (
	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
)

// Errors of the command line
var (
	ErrTriggerFailed = pqderrors.Newf(1500, "release info collection for product %d could not be triggered")
)
