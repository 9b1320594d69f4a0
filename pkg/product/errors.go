package product

import (
	pqderrors "github.com/pqd/pqd-sdk/pkg/util/errors"
)

// Errors returned by the product service, cache and form
var (
	ErrFetchProducts    = pqderrors.New(1300, "Fetching products failed")
	ErrFetchReleaseInfo = pqderrors.New(1301, "Fetching release info failed")
	ErrSaveProduct      = pqderrors.New(1302, "Saving product failed")
	ErrUpdateProduct    = pqderrors.New(1303, "Updating product failed")
	ErrNoProductContext = pqderrors.New(1304, "the product cache must be created with NewCache before use")
	ErrMissingUserID    = pqderrors.New(1305, "userId not found, the product can not be saved")
	ErrFormIncomplete   = pqderrors.New(1306, "the product form is incomplete or invalid")
	ErrUnknownTool      = pqderrors.Newf(1307, "unknown tool %s, expected one of jenkins, sonarqube, jira")
	ErrProductNotFound  = pqderrors.Newf(1308, "product with id %d not found")
)
