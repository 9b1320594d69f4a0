package cmd

import (
	"fmt"
)

// BuildTime -
var BuildTime string

// BuildVersion -
var BuildVersion string

// BuildCommitSha -
var BuildCommitSha string

// SDKVersion - version of the sdk the command line is built with
var SDKVersion = "1.0.0"

const devVersion = "dev"

func buildVersion() string {
	version := BuildVersion
	if version == "" {
		version = devVersion
	}
	if BuildCommitSha == "" {
		return version
	}
	return fmt.Sprintf("%s-%s", version, BuildCommitSha)
}
