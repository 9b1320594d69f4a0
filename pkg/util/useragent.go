package util

import (
	"fmt"
	"os"
)

// PqdUserAgent - identifies the client towards the pqd api
type PqdUserAgent struct {
	Client     string `json:"client"`
	Version    string `json:"version"`
	SDKVersion string `json:"sdkVersion,omitempty"`
	HostName   string `json:"hostname,omitempty"`
}

// NewUserAgent -
func NewUserAgent(client, version, sdkVersion string) *PqdUserAgent {
	hostName, _ := os.Hostname()
	return &PqdUserAgent{
		Client:     client,
		Version:    version,
		SDKVersion: sdkVersion,
		HostName:   hostName,
	}
}

// FormatUserAgent - renders the User-Agent header value, empty when the agent is incomplete
func (ua *PqdUserAgent) FormatUserAgent() string {
	if ua.Client == "" || ua.Version == "" || ua.SDKVersion == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s (sdkVer:%s; hostname:%s)", ua.Client, ua.Version, ua.SDKVersion, ua.HostName)
}
