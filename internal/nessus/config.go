// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the connection settings for one Nessus instance.
// BaseURL, AccessKey and SecretKey are required.
type Config struct {
	// BaseURL is the scheme and host of the Nessus API, e.g. https://localhost:8834.
	BaseURL string
	// AccessKey and SecretKey are the API key pair generated for a Nessus user.
	AccessKey string
	SecretKey string
	// AllowSelfSigned disables TLS certificate verification.
	AllowSelfSigned bool
	// Timeout bounds a single round trip. Zero leaves the transport default.
	Timeout time.Duration
	// UserAgent is sent verbatim when non-empty.
	UserAgent string
}

// Validate reports missing or malformed connection settings as an InvalidArgument error.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "base URL")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if len(missing) > 0 {
		return invalidArgument("missing connection settings: %s", strings.Join(missing, ", "))
	}

	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil {
		return &Error{Kind: InvalidArgument, Message: fmt.Sprintf("invalid base URL: %v", err), Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalidArgument("base URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return invalidArgument("base URL must include a host")
	}
	if u.User != nil {
		return invalidArgument("base URL must not include credentials")
	}
	if c.Timeout < 0 {
		return invalidArgument("timeout must not be negative")
	}
	return nil
}

// apiKeysHeader renders the X-ApiKeys header value.
func (c Config) apiKeysHeader() string {
	return fmt.Sprintf("accessKey=%s; secretKey=%s", c.AccessKey, c.SecretKey)
}

// endpointBase returns the base URL without surrounding whitespace or a trailing slash.
func (c Config) endpointBase() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}
