// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

// Centralized attribute names used in provider configuration schema and validation
const (
	attrURL                = "url"
	attrAccessKey          = "access_key"
	attrSecretKey          = "secret_key"
	attrAllowSelfSigned    = "allow_self_signed"
	attrHTTPTimeoutSeconds = "http_timeout_seconds"
	attrOperationTimeouts  = "operation_timeouts"
)

// Environment variables read when the matching attribute is not set.
const (
	envURL                = "NESSUS_URL"
	envURLAlias           = "NESSUS_ENDPOINT"
	envAccessKey          = "NESSUS_ACCESS_KEY"
	envSecretKey          = "NESSUS_SECRET_KEY"
	envAllowSelfSigned    = "NESSUS_ALLOW_SELF_SIGNED"
	envAllowSelfSignedAlt = "NESSUS_INSECURE"
	envHTTPTimeoutSeconds = "NESSUS_HTTP_TIMEOUT_SECONDS"
)

// Centralized provider defaults
const (
	defaultHTTPTimeoutSeconds = 60
	defaultAllowSelfSigned    = false
)
