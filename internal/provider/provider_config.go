// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// configuration derivation (unified) to avoid duplicated parsing across sections
func deriveResolvedConfig(data NessusProviderModel) resolvedConfig {
	return resolvedConfig{
		baseURL:            strings.TrimSpace(readStringWithAliases(data.URL, envURL, envURLAlias)),
		accessKey:          readString(data.AccessKey, envAccessKey),
		secretKey:          readString(data.SecretKey, envSecretKey),
		allowSelfSigned:    readBoolWithAliases(data.AllowSelfSigned, defaultAllowSelfSigned, envAllowSelfSigned, envAllowSelfSignedAlt),
		httpTimeoutSeconds: readInt64Default(data.HTTPTimeoutSeconds, envHTTPTimeoutSeconds, defaultHTTPTimeoutSeconds),
	}
}

// validation per-section
func validateBase(rc resolvedConfig) []validationErr {
	if rc.baseURL == "" {
		return []validationErr{{attr: attrURL, summary: "Missing URL Configuration.", detail: "Provide 'url' or set NESSUS_URL (or NESSUS_ENDPOINT alias) environment variable."}}
	}
	u, err := url.Parse(rc.baseURL)
	if err != nil {
		return []validationErr{{attr: attrURL, summary: "Invalid URL Configuration.", detail: fmt.Sprintf("url could not be parsed: %v", err)}}
	}
	var errs []validationErr
	if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, validationErr{attr: attrURL, summary: "Invalid URL Configuration.", detail: "url must use the http or https scheme."})
	}
	if u.Host == "" {
		errs = append(errs, validationErr{attr: attrURL, summary: "Invalid URL Configuration.", detail: "url must include a host (e.g., https://nessus.example.com:8834)."})
	}
	if u.User != nil {
		errs = append(errs, validationErr{attr: attrURL, summary: "Invalid URL Configuration.", detail: "url must not include credentials; use access_key and secret_key."})
	}
	return errs
}

func validateAuth(rc resolvedConfig) []validationErr {
	var errs []validationErr
	if rc.accessKey == "" {
		errs = append(errs, validationErr{attr: attrAccessKey, summary: "Missing Access Key Configuration.", detail: "Provide 'access_key' or set NESSUS_ACCESS_KEY."})
	}
	if rc.secretKey == "" {
		errs = append(errs, validationErr{attr: attrSecretKey, summary: "Missing Secret Key Configuration.", detail: "Provide 'secret_key' or set NESSUS_SECRET_KEY."})
	}
	if rc.accessKey != "" && rc.accessKey == rc.secretKey {
		errs = append(errs, validationErr{attr: attrSecretKey, summary: "Invalid Secret Key Configuration.", detail: "secret_key must differ from access_key; generate an API key pair in the Nessus user settings."})
	}
	return errs
}

func validateHTTP(rc resolvedConfig) []validationErr {
	if rc.httpTimeoutSeconds < 1 || rc.httpTimeoutSeconds > 600 {
		return []validationErr{{attr: attrHTTPTimeoutSeconds, summary: "Invalid HTTP Timeout Configuration.", detail: fmt.Sprintf("http_timeout_seconds must be between 1 and 600 seconds; got %d", rc.httpTimeoutSeconds)}}
	}
	return nil
}

func validateResolvedConfig(rc resolvedConfig) []validationErr {
	var all []validationErr
	all = append(all, validateBase(rc)...)
	if len(all) == 0 { // if base fails, skip noisy follow-ups
		all = append(all, validateHTTP(rc)...)
		all = append(all, validateAuth(rc)...)
	}

	for i := range all {
		all[i] = sanitizeValidationError(all[i], rc)
	}
	return all
}
