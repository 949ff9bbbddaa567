// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import "strings"

// redactSecretValue replaces a sensitive value with a stable token.
// If the value is empty, it returns the empty string to avoid adding tokens where not needed.
func redactSecretValue(v string) string {
	if v == "" {
		return ""
	}
	return "[REDACTED]"
}

// sanitizeValidationError returns a copy of the given validation error with the
// configured API keys redacted from summary and detail.
func sanitizeValidationError(e validationErr, rc resolvedConfig) validationErr {
	for _, raw := range []string{rc.accessKey, rc.secretKey} {
		if raw == "" {
			continue
		}
		red := redactSecretValue(raw)
		e.summary = strings.ReplaceAll(e.summary, raw, red)
		e.detail = strings.ReplaceAll(e.detail, raw, red)
	}
	return e
}
