// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"strings"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_deriveResolvedConfig_env_precedence_and_defaults(t *testing.T) {
	t.Run("url canonical over alias; HCL overrides env", func(t *testing.T) {
		t.Setenv(envURLAlias, "https://alias.example.com:8834")
		t.Setenv(envURL, "https://canon.example.com:8834")

		rc := deriveResolvedConfig(NessusProviderModel{URL: types.StringNull()})
		assert.Equal(t, "https://canon.example.com:8834", rc.baseURL)

		rc = deriveResolvedConfig(NessusProviderModel{URL: types.StringValue(" https://hcl.example.com:8834 ")})
		assert.Equal(t, "https://hcl.example.com:8834", rc.baseURL)
	})

	t.Run("alias used when canonical unset", func(t *testing.T) {
		t.Setenv(envURL, "")
		t.Setenv(envURLAlias, "https://alias.example.com:8834")
		rc := deriveResolvedConfig(NessusProviderModel{})
		assert.Equal(t, "https://alias.example.com:8834", rc.baseURL)
	})

	t.Run("keys from env; defaults applied", func(t *testing.T) {
		t.Setenv(envAccessKey, "ak-env")
		t.Setenv(envSecretKey, "sk-env")
		t.Setenv(envHTTPTimeoutSeconds, "")
		t.Setenv(envAllowSelfSigned, "")
		t.Setenv(envAllowSelfSignedAlt, "")

		rc := deriveResolvedConfig(NessusProviderModel{
			AccessKey:          types.StringNull(),
			SecretKey:          types.StringNull(),
			AllowSelfSigned:    types.BoolNull(),
			HTTPTimeoutSeconds: types.Int64Null(),
		})
		assert.Equal(t, "ak-env", rc.accessKey)
		assert.Equal(t, "sk-env", rc.secretKey)
		assert.Equal(t, defaultHTTPTimeoutSeconds, rc.httpTimeoutSeconds)
		assert.Equal(t, defaultAllowSelfSigned, rc.allowSelfSigned)
	})

	t.Run("allow self signed from either env var", func(t *testing.T) {
		t.Setenv(envAllowSelfSigned, "")
		t.Setenv(envAllowSelfSignedAlt, "true")
		assert.True(t, deriveResolvedConfig(NessusProviderModel{}).allowSelfSigned)

		t.Setenv(envAllowSelfSigned, "false")
		assert.False(t, deriveResolvedConfig(NessusProviderModel{}).allowSelfSigned)

		rc := deriveResolvedConfig(NessusProviderModel{AllowSelfSigned: types.BoolValue(true)})
		assert.True(t, rc.allowSelfSigned, "HCL value wins over env")
	})

	t.Run("unparseable timeout env surfaces as invalid", func(t *testing.T) {
		t.Setenv(envHTTPTimeoutSeconds, "soon")
		rc := deriveResolvedConfig(NessusProviderModel{})
		assert.Equal(t, -1, rc.httpTimeoutSeconds)
		assert.NotEmpty(t, validateHTTP(rc))
	})
}

func Test_validateBase(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"missing", "", "Missing URL Configuration."},
		{"bad scheme", "ftp://nessus.example.com", "http or https"},
		{"no host", "https://", "must include a host"},
		{"credentials", "https://user:pw@nessus.example.com", "must not include credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validateBase(resolvedConfig{baseURL: tc.url})
			require.NotEmpty(t, errs)
			joined := ""
			for _, e := range errs {
				assert.Equal(t, attrURL, e.attr)
				joined += e.summary + " " + e.detail + "\n"
			}
			assert.Contains(t, joined, tc.wantErr)
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, validateBase(resolvedConfig{baseURL: "https://localhost:8834"}))
	})
}

func Test_validateHTTP(t *testing.T) {
	for _, tt := range []struct {
		in      int
		wantErr bool
	}{
		{0, true}, {1, false}, {600, false}, {601, true},
	} {
		errs := validateHTTP(resolvedConfig{httpTimeoutSeconds: tt.in})
		if tt.wantErr {
			assert.NotEmpty(t, errs, "expected error for %d", tt.in)
		} else {
			assert.Empty(t, errs, "expected no error for %d", tt.in)
		}
	}
}

func Test_validateAuth(t *testing.T) {
	t.Run("missing keys", func(t *testing.T) {
		errs := validateAuth(resolvedConfig{})
		require.Len(t, errs, 2)
		assert.Equal(t, attrAccessKey, errs[0].attr)
		assert.Equal(t, attrSecretKey, errs[1].attr)
	})

	t.Run("identical keys", func(t *testing.T) {
		errs := validateAuth(resolvedConfig{accessKey: "same", secretKey: "same"})
		require.Len(t, errs, 1)
		assert.Equal(t, "Invalid Secret Key Configuration.", errs[0].summary)
	})

	t.Run("valid pair", func(t *testing.T) {
		assert.Empty(t, validateAuth(resolvedConfig{accessKey: "ak", secretKey: "sk"}))
	})
}

func Test_validateResolvedConfig_integration_and_redaction(t *testing.T) {
	t.Run("base failure skips follow-ups", func(t *testing.T) {
		errs := validateResolvedConfig(resolvedConfig{baseURL: "", httpTimeoutSeconds: 0})
		require.Len(t, errs, 1)
		assert.Equal(t, attrURL, errs[0].attr)
	})

	t.Run("secrets never leak", func(t *testing.T) {
		rc := resolvedConfig{
			baseURL:            "https://nessus.example.com:8834",
			accessKey:          "super-secret-access",
			secretKey:          "super-secret-access",
			httpTimeoutSeconds: 30,
		}
		errs := validateResolvedConfig(rc)
		require.NotEmpty(t, errs)
		for _, e := range errs {
			assert.False(t, strings.Contains(e.summary+e.detail, "super-secret-access"), "validation error leaked a key: %+v", e)
		}
	})

	t.Run("sanitize replaces embedded keys", func(t *testing.T) {
		rc := resolvedConfig{accessKey: "ak-123", secretKey: "sk-456"}
		e := sanitizeValidationError(validationErr{summary: "bad ak-123", detail: "got sk-456"}, rc)
		assert.Equal(t, "bad [REDACTED]", e.summary)
		assert.Equal(t, "got [REDACTED]", e.detail)
	})
}

func Test_parseOperationTimeouts(t *testing.T) {
	got, errs := parseOperationTimeouts(nil)
	assert.Empty(t, errs)
	assert.Zero(t, got.Read)

	got, errs = parseOperationTimeouts(&OperationTimeoutsModel{
		Create: types.StringValue("2m"),
		Read:   types.StringValue("30s"),
		Update: types.StringNull(),
		Delete: types.StringValue("nope"),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "delete", errs[0].attr)
	assert.Equal(t, "Invalid delete timeout value.", errs[0].summary)
	assert.Equal(t, "2m0s", got.Create.String())
	assert.Equal(t, "30s", got.Read.String())
	assert.Zero(t, got.Update)

	_, errs = parseOperationTimeouts(&OperationTimeoutsModel{
		Create: types.StringValue("0s"),
		Read:   types.StringNull(),
		Update: types.StringNull(),
		Delete: types.StringNull(),
	})
	require.Len(t, errs, 1, "zero durations are rejected")
}
