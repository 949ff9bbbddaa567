// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/types"
)

// generic readers (HCL over env, then default behavior per caller)
func readString(s types.String, env string) string {
	if !s.IsNull() && !s.IsUnknown() {
		return s.ValueString()
	}
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

// readStringWithAliases reads a string preferring the HCL value, then a canonical env var,
// then any number of alias env vars in order.
func readStringWithAliases(s types.String, canonical string, aliases ...string) string {
	if v := readString(s, canonical); v != "" {
		return v
	}
	for _, a := range aliases {
		if a == "" {
			continue
		}
		if v := os.Getenv(a); v != "" {
			return v
		}
	}
	return ""
}

// readInt64Default prefers HCL, then env. An env value that does not parse is
// returned as -1 so validation reports it instead of silently using def.
func readInt64Default(v types.Int64, env string, def int) int {
	if !v.IsNull() && !v.IsUnknown() {
		return int(v.ValueInt64())
	}
	if env != "" {
		if raw := strings.TrimSpace(os.Getenv(env)); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return -1
			}
			return n
		}
	}
	return def
}

// readBoolWithAliases prefers HCL, then the first env var that parses as a bool.
func readBoolWithAliases(v types.Bool, def bool, envs ...string) bool {
	if !v.IsNull() && !v.IsUnknown() {
		return v.ValueBool()
	}
	for _, e := range envs {
		raw := strings.TrimSpace(os.Getenv(e))
		if raw == "" {
			continue
		}
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return def
}
