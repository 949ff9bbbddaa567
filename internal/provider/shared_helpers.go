// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/tfsdk"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/tidwall/gjson"
)

// Tiny mapping helpers to reduce verbosity in map-to-state code.
func stringOrNull(s string) types.String {
	if s != "" {
		return types.StringValue(s)
	}
	return types.StringNull()
}

func int64OrNull(v int64) types.Int64 {
	if v != 0 {
		return types.Int64Value(v)
	}
	return types.Int64Null()
}

func boolValue(b bool) types.Bool { return types.BoolValue(b) }

// gjson accessors: a missing member maps to null, never to a zero value.
func gjsonString(r gjson.Result, p string) types.String {
	v := r.Get(p)
	if !v.Exists() || v.Type == gjson.Null {
		return types.StringNull()
	}
	return types.StringValue(v.String())
}

func gjsonInt64(r gjson.Result, p string) types.Int64 {
	v := r.Get(p)
	if !v.Exists() || v.Type == gjson.Null {
		return types.Int64Null()
	}
	return types.Int64Value(v.Int())
}

func gjsonBool(r gjson.Result, p string) types.Bool {
	v := r.Get(p)
	if !v.Exists() || v.Type == gjson.Null {
		return types.BoolNull()
	}
	return types.BoolValue(v.Bool())
}

// keepOrString prefers the API value and falls back to the current value when
// the API omits the member. A current value that only differs by surrounding
// whitespace is kept so plans stay stable.
func keepOrString(r gjson.Result, p string, cur types.String) types.String {
	v := gjsonString(r, p)
	if v.IsNull() {
		return cur
	}
	if !cur.IsNull() && !cur.IsUnknown() && strings.TrimSpace(cur.ValueString()) == v.ValueString() {
		return cur
	}
	return v
}

// parseID parses a numeric Nessus identifier held in a Terraform id string.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive numeric id, got %q", id)
	}
	return n, nil
}

// saveCreatedID records id, and the numeric attribute named by numericAttr,
// as partial state right after the create call. Terraform taints the resource
// when a later step of Create fails.
func saveCreatedID(state *tfsdk.State, numericAttr string) func(ctx context.Context, id string) diag.Diagnostics {
	return func(ctx context.Context, id string) diag.Diagnostics {
		var diags diag.Diagnostics
		diags.Append(state.SetAttribute(ctx, path.Root("id"), id)...)
		if n, err := parseID(id); err == nil && numericAttr != "" {
			diags.Append(state.SetAttribute(ctx, path.Root(numericAttr), n)...)
		}
		return diags
	}
}

// createdIDAt returns a CreatedID hook reading the numeric member at p.
func createdIDAt(p string) func(api json.RawMessage) string {
	return func(api json.RawMessage) string {
		if n := gjson.GetBytes(api, p).Int(); n > 0 {
			return strconv.FormatInt(n, 10)
		}
		return ""
	}
}

// invalidIDError wraps a parseID failure as an InvalidArgument so it flows through ensure.
func invalidIDError(err error) error {
	return &nessus.Error{Kind: nessus.InvalidArgument, Message: err.Error(), Err: err}
}

// notFoundError reports a missing item from a list lookup the way the API reports a missing object.
func notFoundError(what string, id int64) error {
	return &nessus.Error{
		Kind:       nessus.TransportError,
		Message:    fmt.Sprintf("Not Found: %s %d does not exist", what, id),
		StatusCode: 404,
	}
}

// compactJSON normalizes raw JSON so equal documents compare equal in state.
func compactJSON(raw json.RawMessage) (string, error) {
	var buf strings.Builder
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// ensureWith wraps EnsureSuccessOrDiagWithOptions binding the diagnostics pointer.
// Use in Resource CRUD/Import methods to avoid repeating the closure at each callsite.
func ensureWith(diags *diag.Diagnostics) func(ctx context.Context, action string, err error, opts *EnsureSuccessOrDiagOptions) bool {
	return func(ctx context.Context, action string, err error, opts *EnsureSuccessOrDiagOptions) bool {
		return EnsureSuccessOrDiagWithOptions(ctx, action, err, diags, opts)
	}
}

// withTimeout wraps ctx with a timeout when d > 0. If d <= 0, it returns the
// original context and a no-op cancel, allowing callers to `defer cancel()` unconditionally.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	ctx2, cancel := context.WithTimeout(ctx, d)
	tflog.Debug(ctx2, "context deadline set for operation", map[string]interface{}{"timeout": d.String()})
	return ctx2, cancel
}

// configureServiceClient extracts the provider from ProviderData. It returns
// false when the provider is not configured yet or the data has the wrong type.
func configureServiceClient(providerData any, diags *diag.Diagnostics) (ServiceClient, bool) {
	if providerData == nil {
		return ServiceClient{}, false
	}
	p, ok := providerData.(*NessusProvider)
	if !ok {
		diags.AddError(
			"Unexpected Provider Data Type",
			fmt.Sprintf("Expected *NessusProvider, got: %T. Please report this issue to the provider developers.", providerData),
		)
		return ServiceClient{}, false
	}
	return ServiceClient{client: p.client, providerTimeouts: p.providerTimeouts}, true
}

// importNumericID validates a numeric import identifier before the read runs.
func importNumericID(id string, diags *diag.Diagnostics) bool {
	if _, err := parseID(id); err != nil {
		diags.AddAttributeError(path.Root("id"), "Invalid import identifier", err.Error())
		return false
	}
	return true
}

// listHasUnknown reports if the list itself or any of its elements are unknown.
func listHasUnknown(l types.List) bool {
	if l.IsUnknown() {
		return true
	}
	elems := l.Elements()
	for i := range elems {
		if elems[i].IsUnknown() {
			return true
		}
	}
	return false
}

// getKnownStrings parses a Terraform list of strings into a Go slice.
// Returns (nil, true) if the list or any of its elements are unknown at plan time, so the caller can defer evaluation.
// On conversion failures with known values, records an attribute-scoped error and returns (nil, false).
func getKnownStrings(ctx context.Context, l types.List, attr string, diags *diag.Diagnostics) (vals []string, deferEval bool) {
	if l.IsNull() {
		return nil, false
	}
	if listHasUnknown(l) {
		return nil, true
	}
	vals = make([]string, len(l.Elements()))
	if d := l.ElementsAs(ctx, &vals, false); d.HasError() {
		diags.AddAttributeError(
			path.Root(attr),
			fmt.Sprintf("Invalid %s list", attr),
			fmt.Sprintf("Failed to read '%s' as a list of strings. Ensure all elements are known and of type string.", attr),
		)
		diags.Append(d...)
		return nil, false
	}
	return vals, false
}

// uniqueStrings returns a de-duplicated slice preserving first occurrence order.
func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// stateRemover returns the remove callback used by DoRead for 404s.
func stateRemover(resp *resource.ReadResponse) func(ctx context.Context) {
	return func(ctx context.Context) {
		tflog.Warn(ctx, "remote object not found; removing from state")
		resp.State.RemoveResource(ctx)
	}
}
