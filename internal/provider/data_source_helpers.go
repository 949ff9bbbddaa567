// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

// paginationAttributes returns the optional list query attributes shared by list data sources.
func paginationAttributes() map[string]schema.Attribute {
	return map[string]schema.Attribute{
		"limit": schema.Int64Attribute{
			Optional:            true,
			MarkdownDescription: "Forwarded as the `limit` query parameter.",
			Validators:          []validator.Int64{int64validator.AtLeast(1)},
		},
		"offset": schema.Int64Attribute{
			Optional:            true,
			MarkdownDescription: "Forwarded as the `offset` query parameter.",
			Validators:          []validator.Int64{int64validator.AtLeast(0)},
		},
		"sort": schema.StringAttribute{
			Optional:            true,
			MarkdownDescription: "Forwarded as the `sort` query parameter.",
		},
		"order": schema.StringAttribute{
			Optional:            true,
			MarkdownDescription: "Forwarded as the `order` query parameter: `asc` or `desc`.",
			Validators:          []validator.String{stringvalidator.OneOfCaseInsensitive("asc", "desc")},
		},
		"max_items": schema.Int64Attribute{
			Optional:            true,
			MarkdownDescription: "Keep at most this many items in the result map. A warning is added when the result is capped.",
			Validators:          []validator.Int64{int64validator.AtLeast(1)},
		},
	}
}

// withAttributes merges extra into base; extra wins on duplicate names.
func withAttributes(base map[string]schema.Attribute, extra map[string]schema.Attribute) map[string]schema.Attribute {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// paginationOptions builds the forwarded query options; nil when nothing is set.
func paginationOptions(limit, offset types.Int64, sort, order types.String) *nessus.PaginationOptions {
	p := nessus.PaginationOptions{
		Limit:  int(limit.ValueInt64()),
		Offset: int(offset.ValueInt64()),
		Sort:   sort.ValueString(),
		Order:  order.ValueString(),
	}
	if p == (nessus.PaginationOptions{}) {
		return nil
	}
	return &p
}

// gjsonItems returns the members of the array at p in raw.
func gjsonItems(raw json.RawMessage, p string) []gjson.Result {
	return gjson.GetBytes(raw, p).Array()
}

// listFromDocument adapts a single list call into a ListFunc over the array at p.
func listFromDocument(op string, fetch func(ctx context.Context) (json.RawMessage, error), p string, raw *json.RawMessage) ListFunc[gjson.Result] {
	return func(ctx context.Context) ([]gjson.Result, diag.Diagnostics) {
		var diags diag.Diagnostics
		doc, err := fetch(ctx)
		if !EnsureSuccessOrDiagWithOptions(ctx, op, err, &diags, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
			return nil, diags
		}
		if raw != nil {
			*raw = doc
		}
		return gjsonItems(doc, p), diags
	}
}

// mapValueFromHooks runs the list runner and encodes the result as a map of objects.
func mapValueFromHooks[TOut OutModelConstraint](ctx context.Context, attr string, h ListHooks[gjson.Result, TOut], opts ListOptions) (types.Map, diag.Diagnostics) {
	objType := types.ObjectType{AttrTypes: h.AttrTypes()}
	items, diags := DoListToMapWithLimit(ctx, h, opts)
	if diags.HasError() {
		return types.MapNull(objType), diags
	}
	m, mDiag := types.MapValueFrom(ctx, objType, items)
	if mDiag.HasError() {
		diags.AddAttributeError(
			path.Root(attr),
			fmt.Sprintf("Failed to build %s map", attr),
			fmt.Sprintf("Could not encode %d items into state. See diagnostics for details.", len(items)),
		)
		diags.Append(mDiag...)
		return types.MapNull(objType), diags
	}
	return m, diags
}

// resultJSONValue normalizes a raw response for the result_json attribute.
func resultJSONValue(raw json.RawMessage, diags *diag.Diagnostics) types.String {
	if len(raw) == 0 {
		return types.StringNull()
	}
	s, err := compactJSON(raw)
	if err != nil {
		diags.AddAttributeError(path.Root("result_json"), "Invalid response document", err.Error())
		return types.StringNull()
	}
	return types.StringValue(s)
}

// setDataSourceState writes data and reports failures the same way for every data source.
func setDataSourceState(ctx context.Context, set func(ctx context.Context) diag.Diagnostics, diags *diag.Diagnostics) {
	if d := set(ctx); d.HasError() {
		diags.AddError(
			"Failed to set data source state",
			"An unexpected error occurred while writing computed data to Terraform state. See diagnostics for details.",
		)
		diags.Append(d...)
	}
}
