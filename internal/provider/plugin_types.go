// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

// pluginFamilyItemModel is one value of the nessus_plugin_families map.
type pluginFamilyItemModel struct {
	ID    types.String `tfsdk:"id"`
	Name  types.String `tfsdk:"name"`
	Count types.Int64  `tfsdk:"count"`
}

func (pluginFamilyItemModel) AttributeTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"id":    types.StringType,
		"name":  types.StringType,
		"count": types.Int64Type,
	}
}

// pluginItemModel is one plugin of a family.
type pluginItemModel struct {
	ID   types.String `tfsdk:"id"`
	Name types.String `tfsdk:"name"`
}

func (pluginItemModel) AttributeTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"id":   types.StringType,
		"name": types.StringType,
	}
}

func mapPluginFamilyItem(_ context.Context, r gjson.Result) (pluginFamilyItemModel, diag.Diagnostics) {
	return pluginFamilyItemModel{
		ID:    types.StringValue(r.Get("id").String()),
		Name:  gjsonString(r, "name"),
		Count: gjsonInt64(r, "count"),
	}, nil
}

func mapPluginItem(_ context.Context, r gjson.Result) (pluginItemModel, diag.Diagnostics) {
	return pluginItemModel{
		ID:   types.StringValue(r.Get("id").String()),
		Name: gjsonString(r, "name"),
	}, nil
}

// pluginAttributes flattens the plugin "attributes" array into a name to value map.
// Repeated names (e.g. several "cve" entries) are joined with ", ".
func pluginAttributes(doc gjson.Result) map[string]string {
	out := map[string]string{}
	for _, a := range doc.Get("attributes").Array() {
		name := a.Get("attribute_name").String()
		if name == "" {
			continue
		}
		val := a.Get("attribute_value").String()
		if prev, ok := out[name]; ok {
			out[name] = prev + ", " + val
			continue
		}
		out[name] = val
	}
	return out
}
