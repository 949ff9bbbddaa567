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

// templateItemModel is one value of the nessus_templates map.
type templateItemModel struct {
	UUID             types.String `tfsdk:"uuid"`
	Name             types.String `tfsdk:"name"`
	Title            types.String `tfsdk:"title"`
	Description      types.String `tfsdk:"description"`
	CloudOnly        types.Bool   `tfsdk:"cloud_only"`
	SubscriptionOnly types.Bool   `tfsdk:"subscription_only"`
}

func (templateItemModel) AttributeTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"uuid":              types.StringType,
		"name":              types.StringType,
		"title":             types.StringType,
		"description":       types.StringType,
		"cloud_only":        types.BoolType,
		"subscription_only": types.BoolType,
	}
}

func mapTemplateItem(_ context.Context, r gjson.Result) (templateItemModel, diag.Diagnostics) {
	return templateItemModel{
		UUID:             gjsonString(r, "uuid"),
		Name:             gjsonString(r, "name"),
		Title:            gjsonString(r, "title"),
		Description:      gjsonString(r, "desc"),
		CloudOnly:        boolValue(r.Get("cloud_only").Bool()),
		SubscriptionOnly: boolValue(r.Get("subscription_only").Bool()),
	}, nil
}
