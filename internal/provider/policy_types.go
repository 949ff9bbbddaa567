// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

// policyResourceModel models the Terraform schema/state for nessus_policy.
type policyResourceModel struct {
	ID           types.String `tfsdk:"id"`
	PolicyID     types.Int64  `tfsdk:"policy_id"`
	TemplateUUID types.String `tfsdk:"template_uuid"`
	Name         types.String `tfsdk:"name"`
	Description  types.String `tfsdk:"description"`
	SettingsJSON types.String `tfsdk:"settings_json"`
}

// policyListItemModel is one value of the nessus_policies map.
type policyListItemModel struct {
	ID                   types.String `tfsdk:"id"`
	Name                 types.String `tfsdk:"name"`
	Description          types.String `tfsdk:"description"`
	TemplateUUID         types.String `tfsdk:"template_uuid"`
	Owner                types.String `tfsdk:"owner"`
	Visibility           types.String `tfsdk:"visibility"`
	CreationDate         types.Int64  `tfsdk:"creation_date"`
	LastModificationDate types.Int64  `tfsdk:"last_modification_date"`
}

func (policyListItemModel) AttributeTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"id":                     types.StringType,
		"name":                   types.StringType,
		"description":            types.StringType,
		"template_uuid":          types.StringType,
		"owner":                  types.StringType,
		"visibility":             types.StringType,
		"creation_date":          types.Int64Type,
		"last_modification_date": types.Int64Type,
	}
}

// mapPolicyDetailsToModel maps a GET /policies/{id} editor document.
// settings_json is input only and is never overwritten from the server copy,
// which carries every editor default.
func mapPolicyDetailsToModel(_ context.Context, raw json.RawMessage, st *policyResourceModel) diag.Diagnostics {
	var diags diag.Diagnostics
	doc := gjson.ParseBytes(raw)
	settings := doc.Get("settings")
	if !settings.Exists() {
		diags.AddError("Unexpected policy document", "The policy details response did not contain a 'settings' object.")
		return diags
	}

	if n, err := parseID(st.ID.ValueString()); err == nil {
		st.PolicyID = types.Int64Value(n)
	}
	st.TemplateUUID = keepOrString(doc, "uuid", st.TemplateUUID)
	st.Name = keepOrString(settings, "name", st.Name)
	if d := settings.Get("description").String(); d != "" {
		st.Description = keepOrString(settings, "description", st.Description)
	}
	if st.SettingsJSON.IsUnknown() {
		st.SettingsJSON = types.StringNull()
	}
	return diags
}

func mapPolicyListItem(_ context.Context, r gjson.Result) (policyListItemModel, diag.Diagnostics) {
	return policyListItemModel{
		ID:                   types.StringValue(r.Get("id").String()),
		Name:                 gjsonString(r, "name"),
		Description:          gjsonString(r, "description"),
		TemplateUUID:         gjsonString(r, "template_uuid"),
		Owner:                gjsonString(r, "owner"),
		Visibility:           gjsonString(r, "visibility"),
		CreationDate:         gjsonInt64(r, "creation_date"),
		LastModificationDate: gjsonInt64(r, "last_modification_date"),
	}, nil
}
