// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

// scanResourceModel models the Terraform schema/state for nessus_scan.
type scanResourceModel struct {
	ID           types.String `tfsdk:"id"`
	ScanID       types.Int64  `tfsdk:"scan_id"`
	Name         types.String `tfsdk:"name"`
	Targets      types.List   `tfsdk:"targets"`
	TemplateUUID types.String `tfsdk:"template_uuid"`
	Enabled      types.Bool   `tfsdk:"enabled"`
	FolderID     types.Int64  `tfsdk:"folder_id"`
	Description  types.String `tfsdk:"description"`
	Launch       types.Bool   `tfsdk:"launch"`
	AltTargets   types.List   `tfsdk:"alt_targets"`

	Status      types.String `tfsdk:"status"`
	UUID        types.String `tfsdk:"uuid"`
	LaunchUUID  types.String `tfsdk:"launch_uuid"`
	Owner       types.String `tfsdk:"owner"`
	ScannerName types.String `tfsdk:"scanner_name"`
}

// scanListItemModel is one value of the nessus_scans map.
type scanListItemModel struct {
	ID                   types.String `tfsdk:"id"`
	Name                 types.String `tfsdk:"name"`
	UUID                 types.String `tfsdk:"uuid"`
	Owner                types.String `tfsdk:"owner"`
	Status               types.String `tfsdk:"status"`
	FolderID             types.Int64  `tfsdk:"folder_id"`
	Enabled              types.Bool   `tfsdk:"enabled"`
	CreationDate         types.Int64  `tfsdk:"creation_date"`
	LastModificationDate types.Int64  `tfsdk:"last_modification_date"`
}

func (scanListItemModel) AttributeTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"id":                     types.StringType,
		"name":                   types.StringType,
		"uuid":                   types.StringType,
		"owner":                  types.StringType,
		"status":                 types.StringType,
		"folder_id":              types.Int64Type,
		"enabled":                types.BoolType,
		"creation_date":          types.Int64Type,
		"last_modification_date": types.Int64Type,
	}
}

// mapScanDetailsToModel maps a GET /scans/{id} document. Attributes the
// details document does not carry (description, enabled, template) keep their
// planned or prior values.
func mapScanDetailsToModel(ctx context.Context, raw json.RawMessage, st *scanResourceModel) diag.Diagnostics {
	var diags diag.Diagnostics
	info := gjson.GetBytes(raw, "info")
	if !info.Exists() {
		diags.AddError("Unexpected scan document", "The scan details response did not contain an 'info' object.")
		return diags
	}

	id := info.Get("object_id").Int()
	if id == 0 {
		id = st.ScanID.ValueInt64()
	}
	if id == 0 {
		if n, err := parseID(st.ID.ValueString()); err == nil {
			id = n
		}
	}
	st.ID = types.StringValue(strconv.FormatInt(id, 10))
	st.ScanID = types.Int64Value(id)
	st.Name = keepOrString(info, "name", st.Name)
	st.Status = gjsonString(info, "status")
	st.UUID = gjsonString(info, "uuid")
	st.Owner = gjsonString(info, "owner")
	st.ScannerName = gjsonString(info, "scanner_name")
	if v := gjsonInt64(info, "folder_id"); !v.IsNull() {
		st.FolderID = v
	}

	// Imported scans start without targets; recover them from the server copy.
	if st.Targets.IsNull() || st.Targets.IsUnknown() {
		targets := splitTargets(info.Get("targets").String())
		list, d := types.ListValueFrom(ctx, types.StringType, targets)
		diags.Append(d...)
		st.Targets = list
	}
	if st.Enabled.IsNull() || st.Enabled.IsUnknown() {
		st.Enabled = boolValue(false)
	}
	if st.Launch.IsNull() || st.Launch.IsUnknown() {
		st.Launch = boolValue(false)
	}
	if st.LaunchUUID.IsUnknown() {
		st.LaunchUUID = types.StringNull()
	}
	if st.TemplateUUID.IsUnknown() {
		st.TemplateUUID = types.StringNull()
	}
	return diags
}

func mapScanListItem(_ context.Context, r gjson.Result) (scanListItemModel, diag.Diagnostics) {
	return scanListItemModel{
		ID:                   types.StringValue(r.Get("id").String()),
		Name:                 gjsonString(r, "name"),
		UUID:                 gjsonString(r, "uuid"),
		Owner:                gjsonString(r, "owner"),
		Status:               gjsonString(r, "status"),
		FolderID:             gjsonInt64(r, "folder_id"),
		Enabled:              gjsonBool(r, "enabled"),
		CreationDate:         gjsonInt64(r, "creation_date"),
		LastModificationDate: gjsonInt64(r, "last_modification_date"),
	}, nil
}
