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

// folderResourceModel models the Terraform schema/state for nessus_folder.
type folderResourceModel struct {
	ID         types.String `tfsdk:"id"`
	FolderID   types.Int64  `tfsdk:"folder_id"`
	Name       types.String `tfsdk:"name"`
	Type       types.String `tfsdk:"type"`
	Custom     types.Bool   `tfsdk:"custom"`
	DefaultTag types.Bool   `tfsdk:"default_tag"`
}

// folderPayload is the only input CreateFolder takes.
type folderPayload struct {
	Name string
}

// folderListItemModel is one value of the nessus_folders map.
type folderListItemModel struct {
	ID          types.String `tfsdk:"id"`
	Name        types.String `tfsdk:"name"`
	Type        types.String `tfsdk:"type"`
	Custom      types.Bool   `tfsdk:"custom"`
	DefaultTag  types.Bool   `tfsdk:"default_tag"`
	UnreadCount types.Int64  `tfsdk:"unread_count"`
}

func (folderListItemModel) AttributeTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"id":           types.StringType,
		"name":         types.StringType,
		"type":         types.StringType,
		"custom":       types.BoolType,
		"default_tag":  types.BoolType,
		"unread_count": types.Int64Type,
	}
}

// mapFolderToModel maps one member of the /folders "folders" array.
func mapFolderToModel(_ context.Context, raw json.RawMessage, st *folderResourceModel) diag.Diagnostics {
	var diags diag.Diagnostics
	r := gjson.ParseBytes(raw)
	id := r.Get("id").Int()
	if id == 0 {
		diags.AddError("Unexpected folder document", "The folder response did not contain an id.")
		return diags
	}
	st.ID = types.StringValue(strconv.FormatInt(id, 10))
	st.FolderID = types.Int64Value(id)
	st.Name = keepOrString(r, "name", st.Name)
	st.Type = gjsonString(r, "type")
	st.Custom = boolValue(r.Get("custom").Bool())
	st.DefaultTag = boolValue(r.Get("default_tag").Bool())
	return diags
}

func mapFolderListItem(_ context.Context, r gjson.Result) (folderListItemModel, diag.Diagnostics) {
	return folderListItemModel{
		ID:          types.StringValue(r.Get("id").String()),
		Name:        gjsonString(r, "name"),
		Type:        gjsonString(r, "type"),
		Custom:      boolValue(r.Get("custom").Bool()),
		DefaultTag:  boolValue(r.Get("default_tag").Bool()),
		UnreadCount: gjsonInt64(r, "unread_count"),
	}, nil
}

// findFolder returns the folder with id from a /folders response.
func findFolder(list json.RawMessage, id int64) (json.RawMessage, bool) {
	found := gjson.GetBytes(list, "folders.#(id=="+strconv.FormatInt(id, 10)+")")
	if !found.Exists() {
		return nil, false
	}
	return json.RawMessage(found.Raw), true
}
