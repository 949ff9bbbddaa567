// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*foldersDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*foldersDataSource)(nil)

// NewFoldersDataSource returns the Terraform data source implementation for nessus_folders.
func NewFoldersDataSource() datasource.DataSource { return &foldersDataSource{} }

type foldersDataSource struct {
	ServiceClient
}

type foldersDataSourceModel struct {
	Type       types.String `tfsdk:"type"`
	Folders    types.Map    `tfsdk:"folders"`
	ResultJSON types.String `tfsdk:"result_json"`
}

func (d *foldersDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_folders"
}

func (d *foldersDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists Nessus scan folders.",
		Attributes: map[string]schema.Attribute{
			"type": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Only keep folders of this type: `custom`, `main` or `trash`.",
				Validators:          []validator.String{stringvalidator.OneOf("custom", "main", "trash")},
			},
			"folders": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.ObjectType{AttrTypes: folderListItemModel{}.AttributeTypes()},
				MarkdownDescription: "Map of folders keyed by folder ID.",
			},
			"result_json": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "The raw list response as compact JSON.",
			},
		},
	}
}

func (d *foldersDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *foldersDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data foldersDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	var raw json.RawMessage
	hooks := ListHooks[gjson.Result, folderListItemModel]{
		List: listFromDocument("list folders", d.client.ListFolders, "folders", &raw),
		Filter: func(_ context.Context, it gjson.Result) bool {
			return data.Type.IsNull() || it.Get("type").String() == data.Type.ValueString()
		},
		KeyOf:     func(it gjson.Result) string { return it.Get("id").String() },
		MapToOut:  mapFolderListItem,
		AttrTypes: folderListItemModel{}.AttributeTypes,
	}

	folders, diags := mapValueFromHooks(ctx, "folders", hooks, ListOptions{})
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	data.Folders = folders
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
