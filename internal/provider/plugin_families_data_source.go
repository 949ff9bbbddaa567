// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*pluginFamiliesDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*pluginFamiliesDataSource)(nil)

// NewPluginFamiliesDataSource returns the Terraform data source implementation for nessus_plugin_families.
func NewPluginFamiliesDataSource() datasource.DataSource { return &pluginFamiliesDataSource{} }

type pluginFamiliesDataSource struct {
	ServiceClient
}

type pluginFamiliesDataSourceModel struct {
	Limit    types.Int64  `tfsdk:"limit"`
	Offset   types.Int64  `tfsdk:"offset"`
	Sort     types.String `tfsdk:"sort"`
	Order    types.String `tfsdk:"order"`
	MaxItems types.Int64  `tfsdk:"max_items"`

	Families   types.Map    `tfsdk:"families"`
	ResultJSON types.String `tfsdk:"result_json"`
}

func (d *pluginFamiliesDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_plugin_families"
}

func (d *pluginFamiliesDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists Nessus plugin families.",
		Attributes: withAttributes(paginationAttributes(), map[string]schema.Attribute{
			"families": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.ObjectType{AttrTypes: pluginFamilyItemModel{}.AttributeTypes()},
				MarkdownDescription: "Map of plugin families keyed by family ID. Values include name and plugin count.",
			},
			"result_json": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "The raw list response as compact JSON.",
			},
		}),
	}
}

func (d *pluginFamiliesDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *pluginFamiliesDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data pluginFamiliesDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	pagination := paginationOptions(data.Limit, data.Offset, data.Sort, data.Order)
	var raw json.RawMessage
	hooks := ListHooks[gjson.Result, pluginFamilyItemModel]{
		List: listFromDocument("list plugin families", func(ctx context.Context) (json.RawMessage, error) {
			return d.client.ListPluginFamilies(ctx, pagination)
		}, "families", &raw),
		KeyOf:     func(it gjson.Result) string { return it.Get("id").String() },
		MapToOut:  mapPluginFamilyItem,
		AttrTypes: pluginFamilyItemModel{}.AttributeTypes,
	}

	families, diags := mapValueFromHooks(ctx, "families", hooks, ListOptions{MaxItems: int(data.MaxItems.ValueInt64())})
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	data.Families = families
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
