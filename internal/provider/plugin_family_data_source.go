// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*pluginFamilyDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*pluginFamilyDataSource)(nil)

// NewPluginFamilyDataSource returns the Terraform data source implementation for nessus_plugin_family.
func NewPluginFamilyDataSource() datasource.DataSource { return &pluginFamilyDataSource{} }

type pluginFamilyDataSource struct {
	ServiceClient
}

type pluginFamilyDataSourceModel struct {
	FamilyID types.Int64 `tfsdk:"family_id"`

	Limit    types.Int64  `tfsdk:"limit"`
	Offset   types.Int64  `tfsdk:"offset"`
	Sort     types.String `tfsdk:"sort"`
	Order    types.String `tfsdk:"order"`
	MaxItems types.Int64  `tfsdk:"max_items"`

	Name       types.String `tfsdk:"name"`
	Plugins    types.Map    `tfsdk:"plugins"`
	ResultJSON types.String `tfsdk:"result_json"`
}

func (d *pluginFamilyDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_plugin_family"
}

func (d *pluginFamilyDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists the plugins of one Nessus plugin family.",
		Attributes: withAttributes(paginationAttributes(), map[string]schema.Attribute{
			"family_id": schema.Int64Attribute{
				Required:            true,
				MarkdownDescription: "The plugin family identifier.",
				Validators:          []validator.Int64{int64validator.AtLeast(1)},
			},
			"name": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Family name.",
			},
			"plugins": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.ObjectType{AttrTypes: pluginItemModel{}.AttributeTypes()},
				MarkdownDescription: "Map of plugins keyed by plugin ID.",
			},
			"result_json": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "The raw family response as compact JSON.",
			},
		}),
	}
}

func (d *pluginFamilyDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *pluginFamilyDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data pluginFamilyDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	pagination := paginationOptions(data.Limit, data.Offset, data.Sort, data.Order)
	familyID := data.FamilyID.ValueInt64()
	var raw json.RawMessage
	hooks := ListHooks[gjson.Result, pluginItemModel]{
		List: listFromDocument("list family plugins", func(ctx context.Context) (json.RawMessage, error) {
			return d.client.ListPluginsInFamily(ctx, familyID, pagination)
		}, "plugins", &raw),
		KeyOf:     func(it gjson.Result) string { return it.Get("id").String() },
		MapToOut:  mapPluginItem,
		AttrTypes: pluginItemModel{}.AttributeTypes,
	}

	plugins, diags := mapValueFromHooks(ctx, "plugins", hooks, ListOptions{MaxItems: int(data.MaxItems.ValueInt64())})
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	data.Plugins = plugins
	data.Name = gjsonString(gjson.ParseBytes(raw), "name")
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
