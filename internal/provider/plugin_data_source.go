// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*pluginDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*pluginDataSource)(nil)

// NewPluginDataSource returns the Terraform data source implementation for nessus_plugin.
func NewPluginDataSource() datasource.DataSource { return &pluginDataSource{} }

type pluginDataSource struct {
	ServiceClient
}

type pluginDataSourceModel struct {
	PluginID types.Int64 `tfsdk:"plugin_id"`

	Name       types.String `tfsdk:"name"`
	FamilyName types.String `tfsdk:"family_name"`
	Attributes types.Map    `tfsdk:"attributes"`
	ResultJSON types.String `tfsdk:"result_json"`
}

func (d *pluginDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_plugin"
}

func (d *pluginDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Reads the details of one Nessus plugin.",
		Attributes: map[string]schema.Attribute{
			"plugin_id": schema.Int64Attribute{
				Required:            true,
				MarkdownDescription: "The plugin identifier.",
				Validators:          []validator.Int64{int64validator.AtLeast(1)},
			},
			"name":        schema.StringAttribute{Computed: true, MarkdownDescription: "Plugin name."},
			"family_name": schema.StringAttribute{Computed: true, MarkdownDescription: "Name of the family the plugin belongs to."},
			"attributes": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.StringType,
				MarkdownDescription: "Plugin attributes keyed by attribute name. Repeated attributes are joined with `, `.",
			},
			"result_json": schema.StringAttribute{Computed: true, MarkdownDescription: "The raw details response as compact JSON."},
		},
	}
}

func (d *pluginDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *pluginDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data pluginDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	raw, err := d.client.GetPluginDetails(ctx, data.PluginID.ValueInt64())
	if !EnsureSuccessOrDiagWithOptions(ctx, "read plugin details", err, &resp.Diagnostics, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		return
	}

	doc := gjson.ParseBytes(raw)
	data.Name = gjsonString(doc, "name")
	data.FamilyName = gjsonString(doc, "family_name")

	var d2 diag.Diagnostics
	data.Attributes, d2 = types.MapValueFrom(ctx, types.StringType, pluginAttributes(doc))
	resp.Diagnostics.Append(d2...)
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
