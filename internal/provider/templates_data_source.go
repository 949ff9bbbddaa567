// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/devops-wiz/terraform-provider-nessus/internal/provider/constants"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*templatesDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*templatesDataSource)(nil)

// NewTemplatesDataSource returns the Terraform data source implementation for nessus_templates.
func NewTemplatesDataSource() datasource.DataSource { return &templatesDataSource{} }

type templatesDataSource struct {
	ServiceClient
}

type templatesDataSourceModel struct {
	Type        types.String `tfsdk:"type"`
	Templates   types.Map    `tfsdk:"templates"`
	DefaultUUID types.String `tfsdk:"default_uuid"`
	ResultJSON  types.String `tfsdk:"result_json"`
}

func (d *templatesDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_templates"
}

func (d *templatesDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists the scan or policy editor templates offered by the server.",
		Attributes: map[string]schema.Attribute{
			"type": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "Template kind: `scan` or `policy`.",
				Validators:          []validator.String{stringvalidator.OneOf(constants.TemplateTypes()...)},
			},
			"templates": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.ObjectType{AttrTypes: templateItemModel{}.AttributeTypes()},
				MarkdownDescription: "Map of templates keyed by template UUID.",
			},
			"default_uuid": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "UUID a `nessus_scan` uses when `template_uuid` is omitted. Null for policy templates.",
			},
			"result_json": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "The raw list response as compact JSON.",
			},
		},
	}
}

func (d *templatesDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *templatesDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data templatesDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	fetch := d.client.ListScanTemplates
	if data.Type.ValueString() == constants.TemplateTypePolicy {
		fetch = d.client.ListPolicyTemplates
	}

	var raw json.RawMessage
	hooks := ListHooks[gjson.Result, templateItemModel]{
		List:      listFromDocument("list "+data.Type.ValueString()+" templates", fetch, "templates", &raw),
		KeyOf:     func(it gjson.Result) string { return it.Get("uuid").String() },
		MapToOut:  mapTemplateItem,
		AttrTypes: templateItemModel{}.AttributeTypes,
	}

	templates, diags := mapValueFromHooks(ctx, "templates", hooks, ListOptions{})
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	data.Templates = templates
	data.DefaultUUID = types.StringNull()
	if data.Type.ValueString() == constants.TemplateTypeScan {
		data.DefaultUUID = stringOrNull(nessus.DefaultScanTemplate(raw))
	}
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
