// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*policiesDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*policiesDataSource)(nil)

// NewPoliciesDataSource returns the Terraform data source implementation for nessus_policies.
func NewPoliciesDataSource() datasource.DataSource { return &policiesDataSource{} }

type policiesDataSource struct {
	ServiceClient
}

type policiesDataSourceModel struct {
	NameContains types.String `tfsdk:"name_contains"`

	Limit    types.Int64  `tfsdk:"limit"`
	Offset   types.Int64  `tfsdk:"offset"`
	Sort     types.String `tfsdk:"sort"`
	Order    types.String `tfsdk:"order"`
	MaxItems types.Int64  `tfsdk:"max_items"`

	Policies   types.Map    `tfsdk:"policies"`
	ResultJSON types.String `tfsdk:"result_json"`
}

func (d *policiesDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_policies"
}

func (d *policiesDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists Nessus scan policies.",
		Attributes: withAttributes(paginationAttributes(), map[string]schema.Attribute{
			"name_contains": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Only keep policies whose name contains this text (case insensitive).",
			},
			"policies": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.ObjectType{AttrTypes: policyListItemModel{}.AttributeTypes()},
				MarkdownDescription: "Map of policies keyed by policy ID.",
			},
			"result_json": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "The raw list response as compact JSON.",
			},
		}),
	}
}

func (d *policiesDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *policiesDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data policiesDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	pagination := paginationOptions(data.Limit, data.Offset, data.Sort, data.Order)
	needle := strings.ToLower(data.NameContains.ValueString())

	var raw json.RawMessage
	hooks := ListHooks[gjson.Result, policyListItemModel]{
		List: listFromDocument("list policies", func(ctx context.Context) (json.RawMessage, error) {
			return d.client.ListPolicies(ctx, pagination)
		}, "policies", &raw),
		Filter: func(_ context.Context, it gjson.Result) bool {
			return needle == "" || strings.Contains(strings.ToLower(it.Get("name").String()), needle)
		},
		KeyOf:     func(it gjson.Result) string { return it.Get("id").String() },
		MapToOut:  mapPolicyListItem,
		AttrTypes: policyListItemModel{}.AttributeTypes,
	}

	policies, diags := mapValueFromHooks(ctx, "policies", hooks, ListOptions{MaxItems: int(data.MaxItems.ValueInt64())})
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	data.Policies = policies
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
