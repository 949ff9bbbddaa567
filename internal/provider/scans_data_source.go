// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/devops-wiz/terraform-provider-nessus/internal/provider/constants"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*scansDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*scansDataSource)(nil)

// NewScansDataSource returns the Terraform data source implementation for nessus_scans.
func NewScansDataSource() datasource.DataSource { return &scansDataSource{} }

type scansDataSource struct {
	ServiceClient
}

type scansDataSourceModel struct {
	// Optional filters
	FolderID     types.Int64  `tfsdk:"folder_id"`
	Status       types.String `tfsdk:"status"`
	NameContains types.String `tfsdk:"name_contains"`

	// Forwarded query parameters
	Limit    types.Int64  `tfsdk:"limit"`
	Offset   types.Int64  `tfsdk:"offset"`
	Sort     types.String `tfsdk:"sort"`
	Order    types.String `tfsdk:"order"`
	MaxItems types.Int64  `tfsdk:"max_items"`

	// Outputs
	Scans      types.Map    `tfsdk:"scans"`
	ResultJSON types.String `tfsdk:"result_json"`
}

func (d *scansDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_scans"
}

func (d *scansDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists Nessus scans, optionally filtered by folder, status or name.",
		Attributes: withAttributes(paginationAttributes(), map[string]schema.Attribute{
			"folder_id": schema.Int64Attribute{
				Optional:            true,
				MarkdownDescription: "Only keep scans in this folder.",
			},
			"status": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Only keep scans with this status.",
				Validators:          []validator.String{stringvalidator.OneOf(constants.ScanStatusKeys()...)},
			},
			"name_contains": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Only keep scans whose name contains this text (case insensitive).",
			},
			"scans": schema.MapAttribute{
				Computed:            true,
				ElementType:         types.ObjectType{AttrTypes: scanListItemModel{}.AttributeTypes()},
				MarkdownDescription: "Map of scans keyed by scan ID. Values include name, uuid, owner, status, folder_id, enabled, creation_date and last_modification_date.",
			},
			"result_json": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "The raw list response as compact JSON.",
			},
		}),
	}
}

func (d *scansDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *scansDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data scansDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	pagination := paginationOptions(data.Limit, data.Offset, data.Sort, data.Order)
	needle := strings.ToLower(data.NameContains.ValueString())

	var raw json.RawMessage
	hooks := ListHooks[gjson.Result, scanListItemModel]{
		List: listFromDocument("list scans", func(ctx context.Context) (json.RawMessage, error) {
			return d.client.ListScans(ctx, pagination)
		}, "scans", &raw),
		Filter: func(_ context.Context, it gjson.Result) bool {
			if !data.FolderID.IsNull() && it.Get("folder_id").Int() != data.FolderID.ValueInt64() {
				return false
			}
			if !data.Status.IsNull() && it.Get("status").String() != data.Status.ValueString() {
				return false
			}
			return needle == "" || strings.Contains(strings.ToLower(it.Get("name").String()), needle)
		},
		KeyOf:     func(it gjson.Result) string { return it.Get("id").String() },
		MapToOut:  mapScanListItem,
		AttrTypes: scanListItemModel{}.AttributeTypes,
	}
	scans, diags := mapValueFromHooks(ctx, "scans", hooks, ListOptions{MaxItems: int(data.MaxItems.ValueInt64()), RespectContext: true})
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	data.Scans = scans
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
