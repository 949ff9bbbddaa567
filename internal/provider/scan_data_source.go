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

var _ datasource.DataSource = (*scanDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*scanDataSource)(nil)

// NewScanDataSource returns the Terraform data source implementation for nessus_scan.
func NewScanDataSource() datasource.DataSource { return &scanDataSource{} }

type scanDataSource struct {
	ServiceClient
}

type scanDataSourceModel struct {
	ScanID types.Int64 `tfsdk:"scan_id"`

	Name               types.String `tfsdk:"name"`
	Status             types.String `tfsdk:"status"`
	Targets            types.List   `tfsdk:"targets"`
	FolderID           types.Int64  `tfsdk:"folder_id"`
	UUID               types.String `tfsdk:"uuid"`
	Owner              types.String `tfsdk:"owner"`
	PolicyName         types.String `tfsdk:"policy_name"`
	ScannerName        types.String `tfsdk:"scanner_name"`
	HostCount          types.Int64  `tfsdk:"host_count"`
	VulnerabilityCount types.Int64  `tfsdk:"vulnerability_count"`
	HistoryIDs         types.List   `tfsdk:"history_ids"`
	ResultJSON         types.String `tfsdk:"result_json"`
}

func (d *scanDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_scan"
}

func (d *scanDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Reads the details of one Nessus scan.",
		Attributes: map[string]schema.Attribute{
			"scan_id": schema.Int64Attribute{
				Required:            true,
				MarkdownDescription: "The scan identifier.",
				Validators:          []validator.Int64{int64validator.AtLeast(1)},
			},
			"name":                schema.StringAttribute{Computed: true, MarkdownDescription: "Scan name."},
			"status":              schema.StringAttribute{Computed: true, MarkdownDescription: "Scan status."},
			"targets":             schema.ListAttribute{Computed: true, ElementType: types.StringType, MarkdownDescription: "Configured targets."},
			"folder_id":           schema.Int64Attribute{Computed: true, MarkdownDescription: "Folder holding the scan."},
			"uuid":                schema.StringAttribute{Computed: true, MarkdownDescription: "UUID of the latest run."},
			"owner":               schema.StringAttribute{Computed: true, MarkdownDescription: "Scan owner."},
			"policy_name":         schema.StringAttribute{Computed: true, MarkdownDescription: "Name of the policy the scan uses."},
			"scanner_name":        schema.StringAttribute{Computed: true, MarkdownDescription: "Scanner that runs the scan."},
			"host_count":          schema.Int64Attribute{Computed: true, MarkdownDescription: "Number of hosts in the latest results."},
			"vulnerability_count": schema.Int64Attribute{Computed: true, MarkdownDescription: "Number of vulnerability entries in the latest results."},
			"history_ids":         schema.ListAttribute{Computed: true, ElementType: types.Int64Type, MarkdownDescription: "History identifiers of past runs, usable as `history_id` on `nessus_scan_export`."},
			"result_json":         schema.StringAttribute{Computed: true, MarkdownDescription: "The raw details response as compact JSON."},
		},
	}
}

func (d *scanDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *scanDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	var data scanDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	raw, err := d.client.GetScanDetails(ctx, data.ScanID.ValueInt64())
	if !EnsureSuccessOrDiagWithOptions(ctx, "read scan details", err, &resp.Diagnostics, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		return
	}

	doc := gjson.ParseBytes(raw)
	info := doc.Get("info")
	data.Name = gjsonString(info, "name")
	data.Status = gjsonString(info, "status")
	data.FolderID = gjsonInt64(info, "folder_id")
	data.UUID = gjsonString(info, "uuid")
	data.Owner = gjsonString(info, "owner")
	data.PolicyName = gjsonString(info, "policy")
	data.ScannerName = gjsonString(info, "scanner_name")
	data.HostCount = types.Int64Value(int64(len(doc.Get("hosts").Array())))
	data.VulnerabilityCount = types.Int64Value(int64(len(doc.Get("vulnerabilities").Array())))

	var d2 diag.Diagnostics
	data.Targets, d2 = types.ListValueFrom(ctx, types.StringType, splitTargets(info.Get("targets").String()))
	resp.Diagnostics.Append(d2...)

	var history []int64
	for _, h := range doc.Get("history").Array() {
		history = append(history, h.Get("history_id").Int())
	}
	data.HistoryIDs, d2 = types.ListValueFrom(ctx, types.Int64Type, history)
	resp.Diagnostics.Append(d2...)
	data.ResultJSON = resultJSONValue(raw, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}
