// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/devops-wiz/terraform-provider-nessus/internal/provider/constants"
	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/booldefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/boolplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/tidwall/gjson"
)

var _ resource.Resource = (*scanExportResource)(nil)
var _ resource.ResourceWithConfigure = (*scanExportResource)(nil)
var _ resource.ResourceWithImportState = (*scanExportResource)(nil)

// NewScanExportResource returns the Terraform resource implementation for nessus_scan_export.
func NewScanExportResource() resource.Resource { return &scanExportResource{} }

type scanExportResource struct {
	ServiceClient
}

func (r *scanExportResource) Metadata(_ context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_scan_export"
}

func (r *scanExportResource) Configure(_ context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		r.ServiceClient = sc
	}
}

func (r *scanExportResource) Schema(_ context.Context, _ resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Requests an export of scan results. Nessus prepares the file asynchronously; `status` reflects the job state at the last refresh and the file is only downloaded once it is `ready`. Destroying the resource only removes it from state.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "Composite identifier `<scan_id>/<file_id>`.",
			},
			"scan_id": schema.Int64Attribute{
				Required:            true,
				MarkdownDescription: "The scan to export.",
				Validators:          []validator.Int64{int64validator.AtLeast(1)},
				PlanModifiers:       []planmodifier.Int64{int64planmodifier.RequiresReplace()},
			},
			"format": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "Export format: `nessus`, `pdf`, `html`, `csv` or `db` (case-insensitive).",
				Validators:          []validator.String{stringvalidator.OneOfCaseInsensitive(nessus.ExportFormats...)},
				PlanModifiers:       []planmodifier.String{stringplanmodifier.RequiresReplace()},
			},
			"history_id": schema.Int64Attribute{
				Optional:            true,
				MarkdownDescription: "Export a specific scan run instead of the latest one.",
				Validators:          []validator.Int64{int64validator.AtLeast(1)},
				PlanModifiers:       []planmodifier.Int64{int64planmodifier.RequiresReplace()},
			},
			"download": schema.BoolAttribute{
				Optional:            true,
				Computed:            true,
				Default:             booldefault.StaticBool(false),
				MarkdownDescription: "Download the file into `content_base64` once the export is ready. Defaults to false.",
				PlanModifiers:       []planmodifier.Bool{boolplanmodifier.RequiresReplace()},
			},
			"file_id": schema.Int64Attribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.Int64{int64planmodifier.UseStateForUnknown()},
				MarkdownDescription: "Identifier of the export file.",
			},
			"status": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Export job status (`loading` or `ready`).",
			},
			"ready": schema.BoolAttribute{
				Computed:            true,
				MarkdownDescription: "Whether the export file can be downloaded.",
			},
			"size": schema.Int64Attribute{
				Computed:            true,
				MarkdownDescription: "Size in bytes of the downloaded file.",
			},
			"content_base64": schema.StringAttribute{
				Computed:            true,
				Sensitive:           true,
				MarkdownDescription: "Base64 encoded export file, set when `download` is true and the export is ready.",
			},
		},
	}
}

func (r *scanExportResource) exportScan(ctx context.Context, p scanExportPayload) (json.RawMessage, error) {
	return r.client.ExportScan(ctx, p.ScanID, p.Format, p.HistoryID)
}

func (r *scanExportResource) getStatus(ctx context.Context, id string) (json.RawMessage, error) {
	scanID, fileID, err := parseExportID(id)
	if err != nil {
		return nil, invalidIDError(err)
	}
	return r.client.GetScanExportStatus(ctx, scanID, fileID)
}

// maybeDownload fetches the file once the export is ready and download was requested.
func (r *scanExportResource) maybeDownload(ctx context.Context, status json.RawMessage, st *scanExportResourceModel) (json.RawMessage, error) {
	if !st.Download.ValueBool() || gjson.GetBytes(status, "status").String() != constants.ExportStatusReady {
		return status, nil
	}
	if !st.ContentBase64.IsNull() && !st.ContentBase64.IsUnknown() {
		return status, nil
	}
	data, err := r.client.DownloadScanExport(ctx, st.ScanID.ValueInt64(), st.FileID.ValueInt64())
	if err != nil {
		return nil, err
	}
	st.ContentBase64 = types.StringValue(base64.StdEncoding.EncodeToString(data))
	st.Size = types.Int64Value(int64(len(data)))
	tflog.Debug(ctx, "downloaded scan export", map[string]interface{}{"scan_id": st.ScanID.ValueInt64(), "file_id": st.FileID.ValueInt64(), "size": len(data)})
	return status, nil
}

func (r *scanExportResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Create)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoCreate(
		ctx,
		func(ctx context.Context, dst *scanExportResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.Plan.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *scanExportResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(resp.State.Set(ctx, src)...)
			return d
		},
		nil,
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *scanExportResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoRead(
		ctx,
		func(ctx context.Context, dst *scanExportResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *scanExportResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(resp.State.Set(ctx, src)...)
			return d
		},
		stateRemover(resp),
		ensureWith(&resp.Diagnostics),
		nessus.IsNotFound,
	)
	resp.Diagnostics.Append(diags...)
}

// Update is never planned: every configurable attribute requires replacement.
func (r *scanExportResource) Update(_ context.Context, _ resource.UpdateRequest, resp *resource.UpdateResponse) {
	resp.Diagnostics.AddError("Update not supported", "nessus_scan_export cannot be updated in place; changes request a new export.")
}

// Delete drops the export from state; Nessus expires export files on its own.
func (r *scanExportResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoDelete(
		ctx,
		func(ctx context.Context, dst *scanExportResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *scanExportResource) ImportState(ctx context.Context, request resource.ImportStateRequest, response *resource.ImportStateResponse) {
	scanID, fileID, err := parseExportID(request.ID)
	if err != nil {
		response.Diagnostics.AddAttributeError(path.Root("id"), "Invalid import identifier", err.Error())
		return
	}
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoImport(
		ctx,
		request.ID,
		func(st *scanExportResourceModel) {
			st.ScanID = types.Int64Value(scanID)
			st.FileID = types.Int64Value(fileID)
		},
		func(ctx context.Context, src *scanExportResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(response.State.Set(ctx, src)...)
			return d
		},
		ensureWith(&response.Diagnostics),
	)
	response.Diagnostics.Append(diags...)
}

// hooks returns the CRUD hooks for the generic runner.
func (r *scanExportResource) hooks() CRUDHooks[scanExportResourceModel, scanExportPayload, json.RawMessage] {
	return CRUDHooks[scanExportResourceModel, scanExportPayload, json.RawMessage]{
		BuildPayload: func(_ context.Context, st *scanExportResourceModel) (scanExportPayload, diag.Diagnostics) {
			return scanExportPayload{
				ScanID:    st.ScanID.ValueInt64(),
				Format:    st.Format.ValueString(),
				HistoryID: st.HistoryID.ValueInt64(),
			}, nil
		},
		APICreate: r.exportScan,
		APIRead:   r.getStatus,
		APIDelete: func(context.Context, string) error { return nil },
		ExtractID: func(st *scanExportResourceModel) string { return st.ID.ValueString() },
		// Export answers {"file": N, "token": ...}; the job status comes next.
		PostCreate: func(ctx context.Context, api json.RawMessage, st *scanExportResourceModel) (json.RawMessage, error) {
			st.FileID = types.Int64Value(gjson.GetBytes(api, "file").Int())
			st.ContentBase64 = types.StringNull()
			st.Size = types.Int64Null()
			status, err := r.client.GetScanExportStatus(ctx, st.ScanID.ValueInt64(), st.FileID.ValueInt64())
			if err != nil {
				return nil, err
			}
			return r.maybeDownload(ctx, status, st)
		},
		PostRead:                r.maybeDownload,
		MapToState:              mapExportStatusToModel,
		TreatDelete404AsSuccess: true,
	}
}
