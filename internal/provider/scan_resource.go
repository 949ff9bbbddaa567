// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/booldefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/boolplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/listplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/tidwall/gjson"
)

var _ resource.Resource = (*scanResource)(nil)
var _ resource.ResourceWithConfigure = (*scanResource)(nil)
var _ resource.ResourceWithImportState = (*scanResource)(nil)
var _ resource.ResourceWithValidateConfig = (*scanResource)(nil)

// NewScanResource returns the Terraform resource implementation for nessus_scan.
func NewScanResource() resource.Resource { return &scanResource{} }

type scanResource struct {
	ServiceClient
}

func (r *scanResource) Metadata(_ context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_scan"
}

func (r *scanResource) Configure(_ context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		r.ServiceClient = sc
	}
}

func (r *scanResource) ValidateConfig(ctx context.Context, req resource.ValidateConfigRequest, resp *resource.ValidateConfigResponse) {
	var data scanResourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	targets, deferEval := getKnownStrings(ctx, data.Targets, "targets", &resp.Diagnostics)
	if !deferEval && !data.Targets.IsNull() && len(joinTargets(targets)) == 0 {
		resp.Diagnostics.AddAttributeError(path.Root("targets"), "Missing scan targets", "Target list is required")
	}

	if !data.AltTargets.IsNull() && !data.AltTargets.IsUnknown() && !data.Launch.IsUnknown() && !data.Launch.ValueBool() {
		resp.Diagnostics.AddAttributeWarning(path.Root("alt_targets"), "alt_targets ignored", "alt_targets only applies when launch = true.")
	}
}

func (r *scanResource) Schema(_ context.Context, _ resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Manages a Nessus scan definition. Scans cannot be reconfigured in place; any change to an input replaces the scan.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "The scan identifier (string form of `scan_id`).",
			},
			"scan_id": schema.Int64Attribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.Int64{int64planmodifier.UseStateForUnknown()},
				MarkdownDescription: "The numeric scan identifier.",
			},
			"name": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "The scan name.",
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
				PlanModifiers:       []planmodifier.String{stringplanmodifier.RequiresReplace()},
			},
			"targets": schema.ListAttribute{
				ElementType:         types.StringType,
				Required:            true,
				MarkdownDescription: "Hosts, ranges or CIDRs to scan. Sent to Nessus as one comma separated list.",
				Validators:          []validator.List{listvalidator.SizeAtLeast(1)},
				PlanModifiers:       []planmodifier.List{listplanmodifier.RequiresReplace()},
			},
			"template_uuid": schema.StringAttribute{
				Optional:            true,
				Computed:            true,
				MarkdownDescription: "Scan template (or policy) UUID. When omitted, the server's basic network scan template is used.",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
					stringplanmodifier.RequiresReplaceIfConfigured(),
				},
			},
			"enabled": schema.BoolAttribute{
				Optional:            true,
				Computed:            true,
				Default:             booldefault.StaticBool(false),
				MarkdownDescription: "Whether the scan schedule is enabled. Defaults to false.",
				PlanModifiers:       []planmodifier.Bool{boolplanmodifier.RequiresReplace()},
			},
			"folder_id": schema.Int64Attribute{
				Optional:            true,
				Computed:            true,
				MarkdownDescription: "Folder that holds the scan. When omitted, Nessus uses its default folder.",
				Validators:          []validator.Int64{int64validator.AtLeast(1)},
				PlanModifiers: []planmodifier.Int64{
					int64planmodifier.UseStateForUnknown(),
					int64planmodifier.RequiresReplaceIfConfigured(),
				},
			},
			"description": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Free text description stored with the scan.",
				PlanModifiers:       []planmodifier.String{stringplanmodifier.RequiresReplace()},
			},
			"launch": schema.BoolAttribute{
				Optional:            true,
				Computed:            true,
				Default:             booldefault.StaticBool(false),
				MarkdownDescription: "Launch the scan once right after it is created. Defaults to false.",
				PlanModifiers:       []planmodifier.Bool{boolplanmodifier.RequiresReplace()},
			},
			"alt_targets": schema.ListAttribute{
				ElementType:         types.StringType,
				Optional:            true,
				MarkdownDescription: "Targets that override `targets` for the launch triggered by `launch`.",
				PlanModifiers:       []planmodifier.List{listplanmodifier.RequiresReplace()},
			},
			"status": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Current scan status (e.g., `empty`, `running`, `completed`).",
			},
			"uuid": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "UUID of the latest scan run, when any.",
			},
			"launch_uuid": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "UUID returned by the launch triggered by `launch`.",
			},
			"owner": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "Username of the scan owner.",
			},
			"scanner_name": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "Name of the scanner that runs the scan.",
			},
		},
	}
}

// splitTargets splits a comma or whitespace separated target string.
func splitTargets(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == ' ' || r == '\t' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// joinTargets renders configured targets as the text_targets value.
func joinTargets(targets []string) string {
	var flat []string
	for _, t := range targets {
		flat = append(flat, splitTargets(t)...)
	}
	return strings.Join(uniqueStrings(flat), ",")
}

func (r *scanResource) buildPayload(ctx context.Context, st *scanResourceModel) (nessus.ScanCreatePayload, diag.Diagnostics) {
	var diags diag.Diagnostics
	targets, _ := getKnownStrings(ctx, st.Targets, "targets", &diags)
	if diags.HasError() {
		return nessus.ScanCreatePayload{}, diags
	}

	p := nessus.ScanCreatePayload{
		TemplateUUID: st.TemplateUUID.ValueString(),
		Name:         st.Name.ValueString(),
		Targets:      joinTargets(targets),
		Enabled:      st.Enabled.ValueBool(),
		FolderID:     st.FolderID.ValueInt64(),
		Description:  st.Description.ValueString(),
	}

	if st.TemplateUUID.IsNull() || st.TemplateUUID.IsUnknown() || p.TemplateUUID == "" {
		templates, err := r.client.ListScanTemplates(ctx)
		if err != nil {
			summary, detail := ErrorFromNessus("list scan templates", err)
			diags.AddAttributeError(path.Root("template_uuid"), summary, detail)
			return p, diags
		}
		p.TemplateUUID = nessus.DefaultScanTemplate(templates)
		tflog.Debug(ctx, "resolved default scan template", map[string]interface{}{"template_uuid": p.TemplateUUID})
	}
	st.TemplateUUID = stringOrNull(p.TemplateUUID)
	return p, diags
}

func (r *scanResource) createScan(ctx context.Context, p nessus.ScanCreatePayload) (json.RawMessage, error) {
	return r.client.CreateScan(ctx, p)
}

func (r *scanResource) getScan(ctx context.Context, id string) (json.RawMessage, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, invalidIDError(err)
	}
	return r.client.GetScanDetails(ctx, n)
}

func (r *scanResource) deleteScan(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return invalidIDError(err)
	}
	_, err = r.client.DeleteScan(ctx, n)
	return err
}

// postCreate launches the new scan when requested and fetches its details.
func (r *scanResource) postCreate(ctx context.Context, api json.RawMessage, st *scanResourceModel) (json.RawMessage, error) {
	id := gjson.GetBytes(api, "scan.id").Int()
	st.ScanID = types.Int64Value(id)
	st.ID = types.StringValue(strconv.FormatInt(id, 10))
	st.LaunchUUID = types.StringNull()

	if st.Launch.ValueBool() {
		var diags diag.Diagnostics
		alt, _ := getKnownStrings(ctx, st.AltTargets, "alt_targets", &diags)
		launched, err := r.client.LaunchScan(ctx, id, uniqueStrings(alt))
		if err != nil {
			return nil, err
		}
		st.LaunchUUID = stringOrNull(gjson.GetBytes(launched, "scan_uuid").String())
		tflog.Info(ctx, "launched scan", map[string]interface{}{"scan_id": id})
	}
	return r.client.GetScanDetails(ctx, id)
}

func (r *scanResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Create)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoCreate(
		ctx,
		func(ctx context.Context, dst *scanResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.Plan.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *scanResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(resp.State.Set(ctx, src)...)
			return d
		},
		saveCreatedID(&resp.State, "scan_id"),
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *scanResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoRead(
		ctx,
		func(ctx context.Context, dst *scanResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *scanResourceModel) diag.Diagnostics {
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
func (r *scanResource) Update(_ context.Context, _ resource.UpdateRequest, resp *resource.UpdateResponse) {
	resp.Diagnostics.AddError("Update not supported", "nessus_scan cannot be updated in place; changes replace the scan.")
}

func (r *scanResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Delete)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoDelete(
		ctx,
		func(ctx context.Context, dst *scanResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *scanResource) ImportState(ctx context.Context, request resource.ImportStateRequest, response *resource.ImportStateResponse) {
	if !importNumericID(request.ID, &response.Diagnostics) {
		return
	}
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoImport(
		ctx,
		request.ID,
		func(st *scanResourceModel) {
			st.ID = types.StringValue(request.ID)
			st.Targets = types.ListNull(types.StringType)
			st.AltTargets = types.ListNull(types.StringType)
		},
		func(ctx context.Context, src *scanResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(response.State.Set(ctx, src)...)
			return d
		},
		ensureWith(&response.Diagnostics),
	)
	response.Diagnostics.Append(diags...)
}

// hooks returns the CRUD hooks for the generic runner.
func (r *scanResource) hooks() CRUDHooks[scanResourceModel, nessus.ScanCreatePayload, json.RawMessage] {
	return CRUDHooks[scanResourceModel, nessus.ScanCreatePayload, json.RawMessage]{
		BuildPayload:            r.buildPayload,
		APICreate:               r.createScan,
		APIRead:                 r.getScan,
		APIDelete:               r.deleteScan,
		ExtractID:               func(st *scanResourceModel) string { return st.ID.ValueString() },
		CreatedID:               createdIDAt("scan.id"),
		PostCreate:              r.postCreate,
		MapToState:              mapScanDetailsToModel,
		TreatDelete404AsSuccess: true,
	}
}
