// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/booldefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/boolplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/mapplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

var _ resource.Resource = (*operationResource)(nil)
var _ resource.ResourceWithConfigure = (*operationResource)(nil)
var _ resource.ResourceWithValidateConfig = (*operationResource)(nil)

// NewOperationResource returns the Terraform resource implementation for nessus_operation.
func NewOperationResource() resource.Resource { return &operationResource{} }

type operationResource struct {
	ServiceClient
}

type operationResourceModel struct {
	ID             types.String `tfsdk:"id"`
	Kind           types.String `tfsdk:"kind"`
	Action         types.String `tfsdk:"action"`
	Arguments      types.Map    `tfsdk:"arguments"`
	Triggers       types.Map    `tfsdk:"triggers"`
	ContinueOnFail types.Bool   `tfsdk:"continue_on_fail"`
	ResultJSON     types.String `tfsdk:"result_json"`
	Error          types.String `tfsdk:"error"`
}

// operationClock is replaced in tests.
var operationClock = time.Now

func (r *operationResource) Metadata(_ context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_operation"
}

func (r *operationResource) Configure(_ context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		r.ServiceClient = sc
	}
}

func kindNames() []string {
	var out []string
	for _, k := range nessus.Kinds() {
		out = append(out, string(k))
	}
	return out
}

func (r *operationResource) ValidateConfig(ctx context.Context, req resource.ValidateConfigRequest, resp *resource.ValidateConfigResponse) {
	var data operationResourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}
	if data.Kind.IsNull() || data.Kind.IsUnknown() || data.Action.IsNull() || data.Action.IsUnknown() {
		return
	}
	kind := nessus.ResourceKind(strings.ToLower(data.Kind.ValueString()))
	actions := nessus.Actions(kind)
	if actions == nil {
		return // kind validator reports it
	}
	if !slices.Contains(actions, data.Action.ValueString()) {
		resp.Diagnostics.AddAttributeError(
			path.Root("action"),
			"Unknown action",
			fmt.Sprintf("Unknown %s action %q. Valid actions: %s", kind, data.Action.ValueString(), strings.Join(actions, ", ")),
		)
	}
}

func (r *operationResource) Schema(_ context.Context, _ resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Runs one Nessus API operation when created (for example launching or stopping a scan) and stores the raw response. Changing any input runs the operation again; destroying the resource has no remote effect.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "Identifier of this invocation.",
			},
			"kind": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "Resource kind: `scan`, `policy`, `folder`, `plugin` or `session`.",
				Validators:          []validator.String{stringvalidator.OneOfCaseInsensitive(kindNames()...)},
				PlanModifiers:       []planmodifier.String{stringplanmodifier.RequiresReplace()},
			},
			"action": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "Action within the kind, e.g. `launch`, `stop`, `deleteMany`, `listPluginsInFamily`.",
				PlanModifiers:       []planmodifier.String{stringplanmodifier.RequiresReplace()},
			},
			"arguments": schema.MapAttribute{
				ElementType:         types.StringType,
				Optional:            true,
				MarkdownDescription: "Operation arguments. Keys match ignoring case, `_` and `-` (`scan_id` and `scanId` are the same). Lists are comma separated; `settings` takes a JSON object string.",
				PlanModifiers:       []planmodifier.Map{mapplanmodifier.RequiresReplace()},
			},
			"triggers": schema.MapAttribute{
				ElementType:         types.StringType,
				Optional:            true,
				MarkdownDescription: "Arbitrary values that re-run the operation when changed.",
				PlanModifiers:       []planmodifier.Map{mapplanmodifier.RequiresReplace()},
			},
			"continue_on_fail": schema.BoolAttribute{
				Optional:            true,
				Computed:            true,
				Default:             booldefault.StaticBool(false),
				MarkdownDescription: "Record a failure in `error` instead of failing the apply. Defaults to false.",
				PlanModifiers:       []planmodifier.Bool{boolplanmodifier.RequiresReplace()},
			},
			"result_json": schema.StringAttribute{
				Computed:            true,
				Sensitive:           true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "The operation response as compact JSON. For `scan download` this holds the base64 file content, so the value is sensitive.",
			},
			"error": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "The failure message when `continue_on_fail` is set and the operation failed.",
			},
		},
	}
}

// operationArgs converts the string map into dispatcher arguments.
func operationArgs(ctx context.Context, m types.Map) (nessus.Args, diag.Diagnostics) {
	args := nessus.Args{}
	if m.IsNull() || m.IsUnknown() {
		return args, nil
	}
	var raw map[string]string
	diags := m.ElementsAs(ctx, &raw, false)
	for k, v := range raw {
		args[k] = v
	}
	return args, diags
}

func (r *operationResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Create)
	defer cancel()

	var data operationResourceModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	args, d := operationArgs(ctx, data.Arguments)
	resp.Diagnostics.Append(d...)
	if resp.Diagnostics.HasError() {
		return
	}

	kind := nessus.ResourceKind(strings.ToLower(data.Kind.ValueString()))
	action := data.Action.ValueString()
	op := fmt.Sprintf("%s %s", kind, action)
	tflog.Info(ctx, "running nessus operation", map[string]interface{}{"kind": string(kind), "action": action})

	data.ID = types.StringValue(fmt.Sprintf("%s/%s/%s", kind, action, strconv.FormatInt(operationClock().UnixNano(), 10)))
	data.ResultJSON = types.StringNull()
	data.Error = types.StringNull()

	result, err := r.client.Do(ctx, nessus.Request{Kind: kind, Action: action, Args: args})
	if err != nil {
		if !data.ContinueOnFail.ValueBool() {
			EnsureSuccessOrDiagWithOptions(ctx, op, err, &resp.Diagnostics, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true})
			return
		}
		tflog.Warn(ctx, "nessus operation failed; continuing", map[string]interface{}{"error": RedactSecrets(err.Error())})
		data.Error = types.StringValue(RedactSecrets(err.Error()))
		resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
		return
	}

	compact, cerr := compactJSON(result)
	if cerr != nil {
		resp.Diagnostics.AddError("Invalid operation result", fmt.Sprintf("%s returned a document that could not be normalized: %v", op, cerr))
		return
	}
	data.ResultJSON = types.StringValue(compact)
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// Read keeps the recorded result; an operation is not a remote object.
func (r *operationResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data operationResourceModel
	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// Update is never planned: every input requires replacement.
func (r *operationResource) Update(_ context.Context, _ resource.UpdateRequest, resp *resource.UpdateResponse) {
	resp.Diagnostics.AddError("Update not supported", "nessus_operation re-runs on any change; it cannot be updated in place.")
}

func (r *operationResource) Delete(ctx context.Context, _ resource.DeleteRequest, _ *resource.DeleteResponse) {
	tflog.Debug(ctx, "removing nessus_operation from state; no remote call")
}
