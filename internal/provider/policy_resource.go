// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ resource.Resource = (*policyResource)(nil)
var _ resource.ResourceWithConfigure = (*policyResource)(nil)
var _ resource.ResourceWithImportState = (*policyResource)(nil)
var _ resource.ResourceWithValidateConfig = (*policyResource)(nil)

// NewPolicyResource returns the Terraform resource implementation for nessus_policy.
func NewPolicyResource() resource.Resource { return &policyResource{} }

type policyResource struct {
	ServiceClient
}

func (r *policyResource) Metadata(_ context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_policy"
}

func (r *policyResource) Configure(_ context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		r.ServiceClient = sc
	}
}

func (r *policyResource) ValidateConfig(ctx context.Context, req resource.ValidateConfigRequest, resp *resource.ValidateConfigResponse) {
	var data policyResourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}
	if data.SettingsJSON.IsNull() || data.SettingsJSON.IsUnknown() {
		return
	}
	if _, err := decodeSettings(data.SettingsJSON.ValueString()); err != nil {
		resp.Diagnostics.AddAttributeError(path.Root("settings_json"), "Invalid settings_json", err.Error())
	}
}

func (r *policyResource) Schema(_ context.Context, _ resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Manages a Nessus scan policy built from a policy template.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.String{stringplanmodifier.UseStateForUnknown()},
				MarkdownDescription: "The policy identifier (string form of `policy_id`).",
			},
			"policy_id": schema.Int64Attribute{
				Computed:            true,
				PlanModifiers:       []planmodifier.Int64{int64planmodifier.UseStateForUnknown()},
				MarkdownDescription: "The numeric policy identifier.",
			},
			"template_uuid": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "UUID of the policy template (see the `nessus_templates` data source).",
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
				PlanModifiers:       []planmodifier.String{stringplanmodifier.RequiresReplace()},
			},
			"name": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "The policy name.",
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
			},
			"description": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "The policy description.",
			},
			"settings_json": schema.StringAttribute{
				Optional:            true,
				MarkdownDescription: "Additional editor settings as a JSON object (e.g., `jsonencode({ scan_webapps = \"yes\" })`). `name` and `description` take precedence over the same keys here.",
			},
		},
	}
}

// decodeSettings parses settings_json into the settings map sent to the API.
func decodeSettings(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var settings map[string]any
	if err := json.Unmarshal([]byte(raw), &settings); err != nil || settings == nil {
		return nil, &nessus.Error{Kind: nessus.InvalidArgument, Message: "settings must be a JSON object", Err: err}
	}
	return settings, nil
}

func (r *policyResource) buildPayload(_ context.Context, st *policyResourceModel) (nessus.PolicyPayload, diag.Diagnostics) {
	var diags diag.Diagnostics
	settings, err := decodeSettings(st.SettingsJSON.ValueString())
	if err != nil {
		diags.AddAttributeError(path.Root("settings_json"), "Invalid settings_json", err.Error())
		return nessus.PolicyPayload{}, diags
	}
	return nessus.PolicyPayload{
		TemplateUUID: st.TemplateUUID.ValueString(),
		Name:         st.Name.ValueString(),
		Description:  st.Description.ValueString(),
		Settings:     settings,
	}, diags
}

func (r *policyResource) createPolicy(ctx context.Context, p nessus.PolicyPayload) (json.RawMessage, error) {
	return r.client.CreatePolicy(ctx, p)
}

func (r *policyResource) getPolicy(ctx context.Context, id string) (json.RawMessage, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, invalidIDError(err)
	}
	return r.client.GetPolicyDetails(ctx, n)
}

func (r *policyResource) updatePolicy(ctx context.Context, id string, p nessus.PolicyPayload) (json.RawMessage, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, invalidIDError(err)
	}
	return r.client.UpdatePolicy(ctx, n, p)
}

func (r *policyResource) deletePolicy(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return invalidIDError(err)
	}
	_, err = r.client.DeletePolicy(ctx, n)
	return err
}

func (r *policyResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Create)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoCreate(
		ctx,
		func(ctx context.Context, dst *policyResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.Plan.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *policyResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(resp.State.Set(ctx, src)...)
			return d
		},
		saveCreatedID(&resp.State, "policy_id"),
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *policyResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoRead(
		ctx,
		func(ctx context.Context, dst *policyResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *policyResourceModel) diag.Diagnostics {
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

func (r *policyResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Update)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoUpdate(
		ctx,
		func(ctx context.Context, dst *policyResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.Plan.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *policyResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(resp.State.Set(ctx, src)...)
			return d
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *policyResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Delete)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoDelete(
		ctx,
		func(ctx context.Context, dst *policyResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *policyResource) ImportState(ctx context.Context, request resource.ImportStateRequest, response *resource.ImportStateResponse) {
	if !importNumericID(request.ID, &response.Diagnostics) {
		return
	}
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoImport(
		ctx,
		request.ID,
		func(st *policyResourceModel) { st.ID = types.StringValue(request.ID) },
		func(ctx context.Context, src *policyResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(response.State.Set(ctx, src)...)
			return d
		},
		ensureWith(&response.Diagnostics),
	)
	response.Diagnostics.Append(diags...)
}

// hooks returns the CRUD hooks for the generic runner.
func (r *policyResource) hooks() CRUDHooks[policyResourceModel, nessus.PolicyPayload, json.RawMessage] {
	return CRUDHooks[policyResourceModel, nessus.PolicyPayload, json.RawMessage]{
		BuildPayload: r.buildPayload,
		APICreate:    r.createPolicy,
		APIRead:      r.getPolicy,
		APIUpdate:    r.updatePolicy,
		APIDelete:    r.deletePolicy,
		ExtractID:    func(st *policyResourceModel) string { return st.ID.ValueString() },
		// Create answers {"policy_id": N, "policy_name": ...}.
		CreatedID: createdIDAt("policy_id"),
		PostCreate: func(ctx context.Context, api json.RawMessage, st *policyResourceModel) (json.RawMessage, error) {
			st.ID = types.StringValue(strconv.FormatInt(gjson.GetBytes(api, "policy_id").Int(), 10))
			return r.getPolicy(ctx, st.ID.ValueString())
		},
		// Update answers an empty object.
		PostUpdate: func(ctx context.Context, _ json.RawMessage, st *policyResourceModel) (json.RawMessage, error) {
			return r.getPolicy(ctx, st.ID.ValueString())
		},
		MapToState:              mapPolicyDetailsToModel,
		TreatDelete404AsSuccess: true,
	}
}
