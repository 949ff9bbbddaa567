// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/boolplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/tidwall/gjson"
)

var _ resource.Resource = (*folderResource)(nil)
var _ resource.ResourceWithConfigure = (*folderResource)(nil)
var _ resource.ResourceWithImportState = (*folderResource)(nil)
var _ resource.ResourceWithValidateConfig = (*folderResource)(nil)

// NewFolderResource returns the Terraform resource implementation for nessus_folder.
func NewFolderResource() resource.Resource { return &folderResource{} }

type folderResource struct {
	ServiceClient
}

func (r *folderResource) Metadata(_ context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_folder"
}

func (r *folderResource) Configure(_ context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		r.ServiceClient = sc
	}
}

func (r *folderResource) ValidateConfig(ctx context.Context, req resource.ValidateConfigRequest, resp *resource.ValidateConfigResponse) {
	var data folderResourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}
	if !data.Name.IsNull() && !data.Name.IsUnknown() && strings.TrimSpace(data.Name.ValueString()) == "" {
		resp.Diagnostics.AddAttributeError(path.Root("name"), "Invalid folder name", "The 'name' attribute must not be blank.")
	}
}

func (r *folderResource) Schema(_ context.Context, _ resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Manages a Nessus scan folder. Folders cannot be renamed through the API, so changing `name` replaces the folder.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
				MarkdownDescription: "The folder identifier (string form of `folder_id`).",
			},
			"folder_id": schema.Int64Attribute{
				Computed: true,
				PlanModifiers: []planmodifier.Int64{
					int64planmodifier.UseStateForUnknown(),
				},
				MarkdownDescription: "The numeric folder identifier.",
			},
			"name": schema.StringAttribute{
				Required:            true,
				MarkdownDescription: "The folder name (at most 255 characters).",
				Validators: []validator.String{
					stringvalidator.UTF8LengthBetween(1, 255),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"type": schema.StringAttribute{
				Computed: true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
				MarkdownDescription: "The folder type reported by Nessus (`custom`, `main` or `trash`).",
			},
			"custom": schema.BoolAttribute{
				Computed: true,
				PlanModifiers: []planmodifier.Bool{
					boolplanmodifier.UseStateForUnknown(),
				},
				MarkdownDescription: "Whether the folder was created by a user.",
			},
			"default_tag": schema.BoolAttribute{
				Computed: true,
				PlanModifiers: []planmodifier.Bool{
					boolplanmodifier.UseStateForUnknown(),
				},
				MarkdownDescription: "Whether the folder is the default folder.",
			},
		},
	}
}

func (r *folderResource) createFolder(ctx context.Context, p folderPayload) (json.RawMessage, error) {
	return r.client.CreateFolder(ctx, p.Name)
}

// getFolder lists folders and picks one; there is no single-folder endpoint.
func (r *folderResource) getFolder(ctx context.Context, id string) (json.RawMessage, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, invalidIDError(err)
	}
	list, err := r.client.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := findFolder(list, n)
	if !ok {
		return nil, notFoundError("folder", n)
	}
	return item, nil
}

func (r *folderResource) deleteFolder(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return invalidIDError(err)
	}
	_, err = r.client.DeleteFolder(ctx, n)
	return err
}

func (r *folderResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Create)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoCreate(
		ctx,
		func(ctx context.Context, dst *folderResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.Plan.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *folderResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(resp.State.Set(ctx, src)...)
			return d
		},
		saveCreatedID(&resp.State, "folder_id"),
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *folderResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoRead(
		ctx,
		func(ctx context.Context, dst *folderResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		func(ctx context.Context, src *folderResourceModel) diag.Diagnostics {
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
func (r *folderResource) Update(_ context.Context, _ resource.UpdateRequest, resp *resource.UpdateResponse) {
	resp.Diagnostics.AddError("Update not supported", "nessus_folder cannot be updated in place; change 'name' to replace it.")
}

func (r *folderResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Delete)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoDelete(
		ctx,
		func(ctx context.Context, dst *folderResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(req.State.Get(ctx, dst)...)
			return d
		},
		ensureWith(&resp.Diagnostics),
	)
	resp.Diagnostics.Append(diags...)
}

func (r *folderResource) ImportState(ctx context.Context, request resource.ImportStateRequest, response *resource.ImportStateResponse) {
	if !importNumericID(request.ID, &response.Diagnostics) {
		return
	}
	ctx, cancel := withTimeout(ctx, r.providerTimeouts.Read)
	defer cancel()

	runner := NewCRUDRunner(r.hooks())
	diags := runner.DoImport(
		ctx,
		request.ID,
		nil,
		func(ctx context.Context, src *folderResourceModel) diag.Diagnostics {
			var d diag.Diagnostics
			d.Append(response.State.Set(ctx, src)...)
			return d
		},
		ensureWith(&response.Diagnostics),
	)
	response.Diagnostics.Append(diags...)
}

// hooks returns the CRUD hooks for the generic runner.
func (r *folderResource) hooks() CRUDHooks[folderResourceModel, folderPayload, json.RawMessage] {
	return CRUDHooks[folderResourceModel, folderPayload, json.RawMessage]{
		BuildPayload: func(_ context.Context, st *folderResourceModel) (folderPayload, diag.Diagnostics) {
			return folderPayload{Name: strings.TrimSpace(st.Name.ValueString())}, nil
		},
		APICreate: r.createFolder,
		APIRead:   r.getFolder,
		APIDelete: r.deleteFolder,
		ExtractID: func(st *folderResourceModel) string { return st.ID.ValueString() },
		// Create answers {"id": N}; the folder list carries the rest.
		CreatedID: createdIDAt("id"),
		PostCreate: func(ctx context.Context, api json.RawMessage, _ *folderResourceModel) (json.RawMessage, error) {
			return r.getFolder(ctx, strconv.FormatInt(gjson.GetBytes(api, "id").Int(), 10))
		},
		MapToState:              mapFolderToModel,
		TreatDelete404AsSuccess: true,
	}
}
