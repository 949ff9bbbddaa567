// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

var _ datasource.DataSource = (*sessionDataSource)(nil)
var _ datasource.DataSourceWithConfigure = (*sessionDataSource)(nil)

// NewSessionDataSource returns the Terraform data source implementation for nessus_session.
func NewSessionDataSource() datasource.DataSource { return &sessionDataSource{} }

type sessionDataSource struct {
	ServiceClient
}

type sessionDataSourceModel struct {
	ID          types.Int64  `tfsdk:"id"`
	Username    types.String `tfsdk:"username"`
	Name        types.String `tfsdk:"name"`
	Email       types.String `tfsdk:"email"`
	Type        types.String `tfsdk:"type"`
	Permissions types.Int64  `tfsdk:"permissions"`
	LastLogin   types.Int64  `tfsdk:"last_login"`
	ResultJSON  types.String `tfsdk:"result_json"`
}

func (d *sessionDataSource) Metadata(_ context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_session"
}

func (d *sessionDataSource) Schema(_ context.Context, _ datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Describes the user that owns the configured API keys.",
		Attributes: map[string]schema.Attribute{
			"id":          schema.Int64Attribute{Computed: true, MarkdownDescription: "User identifier."},
			"username":    schema.StringAttribute{Computed: true, MarkdownDescription: "Login name."},
			"name":        schema.StringAttribute{Computed: true, MarkdownDescription: "Display name."},
			"email":       schema.StringAttribute{Computed: true, MarkdownDescription: "Email address."},
			"type":        schema.StringAttribute{Computed: true, MarkdownDescription: "Account type, e.g. `local`."},
			"permissions": schema.Int64Attribute{Computed: true, MarkdownDescription: "Permission level (128 is system administrator)."},
			"last_login":  schema.Int64Attribute{Computed: true, MarkdownDescription: "Unix time of the last login; null when the account never logged in."},
			"result_json": schema.StringAttribute{Computed: true, MarkdownDescription: "The raw session response as compact JSON."},
		},
	}
}

func (d *sessionDataSource) Configure(_ context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if sc, ok := configureServiceClient(req.ProviderData, &resp.Diagnostics); ok {
		d.ServiceClient = sc
	}
}

func (d *sessionDataSource) Read(ctx context.Context, _ datasource.ReadRequest, resp *datasource.ReadResponse) {
	ctx, cancel := withTimeout(ctx, d.providerTimeouts.Read)
	defer cancel()

	raw, err := d.client.GetSessionDetails(ctx)
	if !EnsureSuccessOrDiagWithOptions(ctx, "read session", err, &resp.Diagnostics, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		return
	}

	data := mapSessionToModel(raw, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	setDataSourceState(ctx, func(ctx context.Context) diag.Diagnostics { return resp.State.Set(ctx, &data) }, &resp.Diagnostics)
}

// mapSessionToModel reads the GET /session document.
func mapSessionToModel(raw json.RawMessage, diags *diag.Diagnostics) sessionDataSourceModel {
	doc := gjson.ParseBytes(raw)
	return sessionDataSourceModel{
		ID:          gjsonInt64(doc, "id"),
		Username:    gjsonString(doc, "username"),
		Name:        gjsonString(doc, "name"),
		Email:       gjsonString(doc, "email"),
		Type:        gjsonString(doc, "type"),
		Permissions: gjsonInt64(doc, "permissions"),
		// Nessus reports 0 for accounts that never logged in.
		LastLogin:  int64OrNull(doc.Get("lastlogin").Int()),
		ResultJSON: resultJSONValue(raw, diags),
	}
}
