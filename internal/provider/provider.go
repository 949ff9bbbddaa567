// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Ensure NessusProvider satisfies various provider interfaces.
var _ provider.Provider = &NessusProvider{}
var _ provider.ProviderWithValidateConfig = &NessusProvider{}

// NessusProvider defines the provider implementation.
type NessusProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
	// client is the Nessus API client shared by resources and data sources.
	client *nessus.Client
	// providerTimeouts are the optional per-operation deadlines.
	providerTimeouts opTimeouts
}

// NessusProviderModel describes the provider data model.
type NessusProviderModel struct {
	// Base Configuration
	URL types.String `tfsdk:"url"`

	// API key authentication
	AccessKey types.String `tfsdk:"access_key"`
	SecretKey types.String `tfsdk:"secret_key"`

	// HTTP
	AllowSelfSigned    types.Bool  `tfsdk:"allow_self_signed"`
	HTTPTimeoutSeconds types.Int64 `tfsdk:"http_timeout_seconds"`

	OperationTimeouts *OperationTimeoutsModel `tfsdk:"operation_timeouts"`
}

func (p *NessusProvider) Metadata(_ context.Context, _ provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "nessus"
	resp.Version = p.version
}

func (p *NessusProvider) Schema(_ context.Context, _ provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Nessus provider for managing scans, policies and folders on a Nessus scanner through its REST API.",
		Attributes: map[string]schema.Attribute{
			attrURL: schema.StringAttribute{
				MarkdownDescription: "Base URL of the Nessus API (e.g., `https://nessus.example.com:8834`). Can also be set with `NESSUS_URL` (alias `NESSUS_ENDPOINT`).",
				Optional:            true,
			},
			attrAccessKey: schema.StringAttribute{
				MarkdownDescription: "API access key. Can also be set with `NESSUS_ACCESS_KEY`.",
				Optional:            true,
				Sensitive:           true,
			},
			attrSecretKey: schema.StringAttribute{
				MarkdownDescription: "API secret key. Can also be set with `NESSUS_SECRET_KEY`.",
				Optional:            true,
				Sensitive:           true,
			},
			attrAllowSelfSigned: schema.BoolAttribute{
				MarkdownDescription: "Skip TLS certificate verification, for scanners using the default self-signed certificate. Can also be set with `NESSUS_ALLOW_SELF_SIGNED` (alias `NESSUS_INSECURE`). Defaults to false.",
				Optional:            true,
			},
			attrHTTPTimeoutSeconds: schema.Int64Attribute{
				MarkdownDescription: "Timeout in seconds for a single HTTP request. Can also be set with `NESSUS_HTTP_TIMEOUT_SECONDS`. Defaults to 60.",
				Optional:            true,
				Validators: []validator.Int64{
					int64validator.Between(1, 600),
				},
			},
			attrOperationTimeouts: schema.SingleNestedAttribute{
				MarkdownDescription: "Optional deadlines applied to resource operations, as Go durations (e.g., `30s`, `2m`).",
				Optional:            true,
				Attributes: map[string]schema.Attribute{
					"create": schema.StringAttribute{Optional: true, MarkdownDescription: "Deadline for create operations."},
					"read":   schema.StringAttribute{Optional: true, MarkdownDescription: "Deadline for read and data source operations."},
					"update": schema.StringAttribute{Optional: true, MarkdownDescription: "Deadline for update operations."},
					"delete": schema.StringAttribute{Optional: true, MarkdownDescription: "Deadline for delete operations."},
				},
			},
		},
	}
}

// ValidateConfig only checks values known at plan time; missing settings may
// still come from the environment during Configure.
func (p *NessusProvider) ValidateConfig(ctx context.Context, req provider.ValidateConfigRequest, resp *provider.ValidateConfigResponse) {
	var data NessusProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if !data.URL.IsNull() && !data.URL.IsUnknown() {
		rc := resolvedConfig{baseURL: data.URL.ValueString(), accessKey: "set", secretKey: "set"}
		for _, e := range validateBase(rc) {
			resp.Diagnostics.AddAttributeError(path.Root(e.attr), e.summary, e.detail)
		}
	}

	_, terrs := parseOperationTimeouts(data.OperationTimeouts)
	for _, e := range terrs {
		resp.Diagnostics.AddAttributeError(path.Root(attrOperationTimeouts).AtName(e.attr), e.summary, e.detail)
	}
}

func (p *NessusProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data NessusProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	rc := deriveResolvedConfig(data)
	if errs := validateResolvedConfig(rc); len(errs) > 0 {
		for _, e := range errs {
			if e.attr == "" {
				resp.Diagnostics.AddError(e.summary, e.detail)
				continue
			}
			resp.Diagnostics.AddAttributeError(path.Root(e.attr), e.summary, e.detail)
		}
		return
	}

	timeouts, terrs := parseOperationTimeouts(data.OperationTimeouts)
	for _, e := range terrs {
		resp.Diagnostics.AddAttributeError(path.Root(attrOperationTimeouts).AtName(e.attr), e.summary, e.detail)
	}
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "configuring nessus client", map[string]interface{}{
		"url":                  rc.baseURL,
		"allow_self_signed":    rc.allowSelfSigned,
		"http_timeout_seconds": rc.httpTimeoutSeconds,
	})

	client, err := p.initNessusClient(ctx, rc)
	if err != nil {
		summary, detail := ErrorFromNessus("create nessus client", err)
		resp.Diagnostics.AddError(summary, detail)
		return
	}

	connCtx, cancel := withTimeout(ctx, timeouts.Read)
	defer cancel()
	if !p.testConnection(connCtx, client, &resp.Diagnostics) {
		return
	}

	p.client = client
	p.providerTimeouts = timeouts

	resp.ResourceData = p
	resp.DataSourceData = p
}

func (p *NessusProvider) Resources(_ context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewFolderResource,
		NewScanResource,
		NewPolicyResource,
		NewScanExportResource,
		NewOperationResource,
	}
}

func (p *NessusProvider) DataSources(_ context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewScansDataSource,
		NewScanDataSource,
		NewPoliciesDataSource,
		NewFoldersDataSource,
		NewPluginFamiliesDataSource,
		NewPluginFamilyDataSource,
		NewPluginDataSource,
		NewSessionDataSource,
		NewTemplatesDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &NessusProvider{
			version: version,
		}
	}
}
