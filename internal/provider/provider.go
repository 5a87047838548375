// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package provider implements the installer's Terraform provider, which
// gates resource creation on whether the resource already exists in AWS.
package provider

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/PoeBlu/pacbot/internal/gate"
)

// Ensure InstallerProvider satisfies various provider interfaces.
var _ provider.Provider = &InstallerProvider{}

const localStackEndpoint = "http://localhost:4566"

// InstallerProvider defines the provider implementation.
type InstallerProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and run locally, and "test" when running acceptance
	// testing.
	version string
}

// InstallerProviderModel describes the provider data model.
type InstallerProviderModel struct {
	AccessKey  types.String `tfsdk:"access_key"`
	SecretKey  types.String `tfsdk:"secret_key"`
	Region     types.String `tfsdk:"region"`
	LocalStack types.Bool   `tfsdk:"localstack"`
	Endpoint   types.String `tfsdk:"endpoint"`
}

// ProviderData is handed to every data source on configure.
type ProviderData struct {
	Gate       *gate.Gate
	Credential gate.Credential
}

func (p *InstallerProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "installer"
	resp.Version = p.version
}

func (p *InstallerProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The installer provider checks whether AWS resources already exist before they are provisioned.",
		Attributes: map[string]schema.Attribute{
			"access_key": schema.StringAttribute{
				Description: "AWS access key. When unset, the default AWS credential chain is used.",
				Optional:    true,
			},
			"secret_key": schema.StringAttribute{
				Description: "AWS secret key. Required when access_key is set.",
				Optional:    true,
				Sensitive:   true,
			},
			"region": schema.StringAttribute{
				Description: "AWS region. Defaults to AWS_REGION environment variable, then AWS_DEFAULT_REGION, then us-east-1.",
				Optional:    true,
			},
			"localstack": schema.BoolAttribute{
				Description: "Explicitly enable or disable LocalStack detection. If not set, auto-detects LocalStack at localhost:4566.",
				Optional:    true,
			},
			"endpoint": schema.StringAttribute{
				Description: "Override the AWS endpoint URL. Setting this implies localstack = true.",
				Optional:    true,
			},
		},
	}
}

func (p *InstallerProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data InstallerProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if !data.AccessKey.IsNull() && data.SecretKey.IsNull() {
		resp.Diagnostics.AddAttributeError(
			path.Root("secret_key"),
			"Missing secret key",
			"secret_key must be set when access_key is set.",
		)
		return
	}

	cred := gate.Credential{
		AccessKey: data.AccessKey.ValueString(),
		SecretKey: data.SecretKey.ValueString(),
		Region:    resolveRegion(data.Region),
	}

	// Determine if using LocalStack
	useLocalStack := false
	endpoint := ""

	if !data.Endpoint.IsNull() {
		// Explicit endpoint implies LocalStack
		useLocalStack = true
		endpoint = data.Endpoint.ValueString()
	} else if !data.LocalStack.IsNull() {
		useLocalStack = data.LocalStack.ValueBool()
		if useLocalStack {
			endpoint = localStackEndpoint
		}
	} else {
		useLocalStack, endpoint = detectLocalStack()
	}

	if useLocalStack {
		cred.Endpoint = endpoint
		// LocalStack accepts any keys; use dummy ones if none are configured.
		if cred.AccessKey == "" && os.Getenv("AWS_ACCESS_KEY_ID") == "" && os.Getenv("AWS_PROFILE") == "" {
			cred.AccessKey, cred.SecretKey = "test", "test"
		}
	}

	tflog.Debug(ctx, "configured installer provider", map[string]any{
		"region":     cred.Region,
		"localstack": useLocalStack,
		"endpoint":   cred.Endpoint,
		"static":     cred.AccessKey != "",
	})

	// Each data source opens its own clients per check from this credential.
	resp.DataSourceData = &ProviderData{
		Gate:       gate.New(),
		Credential: cred,
	}
}

func (p *InstallerProvider) Resources(ctx context.Context) []func() resource.Resource {
	return nil
}

func (p *InstallerProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewResourceDataSource,
		NewPlanDataSource,
	}
}

// New creates a new provider instance.
func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &InstallerProvider{
			version: version,
		}
	}
}

// resolveRegion picks the configured region, then the environment, then us-east-1.
func resolveRegion(configured types.String) string {
	if !configured.IsNull() && configured.ValueString() != "" {
		return configured.ValueString()
	}
	if envRegion := os.Getenv("AWS_REGION"); envRegion != "" {
		return envRegion
	}
	if envRegion := os.Getenv("AWS_DEFAULT_REGION"); envRegion != "" {
		return envRegion
	}
	return "us-east-1"
}

// detectLocalStack checks for LocalStack at the default endpoint.
func detectLocalStack() (bool, string) {
	client := &http.Client{Timeout: 500 * time.Millisecond}
	resp, err := client.Get(localStackEndpoint + "/_localstack/health")
	if err != nil {
		return false, ""
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return true, localStackEndpoint
	}
	return false, ""
}
