// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/PoeBlu/pacbot/internal/gate"
)

// Ensure ResourceDataSource satisfies various datasource interfaces.
var _ datasource.DataSource = &ResourceDataSource{}
var _ datasource.DataSourceWithConfigure = &ResourceDataSource{}

// ResourceDataSource checks whether a single resource exists.
type ResourceDataSource struct {
	data *ProviderData
}

// ResourceDataSourceModel describes the data source data model.
type ResourceDataSourceModel struct {
	Type       types.String  `tfsdk:"type"`
	ID         types.String  `tfsdk:"id"`
	Exists     types.Bool    `tfsdk:"exists"`
	Status     types.String  `tfsdk:"status"`
	Error      types.String  `tfsdk:"error"`
	Arn        types.String  `tfsdk:"arn"`
	Properties types.Dynamic `tfsdk:"properties"`
}

func NewResourceDataSource() datasource.DataSource {
	return &ResourceDataSource{}
}

func (d *ResourceDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_resource"
}

func (d *ResourceDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Checks whether an AWS resource already exists. An inconclusive check is reported in status, not as an error.",

		Attributes: map[string]schema.Attribute{
			"type": schema.StringAttribute{
				Description: "Resource kind (e.g., db-instance, aws_db_instance or AWS::RDS::DBInstance).",
				Required:    true,
			},
			"id": schema.StringAttribute{
				Description: "Resource identifier (instance identifier, group name, bucket name, or bucket/key for objects).",
				Required:    true,
			},
			"exists": schema.BoolAttribute{
				Description: "True only when the resource was confirmed to exist.",
				Computed:    true,
			},
			"status": schema.StringAttribute{
				Description: "Outcome of the check: found, not_found or check_failed.",
				Computed:    true,
			},
			"error": schema.StringAttribute{
				Description: "Why the check failed (null unless status is check_failed).",
				Computed:    true,
			},
			"arn": schema.StringAttribute{
				Description: "Resource ARN (null if resource does not exist).",
				Computed:    true,
			},
			"properties": schema.DynamicAttribute{
				Description: "Resource properties from the describe response (null if resource does not exist).",
				Computed:    true,
			},
		},
	}
}

func (d *ResourceDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.data = configureData(req, resp)
}

func (d *ResourceDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data ResourceDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if d.data == nil {
		resp.Diagnostics.AddError("Unconfigured Provider", "The installer provider was not configured before reading this data source.")
		return
	}

	resourceType := data.Type.ValueString()
	if _, ok := gate.LookupKind(resourceType); !ok {
		resp.Diagnostics.AddError(
			"Unsupported Resource Type",
			fmt.Sprintf("Resource type %q is not supported. Supported types: %v", resourceType, gate.Kinds()),
		)
		return
	}

	result := d.data.Gate.Check(ctx, gate.Query{Kind: resourceType, Name: data.ID.ValueString()}, d.data.Credential)

	resp.Diagnostics.Append(applyResult(&data, result)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// applyResult copies a check result into the data source model.
func applyResult(data *ResourceDataSourceModel, result gate.Result) diag.Diagnostics {
	data.Exists = types.BoolValue(result.Exists())
	data.Status = types.StringValue(result.Status.String())
	data.Error = types.StringNull()
	data.Arn = types.StringNull()
	data.Properties = types.DynamicNull()

	if result.Cause != nil {
		data.Error = types.StringValue(result.Cause.Error())
	}
	if !result.Exists() {
		return nil
	}

	props, diags := convertMapToDynamic(result.Properties)
	if diags.HasError() {
		return diags
	}
	data.Properties = props
	if result.Arn != "" {
		data.Arn = types.StringValue(result.Arn)
	}
	return diags
}

// configureData extracts ProviderData, reporting a diagnostic on a type mismatch.
func configureData(req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) *ProviderData {
	// Prevent panic if the provider has not been configured.
	if req.ProviderData == nil {
		return nil
	}

	data, ok := req.ProviderData.(*ProviderData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *provider.ProviderData, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return nil
	}
	return data
}
