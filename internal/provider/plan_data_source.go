// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-framework/types/basetypes"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/PoeBlu/pacbot/internal/gate"
	"github.com/PoeBlu/pacbot/internal/resources"
)

// Ensure PlanDataSource satisfies datasource interfaces.
var _ datasource.DataSource = &PlanDataSource{}
var _ datasource.DataSourceWithConfigure = &PlanDataSource{}

// PlanDataSource implements the installer_plan data source: it checks a set
// of resources and decides for each whether to create or skip it.
type PlanDataSource struct {
	data *ProviderData
}

// PlanDataSourceModel describes the data source data model.
type PlanDataSourceModel struct {
	OnCheckFailure types.String `tfsdk:"on_check_failure"`
	Installer      types.Object `tfsdk:"installer"`
	Resources      types.List   `tfsdk:"resource"`

	// Computed attributes
	Results   types.List `tfsdk:"results"`
	CreateIDs types.List `tfsdk:"create_ids"`
	Outputs   types.Map  `tfsdk:"outputs"`
}

// InstallerModel is the installer block: the settings the installer's own
// resources are declared from.
type InstallerModel struct {
	Bucket           types.String `tfsdk:"bucket"`
	Prefix           types.String `tfsdk:"prefix"`
	FilesDir         types.String `tfsdk:"files_dir"`
	ESInstanceType   types.String `tfsdk:"es_instance_type"`
	SubnetIDs        types.List   `tfsdk:"subnet_ids"`
	SecurityGroupIDs types.List   `tfsdk:"security_group_ids"`
	DBIdentifier     types.String `tfsdk:"db_identifier"`
}

// PlanResourceModel is one resource block.
type PlanResourceModel struct {
	Type types.String `tfsdk:"type"`
	ID   types.String `tfsdk:"id"`
}

// PlanResultModel is the decision for one resource.
type PlanResultModel struct {
	ResourceID types.String `tfsdk:"resource_id"`
	Type       types.String `tfsdk:"type"`
	ID         types.String `tfsdk:"id"`
	Status     types.String `tfsdk:"status"`
	Action     types.String `tfsdk:"action"`
	Error      types.String `tfsdk:"error"`
	Arn        types.String `tfsdk:"arn"`
}

// NewPlanDataSource creates a new data source instance.
func NewPlanDataSource() datasource.DataSource {
	return &PlanDataSource{}
}

func (d *PlanDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_plan"
}

// planResourceAttrTypes returns the attribute types for a resource block.
func planResourceAttrTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"type": types.StringType,
		"id":   types.StringType,
	}
}

// planResultAttrTypes returns the attribute types for a plan result.
func planResultAttrTypes() map[string]attr.Type {
	return map[string]attr.Type{
		"resource_id": types.StringType,
		"type":        types.StringType,
		"id":          types.StringType,
		"status":      types.StringType,
		"action":      types.StringType,
		"error":       types.StringType,
		"arn":         types.StringType,
	}
}

func (d *PlanDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Checks a set of AWS resources and decides for each whether it must be created or can be skipped.",

		Attributes: map[string]schema.Attribute{
			"on_check_failure": schema.StringAttribute{
				Description: "What an inconclusive check means: 'abort' (default) fails the read, 'create' assumes the resource is absent, 'skip' assumes it is present.",
				Optional:    true,
			},
			"results": schema.ListNestedAttribute{
				Description: "One decision per resource block, in declaration order.",
				Computed:    true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"resource_id": schema.StringAttribute{
							Description: "Key of the resource in the provisioning graph (e.g., s3_bucket.installer-data).",
							Computed:    true,
						},
						"type": schema.StringAttribute{
							Description: "The resource kind as given.",
							Computed:    true,
						},
						"id": schema.StringAttribute{
							Description: "The resource identifier as given.",
							Computed:    true,
						},
						"status": schema.StringAttribute{
							Description: "Outcome of the check: found, not_found or check_failed.",
							Computed:    true,
						},
						"action": schema.StringAttribute{
							Description: "Provisioning decision: create, skip or abort.",
							Computed:    true,
						},
						"error": schema.StringAttribute{
							Description: "Why the check failed (null unless status is check_failed).",
							Computed:    true,
						},
						"arn": schema.StringAttribute{
							Description: "Resource ARN when found.",
							Computed:    true,
						},
					},
				},
			},
			"create_ids": schema.ListAttribute{
				Description: "Resource IDs (see results.resource_id) of the resources that should be created.",
				Computed:    true,
				ElementType: types.StringType,
			},
			"outputs": schema.MapAttribute{
				Description: "Values derived from installer resources that already exist: es_host, es_url, kibana_host, domain_policy and log_resource_policy. Empty without an installer block.",
				Computed:    true,
				ElementType: types.StringType,
			},
		},

		Blocks: map[string]schema.Block{
			"installer": schema.SingleNestedBlock{
				Description: "Plans the installer's own resources: artifact bucket and job archive, search domain with its log group, policies and service-linked role, and optionally the RDS instance and its groups.",
				Attributes: map[string]schema.Attribute{
					"bucket": schema.StringAttribute{
						Description: "Bucket receiving the installer's artifacts.",
						Optional:    true,
					},
					"prefix": schema.StringAttribute{
						Description: "Prefix for artifact keys.",
						Optional:    true,
					},
					"files_dir": schema.StringAttribute{
						Description: "Local directory artifacts are uploaded from.",
						Optional:    true,
					},
					"es_instance_type": schema.StringAttribute{
						Description: "Search domain node type. Defaults to m4.large.elasticsearch.",
						Optional:    true,
					},
					"subnet_ids": schema.ListAttribute{
						Description: "Subnets for the search domain; only the first is used.",
						Optional:    true,
						ElementType: types.StringType,
					},
					"security_group_ids": schema.ListAttribute{
						Description: "Security groups for the search domain.",
						Optional:    true,
						ElementType: types.StringType,
					},
					"db_identifier": schema.StringAttribute{
						Description: "Name of the RDS instance and its option, parameter and subnet groups. Omit to leave RDS out.",
						Optional:    true,
					},
				},
			},
			"resource": schema.ListNestedBlock{
				Description: "A resource to check.",
				NestedObject: schema.NestedBlockObject{
					Attributes: map[string]schema.Attribute{
						"type": schema.StringAttribute{
							Description: "Resource kind (e.g., db-instance, aws_s3_bucket, AWS::Elasticsearch::Domain).",
							Required:    true,
						},
						"id": schema.StringAttribute{
							Description: "Resource identifier.",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

func (d *PlanDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	d.data = configureData(req, resp)
}

func (d *PlanDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data PlanDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if d.data == nil {
		resp.Diagnostics.AddError("Unconfigured Provider", "The installer provider was not configured before reading this data source.")
		return
	}

	policy, err := gate.ParseFailurePolicy(data.OnCheckFailure.ValueString())
	if err != nil {
		resp.Diagnostics.AddAttributeError(path.Root("on_check_failure"), "Invalid Failure Policy", err.Error())
		return
	}

	stack, diags := buildStack(ctx, data.Installer)
	resp.Diagnostics.Append(diags...)

	decls, diags := buildDeclarations(ctx, data.Resources)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}
	if stack != nil {
		decls = append(slices.Clone(stack.Declarations), decls...)
	}

	plan := resources.Build(ctx, d.data.Gate, d.data.Credential, decls, policy)

	// Terraform discards state on error, so a blocked plan is reported only
	// through this diagnostic.
	if plan.Blocked() {
		var failed []string
		for _, step := range plan.Failed() {
			failed = append(failed, fmt.Sprintf("%s: %v", step.Query, step.Result.Cause))
		}
		tflog.Warn(ctx, "provisioning plan blocked by failed existence checks", map[string]any{
			"failed": len(failed),
		})
		resp.Diagnostics.AddError(
			"Existence Check Failed",
			"Could not determine whether these resources exist, and on_check_failure is \"abort\":\n"+strings.Join(failed, "\n"),
		)
		return
	}

	results, createIDs, diags := convertPlan(ctx, plan)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	outputs := map[string]string{}
	if stack != nil {
		out, err := stack.Outputs(plan)
		if err != nil {
			resp.Diagnostics.AddError("Failed to render installer outputs", err.Error())
			return
		}
		outputs = out
	}
	outputsValue, diags := types.MapValueFrom(ctx, types.StringType, outputs)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	data.Results = results
	data.CreateIDs = createIDs
	data.Outputs = outputsValue

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// buildStack expands the installer block. A missing block yields a nil stack.
func buildStack(ctx context.Context, obj types.Object) (*resources.Stack, diag.Diagnostics) {
	var diags diag.Diagnostics

	if obj.IsNull() || obj.IsUnknown() {
		return nil, diags
	}

	var block InstallerModel
	diags.Append(obj.As(ctx, &block, basetypes.ObjectAsOptions{})...)
	if diags.HasError() {
		return nil, diags
	}

	cfg := resources.StackConfig{
		Bucket:             block.Bucket.ValueString(),
		Prefix:             block.Prefix.ValueString(),
		FilesDir:           block.FilesDir.ValueString(),
		SearchInstanceType: block.ESInstanceType.ValueString(),
		DBIdentifier:       block.DBIdentifier.ValueString(),
		RoleDescription:    "Created by the installer",
	}
	diags.Append(stringList(ctx, block.SubnetIDs, &cfg.SubnetIDs)...)
	diags.Append(stringList(ctx, block.SecurityGroupIDs, &cfg.SecurityGroupIDs)...)
	if diags.HasError() {
		return nil, diags
	}

	stack, err := resources.NewStack(cfg)
	if err != nil {
		diags.AddAttributeError(path.Root("installer"), "Invalid Installer Configuration", err.Error())
		return nil, diags
	}
	return stack, diags
}

// stringList reads a list of strings, leaving target untouched when the
// list is null.
func stringList(ctx context.Context, list types.List, target *[]string) diag.Diagnostics {
	if list.IsNull() || list.IsUnknown() {
		return nil
	}
	return list.ElementsAs(ctx, target, false)
}

// buildDeclarations converts resource blocks into declarations, rejecting
// unsupported kinds before any check runs.
func buildDeclarations(ctx context.Context, list types.List) ([]resources.Declaration, diag.Diagnostics) {
	var diags diag.Diagnostics

	if list.IsNull() || list.IsUnknown() {
		return nil, diags
	}

	var blocks []PlanResourceModel
	diags.Append(list.ElementsAs(ctx, &blocks, false)...)
	if diags.HasError() {
		return nil, diags
	}

	decls := make([]resources.Declaration, 0, len(blocks))
	for i, b := range blocks {
		kind := b.Type.ValueString()
		if _, ok := gate.LookupKind(kind); !ok {
			diags.AddAttributeError(
				path.Root("resource").AtListIndex(i).AtName("type"),
				"Unsupported Resource Type",
				fmt.Sprintf("Resource type %q is not supported. Supported types: %v", kind, gate.Kinds()),
			)
			continue
		}
		decls = append(decls, resources.Ref{Kind: kind, Name: b.ID.ValueString()})
	}
	return decls, diags
}

// convertPlan converts plan steps to Terraform list values.
func convertPlan(ctx context.Context, plan resources.Plan) (types.List, types.List, diag.Diagnostics) {
	var diags diag.Diagnostics
	resultType := types.ObjectType{AttrTypes: planResultAttrTypes()}

	models := make([]PlanResultModel, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		m := PlanResultModel{
			ResourceID: types.StringValue(step.ResourceID),
			Type:       types.StringValue(step.Query.Kind),
			ID:         types.StringValue(step.Query.Name),
			Status:     types.StringValue(step.Result.Status.String()),
			Action:     types.StringValue(string(step.Action)),
			Error:      types.StringNull(),
			Arn:        types.StringNull(),
		}
		if step.Result.Cause != nil {
			m.Error = types.StringValue(step.Result.Cause.Error())
		}
		if step.Result.Arn != "" {
			m.Arn = types.StringValue(step.Result.Arn)
		}
		models = append(models, m)
	}

	results, d := types.ListValueFrom(ctx, resultType, models)
	diags.Append(d...)
	if diags.HasError() {
		return types.ListNull(resultType), types.ListNull(types.StringType), diags
	}

	createIDs := plan.ToCreate()
	if createIDs == nil {
		createIDs = []string{}
	}
	ids, d := types.ListValueFrom(ctx, types.StringType, createIDs)
	diags.Append(d...)
	if diags.HasError() {
		return types.ListNull(resultType), types.ListNull(types.StringType), diags
	}

	return results, ids, diags
}
