// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// convertMapToDynamic converts a describe record to a Terraform object
// wrapped in a dynamic value.
func convertMapToDynamic(props map[string]any) (types.Dynamic, diag.Diagnostics) {
	var diags diag.Diagnostics

	if len(props) == 0 {
		return types.DynamicNull(), diags
	}

	elements := make(map[string]attr.Value, len(props))
	attrTypes := make(map[string]attr.Type, len(props))
	for k, v := range props {
		converted, err := convertToAttrValue(v)
		if err != nil {
			diags.AddError("Failed to convert properties", fmt.Sprintf("%s: %s", k, err))
			return types.DynamicNull(), diags
		}
		elements[k] = converted
		attrTypes[k] = converted.Type(context.Background())
	}

	obj, d := types.ObjectValue(attrTypes, elements)
	diags.Append(d...)
	if diags.HasError() {
		return types.DynamicNull(), diags
	}
	return types.DynamicValue(obj), diags
}

// convertToAttrValue converts a record field. Records carry strings,
// booleans and int64 counters only.
func convertToAttrValue(v any) (attr.Value, error) {
	switch val := v.(type) {
	case nil:
		return types.StringNull(), nil
	case string:
		return types.StringValue(val), nil
	case bool:
		return types.BoolValue(val), nil
	case int64:
		return types.Int64Value(val), nil
	default:
		return nil, fmt.Errorf("unsupported property type %T", v)
	}
}
