// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resources

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/PoeBlu/pacbot/internal/gate"
)

// Checker runs a single existence check. *gate.Gate satisfies it.
type Checker interface {
	Check(ctx context.Context, q gate.Query, cred gate.Credential) gate.Result
}

var _ Checker = (*gate.Gate)(nil)

// Step is the planned action for one declaration.
type Step struct {
	ResourceID string
	Query      gate.Query
	Result     gate.Result
	Action     gate.Action
}

// Plan lists one step per declaration, in declaration order.
type Plan struct {
	Steps []Step
}

// Blocked reports whether any step aborted provisioning.
func (p Plan) Blocked() bool {
	for _, s := range p.Steps {
		if s.Action == gate.ActionAbort {
			return true
		}
	}
	return false
}

// ToCreate returns the resource IDs that should be created.
func (p Plan) ToCreate() []string {
	var ids []string
	for _, s := range p.Steps {
		if s.Action == gate.ActionCreate {
			ids = append(ids, s.ResourceID)
		}
	}
	return ids
}

// Failed returns the steps whose existence check was inconclusive.
func (p Plan) Failed() []Step {
	var steps []Step
	for _, s := range p.Steps {
		if s.Result.Status == gate.CheckFailed {
			steps = append(steps, s)
		}
	}
	return steps
}

// Build checks every declaration and decides its action. Checks are
// independent: a failed check does not stop the remaining ones.
func Build(ctx context.Context, checker Checker, cred gate.Credential, decls []Declaration, onFailure gate.FailurePolicy) Plan {
	plan := Plan{Steps: make([]Step, 0, len(decls))}

	for _, d := range decls {
		q := d.Query()
		result := checker.Check(ctx, q, cred)
		action := gate.Decide(result, onFailure)

		tflog.Debug(ctx, "planned resource", map[string]any{
			"resource_id": d.ResourceID(),
			"kind":        q.Kind,
			"status":      result.Status.String(),
			"action":      string(action),
		})

		plan.Steps = append(plan.Steps, Step{
			ResourceID: d.ResourceID(),
			Query:      q,
			Result:     result,
			Action:     action,
		})
	}

	return plan
}
