// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"fmt"
	"strings"
)

// Action is the provisioning branch chosen for a checked resource.
type Action string

const (
	ActionSkip   Action = "skip"
	ActionCreate Action = "create"
	ActionAbort  Action = "abort"
)

// FailurePolicy decides what an inconclusive check means for provisioning.
type FailurePolicy string

const (
	// FailureAbort stops provisioning when existence is unknown.
	FailureAbort FailurePolicy = "abort"
	// FailureCreate assumes the resource is absent and creates it.
	FailureCreate FailurePolicy = "create"
	// FailureSkip assumes the resource is present and leaves it alone.
	FailureSkip FailurePolicy = "skip"
)

// ParseFailurePolicy converts a string to a FailurePolicy. The empty string
// selects FailureAbort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return FailureAbort, nil
	case "create":
		return FailureCreate, nil
	case "skip":
		return FailureSkip, nil
	default:
		return "", fmt.Errorf("invalid failure policy: %s", s)
	}
}

// Decide maps a check result to the provisioning branch.
func Decide(r Result, onFailure FailurePolicy) Action {
	switch r.Status {
	case Found:
		return ActionSkip
	case NotFound:
		return ActionCreate
	}

	switch onFailure {
	case FailureCreate:
		return ActionCreate
	case FailureSkip:
		return ActionSkip
	default:
		return ActionAbort
	}
}
