// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	failedCheck := Result{Status: CheckFailed, Cause: errors.New("throttled")}

	tests := []struct {
		name   string
		result Result
		policy FailurePolicy
		want   Action
	}{
		{"found skips", Result{Status: Found, Matches: 1}, FailureAbort, ActionSkip},
		{"found skips regardless of policy", Result{Status: Found, Matches: 1}, FailureCreate, ActionSkip},
		{"not found creates", Result{Status: NotFound}, FailureAbort, ActionCreate},
		{"failed aborts", failedCheck, FailureAbort, ActionAbort},
		{"failed creates when assuming absent", failedCheck, FailureCreate, ActionCreate},
		{"failed skips when assuming present", failedCheck, FailureSkip, ActionSkip},
		{"failed with unset policy aborts", failedCheck, "", ActionAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.result, tt.policy))
		})
	}
}

func TestParseFailurePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    FailurePolicy
		wantErr bool
	}{
		{"", FailureAbort, false},
		{"abort", FailureAbort, false},
		{"ABORT", FailureAbort, false},
		{"create", FailureCreate, false},
		{" skip ", FailureSkip, false},
		{"retry", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFailurePolicy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
