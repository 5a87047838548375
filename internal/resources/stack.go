// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PoeBlu/pacbot/internal/gate"
)

// StackConfig holds the installer settings the declarations depend on.
type StackConfig struct {
	// Bucket receives the installer's artifacts. Required.
	Bucket string

	// Prefix namespaces artifact keys. Required.
	Prefix string

	// FilesDir is the local directory artifacts are uploaded from.
	FilesDir string

	// SearchInstanceType overrides the search domain's node size.
	SearchInstanceType string

	// SubnetIDs and SecurityGroupIDs place the search domain in a VPC.
	// Only the first subnet is used: the domain is single-zone.
	SubnetIDs        []string
	SecurityGroupIDs []string

	// DBIdentifier names the RDS instance and its groups. Empty skips them.
	DBIdentifier string

	// RoleDescription is recorded on service-linked roles.
	RoleDescription string
}

// Stack is the installer's set of declarations, in provisioning order.
type Stack struct {
	Declarations []Declaration

	search       SearchDomain
	logGroup     LogGroup
	logPolicy    LogResourcePolicy
	domainPolicy DomainPolicy
}

// validator is implemented by declarations that can reject their settings
// before any check runs.
type validator interface {
	Validate() error
}

// NewStack expands cfg into the installer's declarations and validates them.
func NewStack(cfg StackConfig) (*Stack, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrInvalidDeclaration)
	}
	if cfg.Prefix == "" {
		return nil, fmt.Errorf("%w: prefix is required", ErrInvalidDeclaration)
	}

	role, err := NewServiceLinkedRole("es.amazonaws.com", cfg.RoleDescription)
	if err != nil {
		return nil, err
	}

	search := DefaultSearchDomain(cfg.SearchInstanceType)
	if len(cfg.SubnetIDs) > 0 {
		search.SubnetIDs = cfg.SubnetIDs[:1]
	}
	search.SecurityGroupIDs = cfg.SecurityGroupIDs

	s := &Stack{
		search:       search,
		logGroup:     SearchLogGroup(),
		logPolicy:    SearchLogResourcePolicy(),
		domainPolicy: DomainPolicy{DomainName: search.DomainName},
	}
	s.Declarations = []Declaration{
		Bucket{Name: cfg.Bucket},
		SubmitJobArtifact(cfg.Bucket, cfg.Prefix, cfg.FilesDir),
		s.logGroup,
		s.logPolicy,
		role,
		s.search,
		s.domainPolicy,
	}
	if cfg.DBIdentifier != "" {
		s.Declarations = append(s.Declarations,
			DBSubnetGroup{Name: cfg.DBIdentifier},
			DBParameterGroup{Name: cfg.DBIdentifier},
			DBOptionGroup{Name: cfg.DBIdentifier},
			DBInstance{Identifier: cfg.DBIdentifier},
		)
	}

	var errs []error
	for _, d := range s.Declarations {
		if v, ok := d.(validator); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// Output keys reported by Stack.Outputs.
const (
	OutputSearchHost        = "es_host"
	OutputSearchURL         = "es_url"
	OutputKibanaHost        = "kibana_host"
	OutputDomainPolicy      = "domain_policy"
	OutputLogResourcePolicy = "log_resource_policy"
)

// Outputs derives the values downstream resources need from the resources
// the plan found. Resources the plan did not find contribute nothing.
func (s *Stack) Outputs(plan Plan) (map[string]string, error) {
	out := make(map[string]string)

	if r, ok := plan.found(s.search.ResourceID()); ok {
		if host, _ := r.Properties["Endpoint"].(string); host != "" {
			out[OutputSearchHost] = host
			out[OutputSearchURL] = HTTPURLWithPort(host)
		}
		if kibana, _ := r.Properties["KibanaEndpoint"].(string); kibana != "" {
			out[OutputKibanaHost] = kibana
		}
		if r.Arn != "" {
			doc, err := s.domainPolicy.Document(r.Arn)
			if err != nil {
				return nil, fmt.Errorf("rendering domain policy: %w", err)
			}
			out[OutputDomainPolicy] = doc
		}
	}

	if r, ok := plan.found(s.logGroup.ResourceID()); ok && r.Arn != "" {
		// DescribeLogGroups reports the ARN with a trailing ":*".
		doc, err := s.logPolicy.Document(strings.TrimSuffix(r.Arn, ":*"))
		if err != nil {
			return nil, fmt.Errorf("rendering log resource policy: %w", err)
		}
		out[OutputLogResourcePolicy] = doc
	}

	return out, nil
}

// found returns the result for resourceID if its check found the resource.
func (p Plan) found(resourceID string) (gate.Result, bool) {
	for _, s := range p.Steps {
		if s.ResourceID == resourceID && s.Result.Status == gate.Found {
			return s.Result, true
		}
	}
	return gate.Result{}, false
}
