// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package gate answers whether an AWS resource already exists so that
// provisioning can skip resources that are already in place.
//
// Every check opens its own clients, issues exactly one describe call and
// reports one of three outcomes: Found, NotFound or CheckFailed. Provider
// errors never escape a check; they are carried in Result.Cause instead.
package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Credential addresses the provider API. It is never persisted by the gate.
type Credential struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string

	// Endpoint overrides the AWS base endpoint (e.g. LocalStack).
	Endpoint string
}

// Query identifies the resource to check.
type Query struct {
	// Kind accepts canonical (db-instance), Terraform (aws_db_instance) or
	// Cloud Control (AWS::RDS::DBInstance) names.
	Kind string

	// Name is the provider-unique identifier for the kind: instance
	// identifier, group name, bucket name, "bucket/key" for objects.
	Name string
}

func (q Query) String() string {
	return q.Kind + "/" + q.Name
}

// Status is the outcome of a check.
type Status int

const (
	// CheckFailed means existence could not be determined.
	CheckFailed Status = iota
	// NotFound means the provider confirmed there is no matching record.
	NotFound
	// Found means the provider returned at least one matching record.
	Found
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "check_failed"
	}
}

// Result contains the outcome of one existence check.
type Result struct {
	Status Status

	// Cause is set only when Status is CheckFailed.
	Cause error

	// Matches is the number of records whose identifier matched the query.
	Matches int

	// Arn of the first matching record, if the describe response carried one.
	Arn string

	// Properties of the first matching record, taken from the same response.
	Properties map[string]any
}

// Exists reports whether the resource was confirmed present.
func (r Result) Exists() bool {
	return r.Status == Found
}

// Gate runs existence checks. A Gate is read-only after New and safe for
// concurrent use.
type Gate struct {
	loadConfig func(ctx context.Context, cred Credential) (aws.Config, error)
	newClients func(cfg aws.Config) *Clients
}

// Option configures a Gate.
type Option func(*Gate)

// WithClientFactory replaces the factory used to open clients for each check.
func WithClientFactory(f func(cfg aws.Config) *Clients) Option {
	return func(g *Gate) {
		g.newClients = f
	}
}

// WithConfigLoader replaces how a Credential becomes an aws.Config.
func WithConfigLoader(f func(ctx context.Context, cred Credential) (aws.Config, error)) Option {
	return func(g *Gate) {
		g.loadConfig = f
	}
}

// New creates a Gate backed by the AWS SDK.
func New(opts ...Option) *Gate {
	g := &Gate{
		loadConfig: LoadConfig,
		newClients: NewClients,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check determines whether the queried resource exists. It never returns an
// error: failures are reported as a CheckFailed result with a Cause.
func (g *Gate) Check(ctx context.Context, q Query, cred Credential) Result {
	result := g.check(ctx, q, cred)

	fields := map[string]any{
		"kind":    q.Kind,
		"name":    q.Name,
		"region":  cred.Region,
		"status":  result.Status.String(),
		"matches": result.Matches,
	}
	if result.Cause != nil {
		fields["cause"] = result.Cause.Error()
		tflog.Warn(ctx, "existence check failed", fields)
	} else {
		tflog.Debug(ctx, "existence check complete", fields)
	}

	return result
}

// Exists is the boolean form of Check. An inconclusive check reads as false;
// use Check when that distinction matters.
func (g *Gate) Exists(ctx context.Context, q Query, cred Credential) bool {
	return g.Check(ctx, q, cred).Exists()
}

func (g *Gate) check(ctx context.Context, q Query, cred Credential) Result {
	kind, ok := LookupKind(q.Kind)
	if !ok {
		return failed(fmt.Errorf("%w: %s", ErrUnsupportedKind, q.Kind))
	}

	name := strings.TrimSpace(q.Name)
	if name == "" {
		return failed(ErrEmptyName)
	}
	if kind.validate != nil {
		if err := kind.validate(name); err != nil {
			return failed(err)
		}
	}

	cfg, err := g.loadConfig(ctx, cred)
	if err != nil {
		return failed(fmt.Errorf("building %s client: %w", kind.Service, err))
	}

	clients := g.newClients(cfg)
	if clients == nil {
		return failed(fmt.Errorf("building %s client: no clients", kind.Service))
	}

	records, err := describe(ctx, kind, clients, name)
	if err != nil {
		if kind.isNotFound(err) {
			return Result{Status: NotFound}
		}
		return failed(fmt.Errorf("%s %s: %w", kind.Service, kind.Operation, err))
	}

	var matched []Record
	for _, rec := range records {
		if kind.matches(rec, name) {
			matched = append(matched, rec)
		}
	}
	if len(matched) == 0 {
		return Result{Status: NotFound}
	}

	first := matched[0]
	arn, _ := first["Arn"].(string)
	return Result{
		Status:     Found,
		Matches:    len(matched),
		Arn:        arn,
		Properties: first,
	}
}

// describe runs the kind's describe call. A response the adapter could not
// walk is reported as malformed rather than crashing the caller.
func describe(ctx context.Context, kind *Kind, clients *Clients, name string) (records []Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("%w: %s.%s: %v", ErrMalformedResponse, kind.Operation, kind.ListField, r)
		}
	}()
	return kind.describe(ctx, clients, name)
}

func failed(cause error) Result {
	return Result{Status: CheckFailed, Cause: cause}
}
