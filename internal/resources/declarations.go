// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package resources declares the installer's cloud resources as immutable
// configuration values and gates each one before it is provisioned.
package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/PoeBlu/pacbot/internal/gate"
)

var (
	// ErrInvalidDeclaration is returned when a declaration's settings could
	// never be provisioned.
	ErrInvalidDeclaration = errors.New("invalid resource declaration")

	// ErrUnknownService is returned for a service-linked role whose service
	// has no known role name.
	ErrUnknownService = errors.New("no service-linked role known for service")
)

// Declaration is a resource the installer wants in place.
type Declaration interface {
	// ResourceID is the resource's key in the provisioning graph.
	ResourceID() string

	// Query identifies the resource for an existence check.
	Query() gate.Query
}

// SearchDomain is the managed Elasticsearch cluster.
type SearchDomain struct {
	DomainName                 string
	ElasticsearchVersion       string
	InstanceType               string
	InstanceCount              int
	DedicatedMasterEnabled     bool
	ZoneAwarenessEnabled       bool
	EBSEnabled                 bool
	VolumeType                 string
	VolumeSize                 int
	AutomatedSnapshotStartHour int
	SecurityGroupIDs           []string
	SubnetIDs                  []string
	LogType                    string
}

// DefaultSearchDomain returns the installer's search domain. instanceType
// overrides the default node size when set.
func DefaultSearchDomain(instanceType string) SearchDomain {
	if instanceType == "" {
		instanceType = "m4.large.elasticsearch"
	}
	return SearchDomain{
		DomainName:                 "data",
		ElasticsearchVersion:       "5.5",
		InstanceType:               instanceType,
		InstanceCount:              1,
		EBSEnabled:                 true,
		VolumeType:                 "gp2",
		VolumeSize:                 20,
		AutomatedSnapshotStartHour: 23,
		LogType:                    "ES_APPLICATION_LOGS",
	}
}

func (d SearchDomain) ResourceID() string { return "elasticsearch_domain." + d.DomainName }

func (d SearchDomain) Query() gate.Query {
	return gate.Query{Kind: gate.KindSearchDomain, Name: d.DomainName}
}

var ebsVolumeTypes = []string{"gp2", "gp3", "io1", "standard"}

// Validate rejects settings the Elasticsearch service would refuse.
func (d SearchDomain) Validate() error {
	switch {
	case d.DomainName == "":
		return fmt.Errorf("%w: search domain has no name", ErrInvalidDeclaration)
	case d.ElasticsearchVersion == "":
		return fmt.Errorf("%w: search domain %s has no version", ErrInvalidDeclaration, d.DomainName)
	case !strings.HasSuffix(d.InstanceType, ".elasticsearch"):
		return fmt.Errorf("%w: %q is not an Elasticsearch instance type", ErrInvalidDeclaration, d.InstanceType)
	case d.InstanceCount < 1:
		return fmt.Errorf("%w: search domain %s needs at least one instance", ErrInvalidDeclaration, d.DomainName)
	case d.AutomatedSnapshotStartHour < 0 || d.AutomatedSnapshotStartHour > 23:
		return fmt.Errorf("%w: snapshot hour %d out of range", ErrInvalidDeclaration, d.AutomatedSnapshotStartHour)
	case !d.ZoneAwarenessEnabled && len(d.SubnetIDs) > 1:
		return fmt.Errorf("%w: a single-zone search domain takes one subnet, got %d", ErrInvalidDeclaration, len(d.SubnetIDs))
	case d.DedicatedMasterEnabled && d.InstanceCount < 2:
		return fmt.Errorf("%w: dedicated masters need at least two data instances", ErrInvalidDeclaration)
	}
	if d.EBSEnabled {
		if d.VolumeSize < 10 {
			return fmt.Errorf("%w: EBS volume size %d GiB is below the 10 GiB minimum", ErrInvalidDeclaration, d.VolumeSize)
		}
		if !slices.Contains(ebsVolumeTypes, d.VolumeType) {
			return fmt.Errorf("%w: unsupported EBS volume type %q", ErrInvalidDeclaration, d.VolumeType)
		}
	}
	if len(d.SubnetIDs) > 0 && len(d.SecurityGroupIDs) == 0 {
		return fmt.Errorf("%w: VPC search domain %s has no security group", ErrInvalidDeclaration, d.DomainName)
	}
	return nil
}

// SearchPort is the port the search domain is reached on.
const SearchPort = 80

// HTTPURL returns the plain HTTP URL for a domain endpoint.
func HTTPURL(endpoint string) string {
	return "http://" + endpoint
}

// HTTPURLWithPort returns HTTPURL with the search port appended.
func HTTPURLWithPort(endpoint string) string {
	return fmt.Sprintf("%s:%d", HTTPURL(endpoint), SearchPort)
}

// LogGroup is a CloudWatch log group.
type LogGroup struct {
	Name            string
	RetentionInDays int
}

// SearchLogGroup is the log group the search domain writes application logs to.
func SearchLogGroup() LogGroup {
	return LogGroup{Name: "elasticsearch", RetentionInDays: 7}
}

func (l LogGroup) ResourceID() string { return "cloudwatch_log_group." + l.Name }

func (l LogGroup) Query() gate.Query {
	return gate.Query{Kind: gate.KindLogGroup, Name: l.Name}
}

// logRetentionDays are the retention periods CloudWatch Logs accepts.
var logRetentionDays = []int{1, 3, 5, 7, 14, 30, 60, 90, 120, 150, 180, 365, 400, 545, 731, 1096, 1827, 2192, 2557, 2922, 3288, 3653}

// Validate rejects retention periods CloudWatch Logs does not accept. Zero
// keeps events forever.
func (l LogGroup) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: log group has no name", ErrInvalidDeclaration)
	}
	if l.RetentionInDays != 0 && !slices.Contains(logRetentionDays, l.RetentionInDays) {
		return fmt.Errorf("%w: log group %s: unsupported retention of %d days", ErrInvalidDeclaration, l.Name, l.RetentionInDays)
	}
	return nil
}

// policyDocument is an IAM-style policy with one statement.
type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  string              `json:"Resource"`
}

func (p policyDocument) render() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LogResourcePolicy lets an AWS service write into the account's log groups.
type LogResourcePolicy struct {
	Name    string
	Service string
	Actions []string
}

// SearchLogResourcePolicy lets the search domain publish its logs.
func SearchLogResourcePolicy() LogResourcePolicy {
	return LogResourcePolicy{
		Name:    "elasticSearch",
		Service: "es.amazonaws.com",
		Actions: []string{"logs:PutLogEvents", "logs:PutLogEventsBatch", "logs:CreateLogStream"},
	}
}

func (p LogResourcePolicy) ResourceID() string { return "cloudwatch_log_resource_policy." + p.Name }

func (p LogResourcePolicy) Query() gate.Query {
	return gate.Query{Kind: gate.KindLogResourcePolicy, Name: p.Name}
}

// Document renders the policy for the streams of the given log group.
func (p LogResourcePolicy) Document(logGroupArn string) (string, error) {
	return policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"Service": {p.Service}},
			Action:    p.Actions,
			Resource:  logGroupArn + "*",
		}},
	}.render()
}

// DomainPolicy is the access policy attached to a search domain.
type DomainPolicy struct {
	DomainName string
}

func (p DomainPolicy) ResourceID() string { return "elasticsearch_domain_policy." + p.DomainName }

func (p DomainPolicy) Query() gate.Query {
	return gate.Query{Kind: gate.KindSearchDomainPolicy, Name: p.DomainName}
}

// Document renders a policy allowing every principal all actions on the
// domain's indices. Network access is restricted by the domain's VPC.
func (p DomainPolicy) Document(domainArn string) (string, error) {
	return policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"es:*"},
			Resource:  domainArn + "/*",
		}},
	}.render()
}

// ServiceLinkedRole is an IAM role owned by an AWS service.
type ServiceLinkedRole struct {
	ServiceName string
	RoleName    string
	Description string
}

// serviceLinkedRoleNames maps AWS service principals to the role each one creates.
var serviceLinkedRoleNames = map[string]string{
	"es.amazonaws.com":  "AWSServiceRoleForAmazonElasticsearchService",
	"rds.amazonaws.com": "AWSServiceRoleForRDS",
}

// NewServiceLinkedRole declares the role AWS creates for service.
func NewServiceLinkedRole(service, description string) (ServiceLinkedRole, error) {
	name, ok := serviceLinkedRoleNames[service]
	if !ok {
		return ServiceLinkedRole{}, fmt.Errorf("%w: %s", ErrUnknownService, service)
	}
	return ServiceLinkedRole{ServiceName: service, RoleName: name, Description: description}, nil
}

func (r ServiceLinkedRole) ResourceID() string { return "iam_service_linked_role." + r.ServiceName }

func (r ServiceLinkedRole) Query() gate.Query {
	return gate.Query{Kind: gate.KindIAMRole, Name: r.RoleName}
}

// DBInstance is an RDS database instance.
type DBInstance struct {
	Identifier string
}

func (d DBInstance) ResourceID() string { return "db_instance." + d.Identifier }

func (d DBInstance) Query() gate.Query {
	return gate.Query{Kind: gate.KindDBInstance, Name: d.Identifier}
}

// DBOptionGroup is an RDS option group.
type DBOptionGroup struct {
	Name string
}

func (g DBOptionGroup) ResourceID() string { return "db_option_group." + g.Name }

func (g DBOptionGroup) Query() gate.Query {
	return gate.Query{Kind: gate.KindDBOptionGroup, Name: g.Name}
}

// DBParameterGroup is an RDS parameter group.
type DBParameterGroup struct {
	Name string
}

func (g DBParameterGroup) ResourceID() string { return "db_parameter_group." + g.Name }

func (g DBParameterGroup) Query() gate.Query {
	return gate.Query{Kind: gate.KindDBParameterGroup, Name: g.Name}
}

// DBSubnetGroup is an RDS subnet group.
type DBSubnetGroup struct {
	Name string
}

func (g DBSubnetGroup) ResourceID() string { return "db_subnet_group." + g.Name }

func (g DBSubnetGroup) Query() gate.Query {
	return gate.Query{Kind: gate.KindDBSubnetGroup, Name: g.Name}
}

// Bucket is an S3 bucket.
type Bucket struct {
	Name string
}

func (b Bucket) ResourceID() string { return "s3_bucket." + b.Name }

func (b Bucket) Query() gate.Query {
	return gate.Query{Kind: gate.KindStorageBucket, Name: b.Name}
}

// BucketObject is an object uploaded into a bucket from a local file.
type BucketObject struct {
	Bucket string
	Key    string
	Source string
}

// SubmitJobFileName is the archive holding the batch job submission function.
const SubmitJobFileName = "pacbot-submitBatchjob"

// SubmitJobArtifact declares the job submission archive under prefix in
// bucket, uploaded from filesDir.
func SubmitJobArtifact(bucket, prefix, filesDir string) BucketObject {
	return BucketObject{
		Bucket: bucket,
		Key:    path.Join(prefix, SubmitJobFileName+".zip"),
		Source: filepath.Join(filesDir, SubmitJobFileName+".zip"),
	}
}

func (o BucketObject) ResourceID() string { return "s3_bucket_object." + o.Bucket + "/" + o.Key }

func (o BucketObject) Query() gate.Query {
	return gate.Query{Kind: gate.KindBucketObject, Name: o.Bucket + "/" + o.Key}
}

// Ref declares a resource by kind and name alone.
type Ref struct {
	Kind string
	Name string
}

func (r Ref) ResourceID() string { return r.Kind + "." + r.Name }

func (r Ref) Query() gate.Query {
	return gate.Query{Kind: r.Kind, Name: r.Name}
}
