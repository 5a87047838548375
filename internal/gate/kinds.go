// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"
	"slices"
	"strings"
)

// Canonical kind names.
const (
	KindDBInstance       = "db-instance"
	KindDBOptionGroup    = "db-option-group"
	KindDBParameterGroup = "db-parameter-group"
	KindDBSubnetGroup    = "db-subnet-group"
	KindSearchDomain     = "search-domain"
	KindStorageBucket    = "storage-bucket"
	KindBucketObject     = "bucket-object"
	KindDynamoDBTable    = "dynamodb-table"
	KindIAMRole          = "iam-role"
	KindLogGroup         = "log-group"

	KindSearchDomainPolicy = "search-domain-policy"
	KindLogResourcePolicy  = "log-resource-policy"
)

// Record is one resource as reported by a describe response.
type Record map[string]any

// describeFunc issues the single describe call for a kind and returns the
// records it reported.
type describeFunc func(ctx context.Context, c *Clients, name string) ([]Record, error)

// Kind describes how to check one class of resource. The check algorithm is
// shared; kinds differ only in this data.
type Kind struct {
	// Name is the canonical kind name.
	Name string

	// Aliases are Terraform and Cloud Control type names for the same kind.
	Aliases []string

	// Service and Operation name the describe call.
	Service   string
	Operation string

	// IDField is the record field compared against the queried name.
	IDField string

	// ListField is the response field that carries the records.
	ListField string

	// NotFoundCodes are provider error codes meaning "confirmed absent".
	NotFoundCodes []string

	// CaseInsensitive identifiers compare with strings.EqualFold.
	CaseInsensitive bool

	validate func(name string) error
	describe describeFunc
}

// matches reports whether rec carries the queried identifier.
func (k *Kind) matches(rec Record, name string) bool {
	id, ok := rec[k.IDField].(string)
	if !ok {
		return false
	}
	if k.CaseInsensitive {
		return strings.EqualFold(id, name)
	}
	return id == name
}

var kinds = []*Kind{
	{
		Name:            KindDBInstance,
		Aliases:         []string{"aws_db_instance", "AWS::RDS::DBInstance", "rds_instance"},
		Service:         "rds",
		Operation:       "DescribeDBInstances",
		IDField:         "DBInstanceIdentifier",
		ListField:       "DBInstances",
		NotFoundCodes:   []string{"DBInstanceNotFound", "DBInstanceNotFoundFault"},
		CaseInsensitive: true,
		describe:        describeDBInstances,
	},
	{
		Name:            KindDBOptionGroup,
		Aliases:         []string{"aws_db_option_group", "AWS::RDS::OptionGroup"},
		Service:         "rds",
		Operation:       "DescribeOptionGroups",
		IDField:         "OptionGroupName",
		ListField:       "OptionGroupsList",
		NotFoundCodes:   []string{"OptionGroupNotFoundFault"},
		CaseInsensitive: true,
		describe:        describeOptionGroups,
	},
	{
		Name:            KindDBParameterGroup,
		Aliases:         []string{"aws_db_parameter_group", "AWS::RDS::DBParameterGroup"},
		Service:         "rds",
		Operation:       "DescribeDBParameterGroups",
		IDField:         "DBParameterGroupName",
		ListField:       "DBParameterGroups",
		NotFoundCodes:   []string{"DBParameterGroupNotFound", "DBParameterGroupNotFoundFault"},
		CaseInsensitive: true,
		describe:        describeDBParameterGroups,
	},
	{
		Name:            KindDBSubnetGroup,
		Aliases:         []string{"aws_db_subnet_group", "AWS::RDS::DBSubnetGroup"},
		Service:         "rds",
		Operation:       "DescribeDBSubnetGroups",
		IDField:         "DBSubnetGroupName",
		ListField:       "DBSubnetGroups",
		NotFoundCodes:   []string{"DBSubnetGroupNotFoundFault", "DBSubnetGroupNotFound"},
		CaseInsensitive: true,
		describe:        describeDBSubnetGroups,
	},
	{
		Name:          KindSearchDomain,
		Aliases:       []string{"aws_elasticsearch_domain", "AWS::Elasticsearch::Domain", "es_domain"},
		Service:       "es",
		Operation:     "DescribeElasticsearchDomains",
		IDField:       "DomainName",
		ListField:     "DomainStatusList",
		NotFoundCodes: []string{"ResourceNotFoundException"},
		describe:      describeSearchDomains,
	},
	{
		Name:          KindSearchDomainPolicy,
		Aliases:       []string{"aws_elasticsearch_domain_policy"},
		Service:       "es",
		Operation:     "DescribeElasticsearchDomains",
		IDField:       "DomainName",
		ListField:     "DomainStatusList",
		NotFoundCodes: []string{"ResourceNotFoundException"},
		describe:      describeSearchDomainPolicies,
	},
	{
		Name:          KindStorageBucket,
		Aliases:       []string{"aws_s3_bucket", "AWS::S3::Bucket", "s3_bucket"},
		Service:       "s3",
		Operation:     "HeadBucket",
		IDField:       "BucketName",
		NotFoundCodes: []string{"NotFound", "NoSuchBucket", "404"},
		describe:      describeBucket,
	},
	{
		Name:          KindBucketObject,
		Aliases:       []string{"aws_s3_object", "aws_s3_bucket_object", "s3_object"},
		Service:       "s3",
		Operation:     "HeadObject",
		IDField:       "Path",
		NotFoundCodes: []string{"NotFound", "NoSuchKey", "NoSuchBucket", "404"},
		validate:      validateObjectPath,
		describe:      describeObject,
	},
	{
		Name:          KindDynamoDBTable,
		Aliases:       []string{"aws_dynamodb_table", "AWS::DynamoDB::Table", "AWS::DynamoDB::GlobalTable", "dynamodb_table"},
		Service:       "dynamodb",
		Operation:     "DescribeTable",
		IDField:       "TableName",
		ListField:     "Table",
		NotFoundCodes: []string{"ResourceNotFoundException"},
		describe:      describeTable,
	},
	{
		Name:          KindIAMRole,
		Aliases:       []string{"aws_iam_role", "aws_iam_service_linked_role", "AWS::IAM::Role", "AWS::IAM::ServiceLinkedRole"},
		Service:       "iam",
		Operation:     "GetRole",
		IDField:       "RoleName",
		ListField:     "Role",
		NotFoundCodes: []string{"NoSuchEntity"},
		describe:      describeRole,
	},
	{
		Name:          KindLogGroup,
		Aliases:       []string{"aws_cloudwatch_log_group", "AWS::Logs::LogGroup"},
		Service:       "logs",
		Operation:     "DescribeLogGroups",
		IDField:       "LogGroupName",
		ListField:     "LogGroups",
		NotFoundCodes: []string{"ResourceNotFoundException"},
		describe:      describeLogGroups,
	},
	{
		Name:          KindLogResourcePolicy,
		Aliases:       []string{"aws_cloudwatch_log_resource_policy", "AWS::Logs::ResourcePolicy"},
		Service:       "logs",
		Operation:     "DescribeResourcePolicies",
		IDField:       "PolicyName",
		ListField:     "ResourcePolicies",
		NotFoundCodes: []string{"ResourceNotFoundException"},
		describe:      describeLogResourcePolicies,
	},
}

// kindsByName maps lowercased canonical names and aliases to kinds.
var kindsByName = func() map[string]*Kind {
	m := make(map[string]*Kind)
	for _, k := range kinds {
		m[strings.ToLower(k.Name)] = k
		for _, alias := range k.Aliases {
			m[strings.ToLower(alias)] = k
		}
	}
	return m
}()

// LookupKind resolves a canonical, Terraform or Cloud Control type name.
func LookupKind(name string) (*Kind, bool) {
	k, ok := kindsByName[normalizeKindName(name)]
	return k, ok
}

// Kinds returns the canonical names of all supported kinds, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Name)
	}
	slices.Sort(names)
	return names
}

// normalizeKindName folds case and whitespace so that aws_db_instance,
// AWS::RDS::DBInstance and aws::rds::dbinstance resolve alike.
func normalizeKindName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	// Canonical names use dashes; accept underscores too.
	if !strings.Contains(name, "::") && !strings.HasPrefix(name, "aws_") {
		name = strings.ReplaceAll(name, "_", "-")
		if _, ok := kindsByName[name]; !ok {
			name = strings.ReplaceAll(name, "-", "_")
		}
	}
	return name
}
