// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice"
	estypes "github.com/aws/aws-sdk-go-v2/service/elasticsearchservice/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

var testCred = Credential{
	AccessKey: "test",
	SecretKey: "test",
	Region:    "us-east-1",
}

func accessDenied() error {
	return &smithy.GenericAPIError{Code: "AccessDenied", Message: "not authorized"}
}

// stubConfig skips the default credential chain so tests stay hermetic.
func stubConfig(_ context.Context, cred Credential) (aws.Config, error) {
	if cred.Region == "" {
		return aws.Config{}, ErrMissingRegion
	}
	return aws.Config{Region: cred.Region}, nil
}

// newTestGate returns a gate whose every check opens the given clients and
// counts how many client sets were opened.
func newTestGate(clients *Clients, opened *int) *Gate {
	return New(
		WithConfigLoader(stubConfig),
		WithClientFactory(func(aws.Config) *Clients {
			if opened != nil {
				*opened++
			}
			return clients
		}),
	)
}

type fakeRDS struct {
	instances       []rdstypes.DBInstance
	optionGroups    []rdstypes.OptionGroup
	parameterGroups []rdstypes.DBParameterGroup
	subnetGroups    []rdstypes.DBSubnetGroup
	err             error
	nilOutput       bool
	calls           int
	lastIdentifier  string
}

func (f *fakeRDS) DescribeDBInstances(_ context.Context, in *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	f.calls++
	f.lastIdentifier = aws.ToString(in.DBInstanceIdentifier)
	if f.err != nil {
		return nil, f.err
	}
	if f.nilOutput {
		return nil, nil
	}
	return &rds.DescribeDBInstancesOutput{DBInstances: f.instances}, nil
}

func (f *fakeRDS) DescribeOptionGroups(_ context.Context, in *rds.DescribeOptionGroupsInput, _ ...func(*rds.Options)) (*rds.DescribeOptionGroupsOutput, error) {
	f.calls++
	f.lastIdentifier = aws.ToString(in.OptionGroupName)
	if f.err != nil {
		return nil, f.err
	}
	return &rds.DescribeOptionGroupsOutput{OptionGroupsList: f.optionGroups}, nil
}

func (f *fakeRDS) DescribeDBParameterGroups(_ context.Context, in *rds.DescribeDBParameterGroupsInput, _ ...func(*rds.Options)) (*rds.DescribeDBParameterGroupsOutput, error) {
	f.calls++
	f.lastIdentifier = aws.ToString(in.DBParameterGroupName)
	if f.err != nil {
		return nil, f.err
	}
	return &rds.DescribeDBParameterGroupsOutput{DBParameterGroups: f.parameterGroups}, nil
}

func (f *fakeRDS) DescribeDBSubnetGroups(_ context.Context, in *rds.DescribeDBSubnetGroupsInput, _ ...func(*rds.Options)) (*rds.DescribeDBSubnetGroupsOutput, error) {
	f.calls++
	f.lastIdentifier = aws.ToString(in.DBSubnetGroupName)
	if f.err != nil {
		return nil, f.err
	}
	return &rds.DescribeDBSubnetGroupsOutput{DBSubnetGroups: f.subnetGroups}, nil
}

type fakeS3 struct {
	buckets map[string]bool
	objects map[string]bool
	err     error
	calls   int
}

func notFound() error {
	return &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if !f.buckets[aws.ToString(in.Bucket)] {
		return nil, notFound()
	}
	return &s3.HeadBucketOutput{BucketRegion: aws.String("us-east-1")}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if !f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] {
		return nil, notFound()
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(42), ETag: aws.String(`"abc123"`)}, nil
}

type fakeDynamoDB struct {
	out *dynamodb.DescribeTableOutput
	err error
}

func (f *fakeDynamoDB) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return f.out, f.err
}

type fakeIAM struct {
	out *iam.GetRoleOutput
	err error
}

func (f *fakeIAM) GetRole(_ context.Context, _ *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	return f.out, f.err
}

type fakeElasticsearch struct {
	domains []estypes.ElasticsearchDomainStatus
	err     error
}

func (f *fakeElasticsearch) DescribeElasticsearchDomains(_ context.Context, _ *elasticsearchservice.DescribeElasticsearchDomainsInput, _ ...func(*elasticsearchservice.Options)) (*elasticsearchservice.DescribeElasticsearchDomainsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &elasticsearchservice.DescribeElasticsearchDomainsOutput{DomainStatusList: f.domains}, nil
}

type fakeLogs struct {
	groups   []logstypes.LogGroup
	policies []logstypes.ResourcePolicy
	err      error
}

func (f *fakeLogs) DescribeLogGroups(_ context.Context, _ *cloudwatchlogs.DescribeLogGroupsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatchlogs.DescribeLogGroupsOutput{LogGroups: f.groups}, nil
}

func (f *fakeLogs) DescribeResourcePolicies(_ context.Context, _ *cloudwatchlogs.DescribeResourcePoliciesInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeResourcePoliciesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatchlogs.DescribeResourcePoliciesOutput{ResourcePolicies: f.policies}, nil
}
