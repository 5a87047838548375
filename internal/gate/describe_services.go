// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice"
	estypes "github.com/aws/aws-sdk-go-v2/service/elasticsearchservice/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

func describeSearchDomains(ctx context.Context, c *Clients, name string) ([]Record, error) {
	domains, err := searchDomains(ctx, c, name)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(domains))
	for _, d := range domains {
		endpoint := searchDomainEndpoint(d)
		rec := Record{
			"DomainName":           aws.ToString(d.DomainName),
			"Arn":                  aws.ToString(d.ARN),
			"DomainId":             aws.ToString(d.DomainId),
			"ElasticsearchVersion": aws.ToString(d.ElasticsearchVersion),
			"Endpoint":             endpoint,
			"Processing":           aws.ToBool(d.Processing),
			"Deleted":              aws.ToBool(d.Deleted),
		}
		if endpoint != "" {
			rec["KibanaEndpoint"] = endpoint + kibanaPath
		}
		records = append(records, rec)
	}
	return records, nil
}

// describeSearchDomainPolicies reports a domain only once an access policy
// is attached to it.
func describeSearchDomainPolicies(ctx context.Context, c *Clients, name string) ([]Record, error) {
	domains, err := searchDomains(ctx, c, name)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, d := range domains {
		policy := aws.ToString(d.AccessPolicies)
		if policy == "" {
			continue
		}
		records = append(records, Record{
			"DomainName":     aws.ToString(d.DomainName),
			"Arn":            aws.ToString(d.ARN),
			"AccessPolicies": policy,
		})
	}
	return records, nil
}

func searchDomains(ctx context.Context, c *Clients, name string) ([]estypes.ElasticsearchDomainStatus, error) {
	out, err := c.Elasticsearch.DescribeElasticsearchDomains(ctx, &elasticsearchservice.DescribeElasticsearchDomainsInput{
		DomainNames: []string{name},
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}
	return out.DomainStatusList, nil
}

// kibanaPath is where a domain serves Kibana, relative to its endpoint.
const kibanaPath = "/_plugin/kibana/"

// searchDomainEndpoint returns the public endpoint, or the VPC endpoint for
// domains placed in a VPC.
func searchDomainEndpoint(d estypes.ElasticsearchDomainStatus) string {
	if endpoint := aws.ToString(d.Endpoint); endpoint != "" {
		return endpoint
	}
	return d.Endpoints["vpc"]
}

func describeTable(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.DynamoDB.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Table == nil {
		return nil, ErrMalformedResponse
	}

	table := out.Table
	return []Record{{
		"TableName":          aws.ToString(table.TableName),
		"Arn":                aws.ToString(table.TableArn),
		"TableStatus":        string(table.TableStatus),
		"TableId":            aws.ToString(table.TableId),
		"ItemCount":          aws.ToInt64(table.ItemCount),
		"DeletionProtection": aws.ToBool(table.DeletionProtectionEnabled),
	}}, nil
}

func describeRole(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.IAM.GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Role == nil {
		return nil, ErrMalformedResponse
	}

	role := out.Role
	return []Record{{
		"RoleName": aws.ToString(role.RoleName),
		"Arn":      aws.ToString(role.Arn),
		"RoleId":   aws.ToString(role.RoleId),
		"Path":     aws.ToString(role.Path),
	}}, nil
}

// describeLogGroups filters by prefix, so only exact names count as matches.
// The exact name sorts first among its prefix matches, so one page suffices.
func describeLogGroups(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.Logs.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	records := make([]Record, 0, len(out.LogGroups))
	for _, lg := range out.LogGroups {
		rec := Record{
			"LogGroupName": aws.ToString(lg.LogGroupName),
			"Arn":          aws.ToString(lg.Arn),
		}
		if lg.RetentionInDays != nil {
			rec["RetentionInDays"] = int64(aws.ToInt32(lg.RetentionInDays))
		}
		records = append(records, rec)
	}
	return records, nil
}

// describeLogResourcePolicies lists the account's log resource policies.
// The API has no name filter; an account holds at most ten policies per
// region, so the first page covers them all.
func describeLogResourcePolicies(ctx context.Context, c *Clients, _ string) ([]Record, error) {
	out, err := c.Logs.DescribeResourcePolicies(ctx, &cloudwatchlogs.DescribeResourcePoliciesInput{})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	records := make([]Record, 0, len(out.ResourcePolicies))
	for _, p := range out.ResourcePolicies {
		rec := Record{
			"PolicyName":     aws.ToString(p.PolicyName),
			"PolicyDocument": aws.ToString(p.PolicyDocument),
		}
		if p.LastUpdatedTime != nil {
			rec["LastUpdatedTime"] = aws.ToInt64(p.LastUpdatedTime)
		}
		records = append(records, rec)
	}
	return records, nil
}
