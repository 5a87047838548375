// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
)

func describeDBInstances(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.RDS.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	records := make([]Record, 0, len(out.DBInstances))
	for _, db := range out.DBInstances {
		rec := Record{
			"DBInstanceIdentifier": aws.ToString(db.DBInstanceIdentifier),
			"Arn":                  aws.ToString(db.DBInstanceArn),
			"DBInstanceStatus":     aws.ToString(db.DBInstanceStatus),
			"DBInstanceClass":      aws.ToString(db.DBInstanceClass),
			"Engine":               aws.ToString(db.Engine),
			"EngineVersion":        aws.ToString(db.EngineVersion),
		}
		if db.Endpoint != nil {
			rec["EndpointAddress"] = aws.ToString(db.Endpoint.Address)
			rec["EndpointPort"] = int64(aws.ToInt32(db.Endpoint.Port))
		}
		records = append(records, rec)
	}
	return records, nil
}

func describeOptionGroups(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.RDS.DescribeOptionGroups(ctx, &rds.DescribeOptionGroupsInput{
		OptionGroupName: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	records := make([]Record, 0, len(out.OptionGroupsList))
	for _, og := range out.OptionGroupsList {
		records = append(records, Record{
			"OptionGroupName":    aws.ToString(og.OptionGroupName),
			"Arn":                aws.ToString(og.OptionGroupArn),
			"EngineName":         aws.ToString(og.EngineName),
			"MajorEngineVersion": aws.ToString(og.MajorEngineVersion),
		})
	}
	return records, nil
}

func describeDBParameterGroups(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.RDS.DescribeDBParameterGroups(ctx, &rds.DescribeDBParameterGroupsInput{
		DBParameterGroupName: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	records := make([]Record, 0, len(out.DBParameterGroups))
	for _, pg := range out.DBParameterGroups {
		records = append(records, Record{
			"DBParameterGroupName":   aws.ToString(pg.DBParameterGroupName),
			"Arn":                    aws.ToString(pg.DBParameterGroupArn),
			"DBParameterGroupFamily": aws.ToString(pg.DBParameterGroupFamily),
		})
	}
	return records, nil
}

func describeDBSubnetGroups(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.RDS.DescribeDBSubnetGroups(ctx, &rds.DescribeDBSubnetGroupsInput{
		DBSubnetGroupName: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	records := make([]Record, 0, len(out.DBSubnetGroups))
	for _, sg := range out.DBSubnetGroups {
		records = append(records, Record{
			"DBSubnetGroupName": aws.ToString(sg.DBSubnetGroupName),
			"Arn":               aws.ToString(sg.DBSubnetGroupArn),
			"VpcId":             aws.ToString(sg.VpcId),
			"SubnetGroupStatus": aws.ToString(sg.SubnetGroupStatus),
		})
	}
	return records, nil
}
