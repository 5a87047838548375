// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// describeBucket uses HeadBucket: success is the single matching record.
func describeBucket(ctx context.Context, c *Clients, name string) ([]Record, error) {
	out, err := c.S3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	rec := Record{
		"BucketName": name,
		"Arn":        fmt.Sprintf("arn:aws:s3:::%s", name),
	}
	if region := aws.ToString(out.BucketRegion); region != "" {
		rec["Region"] = region
	}
	return []Record{rec}, nil
}

// describeObject checks a "bucket/key" path with HeadObject.
func describeObject(ctx context.Context, c *Clients, name string) ([]Record, error) {
	bucket, key, err := splitObjectPath(name)
	if err != nil {
		return nil, err
	}

	out, err := c.S3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrMalformedResponse
	}

	rec := Record{
		"Path":          name,
		"Bucket":        bucket,
		"Key":           key,
		"Arn":           fmt.Sprintf("arn:aws:s3:::%s/%s", bucket, key),
		"ContentLength": aws.ToInt64(out.ContentLength),
		"ETag":          strings.Trim(aws.ToString(out.ETag), `"`),
	}
	if out.VersionId != nil {
		rec["VersionId"] = aws.ToString(out.VersionId)
	}
	return []Record{rec}, nil
}

func validateObjectPath(name string) error {
	_, _, err := splitObjectPath(name)
	return err
}

// splitObjectPath splits "bucket/key" at the first slash.
func splitObjectPath(name string) (bucket, key string, err error) {
	bucket, key, ok := strings.Cut(name, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q is not of the form bucket/key", ErrInvalidName, name)
	}
	return bucket, key, nil
}
