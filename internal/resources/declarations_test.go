// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package resources

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoeBlu/pacbot/internal/gate"
)

func TestDefaultSearchDomain(t *testing.T) {
	d := DefaultSearchDomain("")

	assert.Equal(t, "data", d.DomainName)
	assert.Equal(t, "5.5", d.ElasticsearchVersion)
	assert.Equal(t, "m4.large.elasticsearch", d.InstanceType)
	assert.Equal(t, 1, d.InstanceCount)
	assert.True(t, d.EBSEnabled)
	assert.Equal(t, "gp2", d.VolumeType)
	assert.Equal(t, 20, d.VolumeSize)
	assert.Equal(t, 23, d.AutomatedSnapshotStartHour)
	assert.Equal(t, gate.Query{Kind: gate.KindSearchDomain, Name: "data"}, d.Query())

	assert.Equal(t, "r5.large.elasticsearch", DefaultSearchDomain("r5.large.elasticsearch").InstanceType)
}

func TestHTTPURL(t *testing.T) {
	endpoint := "vpc-data-abc.us-east-1.es.amazonaws.com"

	assert.Equal(t, "http://"+endpoint, HTTPURL(endpoint))
	assert.Equal(t, "http://"+endpoint+":80", HTTPURLWithPort(endpoint))
}

func TestNewServiceLinkedRole(t *testing.T) {
	es, err := NewServiceLinkedRole("es.amazonaws.com", "installer")
	require.NoError(t, err)

	assert.Equal(t, "AWSServiceRoleForAmazonElasticsearchService", es.RoleName)
	assert.Equal(t, gate.Query{Kind: gate.KindIAMRole, Name: "AWSServiceRoleForAmazonElasticsearchService"}, es.Query())
	assert.Equal(t, "iam_service_linked_role.es.amazonaws.com", es.ResourceID())

	_, err = NewServiceLinkedRole("foo.amazonaws.com", "")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestSearchDomain_Validate(t *testing.T) {
	require.NoError(t, DefaultSearchDomain("").Validate())

	tests := []struct {
		name   string
		modify func(d *SearchDomain)
	}{
		{"not an elasticsearch instance type", func(d *SearchDomain) { d.InstanceType = "m4.large" }},
		{"no instances", func(d *SearchDomain) { d.InstanceCount = 0 }},
		{"snapshot hour out of range", func(d *SearchDomain) { d.AutomatedSnapshotStartHour = 24 }},
		{"volume too small", func(d *SearchDomain) { d.VolumeSize = 5 }},
		{"unknown volume type", func(d *SearchDomain) { d.VolumeType = "sc1" }},
		{"two subnets in one zone", func(d *SearchDomain) {
			d.SubnetIDs = []string{"subnet-a", "subnet-b"}
			d.SecurityGroupIDs = []string{"sg-1"}
		}},
		{"vpc without security group", func(d *SearchDomain) { d.SubnetIDs = []string{"subnet-a"} }},
		{"dedicated master with one node", func(d *SearchDomain) { d.DedicatedMasterEnabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DefaultSearchDomain("")
			tt.modify(&d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidDeclaration)
		})
	}
}

func TestLogGroup_Validate(t *testing.T) {
	assert.NoError(t, SearchLogGroup().Validate())
	assert.NoError(t, LogGroup{Name: "forever"}.Validate())
	assert.ErrorIs(t, LogGroup{Name: "elasticsearch", RetentionInDays: 10}.Validate(), ErrInvalidDeclaration)
	assert.ErrorIs(t, LogGroup{RetentionInDays: 7}.Validate(), ErrInvalidDeclaration)
}

func TestLogResourcePolicy_Document(t *testing.T) {
	p := SearchLogResourcePolicy()
	assert.Equal(t, gate.Query{Kind: gate.KindLogResourcePolicy, Name: "elasticSearch"}, p.Query())

	doc, err := p.Document("arn:aws:logs:us-east-1:123456789012:log-group:elasticsearch")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"Service": ["es.amazonaws.com"]},
			"Action": ["logs:PutLogEvents", "logs:PutLogEventsBatch", "logs:CreateLogStream"],
			"Resource": "arn:aws:logs:us-east-1:123456789012:log-group:elasticsearch*"
		}]
	}`, doc)
}

func TestDomainPolicy_Document(t *testing.T) {
	p := DomainPolicy{DomainName: "data"}
	assert.Equal(t, gate.Query{Kind: gate.KindSearchDomainPolicy, Name: "data"}, p.Query())

	doc, err := p.Document("arn:aws:es:us-east-1:123456789012:domain/data")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["es:*"],
			"Resource": "arn:aws:es:us-east-1:123456789012:domain/data/*"
		}]
	}`, doc)
}

func TestSubmitJobArtifact(t *testing.T) {
	obj := SubmitJobArtifact("installer-data", "pacbot", "/opt/files")

	assert.Equal(t, "pacbot/pacbot-submitBatchjob.zip", obj.Key)
	assert.Equal(t, filepath.Join("/opt/files", "pacbot-submitBatchjob.zip"), obj.Source)
	assert.Equal(t, gate.Query{Kind: gate.KindBucketObject, Name: "installer-data/pacbot/pacbot-submitBatchjob.zip"}, obj.Query())
}

func TestDeclarations_QueriesResolve(t *testing.T) {
	decls := []Declaration{
		DefaultSearchDomain(""),
		SearchLogGroup(),
		ServiceLinkedRole{ServiceName: "es.amazonaws.com", RoleName: "AWSServiceRoleForAmazonElasticsearchService"},
		SearchLogResourcePolicy(),
		DomainPolicy{DomainName: "data"},
		DBInstance{Identifier: "prod-db-1"},
		DBOptionGroup{Name: "og"},
		DBParameterGroup{Name: "pg"},
		DBSubnetGroup{Name: "sg"},
		Bucket{Name: "b"},
		SubmitJobArtifact("b", "p", "f"),
	}

	for _, d := range decls {
		t.Run(d.ResourceID(), func(t *testing.T) {
			_, ok := gate.LookupKind(d.Query().Kind)
			assert.True(t, ok, "kind %q should be supported", d.Query().Kind)
			assert.NotEmpty(t, d.Query().Name)
		})
	}
}
