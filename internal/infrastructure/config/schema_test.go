package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePinsFileAccepts(t *testing.T) {
	raw := []byte(`{"version":2,"object":{"pins":[
		{"identity":"swift-log","kind":"remoteSourceControl","location":"https://github.com/apple/swift-log",
		 "state":{"version":"1.5.3","revision":"abc123"}}
	]}}`)
	assert.NoError(t, ValidatePinsFile(raw))
}

func TestValidatePinsFileRejectsMissingKind(t *testing.T) {
	raw := []byte(`{"version":2,"object":{"pins":[
		{"identity":"swift-log","location":"https://github.com/apple/swift-log",
		 "state":{"version":"1.5.3","revision":"abc123"}}
	]}}`)
	assert.Error(t, ValidatePinsFile(raw))
}

func TestValidateCheckoutsStateAccepts(t *testing.T) {
	raw := []byte(`{"version":1,"object":{"repositories":{
		"abc123":{"repositoryURL":"https://github.com/apple/swift-log","subpath":"abc123"}
	}}}`)
	assert.NoError(t, ValidateCheckoutsState(raw))
}

func TestValidateCheckoutsStateRejectsMissingSubpath(t *testing.T) {
	raw := []byte(`{"version":1,"object":{"repositories":{
		"abc123":{"repositoryURL":"https://github.com/apple/swift-log"}
	}}}`)
	assert.Error(t, ValidateCheckoutsState(raw))
}
