package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeRegistriesLocalOverridesShared(t *testing.T) {
	shared := RegistriesFile{Registries: map[string]RegistryEntry{
		"default": {URL: "https://shared.example.com"},
		"shared-only": {URL: "https://shared-only.example.com"},
	}}
	local := RegistriesFile{Registries: map[string]RegistryEntry{
		"default": {URL: "https://local.example.com"},
	}}

	merged := MergeRegistries(shared, local)
	assert.Equal(t, "https://local.example.com", merged["default"].URL)
	assert.Equal(t, "https://shared-only.example.com", merged["shared-only"].URL)
}
