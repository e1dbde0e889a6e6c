package openapi

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/krushiiq/apiserver/internal/handlers"
	"github.com/krushiiq/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuildCoversRouteTable(t *testing.T) {
	routes := handlers.Routes()
	doc := Build(routes, "/api")

	assert.Equal(t, Version, doc.OpenAPI)

	ops := 0
	for _, item := range doc.Paths {
		ops += len(item)
	}
	assert.Equal(t, len(routes), ops)

	profile := doc.Paths["/api/farmer-profile"]
	require.Contains(t, profile, "get")
	require.Contains(t, profile, "post")
	require.Len(t, profile["get"].Parameters, 1)
	assert.Equal(t, "name", profile["get"].Parameters[0].Name)
	assert.Equal(t, "query", profile["get"].Parameters[0].In)
	assert.Equal(t, "getFarmerProfile", profile["get"].OperationID)
}

func TestBuildRequestBodies(t *testing.T) {
	doc := Build(handlers.Routes(), "/api")

	register := doc.Paths["/api/register"]["post"]
	require.NotNil(t, register.RequestBody)
	body := register.RequestBody.Content["application/json"].Schema
	assert.Equal(t, []string{"username", "password", "email"}, body.Required)
	assert.Contains(t, register.Responses, "201")
	assert.Equal(t, errorSchemaRef, register.Responses["400"].Content["application/json"].Schema.Ref)

	upload := doc.Paths["/api/ai/disease-detection"]["post"]
	require.NotNil(t, upload.RequestBody)
	form := upload.RequestBody.Content["multipart/form-data"].Schema
	assert.Equal(t, "binary", form.Properties["image"].Format)
	assert.Contains(t, upload.Responses, "503")

	me := doc.Paths["/api/me"]["get"]
	require.Len(t, me.Security, 1)
	assert.Contains(t, me.Security[0], bearerScheme)
}

func TestSchemaOf(t *testing.T) {
	s := SchemaOf(reflect.TypeOf(types.CropAdvice{}))
	assert.Equal(t, "object", s.Type)
	assert.Equal(t, "array", s.Properties["recommended_crops"].Type)
	assert.Equal(t, "string", s.Properties["recommended_crops"].Items.Type)
	assert.Equal(t, "number", s.Properties["confidence"].Type)

	user := SchemaOf(reflect.TypeOf(types.User{}))
	assert.NotContains(t, user.Properties, "password_hash")
	assert.NotContains(t, user.Properties, "PasswordHash")
	assert.Equal(t, "date-time", user.Properties["created_at"].Format)
}

func TestRenderings(t *testing.T) {
	doc := Build(handlers.Routes(), "/api")

	raw, err := doc.JSON()
	require.NoError(t, err)
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(raw, &fromJSON))
	assert.Equal(t, Version, fromJSON["openapi"])

	raw, err = doc.YAML()
	require.NoError(t, err)
	var fromYAML struct {
		OpenAPI string                    `yaml:"openapi"`
		Paths   map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &fromYAML))
	assert.Equal(t, Version, fromYAML.OpenAPI)
	assert.Contains(t, fromYAML.Paths, "/api/weather-forecast")
}
