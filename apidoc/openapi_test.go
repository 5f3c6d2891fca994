package apidoc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuildIsValid(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		doc := Build(enabled)
		require.NoError(t, doc.Validate(context.Background()), "errorsEnabled=%v", enabled)
	}
}

func TestBuildAdvertisesSimulatedErrorsWhenEnabled(t *testing.T) {
	doc := Build(true)

	for _, path := range []string{PathSMS, PathEmail} {
		item := doc.Paths.Value(path)
		require.NotNil(t, item, path)
		require.NotNil(t, item.Post, path)

		for _, status := range []int{200, 400, 422, 429, 500} {
			assert.NotNil(t, item.Post.Responses.Status(status), "%s %d", path, status)
		}
	}
}

func TestBuildOmitsSimulatedErrorsWhenDisabled(t *testing.T) {
	doc := Build(false)

	for _, path := range []string{PathSMS, PathEmail} {
		responses := doc.Paths.Value(path).Post.Responses
		assert.NotNil(t, responses.Status(200), path)
		assert.NotNil(t, responses.Status(400), path)
		assert.Nil(t, responses.Status(429), path)
		assert.Nil(t, responses.Status(500), path)
	}
}

func TestBuildExamples(t *testing.T) {
	doc := Build(true)

	ok := doc.Paths.Value(PathSMS).Post.Responses.Status(200).Value
	example, isMap := ok.Content.Get("application/json").Example.(map[string]any)
	require.True(t, isMap)
	assert.Equal(t, "+15558675309", example["to_number"])

	limited := doc.Paths.Value(PathEmail).Post.Responses.Status(429).Value
	assert.Equal(t, map[string]any{"status": "error", "message": "Too many requests"},
		limited.Content.Get("application/json").Example)
}

func TestBuildMarshalsToJSON(t *testing.T) {
	data, err := json.Marshal(Build(true))
	require.NoError(t, err)

	loaded, err := openapi3.NewLoader().LoadFromData(data)
	require.NoError(t, err)
	assert.Equal(t, Title, loaded.Info.Title)
	assert.NotNil(t, loaded.Paths.Value(PathEmail))
}

func TestYAML(t *testing.T) {
	data, err := YAML(Build(false))
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(data, &tree))
	assert.Equal(t, "3.0.3", tree["openapi"])

	paths := tree["paths"].(map[string]any)
	responses := paths[PathSMS].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	assert.Contains(t, responses, "200")
	assert.NotContains(t, responses, "429")
}
