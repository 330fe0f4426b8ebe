// internal/services/json_repair_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/veospark/veospark-server/internal/errors"
)

func TestExtractJSONObjectCleanJSON(t *testing.T) {
	obj, err := ExtractJSONObject(`{"title": "A cat in rain", "shots": []}`)
	require.NoError(t, err)
	assert.Equal(t, "A cat in rain", obj["title"])
}

func TestExtractJSONObjectFencedBlock(t *testing.T) {
	raw := "Here you go:\n```json\n{\"title\": \"Rainy Cat\", \"narration\": \"[calm] rain\"}\n```"

	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, "Rainy Cat", obj["title"])
	assert.Equal(t, "[calm] rain", obj["narration"])
}

func TestExtractJSONObjectFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"title\": \"x\"}\n```"

	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, "x", obj["title"])
}

func TestExtractJSONObjectSurroundedByProse(t *testing.T) {
	raw := `Sure! Here is the result you asked for: {"title": "Nested {braces}", "count": 2} Hope that helps.`

	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, "Nested {braces}", obj["title"])
	assert.Equal(t, float64(2), obj["count"])
}

func TestExtractJSONObjectEscapedQuotesInsideStrings(t *testing.T) {
	raw := `noise {"dialogue": "she said \"go\" and left", "n": 1} trailing`

	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, `she said "go" and left`, obj["dialogue"])
}

func TestExtractJSONObjectTrailingComma(t *testing.T) {
	raw := `{"title": "x", "shots": [{"index": 1,},],}`

	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, "x", obj["title"])
}

func TestExtractJSONObjectBareNewlineInString(t *testing.T) {
	raw := "{\"narration\": \"line one\nline two\"}"

	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", obj["narration"])
}

func TestExtractJSONObjectNoBraceFails(t *testing.T) {
	raw := "I cannot produce that content."

	obj, err := ExtractJSONObject(raw)
	assert.Nil(t, obj)
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
	assert.Equal(t, raw, apperrors.RawText(err))
}

func TestExtractJSONObjectTruncatedFails(t *testing.T) {
	raw := `{"title": "cut off mid`

	_, err := ExtractJSONObject(raw)
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
	assert.Equal(t, raw, apperrors.RawText(err))
}

func TestScanBalancedObject(t *testing.T) {
	assert.Equal(t, `{"a": {"b": 1}}`, scanBalancedObject(`prefix {"a": {"b": 1}} suffix`))
	assert.Equal(t, "", scanBalancedObject("no braces here"))
	assert.Equal(t, "", scanBalancedObject(`{"unbalanced": `))
}

func TestRemoveTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2]}`, removeTrailingCommas(`{"a": [1, 2,],}`))
}
