package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1} `))
}

func TestHTTPStatusAndPublicMessage(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(ErrRateLimited))
	assert.Equal(t, http.StatusPaymentRequired, HTTPStatus(ErrQuotaExhausted))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(errors.New("x")))

	assert.Equal(t, "I need a moment to catch my breath. Please try again in a few seconds.", PublicMessage(ErrRateLimited))
	assert.Equal(t, "The AI companion service needs attention. Please try again later.", PublicMessage(ErrQuotaExhausted))
	assert.Equal(t, "Something went wrong. Let's try again in a moment.", PublicMessage(ErrUpstream))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNew_OpenAIDefault(t *testing.T) {
	c, err := New(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)
	oc, ok := c.(*OpenAIClient)
	require.True(t, ok)
	assert.Equal(t, defaultOpenAIModel, oc.model)
}

func TestGenerateSchema_Strict(t *testing.T) {
	type inner struct {
		Name string `json:"name"`
	}
	type outer struct {
		Summary string   `json:"summary" jsonschema:"description=short summary"`
		Themes  []string `json:"themes"`
		Inner   inner    `json:"inner"`
	}

	s := GenerateSchema[outer]()
	assert.Equal(t, "object", s["type"])
	assert.Equal(t, false, s["additionalProperties"])
	assert.Equal(t, []interface{}{"summary", "themes", "inner"}, s["required"])
	assert.NotContains(t, s, "$schema")
	assert.NotContains(t, s, "$id")

	props := s["properties"].(map[string]interface{})
	in := props["inner"].(map[string]interface{})
	assert.Equal(t, false, in["additionalProperties"])
	assert.Equal(t, []interface{}{"name"}, in["required"])
	themes := props["themes"].(map[string]interface{})
	assert.Equal(t, "array", themes["type"])
	assert.NotContains(t, themes, "required")
}
