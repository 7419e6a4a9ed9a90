package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	e := New()
	require.NoError(t, e.Compile("greet", `{{ label | sentence }} has come up {{ count }} times.`))

	out, err := e.Render("greet", map[string]interface{}{"label": "work", "count": 3})
	require.NoError(t, err)
	assert.Equal(t, "Work has come up 3 times.", out)
}

func TestRender_DefaultFilter(t *testing.T) {
	e := New()
	e.MustCompile("d", `About {{ label | default: "this" }}.`)

	out, err := e.Render("d", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "About this.", out)
}

func TestRender_UnknownKey(t *testing.T) {
	_, err := New().Render("missing", nil)
	assert.Error(t, err)
}

func TestCompile_SyntaxError(t *testing.T) {
	assert.Error(t, New().Compile("bad", `{% if %}`))
	assert.Panics(t, func() { New().MustCompile("bad", `{% if %}`) })
}
