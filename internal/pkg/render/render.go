// Package render compiles and renders the Liquid templates behind user-facing
// copy (reflection observations, insight cards). Templates are parsed once
// and cached by key.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

// Engine renders Liquid templates with caching.
type Engine struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// New creates an Engine with the copy filters registered.
func New() *Engine {
	e := &Engine{engine: liquid.NewEngine()}
	e.registerFilters()
	return e
}

func (e *Engine) registerFilters() {
	// {{ label | default: "this" }}
	e.engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		strVal := fmt.Sprintf("%v", value)
		if strVal == "" || strVal == "<nil>" {
			return defaultVal
		}
		return value
	})

	// {{ label | sentence }} upper-cases the first letter only.
	e.engine.RegisterFilter("sentence", func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	})
}

// Compile parses src and stores it under key, replacing any previous entry.
func (e *Engine) Compile(key, src string) error {
	tpl, err := e.engine.ParseString(src)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", key, err)
	}
	e.cache.Store(key, tpl)
	return nil
}

// MustCompile is Compile for templates that ship with the binary.
func (e *Engine) MustCompile(key, src string) {
	if err := e.Compile(key, src); err != nil {
		panic(err)
	}
}

// Render renders the template stored under key.
func (e *Engine) Render(key string, vars map[string]interface{}) (string, error) {
	cached, ok := e.cache.Load(key)
	if !ok {
		return "", fmt.Errorf("template %s is not compiled", key)
	}
	out, err := cached.(*liquid.Template).RenderString(vars)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", key, err)
	}
	return strings.TrimSpace(out), nil
}
