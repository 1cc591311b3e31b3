package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinding(t *testing.T) {
	tests := map[string]bool{
		"{/name}":              true,
		"{i18n>title}":         true,
		"{= ${/count} > 1 }":   true,
		"{:= ${/name} }":       true,
		"plain text":           false,
		`{"json": true}`:       false,
		"{'a': 1}":             false,
		"{}":                   false,
		"prefix {/name}":       false,
		"{/name} suffix":       false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsBinding(in), in)
	}
}

func TestBinding_Evaluate(t *testing.T) {
	models := Models{
		DefaultModel: map[string]any{
			"customer": map[string]any{"name": "Ada"},
			"items":    []any{"first", "second"},
			"count":    3,
		},
		"i18n": map[string]string{"title": "Orders"},
	}
	tests := []struct {
		source string
		want   any
	}{
		{"{/customer/name}", "Ada"},
		{"{/items/1}", "second"},
		{"{i18n>title}", "Orders"},
		{"{i18n>missing}", nil},
		{"{/customer/missing/deeper}", nil},
		{"{= ${/count} > 1 }", true},
		{"{= ${i18n>title} + '!' }", "Orders!"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			binding, err := CompileBinding(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.source, binding.Source)
			got, err := binding.Evaluate(models)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileBinding_Errors(t *testing.T) {
	_, err := CompileBinding("plain")
	assert.ErrorIs(t, err, ErrNotABinding)

	_, err = CompileBinding("{= }")
	assert.Error(t, err)
}
