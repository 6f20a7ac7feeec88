package script

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTengoEngine_Execute(t *testing.T) {
	engine := NewTengoEngine()

	tests := []struct {
		name    string
		content string
		input   map[string]interface{}
		want    interface{}
	}{
		{"constant", `result := 2 + 3`, nil, int64(5)},
		{"with context", `result := base_value * multiplier`, map[string]interface{}{"base_value": 10, "multiplier": 3}, int64(30)},
		{"map input", `result := card.health + card.damage * 2`, map[string]interface{}{
			"card": map[string]interface{}{"health": 40, "damage": 8},
		}, int64(56)},
		{"stdlib import", `math := import("math"); result := math.floor(2.7)`, nil, 2.0},
		{"no result", `x := 1`, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Script{Name: tt.name, Content: tt.content}
			out, err := engine.Execute(context.Background(), s, &ScriptInput{Context: tt.input})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Result)
		})
	}
}

func TestTengoEngine_Errors(t *testing.T) {
	engine := NewTengoEngine()

	t.Run("syntax", func(t *testing.T) {
		_, err := engine.Execute(context.Background(), &Script{Name: "bad", Content: `result := (`}, nil)
		var scriptErr *ScriptError
		require.ErrorAs(t, err, &scriptErr)
		assert.Equal(t, ErrorTypeCompilation, scriptErr.Type)
	})

	t.Run("runtime", func(t *testing.T) {
		_, err := engine.Execute(context.Background(), &Script{Name: "div", Content: `a := 0; result := 1 / a`}, nil)
		var scriptErr *ScriptError
		require.ErrorAs(t, err, &scriptErr)
		assert.Equal(t, ErrorTypeExecution, scriptErr.Type)
	})

	t.Run("disallowed import", func(t *testing.T) {
		_, err := engine.Execute(context.Background(), &Script{Name: "os", Content: `os := import("os")`}, nil)
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		engine := NewTengoEngine()
		engine.SetSecurityLimits(SecurityLimits{MaxExecutionTime: 50 * time.Millisecond, MaxAllocs: -1})

		start := time.Now()
		_, err := engine.Execute(context.Background(), &Script{Name: "loop", Content: `for { }`}, nil)
		var scriptErr *ScriptError
		require.ErrorAs(t, err, &scriptErr)
		assert.Equal(t, ErrorTypeTimeout, scriptErr.Type)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestTengoEngine_Check(t *testing.T) {
	engine := NewTengoEngine()
	assert.NoError(t, engine.Check(&Script{Name: "ok", Content: `result := card.health`}, "card"))
	assert.Error(t, engine.Check(&Script{Name: "undeclared", Content: `result := card.health`}))
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bots/score.tengo", []byte(`result := 1`), 0o644))

	s, err := Load(fs, "bots/score.tengo")
	require.NoError(t, err)
	assert.Equal(t, "result := 1", s.Content)

	_, err = Load(fs, "bots/missing.tengo")
	var scriptErr *ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, ErrorTypeNotFound, scriptErr.Type)
}
