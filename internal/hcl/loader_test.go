package hcl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/config"
	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/wrapgen"
	"github.com/zclconf/go-cty/cty"
)

const widgetManifest = `
type "gadget" {
  description = "A test type."
  namespace   = "gadgets"

  method "spin" {
    kind = "mm"
    arg {
      type = number
    }
    arg {
      type = table
      hook = "buffer"
    }
    returns = [optional(string), bool]
  }

  field "size" {
    type = vec2
  }

  wrap = [
    "f ; new ; string ; gadget",
    "m ; name ; - ; string",
    "m ; copy ; gadget clone ; gadget ; override=gadget.copy",
  ]
}

namespace "gadget_mode" {
  constants = {
    FAST = 1
    SLOW = "slow"
  }
}
`

func load(t *testing.T, sources ...config.Source) (*config.Model, error) {
	t.Helper()
	return NewLoader().LoadSources(context.Background(), sources...)
}

func TestLoadSources_TranslatesTypes(t *testing.T) {
	// --- Arrange ---
	src := config.Source{Name: "gadget.hcl", Data: []byte(widgetManifest)}

	// --- Act ---
	model, err := load(t, src)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, model.Types, "gadget")
	def := model.Types["gadget"]
	assert.Equal(t, "gadgets", def.Namespace)
	assert.Equal(t, "gadget.hcl", def.Source)
	require.Len(t, def.Methods, 4)

	spin := def.Methods[0]
	assert.Equal(t, wrapgen.KindMutMethod, spin.Kind)
	assert.Equal(t, "gadget.spin", spin.HandlerName())
	require.Len(t, spin.Args, 2)
	assert.Equal(t, "number", spin.Args[0].Type.String())
	assert.Equal(t, wrapgen.DirCustom, spin.Args[1].Directive)
	assert.Equal(t, "buffer", spin.Args[1].Hook)
	require.Len(t, spin.Returns, 2)
	assert.Equal(t, "optional(string)", spin.Returns[0].String())

	newFn := def.Methods[1]
	assert.Equal(t, wrapgen.KindFree, newFn.Kind)
	assert.Equal(t, "gadgets", newFn.Receiver)
	assert.Equal(t, "gadgets.new", newFn.HandlerName())

	cp := def.Methods[3]
	assert.Equal(t, "gadget.copy", cp.Override)
	assert.Equal(t, wrapgen.DirClone, cp.Args[0].Directive)

	require.Len(t, def.Fields, 1)
	assert.Equal(t, "size", def.Fields[0].Name)
	assert.Equal(t, wrapgen.KindMethod, def.Fields[0].Kind)
	assert.Equal(t, "vec2", def.Fields[0].Returns[0].String())
}

func TestLoadSources_TranslatesNamespaces(t *testing.T) {
	model, err := load(t, config.Source{Name: "gadget.hcl", Data: []byte(widgetManifest)})

	require.NoError(t, err)
	ns := model.Namespaces["gadget_mode"]
	require.NotNil(t, ns)
	assert.Equal(t, []string{"FAST", "SLOW"}, ns.ConstantNames())
	fast, _ := ns.Constants["FAST"].AsBigFloat().Int64()
	assert.Equal(t, int64(1), fast)
	assert.Equal(t, cty.String, ns.Constants["SLOW"].Type())
	assert.Equal(t, "slow", ns.Constants["SLOW"].AsString())
}

func TestLoadSources_NamespaceDefaultsToTypeName(t *testing.T) {
	model, err := load(t, config.Source{Name: "a.hcl", Data: []byte(`
type "plain" {
  wrap = ["f ; make ; - ; plain"]
}
`)})

	require.NoError(t, err)
	def := model.Types["plain"]
	assert.Equal(t, "plain", def.Namespace)
	assert.Equal(t, "plain.make", def.Methods[0].HandlerName())
}

func TestLoadSources_WarnsOnUntypedArgument(t *testing.T) {
	// --- Arrange ---
	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))
	src := config.Source{Name: "loose.hcl", Data: []byte(`
type "loose" {
  method "store" {
    kind = "mm"
    arg {
      type = any
    }
  }
}
`)}

	// --- Act ---
	model, err := NewLoader().LoadSources(ctx, src)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Types["loose"].Methods, 1)
	assert.Contains(t, logs.String(), "Argument accepts any value")
	assert.Contains(t, logs.String(), "method=store")
}

func TestLoadSources_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		sources []string
		wantErr string
	}{
		{
			name:    "syntax error",
			sources: []string{`type "x" {`},
			wantErr: "failed to parse HCL source",
		},
		{
			name:    "method without kind",
			sources: []string{"type \"x\" {\n  method \"y\" {\n  }\n}"},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "bad wrap line",
			sources: []string{`type "x" { wrap = ["q ; y"] }`},
			wantErr: "unknown kind",
		},
		{
			name:    "unknown method kind",
			sources: []string{"type \"x\" {\n  method \"y\" {\n    kind = \"zz\"\n  }\n}"},
			wantErr: `type "x", method "y": unknown kind "zz"`,
		},
		{
			name:    "bad argument type",
			sources: []string{"type \"x\" {\n  method \"y\" {\n    kind = \"m\"\n    arg {\n      type = \"str\"\n    }\n  }\n}"},
			wantErr: "argument 1",
		},
		{
			name:    "constants must be an object",
			sources: []string{`namespace "n" { constants = [1, 2] }`},
			wantErr: `namespace "n": constants must be an object`,
		},
		{
			name:    "type defined twice",
			sources: []string{`type "x" {}`, `type "x" {}`},
			wantErr: `type "x" is defined in both`,
		},
		{
			name:    "namespace defined twice in one file",
			sources: []string{"namespace \"n\" {}\nnamespace \"n\" {}"},
			wantErr: `namespace "n" is defined twice`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var sources []config.Source
			for i, s := range tc.sources {
				sources = append(sources, config.Source{Name: fmt.Sprintf("src%d.hcl", i), Data: []byte(s)})
			}

			_, err := load(t, sources...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MergesDirectoryAndSkipsMissingPaths(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`type "alpha" {}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.hcl"), []byte(`namespace "beta" {}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not hcl`), 0o600))

	// --- Act ---
	model, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "a.hcl"), filepath.Join(dir, "missing"))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, model.TypeNames())
	assert.Contains(t, model.Namespaces, "beta")
}
