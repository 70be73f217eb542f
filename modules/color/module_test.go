package color

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/luaerr"
	"github.com/vk/scriptui/internal/testutil"
	lua "github.com/yuin/gopher-lua"
)

func TestFromRGBA(t *testing.T) {
	c, err := FromRGBA(1, 2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, gui.FromRGBA(1, 2, 3, 4), c)

	_, err = FromRGB(0, 256, 0)
	var ce *ChannelError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "g", ce.Channel)
	assert.Equal(t, 256, ce.Value)
}

func TestColorBindings(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})

	got := h.Eval(t, `(function()
  local c = egui.color32.from_rgba(16, 32, 48, 64)
  local C = egui.color32
  return C.r(c), C.g(c), C.b(c), C.a(c), C.hex(c), C.hex(C.RED), C.a(C.from_gray(9))
end)()`)

	want := []lua.LValue{
		lua.LNumber(16), lua.LNumber(32), lua.LNumber(48), lua.LNumber(64),
		lua.LString("#102030"), lua.LString(gui.Red.Hex()), lua.LNumber(255),
	}
	assert.Equal(t, want, got)
}

func TestNamedColorsArePacked(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})

	for name, c := range gui.NamedColors {
		got := h.Eval(t, "egui.color32."+name)
		require.Len(t, got, 1)
		assert.Equal(t, lua.LNumber(c.Packed()), got[0], name)
	}
}

func TestFromRGBA_OutOfRange(t *testing.T) {
	h := testutil.NewHarness(t, &Module{})

	_, err := h.TryEval(`egui.color32.from_rgba(0, 0, 300, 0)`)

	require.Error(t, err)
	var ce *ChannelError
	require.True(t, errors.As(luaerr.Unwrap(err), &ce))
	assert.Contains(t, luaerr.Unwrap(err).Error(), "color32.from_rgba: channel b: 300 is outside 0..255")
}
