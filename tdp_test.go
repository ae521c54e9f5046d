package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeDescription(t *testing.T) {
	t.Run("Builtin", func(t *testing.T) {
		d, err := ParseTypeDescription("int")
		require.NoError(t, err)
		b, ok := d.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "int", b.BuiltinType)
	})

	t.Run("Pointer To Const Char", func(t *testing.T) {
		d, err := ParseTypeDescription("const char*")
		require.NoError(t, err)
		p, ok := d.(*TCPointer)
		require.True(t, ok)
		assert.True(t, p.IsNullable)
		b, ok := p.Inner.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "char", b.BuiltinType)
		assert.Equal(t, []string{"const"}, b.Storage)
	})

	t.Run("Non Nullable Pointer", func(t *testing.T) {
		d, err := ParseTypeDescription("^char*")
		require.NoError(t, err)
		outer, ok := d.(*TCPointer)
		require.True(t, ok)
		assert.False(t, outer.IsNullable)
		inner, ok := outer.Inner.(*TCPointer)
		require.True(t, ok)
		assert.True(t, inner.IsNullable)
		b, ok := inner.Inner.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "char", b.BuiltinType)
	})

	t.Run("Function Pointer", func(t *testing.T) {
		d, err := ParseTypeDescription("int (*cb)(float, void*)")
		require.NoError(t, err)
		typ, ok := d.(*TCType)
		require.True(t, ok)
		assert.Equal(t, "cb", typ.Name)
		ptr, ok := typ.Inner.(*TCPointer)
		require.True(t, ok)
		fn, ok := ptr.Inner.(*TCFunction)
		require.True(t, ok)
		ret, ok := fn.Return.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "int", ret.BuiltinType)
		require.Len(t, fn.Params, 2)
		p0, ok := fn.Params[0].(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "float", p0.BuiltinType)
		p1, ok := fn.Params[1].(*TCPointer)
		require.True(t, ok)
		v, ok := p1.Inner.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "void", v.BuiltinType)
	})

	t.Run("Const Array", func(t *testing.T) {
		d, err := ParseTypeDescription("const int a[16]")
		require.NoError(t, err)
		typ, ok := d.(*TCType)
		require.True(t, ok)
		assert.Equal(t, "a", typ.Name)
		arr, ok := typ.Inner.(*TCArray)
		require.True(t, ok)
		assert.Equal(t, "16", arr.Bounds)
		b, ok := arr.Inner.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "int", b.BuiltinType)
		assert.Equal(t, []string{"const"}, b.Storage)
	})

	t.Run("Unsigned Long Long", func(t *testing.T) {
		d, err := ParseTypeDescription("unsigned long long")
		require.NoError(t, err)
		b, ok := d.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "unsigned_long_long", b.BuiltinType)
	})

	t.Run("User Type", func(t *testing.T) {
		d, err := ParseTypeDescription("ImVec2")
		require.NoError(t, err)
		u, ok := d.(*TCUser)
		require.True(t, ok)
		assert.Equal(t, "ImVec2", u.Name)
	})

	t.Run("Reference", func(t *testing.T) {
		d, err := ParseTypeDescription("float& v")
		require.NoError(t, err)
		typ, ok := d.(*TCType)
		require.True(t, ok)
		assert.Equal(t, "v", typ.Name)
		p, ok := typ.Inner.(*TCPointer)
		require.True(t, ok)
		assert.True(t, p.IsReference)
		assert.False(t, p.IsNullable)
	})

	t.Run("Pointer To Const Pointer", func(t *testing.T) {
		d, err := ParseTypeDescription("char* const * p")
		require.NoError(t, err)
		typ, ok := d.(*TCType)
		require.True(t, ok)
		assert.Equal(t, "p", typ.Name)
		outer, ok := typ.Inner.(*TCPointer)
		require.True(t, ok)
		inner, ok := outer.Inner.(*TCPointer)
		require.True(t, ok)
		assert.Equal(t, []string{"const"}, inner.Storage)
		b, ok := inner.Inner.(*TCBuiltin)
		require.True(t, ok)
		assert.Equal(t, "char", b.BuiltinType)
	})

	t.Run("Unbounded Array", func(t *testing.T) {
		d, err := ParseTypeDescription("float values[]")
		require.NoError(t, err)
		typ, ok := d.(*TCType)
		require.True(t, ok)
		arr, ok := typ.Inner.(*TCArray)
		require.True(t, ok)
		assert.Equal(t, "", arr.Bounds)
	})
}
