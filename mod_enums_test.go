package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEnumValues(t *testing.T) {
	root := mustParse(t, `
enum E
{
    A,
    B = 4,
    C,
    E_COUNT,
};
`)
	require.NoError(t, ApplyCalculateEnumValues(root))
	require.NoError(t, ApplyMarkSpecialEnumValues(root))

	elements := FindAll[*EnumNode](root)[0].Elements()
	require.Len(t, elements, 4)
	assert.Equal(t, int64(0), elements[0].Value)
	assert.Equal(t, int64(4), elements[1].Value)
	assert.Equal(t, int64(5), elements[2].Value)
	assert.True(t, elements[3].IsCount)
	assert.False(t, elements[1].IsCount)
}

func TestCalculateEnumValuesExpressions(t *testing.T) {
	root := mustParse(t, `
enum ImGuiWindowFlags_
{
    ImGuiWindowFlags_None = 0,
    ImGuiWindowFlags_NoTitleBar = 1 << 0,
    ImGuiWindowFlags_NoResize = 1 << 1,
    ImGuiWindowFlags_NoDecoration = ImGuiWindowFlags_NoTitleBar | ImGuiWindowFlags_NoResize,
    ImGuiWindowFlags_Offset = (2 + 3) * 4,
    ImGuiWindowFlags_Masked = ~0 & 15,
};
`)
	require.NoError(t, ApplyCalculateEnumValues(root))
	elements := FindAll[*EnumNode](root)[0].Elements()
	assert.Equal(t, int64(1), elements[1].Value)
	assert.Equal(t, int64(2), elements[2].Value)
	assert.Equal(t, int64(3), elements[3].Value)
	assert.Equal(t, int64(20), elements[4].Value)
	assert.Equal(t, int64(15), elements[5].Value)
}

func TestCalculateEnumValuesAcrossEnums(t *testing.T) {
	root := mustParse(t, `
enum A { A_One = 1 };
enum B { B_Two = A_One + 1 };
`)
	require.NoError(t, ApplyCalculateEnumValues(root))
	enums := FindAll[*EnumNode](root)
	assert.Equal(t, int64(2), enums[1].Elements()[0].Value)
}

func TestCalculateEnumValuesRejectsUnknownIdentifiers(t *testing.T) {
	root := mustParse(t, "enum E { A = SOME_MACRO };\n")
	err := ApplyCalculateEnumValues(root)
	require.Error(t, err)
	var perr *PassError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "CalculateEnumValues", perr.Pass)
}

func TestMarkFlagsEnums(t *testing.T) {
	root := mustParse(t, `
enum ImGuiWindowFlags_ { ImGuiWindowFlags_None = 0 };
enum ImGuiDir_ { ImGuiDir_None = -1 };
`)
	require.NoError(t, ApplyMarkFlagsEnums(root, "Flags"))
	enums := FindAll[*EnumNode](root)
	assert.True(t, enums[0].IsFlagsEnum)
	assert.False(t, enums[1].IsFlagsEnum)
}

func TestMarkSpecialEnumValues(t *testing.T) {
	root := mustParse(t, `
enum E
{
    E_Value,
    E_Internal_BEGIN,
    E_Internal_END,
    E_COUNT,
};
`)
	require.NoError(t, ApplyMarkSpecialEnumValues(root))
	elements := FindAll[*EnumNode](root)[0].Elements()
	assert.False(t, elements[0].IsInternal)
	assert.True(t, elements[1].IsInternal)
	assert.True(t, elements[2].IsInternal)
	assert.True(t, elements[3].IsCount)
	assert.False(t, elements[3].IsInternal)
}
