package element

import (
	"testing"

	"symtab/internal/engine/fqsen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnionType(t *testing.T) {
	u := ParseUnionType(" string | int|string|")
	assert.Equal(t, []string{"int", "string"}, u.Types())
	assert.Equal(t, "int|string", u.String())
	assert.True(t, u.Contains("int"))
	assert.False(t, u.Contains("bool"))

	assert.True(t, ParseUnionType("").IsEmpty())
	assert.Equal(t, "mixed", UnionType{}.String())
}

func TestUnionTypeTypesReturnsCopy(t *testing.T) {
	u := NewUnionType("int")
	types := u.Types()
	types[0] = "bool"
	assert.Equal(t, "int", u.String())
}

func TestMethodInheritRekeysAndKeepsDefiningFQSEN(t *testing.T) {
	base := fqsen.NewClass(`\`, "Base")
	child := fqsen.NewClass(`\`, "Child")
	original := NewMethod(fqsen.NewMethod(base, "Run", 0), Declaration{
		Name:       "run",
		Parameters: []Parameter{{Name: "arg", Type: NewUnionType("int")}},
		Type:       NewUnionType("void"),
	})

	inherited := original.Inherit(child)
	require.NotSame(t, original, inherited)
	assert.Equal(t, fqsen.NewMethod(child, "run", 0), inherited.FQSEN())
	assert.Equal(t, original.FQSEN(), inherited.DefiningFQSEN())
	assert.True(t, inherited.IsInherited())
	assert.False(t, original.IsInherited())

	inherited.Parameters[0].Name = "changed"
	assert.Equal(t, "arg", original.Parameters[0].Name)
}

func TestPropertyAndConstantInherit(t *testing.T) {
	base := fqsen.NewClass(`\`, "Base")
	child := fqsen.NewClass(`\`, "Child")

	prop := NewProperty(fqsen.NewProperty(base, "count", 0), Declaration{Visibility: Protected})
	inheritedProp := prop.Inherit(child)
	assert.Equal(t, child, inheritedProp.FQSEN().Class)
	assert.Equal(t, prop.FQSEN(), inheritedProp.DefiningFQSEN())
	assert.Equal(t, Protected, inheritedProp.Visibility)

	constant := NewClassConstant(fqsen.NewClassConstant(base, "MAX", 0), Declaration{}, "10")
	inheritedConst := constant.Inherit(child)
	assert.Equal(t, "10", inheritedConst.Value)
	assert.Equal(t, fqsen.NewClassConstant(child, "MAX", 0), inheritedConst.FQSEN())
}

func TestNewFuncFromSignature(t *testing.T) {
	fq := fqsen.NewFunction(`\`, "strlen", 0)
	f := NewFuncFromSignature(fq, Signature{
		Name:       "strlen",
		Parameters: []Parameter{{Name: "string", Type: NewUnionType("string")}},
		ReturnType: NewUnionType("int"),
	})

	assert.Equal(t, fq, f.FQSEN())
	assert.Equal(t, fqsen.FQSEN(fq), f.Identity())
	assert.True(t, f.Internal)
	assert.Equal(t, "int", f.Type.String())
	require.Len(t, f.Parameters, 1)
}

func TestDefaultsAndClassWiring(t *testing.T) {
	fq := fqsen.NewClass(`\App`, "Repo")
	c := NewClass(fq, KindClass, Declaration{})
	assert.Equal(t, "repo", c.Name)

	c.SetParent(fqsen.NewClass(`\App`, "Base"))
	c.AddInterface(fqsen.NewClass(`\`, "Countable"))
	c.AddTrait(fqsen.NewClass(`\App`, "Logs"))
	require.NotNil(t, c.Parent)
	assert.Equal(t, `\app\base`, c.Parent.String())
	assert.Len(t, c.Interfaces, 1)
	assert.Len(t, c.Traits, 1)
	assert.False(t, c.IsInterface())

	assert.Equal(t, Private, ParseVisibility("PRIVATE"))
	assert.Equal(t, Public, ParseVisibility("weird"))
	assert.Equal(t, "trait", KindTrait.String())
}
