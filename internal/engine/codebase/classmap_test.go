package codebase

import (
	"testing"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassMapAddReplaceAndRemove(t *testing.T) {
	class := fqsen.NewClass(`\app`, "Widget")
	m := NewClassMap()
	assert.True(t, m.IsEmpty())

	first := userMethod(class, "render", element.Public)
	second := userMethod(class, "Render", element.Protected)
	m.AddMethod(first)
	m.AddMethod(second)
	m.AddProperty(element.NewProperty(fqsen.NewProperty(class, "$title", 0), element.Declaration{}))
	m.AddClassConstant(element.NewClassConstant(fqsen.NewClassConstant(class, "MAX", 0), element.Declaration{}, "10"))

	assert.Equal(t, 3, m.Count())
	got, err := m.GetMethodByName(fqsen.NameKey{Name: "RENDER"})
	require.NoError(t, err)
	assert.Same(t, second, got)

	assert.True(t, m.HasPropertyWithName(fqsen.NameKey{Name: "title"}))
	assert.False(t, m.HasClassConstantWithName(fqsen.NameKey{Name: "max"}))

	assert.True(t, m.RemoveMethod(fqsen.NameKey{Name: "render"}))
	assert.False(t, m.RemoveMethod(fqsen.NameKey{Name: "render"}))
	assert.Equal(t, 2, m.Count())
}

func TestClassMapAlternateIDsAreDistinctKeys(t *testing.T) {
	class := fqsen.NewClass(`\`, "A")
	m := NewClassMap()
	m.AddMethod(element.NewMethod(fqsen.NewMethod(class, "f", 0), element.Declaration{}))
	m.AddMethod(element.NewMethod(fqsen.NewMethod(class, "f", 1), element.Declaration{}))

	assert.Equal(t, 2, m.Count())
	assert.True(t, m.HasMethodWithName(fqsen.NameKey{Name: "f", AlternateID: 1}))
	assert.False(t, m.HasMethodWithName(fqsen.NameKey{Name: "f", AlternateID: 2}))
}

func TestClassMapGetMissingIsNotFound(t *testing.T) {
	m := NewClassMap()
	_, err := m.GetPropertyByName(fqsen.NameKey{Name: "missing"})
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestClassMapCloneIsIndependent(t *testing.T) {
	class := fqsen.NewClass(`\`, "A")
	original := NewClassMap()
	original.AddMethod(userMethod(class, "a", element.Public))

	clone := original.Clone()
	clone.AddMethod(userMethod(class, "b", element.Public))
	original.RemoveMethod(fqsen.NameKey{Name: "a"})

	assert.Equal(t, 0, original.Count())
	assert.Equal(t, 2, clone.Count())

	methods := clone.MethodMap()
	delete(methods, fqsen.NameKey{Name: "a"})
	assert.Equal(t, 2, clone.Count())
}
