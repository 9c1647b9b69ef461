package codebase

import (
	"errors"
	"testing"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHydrateOnLookupRunsOnce(t *testing.T) {
	calls := map[fqsen.Class]int{}
	cb := newTestCodeBase(t, WithHydrateOnLookup(true), WithHydrator(HydratorFunc(func(_ *CodeBase, c *element.Class) error {
		calls[c.FQSEN()]++
		return nil
	})))
	a := fqsen.NewClass(`\`, "A")
	cb.AddClass(userClass(`\`, "A"))

	assert.Equal(t, Unhydrated, cb.HydrationStateOf(a))
	for i := 0; i < 5; i++ {
		_, err := cb.GetClassByFQSEN(a)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls[a])
	assert.Equal(t, Hydrated, cb.HydrationStateOf(a))
}

func TestLookupWithoutHydrateOnLookupDoesNotHydrate(t *testing.T) {
	calls := 0
	cb := newTestCodeBase(t, WithHydrator(HydratorFunc(func(*CodeBase, *element.Class) error {
		calls++
		return nil
	})))
	a := fqsen.NewClass(`\`, "A")
	cb.AddClass(userClass(`\`, "A"))

	_, err := cb.GetClassByFQSEN(a)
	require.NoError(t, err)
	assert.Zero(t, calls)

	require.NoError(t, cb.HydrateClass(a))
	require.NoError(t, cb.HydrateClass(a))
	assert.Equal(t, 1, calls)
}

func TestHydrationFailureResetsState(t *testing.T) {
	fail := true
	cb := newTestCodeBase(t, WithHydrateOnLookup(true), WithHydrator(HydratorFunc(func(*CodeBase, *element.Class) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	})))
	a := fqsen.NewClass(`\`, "A")
	cb.AddClass(userClass(`\`, "A"))

	_, err := cb.GetClassByFQSEN(a)
	require.Error(t, err)
	assert.Equal(t, Unhydrated, cb.HydrationStateOf(a))

	fail = false
	_, err = cb.GetClassByFQSEN(a)
	require.NoError(t, err)
	assert.Equal(t, Hydrated, cb.HydrationStateOf(a))
}

func TestHydrateMissingClassIsNotFound(t *testing.T) {
	cb := newTestCodeBase(t)
	err := cb.HydrateClass(fqsen.NewClass(`\`, "Nope"))
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestCyclicInheritanceIsReported(t *testing.T) {
	cb := newTestCodeBase(t, WithHydrateOnLookup(true))
	a := userClass(`\`, "A")
	b := userClass(`\`, "B")
	a.SetParent(b.FQSEN())
	b.SetParent(a.FQSEN())
	cb.AddClass(a)
	cb.AddClass(b)

	_, err := cb.GetClassByFQSEN(a.FQSEN())
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeCyclicHydration))
	assert.Equal(t, Unhydrated, cb.HydrationStateOf(a.FQSEN()))
	assert.Equal(t, Unhydrated, cb.HydrationStateOf(b.FQSEN()))
}

func TestInheritanceHydratorPrecedence(t *testing.T) {
	cb := newTestCodeBase(t)

	iface := element.NewClass(fqsen.NewClass(`\`, "Shape"), element.KindInterface, element.Declaration{Name: "Shape"})
	trait := element.NewClass(fqsen.NewClass(`\`, "Named"), element.KindTrait, element.Declaration{Name: "Named"})
	base := userClass(`\`, "Base")
	child := userClass(`\`, "Child")
	child.SetParent(base.FQSEN())
	child.AddTrait(trait.FQSEN())
	child.AddInterface(iface.FQSEN())

	for _, c := range []*element.Class{iface, trait, base, child} {
		cb.AddClass(c)
	}

	own := userMethod(child.FQSEN(), "draw", element.Public)
	cb.AddMethod(own)
	cb.AddMethod(userMethod(base.FQSEN(), "draw", element.Public))
	fromTrait := userMethod(trait.FQSEN(), "name", element.Private)
	cb.AddMethod(fromTrait)
	cb.AddMethod(userMethod(base.FQSEN(), "name", element.Public))
	cb.AddMethod(userMethod(base.FQSEN(), "secret", element.Private))
	cb.AddMethod(userMethod(base.FQSEN(), "area", element.Public))
	cb.AddMethod(userMethod(iface.FQSEN(), "area", element.Public))
	cb.AddMethod(userMethod(iface.FQSEN(), "perimeter", element.Public))
	cb.AddClassConstant(element.NewClassConstant(fqsen.NewClassConstant(iface.FQSEN(), "SIDES", 0), element.Declaration{}, "0"))

	require.NoError(t, cb.HydrateClass(child.FQSEN()))

	draw, err := cb.GetMethodByFQSEN(fqsen.NewMethod(child.FQSEN(), "draw", 0))
	require.NoError(t, err)
	assert.Same(t, own, draw)

	name, err := cb.GetMethodByFQSEN(fqsen.NewMethod(child.FQSEN(), "name", 0))
	require.NoError(t, err)
	assert.Equal(t, fromTrait.FQSEN(), name.DefiningFQSEN())
	assert.True(t, name.IsInherited())

	area, err := cb.GetMethodByFQSEN(fqsen.NewMethod(child.FQSEN(), "area", 0))
	require.NoError(t, err)
	assert.Equal(t, base.FQSEN(), area.DefiningFQSEN().Class)

	assert.True(t, cb.HasMethodWithFQSEN(fqsen.NewMethod(child.FQSEN(), "perimeter", 0)))
	assert.False(t, cb.HasMethodWithFQSEN(fqsen.NewMethod(child.FQSEN(), "secret", 0)))
	assert.True(t, cb.HasClassConstantWithFQSEN(fqsen.NewClassConstant(child.FQSEN(), "SIDES", 0)))
	assert.Equal(t, Hydrated, cb.HydrationStateOf(base.FQSEN()))
}

func TestInheritanceThroughGrandparent(t *testing.T) {
	cb := newTestCodeBase(t)
	root := userClass(`\`, "Root")
	middle := userClass(`\`, "Middle")
	leaf := userClass(`\`, "Leaf")
	middle.SetParent(root.FQSEN())
	leaf.SetParent(middle.FQSEN())
	cb.AddClass(root)
	cb.AddClass(middle)
	cb.AddClass(leaf)
	cb.AddMethod(userMethod(root.FQSEN(), "boot", element.Protected))

	require.NoError(t, cb.HydrateClass(leaf.FQSEN()))
	assert.True(t, cb.HasMethodWithFQSEN(fqsen.NewMethod(leaf.FQSEN(), "boot", 0)))
	assert.True(t, cb.HasMethodWithFQSEN(fqsen.NewMethod(middle.FQSEN(), "boot", 0)))
}

func TestUndeclaredParentIsSkipped(t *testing.T) {
	cb := newTestCodeBase(t)
	child := userClass(`\`, "Child")
	child.SetParent(fqsen.NewClass(`\vendor`, "Missing"))
	cb.AddClass(child)

	require.NoError(t, cb.HydrateClass(child.FQSEN()))
	assert.Equal(t, Hydrated, cb.HydrationStateOf(child.FQSEN()))
}

func TestReplacingHydratedClassResetsState(t *testing.T) {
	cb := newTestCodeBase(t)
	a := fqsen.NewClass(`\`, "A")
	cb.AddClass(userClass(`\`, "A"))
	require.NoError(t, cb.HydrateClass(a))

	cb.AddClass(userClass(`\`, "A"))
	assert.Equal(t, Unhydrated, cb.HydrationStateOf(a))
}

func TestReparentingHydratedClassDropsStaleInheritedMembers(t *testing.T) {
	cb := newTestCodeBase(t, WithHydrateOnLookup(true))
	b := userClass(`\`, "B")
	c := userClass(`\`, "C")
	cb.AddClass(b)
	cb.AddClass(c)
	cb.AddMethod(userMethod(b.FQSEN(), "foo", element.Public))
	cb.AddMethod(userMethod(b.FQSEN(), "onlyOnB", element.Public))
	cb.AddMethod(userMethod(c.FQSEN(), "foo", element.Public))

	a := userClass(`\`, "A")
	a.SetParent(b.FQSEN())
	cb.AddClass(a)
	cb.AddMethod(userMethod(a.FQSEN(), "own", element.Public))
	_, err := cb.GetClassByFQSEN(a.FQSEN())
	require.NoError(t, err)

	foo := fqsen.NewMethod(a.FQSEN(), "foo", 0)
	m, err := cb.GetMethodByFQSEN(foo)
	require.NoError(t, err)
	assert.Equal(t, b.FQSEN(), m.DefiningFQSEN().Class)

	reparented := userClass(`\`, "A")
	reparented.SetParent(c.FQSEN())
	cb.AddClass(reparented)
	assert.Equal(t, Unhydrated, cb.HydrationStateOf(a.FQSEN()))
	assert.False(t, cb.HasMethodWithFQSEN(fqsen.NewMethod(a.FQSEN(), "onlyOnB", 0)))
	assert.True(t, cb.HasMethodWithFQSEN(fqsen.NewMethod(a.FQSEN(), "own", 0)))

	_, err = cb.GetClassByFQSEN(a.FQSEN())
	require.NoError(t, err)
	m, err = cb.GetMethodByFQSEN(foo)
	require.NoError(t, err)
	assert.Equal(t, c.FQSEN(), m.DefiningFQSEN().Class)
	assert.False(t, cb.HasMethodWithFQSEN(fqsen.NewMethod(a.FQSEN(), "onlyOnB", 0)))
}
