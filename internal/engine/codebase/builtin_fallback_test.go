package codebase

import (
	"testing"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinSignatures() *countingSignatures {
	return newCountingSignatures(map[string][]element.Signature{
		"strlen": {{
			Name:       "strlen",
			Parameters: []element.Parameter{{Name: "string", Type: element.NewUnionType("string")}},
			ReturnType: element.NewUnionType("int"),
		}},
		"implode": {
			{Name: "implode", ReturnType: element.NewUnionType("string")},
			{Name: "implode", ReturnType: element.NewUnionType("string")},
		},
	})
}

func TestBuiltinFunctionMaterializedOnFirstLookup(t *testing.T) {
	sigs := builtinSignatures()
	cb := newTestCodeBase(t, WithSignatureSource(sigs))
	strlen := fqsen.NewFunction(`\`, "strlen", 0)

	assert.Empty(t, cb.FunctionMap())
	assert.True(t, cb.HasFunctionWithFQSEN(strlen))
	assert.Len(t, cb.FunctionMap(), 1)

	f, err := cb.GetFunctionByFQSEN(strlen)
	require.NoError(t, err)
	assert.True(t, f.Internal)
	assert.Equal(t, "int", f.Type.String())
	require.Len(t, f.Parameters, 1)
	assert.Equal(t, "string", f.Parameters[0].Name)

	assert.True(t, cb.HasFunctionWithFQSEN(fqsen.NewFunction(`\`, "STRLEN", 0)))
	assert.Equal(t, 1, sigs.calls["strlen"])
}

func TestBuiltinOverloadsGetAlternateIDs(t *testing.T) {
	sigs := builtinSignatures()
	cb := newTestCodeBase(t, WithSignatureSource(sigs))

	assert.True(t, cb.HasFunctionWithFQSEN(fqsen.NewFunction(`\`, "implode", 1)))
	assert.True(t, cb.HasFunctionWithFQSEN(fqsen.NewFunction(`\`, "implode", 0)))
	assert.False(t, cb.HasFunctionWithFQSEN(fqsen.NewFunction(`\`, "implode", 2)))
	assert.Equal(t, 1, sigs.calls["implode"])
	assert.Len(t, cb.FunctionAndMethodSet(), 2)
}

func TestBuiltinMissInsertsNothing(t *testing.T) {
	sigs := builtinSignatures()
	cb := newTestCodeBase(t, WithSignatureSource(sigs))
	missing := fqsen.NewFunction(`\`, "definitelyNotAFunction", 0)

	assert.False(t, cb.HasFunctionWithFQSEN(missing))
	_, err := cb.GetFunctionByFQSEN(missing)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
	assert.Empty(t, cb.FunctionMap())
	assert.Equal(t, 0, cb.TotalElementCount())
}

func TestNamespacedMissNeverConsultsSignatures(t *testing.T) {
	sigs := builtinSignatures()
	cb := newTestCodeBase(t, WithSignatureSource(sigs))

	assert.False(t, cb.HasFunctionWithFQSEN(fqsen.NewFunction(`\App`, "strlen", 0)))
	assert.Zero(t, sigs.calls["strlen"])
	assert.Empty(t, cb.FunctionMap())
}

func TestUserFunctionShadowsBuiltinLookup(t *testing.T) {
	sigs := builtinSignatures()
	cb := newTestCodeBase(t, WithSignatureSource(sigs))
	fq := fqsen.NewFunction(`\`, "strlen", 0)
	user := element.NewFunc(fq, element.Declaration{Context: element.Context{File: "polyfill.php", Line: 3}})
	cb.AddFunction(user)

	got, err := cb.GetFunctionByFQSEN(fq)
	require.NoError(t, err)
	assert.Same(t, user, got)
	assert.Zero(t, sigs.calls["strlen"])
}

func TestWithoutSignatureSourceRootMissesAreFinal(t *testing.T) {
	cb := newTestCodeBase(t)
	assert.False(t, cb.HasFunctionWithFQSEN(fqsen.NewFunction(`\`, "strlen", 0)))
}
