package symbols

import (
	"context"
	"path/filepath"
	"testing"

	"symtab/internal/core/ports"
	"symtab/internal/engine/codebase"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.SymbolExporter = (*SQLiteStore)(nil)

func openTestStore(t *testing.T, path, project string) *SQLiteStore {
	t.Helper()
	store, err := Open(path, Options{ProjectKey: project})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreSyncLookupAndReplace(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "symbols.db"), "proj-a")

	cb := codebase.New(ctx, nil)
	users := fqsen.NewClass(`\App`, "Users")
	cb.AddClass(element.NewClass(users, element.KindClass, element.Declaration{
		Name:    "Users",
		Context: element.Context{File: "src/Users.php", Line: 5},
	}))
	cb.AddMethod(element.NewMethod(fqsen.NewMethod(users, "find", 0), element.Declaration{}))
	cb.AddFunction(element.NewFunc(fqsen.NewFunction(`\App`, "find", 0), element.Declaration{}))

	require.NoError(t, store.SyncFromCodeBase(ctx, cb))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	found := store.Lookup("FIND")
	require.Len(t, found, 2)
	assert.Equal(t, "function", found[0].Kind)
	assert.Equal(t, "method", found[1].Kind)
	assert.Equal(t, `\app\users`, found[1].Class)
	assert.Equal(t, fqsen.Hash(fqsen.NewMethod(users, "find", 0)), found[1].Hash)

	class := store.Lookup("users")
	require.Len(t, class, 1)
	assert.Equal(t, "src/Users.php", class[0].File)
	assert.Equal(t, 5, class[0].Line)

	cb.FlushByFQSEN(fqsen.NewFunction(`\App`, "find", 0))
	require.NoError(t, store.SyncFromCodeBase(ctx, cb))
	assert.Len(t, store.Lookup("find"), 1)
}

func TestSQLiteStoreProjectIsolation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "symbols.db")
	a := openTestStore(t, path, "a")
	b := openTestStore(t, path, "b")

	require.NoError(t, a.ReplaceAll(ctx, []ports.SymbolRecord{{Kind: "function", FQSEN: `\strlen`, Name: "strlen", Internal: true}}))
	require.NoError(t, b.ReplaceAll(ctx, nil))

	assert.Len(t, a.Lookup("strlen"), 1)
	assert.True(t, a.Lookup("strlen")[0].Internal)
	assert.Empty(t, b.Lookup("strlen"))
}

func TestOpenRejectsDirectory(t *testing.T) {
	_, err := Open(t.TempDir(), Options{})
	require.Error(t, err)

	_, err = Open("  ", Options{})
	require.Error(t, err)
}
