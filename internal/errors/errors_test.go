package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPreservesChain(t *testing.T) {
	base := fs.ErrNotExist
	err := Newf("reading overrides: %w", base).
		Component("overrides").
		Category(CategoryFileIO).
		Context("path", "/tmp/date-overrides.json").
		Build()

	assert.True(t, Is(err, fs.ErrNotExist), "wrapped sentinel should survive the builder")

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, "overrides", ee.Component)
	assert.Equal(t, "file-io", ee.GetCategory())
	assert.Equal(t, "/tmp/date-overrides.json", ee.GetContext()["path"])
}

func TestCategoryMatching(t *testing.T) {
	a := Newf("write failed").Category(CategoryManifestWrite).Build()
	b := Newf("other write failed").Category(CategoryManifestWrite).Build()
	c := Newf("scan failed").Category(CategoryScan).Build()

	assert.True(t, Is(a, b), "same category should match via Is")
	assert.False(t, Is(a, c), "different categories should not match")
}

func TestDefaultCategory(t *testing.T) {
	err := Newf("plain failure").Build()
	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestContextCopyIsIsolated(t *testing.T) {
	err := Newf("x").Context("k", 1).Build()
	var ee *EnhancedError
	require.True(t, As(err, &ee))

	got := ee.GetContext()
	got["k"] = 2
	assert.Equal(t, 1, ee.GetContext()["k"], "mutating the copy must not affect the error")
}
