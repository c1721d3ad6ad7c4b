package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sharpframe/portfolio-manifest/internal/errors"
)

// WriteResult reports what WriteIfChanged did.
type WriteResult struct {
	Written bool
	Path    string
	Bytes   int
}

// WriteIfChanged serializes m to pretty JSON with a trailing newline and
// writes it to path, unless the file already holds byte-identical content.
// The skip keeps mtimes stable so re-runs on unchanged inputs do not churn
// git diffs or trip downstream file watchers; force bypasses it.
//
// The comparison is exact byte equality of the fresh serialization against
// the existing file. A serializer change (key order, indentation) makes
// every manifest look changed exactly once; that one-time rewrite is
// accepted behavior.
func WriteIfChanged(path string, m any, force bool) (WriteResult, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return WriteResult{}, errors.Newf("serializing manifest %s: %w", path, err).
			Category(errors.CategoryManifestWrite).
			Component("manifest").
			Build()
	}
	data = append(data, '\n')

	if existing, readErr := os.ReadFile(path); readErr == nil {
		if bytes.Equal(existing, data) && !force {
			return WriteResult{Written: false, Path: path, Bytes: len(data)}, nil
		}
	}

	if err := writeAtomic(path, data); err != nil {
		return WriteResult{}, errors.Newf("writing %s: %w", path, err).
			Category(errors.CategoryManifestWrite).
			Component("manifest").
			Context("path", path).
			Build()
	}
	return WriteResult{Written: true, Path: path, Bytes: len(data)}, nil
}

// writeAtomic writes via a temp file in the same directory plus rename, so
// a killed process never leaves a half-written manifest behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op when the rename succeeded.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
