package generator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/manifest"
)

func testSettings(root string) *conf.Settings {
	return &conf.Settings{
		Root:    root,
		Version: "2.0.0",
		Webhook: conf.WebhookSettings{Disabled: true},
		Featured: conf.FeaturedSettings{
			ItemsPerCategory: 2,
			TotalLimit:       6,
		},
		Watch: conf.WatchSettings{Debounce: time.Second},
	}
}

func mkImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("jpegdata"), 0o644))
	}
}

func TestRunTypeEndToEnd(t *testing.T) {
	root := t.TempDir()
	mkImages(t, filepath.Join(root, "Concert", "Haven"), "250829_Haven_001.jpg")

	g := New(testSettings(root))
	res, err := g.RunType(context.Background(), manifest.TypeConcert)
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, 1, res.Collections)

	data, err := os.ReadFile(filepath.Join(root, "concert-manifest.json"))
	require.NoError(t, err)

	var m struct {
		Version    string `json:"version"`
		TotalBands int    `json:"totalBands"`
		Bands      []struct {
			Name string `json:"name"`
			Date struct {
				ISO string `json:"iso"`
			} `json:"date"`
			TotalImages int      `json:"totalImages"`
			Images      []string `json:"images"`
		} `json:"bands"`
	}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "2.0.0", m.Version)
	assert.Equal(t, 1, m.TotalBands)
	require.Len(t, m.Bands, 1)
	assert.Equal(t, "Haven", m.Bands[0].Name)
	assert.Equal(t, "2025-08-29", m.Bands[0].Date.ISO)
	assert.Equal(t, 1, m.Bands[0].TotalImages)
	assert.Equal(t, []string{"250829_Haven_001.jpg"}, m.Bands[0].Images)
}

func TestRunTypeSecondRunSkipsWrite(t *testing.T) {
	root := t.TempDir()
	mkImages(t, filepath.Join(root, "Concert", "Haven"), "250829_Haven_001.jpg")
	settings := testSettings(root)

	g := New(settings)
	res, err := g.RunType(context.Background(), manifest.TypeConcert)
	require.NoError(t, err)
	require.True(t, res.Written)

	res, err = New(settings).RunType(context.Background(), manifest.TypeConcert)
	require.NoError(t, err)
	assert.False(t, res.Written, "unchanged inputs must skip the write")

	settings.Force = true
	res, err = New(settings).RunType(context.Background(), manifest.TypeConcert)
	require.NoError(t, err)
	assert.True(t, res.Written, "force must rewrite")
}

func TestRunTypeDryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	mkImages(t, filepath.Join(root, "Concert", "Haven"), "250829_Haven_001.jpg")
	settings := testSettings(root)
	settings.DryRun = true

	_, err := New(settings).RunType(context.Background(), manifest.TypeConcert)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "concert-manifest.json"))
	assert.True(t, os.IsNotExist(err), "dry run must not write")
}

func TestRunTypeMissingPortfolioDirIsError(t *testing.T) {
	root := t.TempDir() // no Concert folder
	_, err := New(testSettings(root)).RunType(context.Background(), manifest.TypeConcert)
	assert.Error(t, err)
}

func TestRunTypeUnknownType(t *testing.T) {
	_, err := New(testSettings(t.TempDir())).RunType(context.Background(), "weddings")
	assert.Error(t, err)
}

func TestRunFeaturedFromGeneratedManifests(t *testing.T) {
	root := t.TempDir()
	mkImages(t, filepath.Join(root, "Concert", "Haven"), "250829_Haven_001.jpg")
	mkImages(t, filepath.Join(root, "Events", "Summer Festival"), "250712_fest_001.jpg")
	settings := testSettings(root)

	g := New(settings)
	_, err := g.RunType(context.Background(), manifest.TypeConcert)
	require.NoError(t, err)
	_, err = g.RunType(context.Background(), manifest.TypeEvents)
	require.NoError(t, err)

	res, err := g.RunFeatured(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Equal(t, 2, res.Collections)

	data, err := os.ReadFile(filepath.Join(root, "featured-manifest.json"))
	require.NoError(t, err)
	var m struct {
		TotalItems int `json:"totalItems"`
		Items      []struct {
			Name string `json:"name"`
			Type string `json:"type"`
			Date struct {
				ISO string `json:"iso"`
			} `json:"date"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, 2, m.TotalItems)
	assert.Equal(t, "Haven", m.Items[0].Name, "newest first")
	assert.Equal(t, "Summer Festival", m.Items[1].Name)
}

func TestRunFeaturedWithNoSourcesWritesEmptyManifest(t *testing.T) {
	root := t.TempDir()
	g := New(testSettings(root))

	res, err := g.RunFeatured(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Written)

	data, err := os.ReadFile(filepath.Join(root, "featured-manifest.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"totalItems": 0`)
	assert.Contains(t, string(data), `"items": []`)
}

func TestRunAllContinuesPastMissingTypes(t *testing.T) {
	root := t.TempDir()
	// Only Concert exists; the other four types fail with missing roots.
	mkImages(t, filepath.Join(root, "Concert", "Haven"), "250829_Haven_001.jpg")

	results, err := New(testSettings(root)).RunAll(context.Background())
	assert.Error(t, err, "missing portfolio folders surface as overall failure")

	types := make(map[string]bool)
	for _, r := range results {
		types[r.Type] = true
	}
	assert.True(t, types[manifest.TypeConcert], "concert generation must still run")
	assert.True(t, types["featured"], "featured generation must still run")

	_, statErr := os.Stat(filepath.Join(root, "concert-manifest.json"))
	assert.NoError(t, statErr)
}
