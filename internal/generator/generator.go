// Package generator orchestrates one manifest generation run: scan,
// aggregate, idempotent write, webhook notify — in that order. Notification
// happens strictly after the write decision is final.
package generator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/errors"
	"github.com/sharpframe/portfolio-manifest/internal/featured"
	"github.com/sharpframe/portfolio-manifest/internal/manifest"
	"github.com/sharpframe/portfolio-manifest/internal/overrides"
	"github.com/sharpframe/portfolio-manifest/internal/scanner"
	"github.com/sharpframe/portfolio-manifest/internal/webhook"
)

// Result summarizes one per-type generation.
type Result struct {
	Type        string
	Collections int
	Written     bool
	Path        string
}

// Generator runs per-type and featured generation with shared settings.
type Generator struct {
	settings *conf.Settings
	scanner  *scanner.Scanner
	notifier *webhook.Notifier
	selector *featured.Selector
	log      *slog.Logger
}

// New wires a Generator from settings. The override cache lives for the
// process; one-shot runs never need invalidation.
func New(settings *conf.Settings) *Generator {
	resolver := overrides.NewResolver(settings.OverridesPath(), gocache.New(gocache.NoExpiration, 0))
	return &Generator{
		settings: settings,
		scanner:  scanner.New(resolver),
		notifier: webhook.New(settings.Webhook),
		selector: featured.NewSelector(),
		log:      slog.Default().With("service", "generator"),
	}
}

// RunType generates the aggregate manifest for one portfolio type. Scan
// and write failures are fatal for that type; individual folder failures
// were already absorbed by the scanner.
func (g *Generator) RunType(ctx context.Context, ptype string) (*Result, error) {
	d, ok := scanner.DescriptorFor(ptype)
	if !ok {
		return nil, errors.Newf("unknown portfolio type %q", ptype).
			Category(errors.CategoryValidation).
			Component("generator").
			Build()
	}

	if _, err := os.Stat(g.settings.Root); err != nil {
		return nil, errors.Newf("portfolio root %s: %w", g.settings.Root, err).
			Category(errors.CategoryFileIO).
			Component("generator").
			Build()
	}

	collections, err := g.scanner.Scan(ctx, g.settings.Root, d)
	if err != nil {
		return nil, err
	}
	g.log.Info("scan complete", "type", ptype, "collections", len(collections))

	m, err := manifest.Build(ptype, g.settings.Version, time.Now(), collections)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(g.settings.Root, manifest.FileName(ptype))
	if g.settings.DryRun {
		g.log.Info("✅ dry run, skipping write", "type", ptype, "path", path,
			"collections", len(collections))
		return &Result{Type: ptype, Collections: len(collections), Path: path}, nil
	}

	res, err := manifest.WriteIfChanged(path, m, g.settings.Force)
	if err != nil {
		return nil, err
	}
	if res.Written {
		g.log.Info("✅ manifest written", "type", ptype, "path", path, "bytes", res.Bytes)
	} else {
		g.log.Info("manifest unchanged, skipping write", "type", ptype, "path", path)
	}

	if res.Written || g.settings.Webhook.Always {
		g.notifier.Notify(ctx, ptype, map[string]any{
			"totalCollections": len(collections),
			"written":          res.Written,
		})
	}

	return &Result{
		Type:        ptype,
		Collections: len(collections),
		Written:     res.Written,
		Path:        path,
	}, nil
}

// RunFeatured builds the featured manifest from the per-type manifests
// already on disk.
func (g *Generator) RunFeatured(ctx context.Context) (*Result, error) {
	groups := g.selector.LoadGroups(g.settings.Root, manifest.Types)
	m := g.selector.Select(groups,
		g.settings.Featured.ItemsPerCategory,
		g.settings.Featured.TotalLimit,
		g.settings.Version, time.Now())

	path := filepath.Join(g.settings.Root, featured.FileName)
	if g.settings.DryRun {
		g.log.Info("✅ dry run, skipping write", "type", "featured", "path", path,
			"items", m.TotalItems)
		return &Result{Type: "featured", Collections: m.TotalItems, Path: path}, nil
	}

	res, err := manifest.WriteIfChanged(path, m, g.settings.Force)
	if err != nil {
		return nil, err
	}
	if res.Written {
		g.log.Info("✅ featured manifest written", "path", path, "items", m.TotalItems)
	} else {
		g.log.Info("featured manifest unchanged, skipping write", "path", path)
	}

	if res.Written || g.settings.Webhook.Always {
		g.notifier.Notify(ctx, "featured", map[string]any{
			"totalItems": m.TotalItems,
			"written":    res.Written,
		})
	}

	return &Result{Type: "featured", Collections: m.TotalItems, Written: res.Written, Path: path}, nil
}

// RunAll generates every portfolio type and then the featured manifest.
// One type failing is logged and does not stop the others, but the run as
// a whole reports failure.
func (g *Generator) RunAll(ctx context.Context) ([]Result, error) {
	var results []Result
	var firstErr error
	for _, ptype := range manifest.Types {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := g.RunType(ctx, ptype)
		if err != nil {
			g.log.Error("❌ generation failed", "type", ptype, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, *res)
	}

	res, err := g.RunFeatured(ctx)
	if err != nil {
		g.log.Error("❌ featured generation failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		results = append(results, *res)
	}
	return results, firstErr
}
