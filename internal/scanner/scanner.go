// Package scanner walks a portfolio directory tree and turns folders of
// images into dated Collection records. One generic scanner handles every
// portfolio type; the per-type differences live in Descriptor.
package scanner

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sharpframe/portfolio-manifest/internal/dateparse"
	"github.com/sharpframe/portfolio-manifest/internal/errors"
	"github.com/sharpframe/portfolio-manifest/internal/manifest"
	"github.com/sharpframe/portfolio-manifest/internal/overrides"
)

// dateSampleLimit bounds how many image filenames (and EXIF headers) are
// probed per collection before giving up on that source.
const dateSampleLimit = 3

// imageExts is the case-insensitive image extension allowlist.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// skipFiles are known non-image artifacts that may sit next to images.
var skipFiles = map[string]bool{
	"manifest.json": true,
	"tags.json":     true,
	"README.md":     true,
}

// Scanner discovers collections for one or more portfolio types.
type Scanner struct {
	resolver *overrides.Resolver
	log      *slog.Logger
	// useExif enables EXIF DateTimeOriginal probing as a date source after
	// filename patterns. Disabled in tests that fabricate image files.
	useExif bool
}

// New creates a Scanner that consults the given override resolver.
func New(resolver *overrides.Resolver) *Scanner {
	return &Scanner{
		resolver: resolver,
		log:      slog.Default().With("service", "scanner"),
		useExif:  true,
	}
}

// Scan walks the portfolio type's folder under root and returns one
// Collection per folder holding at least one image. A missing portfolio
// root is an error (fatal at the command level); a failure inside a single
// entity folder is logged and that entity is omitted.
func (s *Scanner) Scan(ctx context.Context, root string, d Descriptor) ([]manifest.Collection, error) {
	typeRoot := filepath.Join(root, d.Dir)
	entries, err := os.ReadDir(typeRoot)
	if err != nil {
		return nil, errors.Newf("portfolio root not readable: %w", err).
			Category(errors.CategoryScan).
			Component("scanner").
			Context("path", typeRoot).
			Build()
	}

	var collections []manifest.Collection
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		var found []manifest.Collection
		var scanErr error
		switch d.Shape {
		case ShapeFlat:
			found, scanErr = s.scanEntity(typeRoot, entry.Name(), d)
		case ShapeCategory:
			found, scanErr = s.scanCategory(typeRoot, entry.Name(), d)
		}
		if scanErr != nil {
			s.log.Warn("⚠️ skipping unreadable folder", "folder", entry.Name(), "error", scanErr)
			continue
		}
		collections = append(collections, found...)
	}
	return collections, nil
}

// scanEntity handles one flat-shape entity folder: images directly inside,
// or one layer of date-named subfolders.
func (s *Scanner) scanEntity(typeRoot, entity string, d Descriptor) ([]manifest.Collection, error) {
	entityPath := filepath.Join(typeRoot, entity)
	images, subdirs, err := listFolder(entityPath)
	if err != nil {
		return nil, err
	}

	if len(images) > 0 {
		col := s.buildCollection(d, entity, entityPath, path.Join(d.Dir, entity), images, s.inferFlatDate(d, entityPath, images))
		return []manifest.Collection{*col}, nil
	}

	var out []manifest.Collection
	for _, sub := range subdirs {
		subPath := filepath.Join(entityPath, sub)
		subImages, _, err := listFolder(subPath)
		if err != nil {
			s.log.Warn("⚠️ skipping unreadable subfolder", "folder", path.Join(entity, sub), "error", err)
			continue
		}
		if len(subImages) == 0 {
			// Folders with no matching images are skipped, never emitted
			// as empty entries.
			continue
		}
		date := s.inferSubfolderDate(d, subPath, sub, subImages)
		col := s.buildCollection(d, entity, subPath, path.Join(d.Dir, entity, sub), subImages, date)
		out = append(out, *col)
	}
	return out, nil
}

// scanCategory handles one category folder of a category/leaf-shape
// portfolio: each leaf folder with images becomes a collection.
func (s *Scanner) scanCategory(typeRoot, category string, d Descriptor) ([]manifest.Collection, error) {
	categoryPath := filepath.Join(typeRoot, category)
	_, leaves, err := listFolder(categoryPath)
	if err != nil {
		return nil, err
	}

	var out []manifest.Collection
	for _, leaf := range leaves {
		leafPath := filepath.Join(categoryPath, leaf)
		images, _, err := listFolder(leafPath)
		if err != nil {
			s.log.Warn("⚠️ skipping unreadable leaf folder", "folder", path.Join(category, leaf), "error", err)
			continue
		}
		if len(images) == 0 {
			continue
		}

		var date *dateparse.DateInfo
		if d.InferDates {
			date = s.inferLeafDate(leaf, leafPath, images)
		} else {
			date = dateparse.CurrentYear("default:current-year")
		}

		col := s.buildCollection(d, leaf, leafPath, path.Join(d.Dir, category, leaf), images, date)
		col.Category = category
		col.Tags = deriveTags(leaf, d.TagRules)
		out = append(out, *col)
	}
	return out, nil
}

// buildCollection assembles the record and applies a manual override if one
// exists. Overrides always win over inference.
func (s *Scanner) buildCollection(d Descriptor, name, absPath, folderPath string, images []string, date *dateparse.DateInfo) *manifest.Collection {
	if date == nil {
		s.log.Warn("⚠️ no date could be inferred, falling back to January 1 of current year",
			"collection", name, "folder", folderPath)
		date = dateparse.Fallback()
	}

	if s.resolver != nil {
		if o := s.resolver.Resolve(folderPath, name, filepath.Base(absPath)); o != nil {
			s.log.Info("applying manual date override",
				"collection", name, "key", o.Key, "date", o.Date.ISO)
			date = o.Date
		}
	}

	col := &manifest.Collection{
		Name:        name,
		FolderPath:  folderPath,
		Date:        date,
		DateDisplay: date.Display,
		TotalImages: len(images),
		Images:      images,
	}
	if len(d.CategoryRules) > 0 {
		col.Category = deriveCategory(name, d.CategoryRules, "event")
	}
	if d.Type == manifest.TypeJournalism {
		col.Outlet, col.ArticleURL = publicationMeta(absPath)
	}
	return col
}

// publicationMeta reads the optional outlet and articleUrl fields from a
// per-folder manifest.json sidecar. Journalism folders carry these; anything
// missing or unreadable just leaves the fields empty.
func publicationMeta(dir string) (outlet, articleURL string) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return "", ""
	}
	var meta struct {
		Outlet     string `json:"outlet"`
		ArticleURL string `json:"articleUrl"`
	}
	if json.Unmarshal(data, &meta) != nil {
		return "", ""
	}
	return meta.Outlet, meta.ArticleURL
}

// inferFlatDate dates an entity folder whose images sit directly inside:
// first detected date among up to three sample filenames, then EXIF, then
// nothing (caller falls back). Stops at the first hit; the images are not
// required to agree.
func (s *Scanner) inferFlatDate(d Descriptor, dir string, images []string) *dateparse.DateInfo {
	if !d.InferDates {
		return dateparse.CurrentYear("default:current-year")
	}
	if date := detectFromFilenames(images); date != nil {
		return date
	}
	if s.useExif {
		if date := s.detectFromExif(dir, images); date != nil {
			return date
		}
	}
	return nil
}

// inferSubfolderDate dates a date-named subfolder by documented priority:
// stored per-folder manifest date, then the subfolder's own "MonthName
// Year" literal, then image filenames, then EXIF, then nothing.
func (s *Scanner) inferSubfolderDate(d Descriptor, dir, folderName string, images []string) *dateparse.DateInfo {
	if date := s.storedManifestDate(dir); date != nil {
		return date
	}
	if date := dateparse.ParseMonthYear(folderName); date != nil {
		return date
	}
	if date := detectFromFilenames(images); date != nil {
		return date
	}
	if s.useExif {
		if date := s.detectFromExif(dir, images); date != nil {
			return date
		}
	}
	return nil
}

// inferLeafDate dates a category-shape leaf: folder name first, then image
// filenames, then EXIF.
func (s *Scanner) inferLeafDate(leaf, dir string, images []string) *dateparse.DateInfo {
	if date := dateparse.DetectDate(leaf); date != nil {
		return date
	}
	if date := detectFromFilenames(images); date != nil {
		return date
	}
	if s.useExif {
		if date := s.detectFromExif(dir, images); date != nil {
			return date
		}
	}
	return nil
}

// detectFromFilenames returns the first valid date among up to
// dateSampleLimit image filenames.
func detectFromFilenames(images []string) *dateparse.DateInfo {
	for i, name := range images {
		if i >= dateSampleLimit {
			break
		}
		if date := dateparse.DetectDate(name); date != nil {
			return date
		}
	}
	return nil
}

// storedManifestDate reads a legacy per-folder manifest.json left behind by
// earlier generators and returns its stored date if it validates. Writing
// these files is deprecated; reading them keeps old folders dated.
func (s *Scanner) storedManifestDate(dir string) *dateparse.DateInfo {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil
	}

	var stored struct {
		DateISO string `json:"dateISO"`
		Date    *struct {
			Year  int    `json:"year"`
			Month int    `json:"month"`
			Day   int    `json:"day"`
			ISO   string `json:"iso"`
		} `json:"date"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		s.log.Warn("⚠️ per-folder manifest is not valid JSON, ignoring", "folder", dir, "error", err)
		return nil
	}

	iso := stored.DateISO
	if iso == "" && stored.Date != nil {
		iso = stored.Date.ISO
	}
	if iso != "" {
		if date, err := dateparse.ParseISO(iso, dateparse.SourceStoredManifest, dateparse.ConfidenceHigh); err == nil {
			return date
		}
	}
	if stored.Date != nil {
		day := stored.Date.Day
		if day == 0 {
			day = 1
		}
		if date, err := dateparse.New(stored.Date.Year, stored.Date.Month, day,
			dateparse.SourceStoredManifest, dateparse.ConfidenceHigh); err == nil {
			return date
		}
	}
	return nil
}

// listFolder enumerates one directory level, splitting entries into sorted
// image filenames and subdirectory names. Dotfiles and known non-image
// artifacts are skipped.
func listFolder(dir string) (images, subdirs []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, name)
			continue
		}
		if skipFiles[name] {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(name))] {
			images = append(images, name)
		}
	}
	// Lexical order keeps manifests deterministic across filesystems.
	sort.Strings(images)
	sort.Strings(subdirs)
	return images, subdirs, nil
}
