package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/generator"
)

// Command creates the watch command: a long-running variant that re-runs
// full generation whenever the portfolio tree changes. Runs until
// interrupted (Ctrl+C).
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the portfolio tree and regenerate manifests on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings)
		},
	}

	cmd.Flags().DurationVar(&settings.Watch.Debounce, "debounce",
		viper.GetDuration("watch.debounce"), "Quiet period before a change triggers regeneration")
	_ = viper.BindPFlag("watch.debounce", cmd.Flags().Lookup("debounce"))

	return cmd
}

func run(ctx context.Context, settings *conf.Settings) error {
	log := slog.Default().With("service", "watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchTree(watcher, settings.Root); err != nil {
		return err
	}

	g := generator.New(settings)
	// Initial run so a freshly started watcher converges immediately.
	if _, err := g.RunAll(ctx); err != nil {
		log.Warn("⚠️ initial generation had failures", "error", err)
	}

	log.Info("watching for changes", "root", settings.Root, "debounce", settings.Watch.Debounce)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoreEvent(event) {
				continue
			}
			// Newly created folders need their own watches.
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addWatchTree(watcher, event.Name)
				}
			}
			log.Debug("change detected", "path", event.Name, "op", event.Op.String())
			// Debounce: bursts of file copies coalesce into one run.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(settings.Watch.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("⚠️ watcher error", "error", err)

		case <-fire:
			// The generator reads fresh from disk, so a new one per run
			// also reloads the override table.
			if _, err := generator.New(settings).RunAll(ctx); err != nil {
				log.Warn("⚠️ regeneration had failures", "error", err)
			}
		}
	}
}

// addWatchTree watches dir and every portfolio subdirectory beneath it.
func addWatchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree: skip, the scanner will warn
		}
		if !d.IsDir() {
			return nil
		}
		// The root itself may be "." or a dot-named path; only prune hidden
		// directories below it.
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// ignoreEvent filters events the generators themselves cause: manifest
// writes (including the temp-and-rename dance) must not retrigger a run.
func ignoreEvent(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasSuffix(name, "-manifest.json") || strings.Contains(name, ".tmp-") {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return event.Op.Has(fsnotify.Chmod)
}
