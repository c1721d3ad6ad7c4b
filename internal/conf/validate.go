package conf

import (
	"strings"

	"github.com/sharpframe/portfolio-manifest/internal/errors"
)

// Validate checks settings that would otherwise fail deep inside a run.
func Validate(s *Settings) error {
	if strings.TrimSpace(s.Root) == "" {
		return validationError("root directory must not be empty")
	}
	if strings.TrimSpace(s.Version) == "" {
		return validationError("manifest version must not be empty")
	}
	if s.Featured.ItemsPerCategory < 1 {
		return validationError("featured.itemspercategory must be at least 1")
	}
	if s.Featured.TotalLimit < 1 {
		return validationError("featured.totallimit must be at least 1")
	}
	if s.Watch.Debounce <= 0 {
		return validationError("watch.debounce must be positive")
	}
	return nil
}

func validationError(msg string) error {
	return errors.Newf("%s", msg).
		Category(errors.CategoryConfiguration).
		Component("conf").
		Build()
}
