package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/sharpframe/portfolio-manifest/internal/dateparse"
)

// detectFromExif probes up to dateSampleLimit images for an EXIF capture
// date. Only JPEGs are tried (goexif reads JPEG/TIFF headers). Decode
// failures are per-image warnings; a folder of screenshots or exports with
// stripped metadata is normal, not an error.
func (s *Scanner) detectFromExif(dir string, images []string) *dateparse.DateInfo {
	probed := 0
	for _, name := range images {
		if probed >= dateSampleLimit {
			break
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		probed++

		date, err := exifDate(filepath.Join(dir, name))
		if err != nil {
			s.log.Debug("no usable EXIF date", "image", name, "error", err)
			continue
		}
		return date
	}
	return nil
}

// exifDate extracts DateTimeOriginal (falling back to DateTime) from one
// image file and validates it like every other date source.
func exifDate(path string) (*dateparse.DateInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, err
	}
	tm, err := x.DateTime()
	if err != nil {
		return nil, err
	}
	return dateparse.New(tm.Year(), int(tm.Month()), tm.Day(),
		dateparse.SourceExif, dateparse.ConfidenceMedium)
}
