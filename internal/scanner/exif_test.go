package scanner

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpframe/portfolio-manifest/internal/dateparse"
	"github.com/sharpframe/portfolio-manifest/internal/manifest"
)

const (
	tagDateTime         = 0x0132
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	tiffASCII = 2
	tiffLong  = 4
)

// exifJPEG builds a minimal JPEG whose APP1 segment carries a little-endian
// TIFF block with the given capture datetime ("2006:01:02 15:04:05" layout).
// With original set, the datetime lives as DateTimeOriginal in the Exif
// sub-IFD; otherwise it lives as plain DateTime in IFD0.
func exifJPEG(datetime string, original bool) []byte {
	val := append([]byte(datetime), 0)

	writeEntry := func(w *bytes.Buffer, tag, typ uint16, count, value uint32) {
		binary.Write(w, binary.LittleEndian, tag)
		binary.Write(w, binary.LittleEndian, typ)
		binary.Write(w, binary.LittleEndian, count)
		binary.Write(w, binary.LittleEndian, value)
	}

	tiff := &bytes.Buffer{}
	tiff.WriteString("II")
	binary.Write(tiff, binary.LittleEndian, uint16(42))
	binary.Write(tiff, binary.LittleEndian, uint32(8)) // IFD0 offset

	// One 12-byte entry per directory, 2-byte count, 4-byte next pointer.
	ifd0End := uint32(8 + 2 + 12 + 4)
	if original {
		// IFD0 points at the Exif sub-IFD, which holds DateTimeOriginal.
		subIFDEnd := ifd0End + 2 + 12 + 4
		binary.Write(tiff, binary.LittleEndian, uint16(1))
		writeEntry(tiff, tagExifIFDPointer, tiffLong, 1, ifd0End)
		binary.Write(tiff, binary.LittleEndian, uint32(0))

		binary.Write(tiff, binary.LittleEndian, uint16(1))
		writeEntry(tiff, tagDateTimeOriginal, tiffASCII, uint32(len(val)), subIFDEnd)
		binary.Write(tiff, binary.LittleEndian, uint32(0))
	} else {
		binary.Write(tiff, binary.LittleEndian, uint16(1))
		writeEntry(tiff, tagDateTime, tiffASCII, uint32(len(val)), ifd0End)
		binary.Write(tiff, binary.LittleEndian, uint32(0))
	}
	tiff.Write(val)

	app1 := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	out := &bytes.Buffer{}
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(out, binary.BigEndian, uint16(len(app1)+2)) // JPEG lengths are big-endian
	out.Write(app1)
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

func TestExifDateReadsDateTimeOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_001.jpg")
	require.NoError(t, os.WriteFile(path, exifJPEG("2025:08:29 10:15:00", true), 0o644))

	d, err := exifDate(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-29", d.ISO)
	assert.Equal(t, dateparse.SourceExif, d.Source)
	assert.Equal(t, dateparse.ConfidenceMedium, d.Confidence)
}

func TestExifDateFallsBackToDateTimeTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_001.jpg")
	require.NoError(t, os.WriteFile(path, exifJPEG("2024:03:14 18:00:00", false), 0o644))

	d, err := exifDate(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", d.ISO)
	assert.Equal(t, dateparse.SourceExif, d.Source)
}

func TestExifDateRejectsOutOfRangeYear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_001.jpg")
	require.NoError(t, os.WriteFile(path, exifJPEG("1970:01:01 00:00:00", true), 0o644))

	_, err := exifDate(path)
	assert.Error(t, err, "EXIF dates pass the same calendar validation as every source")
}

// End to end: filenames carry no date, so the scanner probes EXIF headers
// before giving up.
func TestScanExifDateSource(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Concert", "Haven")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "live_001.jpg"),
		exifJPEG("2025:08:29 10:15:00", true), 0o644))

	s := newTestScanner(filepath.Join(root, "date-overrides.json"))
	s.useExif = true
	cols, err := s.Scan(context.Background(), root, mustDescriptor(t, manifest.TypeConcert))
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "2025-08-29", cols[0].Date.ISO)
	assert.Equal(t, dateparse.SourceExif, cols[0].Date.Source)
}

// A JPEG with no readable metadata is a per-image debug line, never an
// error; the collection lands on the hard fallback date.
func TestScanExifDecodeFailureFallsThrough(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Concert", "Haven")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "live_001.jpg"),
		[]byte("not a jpeg"), 0o644))

	s := newTestScanner(filepath.Join(root, "date-overrides.json"))
	s.useExif = true
	cols, err := s.Scan(context.Background(), root, mustDescriptor(t, manifest.TypeConcert))
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, dateparse.SourceFallback, cols[0].Date.Source)
}
