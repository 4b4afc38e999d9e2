// Package romloader reads homebrew ROM images from disk. Plain images and
// images packed in ZIP, 7z, gzip (optionally tar.gz) and RAR archives are
// accepted.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Archive signatures
var (
	magicZIP      = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip     = []byte{0x1F, 0x8B}
	magicRAR      = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// MaxROMSize is the size of the board's ROM window.
const MaxROMSize = 32 * 1024

// ErrNoROMFile is returned when an archive holds no .bin or .rom entry
var ErrNoROMFile = errors.New("no .bin or .rom file found in archive")

// ErrUnsupportedFormat is returned when a file is neither an image nor a known archive
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when an image does not fit the ROM window
var ErrFileTooLarge = errors.New("image exceeds the 32K ROM window")

type format int

const (
	formatUnknown format = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f format) String() string {
	switch f {
	case formatRaw:
		return "raw"
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	}
	return "unknown"
}

// LoadROM reads the image at path, unpacking it first when path is an
// archive. It returns the image bytes and the base name of the file the
// image came from.
func LoadROM(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("read header: %w", err)
	}
	header = header[:n]

	switch detectFormat(header, path) {
	case formatRaw:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, "", fmt.Errorf("seek: %w", err)
		}
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		return data, filepath.Base(path), nil
	case formatZIP:
		return extractFromZIP(path)
	case format7z:
		return extractFrom7z(path)
	case formatGzip:
		return extractFromGzip(path)
	case formatRAR:
		return extractFromRAR(path)
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// detectFormat checks archive signatures and falls back to the extension.
func detectFormat(header []byte, path string) format {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEmpty):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") {
		return formatGzip
	}
	switch filepath.Ext(lower) {
	case ".bin", ".rom":
		return formatRaw
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	}
	return formatUnknown
}

// isROMFile reports whether name has an image extension.
func isROMFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bin", ".rom":
		return true
	}
	return false
}

// limitedRead reads r to EOF, failing once more than MaxROMSize bytes arrive.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
