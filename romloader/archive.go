package romloader

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// opener is the common shape of zip.File and sevenzip.File.
type opener interface {
	Open() (io.ReadCloser, error)
}

type entry struct {
	name string
	info fs.FileInfo
	file opener
}

// firstImage reads the first non-directory image among entries.
func firstImage(entries []entry) ([]byte, string, error) {
	for _, e := range entries {
		if e.info.IsDir() || !isROMFile(e.name) {
			continue
		}
		rc, err := e.file.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", e.name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", e.name, err)
		}
		return data, filepath.Base(e.name), nil
	}
	return nil, "", ErrNoROMFile
}

// extractFromZIP returns the first image entry of a ZIP archive.
func extractFromZIP(path string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	entries := make([]entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, entry{f.Name, f.FileInfo(), f})
	}
	return firstImage(entries)
}

// extractFrom7z returns the first image entry of a 7z archive.
func extractFrom7z(path string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open 7z: %w", err)
	}
	defer r.Close()

	entries := make([]entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, entry{f.Name, f.FileInfo(), f})
	}
	return firstImage(entries)
}

// extractFromGzip unpacks a gzip file. A tar stream inside is searched for
// the first image entry; anything else is taken as the image itself.
func extractFromGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open gzip: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("gzip header: %w", err)
	}
	defer gz.Close()

	br := bufio.NewReaderSize(gz, 512)
	if isTar(br) {
		return extractFromTar(br)
	}

	data, err := limitedRead(br)
	if err != nil {
		return nil, "", fmt.Errorf("decompress: %w", err)
	}
	name := gz.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return data, filepath.Base(name), nil
}

// isTar peeks for the ustar magic at offset 257 of the first block.
func isTar(br *bufio.Reader) bool {
	block, err := br.Peek(512)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(block[257:], []byte("ustar"))
}

func extractFromTar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, "", ErrNoROMFile
		}
		if err != nil {
			return nil, "", fmt.Errorf("tar entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !isROMFile(hdr.Name) {
			continue
		}
		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", hdr.Name, err)
		}
		return data, filepath.Base(hdr.Name), nil
	}
}
