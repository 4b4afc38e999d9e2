package romloader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR returns the first image entry of a RAR archive.
func extractFromRAR(path string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open rar: %w", err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil, "", ErrNoROMFile
		}
		if err != nil {
			return nil, "", fmt.Errorf("rar entry: %w", err)
		}
		if hdr.IsDir || !isROMFile(hdr.Name) {
			continue
		}
		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", hdr.Name, err)
		}
		return data, filepath.Base(hdr.Name), nil
	}
}
