package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different word list file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatText                // Whitespace separated words
	FormatGzip                // gzip compressed text
	FormatZstd                // zstd compressed text
	FormatLZ4                 // lz4 framed text
	FormatChunk               // Single dict_NNNN.bin chunk
	FormatChunkDir            // Directory of dict_NNNN.bin chunks
)

// FormatInfo contains metadata about a word list format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt"},
	},
	FormatGzip: {
		Format:      FormatGzip,
		Description: "Gzip Compressed Word List",
		Extensions:  []string{".gz"},
	},
	FormatZstd: {
		Format:      FormatZstd,
		Description: "Zstandard Compressed Word List",
		Extensions:  []string{".zst", ".zstd"},
	},
	FormatLZ4: {
		Format:      FormatLZ4,
		Description: "LZ4 Compressed Word List",
		Extensions:  []string{".lz4"},
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Word List",
		Extensions:  []string{".bin"},
	},
	FormatChunkDir: {
		Format:      FormatChunkDir,
		Description: "Directory of Binary Chunks",
	},
}

// String returns the format description.
func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFileFormat picks the decoder for path.
// Directories must hold at least one dict_*.bin file. Files are matched by
// extension; anything unrecognised is read as plain text.
func DetectFileFormat(path string) (FileFormat, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if stat.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, chunkGlob))
		if err != nil {
			return FormatUnknown, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		if len(matches) == 0 {
			return FormatUnknown, fmt.Errorf("%s: %w", path, ErrNoChunks)
		}
		return FormatChunkDir, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				log.Debugf("Detected %s for %s", info.Description, path)
				return format, nil
			}
		}
	}
	return FormatText, nil
}
