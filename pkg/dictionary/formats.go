package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the files a word map is built from or saved to
type FileFormat int

const (
	FormatUnknown     FileFormat = iota
	FormatWords                  // One word per line
	FormatPermutation            // Whitespace separated output indices
	FormatSnapshot               // Binary word map snapshot
)

// FormatInfo contains metadata about a file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatWords: {
		Format:      FormatWords,
		Description: "Word List",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatPermutation: {
		Format:      FormatPermutation,
		Description: "Output Permutation",
		Extensions:  []string{".perm", ".txt"},
		MinSize:     1,
	},
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "Word Map Snapshot",
		Extensions:  []string{".bin"},
		MinSize:     5, // entry count header + msgpack body
	},
}

// ValidateFileFormat checks that a file is large enough for the format and that
// its header or first line parses. The extension is not checked.
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	switch expectedFormat {
	case FormatSnapshot:
		return validateSnapshotFormat(filename)
	case FormatWords, FormatPermutation:
		return validateTextFormat(filename, expectedFormat)
	}

	return nil
}

// MatchesExtension reports whether filename carries one of the format's extensions
func MatchesExtension(filename string, format FileFormat) bool {
	info, ok := supportedFormats[format]
	if !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range info.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// validateSnapshotFormat checks the entry count header of a snapshot
func validateSnapshotFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var entryCount int32
	if err := binary.Read(file, binary.LittleEndian, &entryCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}

	if entryCount < 1 {
		return fmt.Errorf("invalid entry count in %s: %d", filename, entryCount)
	}

	log.Debugf("Snapshot file %s validated: %d entries", filename, entryCount)
	return nil
}

// validateTextFormat reads the first non-blank line and checks it fits the format
func validateTextFormat(filename string, format FileFormat) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	first := ""
	for first == "" && scanner.Scan() {
		first = strings.TrimSpace(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read from text file %s: %w", filename, err)
	}
	if first == "" {
		return fmt.Errorf("text file %s is empty", filename)
	}

	if format == FormatPermutation {
		token := strings.Fields(first)[0]
		if _, err := strconv.Atoi(token); err != nil {
			return fmt.Errorf("permutation file %s does not start with an index: %w", filename, err)
		}
	}

	log.Debugf("Text file %s validated", filename)
	return nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Format < formats[j].Format
	})
	return formats
}
