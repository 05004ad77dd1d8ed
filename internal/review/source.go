package review

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source collection limits. Anything past MaxTotalBytes is cut off so one
// oversized tree can't blow the model's context window.
const (
	MaxFileBytes  = 64 * 1024
	MaxTotalBytes = 512 * 1024
)

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"uploads":      true,
}

var sourceExtensions = map[string]bool{
	".go":   true,
	".sql":  true,
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".yml":  true,
	".yaml": true,
	".json": true,
	".md":   true,
}

// CollectSource walks root and concatenates every recognized source file
// into one blob, each section headed by its relative path.
func CollectSource(root string) (string, error) {
	var buf bytes.Buffer

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), "_") ||
				(strings.HasPrefix(d.Name(), ".") && d.Name() != ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > MaxFileBytes {
			return nil
		}
		if buf.Len() >= MaxTotalBytes {
			return filepath.SkipAll
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if bytes.IndexByte(data, 0) >= 0 {
			// Binary masquerading under a source extension.
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		buf.WriteString("===== ")
		buf.WriteString(filepath.ToSlash(rel))
		buf.WriteString(" =====\n")
		buf.Write(data)
		if len(data) == 0 || data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
		return nil
	})
	if err != nil {
		return "", err
	}

	s := buf.String()
	if len(s) > MaxTotalBytes {
		s = s[:MaxTotalBytes]
	}
	return s, nil
}
