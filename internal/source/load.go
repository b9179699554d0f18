package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a converted book. HTML exports are flattened to text; all
// input is normalised and stripped of Gutenberg boilerplate. A missing file
// yields an error wrapping fs.ErrNotExist.
func LoadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		text, err = HTMLToText(f)
		if err != nil {
			return "", err
		}
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("read source: %w", err)
		}
		text = string(data)
	}

	return Prepare(text), nil
}

// Prepare normalises raw text and removes licence boilerplate.
func Prepare(text string) string {
	text = Normalize(text)
	lines := StripBoilerplate(strings.Split(text, "\n"))
	return strings.Join(lines, "\n")
}
