// Package output writes run artifacts as JSON documents.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdulachik/litminer/internal/pipeline"
)

// Artifact file names.
const (
	QuotesFile        = "quotes.json"
	CharactersFile    = "characters.json"
	ThemesFile        = "themes.json"
	RelationshipsFile = "relationships.json"
)

// Documents returns the artifacts of a run keyed by artifact name.
func Documents(res *pipeline.Result) map[string]any {
	return map[string]any{
		pipeline.ArtifactQuotes:        res.Quotes,
		pipeline.ArtifactCharacters:    res.Characters,
		pipeline.ArtifactThemes:        res.Themes,
		pipeline.ArtifactRelationships: res.Relationships,
	}
}

// FileName maps an artifact name to its file name.
func FileName(artifact string) string {
	return artifact + ".json"
}

// Encode renders a document the way it is written to disk.
func Encode(doc any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteAll writes the four artifacts of res into dir and returns their paths.
func WriteAll(dir string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	docs := Documents(res)
	var paths []string
	for _, artifact := range []string{
		pipeline.ArtifactQuotes,
		pipeline.ArtifactCharacters,
		pipeline.ArtifactThemes,
		pipeline.ArtifactRelationships,
	} {
		data, err := Encode(docs[artifact])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", artifact, err)
		}
		path := filepath.Join(dir, FileName(artifact))
		if err := writeAtomic(path, data); err != nil {
			return nil, fmt.Errorf("write %s: %w", artifact, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// writeAtomic writes data to a temp file next to path and renames it over
// path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
