package pattern

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed assets/*.json
var assets embed.FS

const defaultPatterns = "assets/default_patterns.json"

// Default returns the built-in library: adjective and noun combinations
// headed by a noun.
func Default() Library {
	b, err := assets.ReadFile(defaultPatterns)
	if err != nil {
		panic(fmt.Sprintf("missing embedded %s: %v", defaultPatterns, err))
	}

	lib, err := Decode(bytes.NewReader(b))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded %s: %v", defaultPatterns, err))
	}

	return lib
}

// Decode reads a JSON array of rules and validates it.
func Decode(r io.Reader) (Library, error) {
	var lib Library
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lib); err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}

	if err := lib.Validate(); err != nil {
		return nil, err
	}

	return lib, nil
}

// DecodeYAML reads a YAML sequence of rules and validates it.
func DecodeYAML(r io.Reader) (Library, error) {
	var lib Library
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lib); err != nil {
		return nil, fmt.Errorf("YAML decoding error: %w", err)
	}

	if err := lib.Validate(); err != nil {
		return nil, err
	}

	return lib, nil
}

// Read reads a rule file. The format is chosen by extension: .yaml and .yml
// files are YAML, anything else is JSON.
func Read(path string) (Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return Decode(f)
	}
}

// Encode writes the library as indented JSON.
func Encode(w io.Writer, lib Library) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(lib)
}
