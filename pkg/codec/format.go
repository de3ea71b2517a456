package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/vrep/pkg/solid"
	"gopkg.in/yaml.v3"
)

// Format is a byte encoding for documents.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Marshal encodes s as indented JSON.
func Marshal(s solid.Solid) ([]byte, error) {
	data, err := json.MarshalIndent(Encode(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: marshal json: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal parses JSON data and decodes the single document it holds.
func Unmarshal(data []byte) (solid.Solid, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("codec: parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after document")
		}
		return nil, fmt.Errorf("codec: parse json: %w", err)
	}
	return Decode(doc)
}

// MarshalYAML encodes s as YAML.
func MarshalYAML(s solid.Solid) ([]byte, error) {
	data, err := yaml.Marshal(map[string]any(Encode(s)))
	if err != nil {
		return nil, fmt.Errorf("codec: marshal yaml: %w", err)
	}
	return data, nil
}

// UnmarshalYAML parses YAML data and decodes the document it holds.
func UnmarshalYAML(data []byte) (solid.Solid, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: parse yaml: %w", err)
	}
	return Decode(doc)
}

// MarshalFormat encodes s in the given format.
func MarshalFormat(s solid.Solid, f Format) ([]byte, error) {
	if f == YAML {
		return MarshalYAML(s)
	}
	return Marshal(s)
}

// UnmarshalFormat decodes data in the given format.
func UnmarshalFormat(data []byte, f Format) (solid.Solid, error) {
	if f == YAML {
		return UnmarshalYAML(data)
	}
	return Unmarshal(data)
}

// Load reads a document from path and decodes it.
func Load(path string) (solid.Solid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("codec: load: %w", err)
	}
	s, err := UnmarshalFormat(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save encodes s and writes it to path.
func Save(path string, s solid.Solid) error {
	data, err := MarshalFormat(s, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("codec: save: %w", err)
	}
	return nil
}
