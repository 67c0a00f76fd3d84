// Package problemio reads and writes problem files. JSON is the interchange
// format; YAML and TOML carry the same field names.
package problemio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/blendplan/core/model"
)

// Format identifies a problem file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("problemio: unsupported extension %q", filepath.Ext(path))
}

// Read decodes a problem from r. Unknown JSON fields are rejected.
func Read(r io.Reader, f Format) (model.ProblemInput, error) {
	var in model.ProblemInput
	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return in, fmt.Errorf("problemio: decode json: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&in); err != nil {
			return in, fmt.Errorf("problemio: decode yaml: %w", err)
		}
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&in)
		if err != nil {
			return in, fmt.Errorf("problemio: decode toml: %w", err)
		}
		if und := md.Undecoded(); len(und) > 0 {
			return in, fmt.Errorf("problemio: unknown toml keys %v", und)
		}
	default:
		return in, fmt.Errorf("problemio: unknown format %q", f)
	}
	return in, nil
}

// Write encodes in to w.
func Write(w io.Writer, in model.ProblemInput, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(in); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(in)
	}
	return fmt.Errorf("problemio: unknown format %q", f)
}

// Load reads and validates the problem file at path.
func Load(path string) (model.ProblemInput, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return model.ProblemInput{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return model.ProblemInput{}, err
	}
	defer func() { _ = file.Close() }()
	in, err := Read(file, f)
	if err != nil {
		return in, err
	}
	if err := in.Validate(); err != nil {
		return in, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Save writes in to path in the format given by its extension.
func Save(path string, in model.ProblemInput) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(file, in, f)
}
