package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// Loader reads and validates a RenderProfile document.
type Loader struct{}

// Read loads the YAML file at path into a RenderProfile.
func (Loader) Read(path string) (RenderProfile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return RenderProfile{}, fmt.Errorf("%w", err)
	}

	profile, err := LoadConfig[RenderProfile](data)
	if err != nil {
		return RenderProfile{}, fmt.Errorf("%w", err)
	}

	if profile.Kind != "" && profile.Kind != RenderProfileKind {
		return RenderProfile{}, fmt.Errorf("unexpected config kind %q, expected %q", profile.Kind, RenderProfileKind)
	}

	return profile, nil
}

// LoadConfig decodes YAML bytes into a RenderProfile via JSON, rejecting
// unknown fields (same conversion path as the teacher's generic
// LoadConfig[T]).
func LoadConfig[T any](data []byte) (c T, err error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return c, fmt.Errorf("yaml to json: %w", err)
	}

	dec := json.NewDecoder(bytes.NewBuffer(jsonData))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// MachOToggles is the MachOOptions-shaped toggle set a profile carries. It
// is kept separate from RenderOptions so the config package never imports
// pkg/api's routing types, only the small subset it configures.
type MachOToggles struct {
	AllowPrivateSymbols   bool
	AllowPrivateObjC      bool
	IgnoreUnsupportedArch bool
}

func (p RenderProfile) MachOToggles() MachOToggles {
	return MachOToggles{
		AllowPrivateSymbols:   p.AllowPrivateSymbols,
		AllowPrivateObjC:      p.AllowPrivateObjC,
		IgnoreUnsupportedArch: p.IgnoreUnsupportedArch,
	}
}
