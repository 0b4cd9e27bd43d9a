package module

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// preludeManifest is the on-disk shape of an extern signature manifest,
// the same Config-struct-plus-yaml.v3-Unmarshal pattern funxy's own
// ext.Config uses for funxy.yaml (spec §1 places "the standard library
// of built-in functions" out of scope, but a host still needs a way to
// declare what externs it offers the checker; a manifest is the
// natural fit since the declarations are pure data, not code).
type preludeManifest struct {
	Externs []ExternSig `yaml:"externs"`
}

// LoadPreludeYAML reads a manifest of extern signatures from path and
// returns a populated Prelude.
func LoadPreludeYAML(path string) (*Prelude, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading prelude manifest %q: %w", path, err)
	}
	var man preludeManifest
	if err := yaml.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("parsing prelude manifest %q: %w", path, err)
	}
	p := NewPrelude()
	for _, sig := range man.Externs {
		p.Add(sig)
	}
	return p, nil
}
