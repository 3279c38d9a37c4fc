// Package outline resolves situation types to memo section outlines.
package outline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/meridian-research/memogen/internal/model"
)

// ErrUnsupportedSituation is returned when no outline exists for a situation
// type.
var ErrUnsupportedSituation = eris.New("outline: unsupported situation type")

// Registry maps situation types to their memo outlines.
type Registry struct {
	outlines map[model.SituationType]model.Outline
}

// NewRegistry returns a registry seeded with the built-in outlines.
func NewRegistry() *Registry {
	outlines := make(map[model.SituationType]model.Outline, len(builtins))
	for st, o := range builtins {
		outlines[st] = o
	}
	return &Registry{outlines: outlines}
}

// For returns the outline for a situation type.
func (r *Registry) For(st model.SituationType) (model.Outline, error) {
	o, ok := r.outlines[st]
	if !ok {
		return model.Outline{}, eris.Wrapf(ErrUnsupportedSituation, "outline: %q", string(st))
	}
	return o, nil
}

// overrideFile is the on-disk shape of an outline override file.
type overrideFile struct {
	Outlines map[string]model.Outline `yaml:"outlines"`
}

// LoadOverrides replaces built-in outlines with entries from a YAML file.
// Keys are situation identifiers or labels; unknown keys are rejected so a
// typo cannot silently leave a built-in in place.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "outline: read overrides %s", path)
	}

	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return eris.Wrap(err, "outline: parse overrides")
	}

	for key, o := range file.Outlines {
		st, err := model.ParseSituation(key)
		if err != nil {
			return eris.Wrapf(err, "outline: override key %q", key)
		}
		if len(o.Sections) == 0 {
			return eris.Errorf("outline: override %q has no sections", key)
		}
		r.outlines[st] = o
	}
	return nil
}
