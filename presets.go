// Parameter Presets (C7, SPEC_FULL.md §4.7): YAML-encoded Parameters
// bundles for reproducible agent construction, operating on []byte only
// — the library itself never opens a file or reads an environment
// variable (spec.md §6). Grounded on the teacher's internal/config/
// config.go (a defaulted, validated settings struct) and
// internal/agents/agent_loader.go (gopkg.in/yaml.v3 unmarshaling of a
// structured metadata block); unlike the teacher, nothing here touches
// os.ReadFile, os.LookupEnv, or the filesystem — the caller supplies
// the bytes however it sees fit.
package ibl

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParameterPreset is the YAML-serializable mirror of Parameters. Pointer
// fields are omitted from the document when nil.
type ParameterPreset struct {
	Noise                   float64  `yaml:"noise"`
	Decay                   float64  `yaml:"decay"`
	Temperature             *float64 `yaml:"temperature,omitempty"`
	MismatchPenalty         *float64 `yaml:"mismatch_penalty,omitempty"`
	DefaultUtility          *float64 `yaml:"default_utility,omitempty"`
	DefaultUtilityPopulates bool     `yaml:"default_utility_populates"`
	OptimizedLearning       bool     `yaml:"optimized_learning"`
}

// ParsePreset unmarshals a YAML document into a ParameterPreset. Unknown
// keys are rejected, the same strictness the teacher's frontmatter
// parser applies to malformed metadata.
func ParsePreset(data []byte) (*ParameterPreset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var preset ParameterPreset
	if err := dec.Decode(&preset); err != nil {
		return nil, fmt.Errorf("ibl: parse preset: %w", err)
	}
	return &preset, nil
}

// ToParameters converts the preset to Parameters, applying spec.md §7's
// validation rules.
func (p *ParameterPreset) ToParameters() (Parameters, error) {
	params := Parameters{
		Noise:                   p.Noise,
		Decay:                   p.Decay,
		Temperature:             p.Temperature,
		MismatchPenalty:         p.MismatchPenalty,
		DefaultUtility:          p.DefaultUtility,
		DefaultUtilityPopulates: p.DefaultUtilityPopulates,
		OptimizedLearning:       p.OptimizedLearning,
	}
	if err := params.Validate(); err != nil {
		return Parameters{}, err
	}
	return params, nil
}

// EncodePreset marshals Parameters back to YAML, the inverse of
// ParsePreset/ToParameters, for snapshotting a running agent's
// configuration into a reproducibility log.
func EncodePreset(p Parameters) ([]byte, error) {
	preset := ParameterPreset{
		Noise:                   p.Noise,
		Decay:                   p.Decay,
		Temperature:             p.Temperature,
		MismatchPenalty:         p.MismatchPenalty,
		DefaultUtility:          p.DefaultUtility,
		DefaultUtilityPopulates: p.DefaultUtilityPopulates,
		OptimizedLearning:       p.OptimizedLearning,
	}
	out, err := yaml.Marshal(&preset)
	if err != nil {
		return nil, fmt.Errorf("ibl: encode preset: %w", err)
	}
	return out, nil
}
