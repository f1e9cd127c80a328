// Package diceset loads weighted dice definitions from YAML files.
package diceset

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/probelab/montecarlo/internal/dice"
)

// yamlDiceSetFile is the top-level YAML structure for dice-set files.
type yamlDiceSetFile struct {
	DiceSet yamlDiceSet `yaml:"dice_set"`
}

// yamlDiceSet is the YAML representation of a dice set.
type yamlDiceSet struct {
	Name string    `yaml:"name"`
	Dice []yamlDie `yaml:"dice"`
}

// yamlDie is the YAML representation of one die. Faces are raw nodes so the
// scalar tag decides the label kind: quoted scalars become string labels,
// bare numbers become number labels.
type yamlDie struct {
	Name    string             `yaml:"name"`
	Faces   []yaml.Node        `yaml:"faces"`
	Weights map[string]float64 `yaml:"weights"`
}

// DieSpec is one validated die definition: its faces in file order and any
// per-face weight overrides keyed by the face's display form.
type DieSpec struct {
	Name    string
	Faces   []dice.Label
	Weights map[string]float64
}

// DiceSet is a validated collection of die definitions.
type DiceSet struct {
	Name string
	Dice []DieSpec
}

// LoadFromFile reads and validates a single dice-set YAML file.
//
// Precondition: path must point to a valid YAML dice-set file.
// Postcondition: Returns a validated DiceSet or a non-nil error.
func LoadFromFile(path string) (*DiceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dice-set file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a dice set from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the dice-set schema.
// Postcondition: Returns a validated DiceSet or a non-nil error.
func LoadFromBytes(data []byte) (*DiceSet, error) {
	var file yamlDiceSetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing dice-set YAML: %w", err)
	}

	set, err := convertYAMLDiceSet(file.DiceSet)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("validating dice set: %w", err)
	}
	return set, nil
}

func convertYAMLDiceSet(y yamlDiceSet) (*DiceSet, error) {
	set := &DiceSet{Name: y.Name}
	for i, yd := range y.Dice {
		faces := make([]dice.Label, len(yd.Faces))
		for j, node := range yd.Faces {
			label, err := labelFromNode(node)
			if err != nil {
				return nil, fmt.Errorf("dice set: die[%d] face[%d]: %w", i, j, err)
			}
			faces[j] = label
		}
		set.Dice = append(set.Dice, DieSpec{
			Name:    yd.Name,
			Faces:   faces,
			Weights: yd.Weights,
		})
	}
	return set, nil
}

// labelFromNode converts a YAML scalar to a Label using the node tag.
func labelFromNode(node yaml.Node) (dice.Label, error) {
	if node.Kind != yaml.ScalarNode {
		return dice.Label{}, fmt.Errorf("face must be a scalar, got %v", node.Kind)
	}
	switch node.Tag {
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return dice.Label{}, fmt.Errorf("parsing numeric face %q: %w", node.Value, err)
		}
		return dice.NumberLabel(n), nil
	case "!!str":
		return dice.StringLabel(node.Value), nil
	default:
		return dice.Label{}, fmt.Errorf("face %q has unsupported YAML tag %s", node.Value, node.Tag)
	}
}

// Validate checks that the dice set satisfies its invariants. Face
// distinctness and kind uniformity are enforced by dice.NewDie at Build time.
//
// Postcondition: Returns nil iff the set has at least one die, every die has
// at least one face, and every weight override names a declared face with a
// finite non-negative value.
func (s *DiceSet) Validate() error {
	if len(s.Dice) == 0 {
		return fmt.Errorf("dice set: must declare at least one die")
	}
	for i, spec := range s.Dice {
		if len(spec.Faces) == 0 {
			return fmt.Errorf("dice set: die[%d] must have at least one face", i)
		}
		declared := make(map[string]bool, len(spec.Faces))
		for _, f := range spec.Faces {
			declared[f.String()] = true
		}
		for face, w := range spec.Weights {
			if !declared[face] {
				return fmt.Errorf("dice set: die[%d] weight override names unknown face %q", i, face)
			}
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return fmt.Errorf("dice set: die[%d] face %q weight must be finite and >= 0, got %v", i, face, w)
			}
		}
	}
	return nil
}

// Build constructs the dice declared by the set, all drawing from src.
//
// Precondition: s must have passed Validate().
// Postcondition: Returns one *dice.Die per DieSpec, in declaration order,
// with weight overrides applied, or the first construction error.
func (s *DiceSet) Build(src dice.Source) ([]*dice.Die, error) {
	out := make([]*dice.Die, 0, len(s.Dice))
	for i, spec := range s.Dice {
		d, err := dice.NewDie(spec.Faces, src)
		if err != nil {
			return nil, fmt.Errorf("dice set: die[%d] %s: %w", i, spec.Name, err)
		}
		for _, f := range spec.Faces {
			if w, ok := spec.Weights[f.String()]; ok {
				if err := d.SetWeight(f, w); err != nil {
					return nil, fmt.Errorf("dice set: die[%d] %s: %w", i, spec.Name, err)
				}
			}
		}
		out = append(out, d)
	}
	return out, nil
}
