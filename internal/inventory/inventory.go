// Package inventory reads appliance lists from YAML files and feeds them
// through a ledger.
package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jgoulah/loadanalyzer/internal/ledger"
)

// Field keeps the literal scalar text so numbers are parsed by the ledger,
// not by the YAML decoder
type Field string

func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", value.Line)
	}
	*f = Field(value.Value)
	return nil
}

// Entry is one raw appliance as written in the file
type Entry struct {
	Name     Field `yaml:"name"`
	Power    Field `yaml:"power"`
	Quantity Field `yaml:"quantity"`
	Hours    Field `yaml:"hours"`
}

// File is the layout of an inventory file
type File struct {
	Appliances []Entry `yaml:"appliances"`
}

// Load reads an inventory file
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory file: %w", err)
	}
	return Parse(data)
}

// Parse decodes inventory YAML
func Parse(data []byte) ([]Entry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing inventory file: %w", err)
	}
	return f.Appliances, nil
}

// Rejection records an entry the ledger refused
type Rejection struct {
	Index int // zero-based position in the file
	Name  string
	Err   error
}

// Apply adds every entry to the ledger, continuing past invalid ones.
// It returns how many were added and the entries that were rejected.
func Apply(l *ledger.Ledger, entries []Entry) (int, []Rejection) {
	added := 0
	var rejected []Rejection
	for i, e := range entries {
		if _, err := l.Add(string(e.Name), string(e.Power), string(e.Quantity), string(e.Hours)); err != nil {
			rejected = append(rejected, Rejection{Index: i, Name: string(e.Name), Err: err})
			continue
		}
		added++
	}
	return added, rejected
}
