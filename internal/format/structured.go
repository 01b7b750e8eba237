package format

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// document is the shape shared by the YAML and JSON renderings.
type document struct {
	Lattice      string               `json:"lattice" yaml:"lattice"`
	Dimensions   model.Dimensions     `json:"dimensions" yaml:"dimensions"`
	Periodic     bool                 `json:"periodic" yaml:"periodic"`
	Sites        int                  `json:"sites" yaml:"sites"`
	SpinsPerCell int                  `json:"spinsPerCell" yaml:"spinsPerCell"`
	CentralCell  []int                `json:"centralCell" yaml:"centralCell,flow"`
	Bonds        []model.ExpandedBond `json:"bonds" yaml:"bonds"`
}

func newDocument(l *model.Lattice) document {
	bonds := l.Bonds
	if bonds == nil {
		bonds = []model.ExpandedBond{}
	}
	return document{
		Lattice:      l.Name,
		Dimensions:   l.Dimensions,
		Periodic:     true,
		Sites:        l.Sites(),
		SpinsPerCell: l.SpinsPerCell,
		CentralCell:  l.CentralCellSites(),
		Bonds:        bonds,
	}
}

// WriteYAML writes l as a YAML document.
func WriteYAML(w io.Writer, l *model.Lattice) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(l)); err != nil {
		return fmt.Errorf("failed to encode lattice as YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes l as indented JSON followed by a newline.
func WriteJSON(w io.Writer, l *model.Lattice) error {
	data, err := json.MarshalIndent(newDocument(l), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode lattice as JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
