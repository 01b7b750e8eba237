package template

import (
	"sort"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// Summary describes a template set without expanding it. It backs the
// inspect command and the gap warnings printed under --verbose.
type Summary struct {
	// Templates is the number of bond rows.
	Templates int `json:"templates"`

	// SpinsPerCell is 1 + the largest spin index.
	SpinsPerCell int `json:"spinsPerCell"`

	// Exchanges lists the distinct exchange names in ascending class order.
	Exchanges []string `json:"exchanges"`

	// BondsPerExchange counts template rows per exchange name.
	BondsPerExchange map[string]int `json:"bondsPerExchange"`

	// MissingSpins lists spin indices below SpinsPerCell that no bond
	// references. A non-empty list usually means a malformed unit cell,
	// but it is reported, not rejected.
	MissingSpins []int `json:"missingSpins,omitempty"`

	// MaxOffset is the largest absolute cell translation on each axis.
	// A block needs more than 2*MaxOffset cells along an axis for a bond
	// not to wrap onto an image of itself.
	MaxOffset model.Vector `json:"maxOffset"`
}

// Summarize computes a Summary of templates.
func Summarize(templates []model.BondTemplate) Summary {
	s := Summary{
		Templates:        len(templates),
		SpinsPerCell:     SpinCount(templates),
		BondsPerExchange: make(map[string]int),
	}

	seen := make([]bool, s.SpinsPerCell)
	classes := make(map[int]struct{})
	for _, t := range templates {
		seen[t.SpinI] = true
		seen[t.SpinJ] = true
		classes[t.Exchange] = struct{}{}
		s.BondsPerExchange[t.ExchangeName()]++

		s.MaxOffset.X = max(s.MaxOffset.X, abs(t.Offset.X))
		s.MaxOffset.Y = max(s.MaxOffset.Y, abs(t.Offset.Y))
		s.MaxOffset.Z = max(s.MaxOffset.Z, abs(t.Offset.Z))
	}

	for spin, ok := range seen {
		if !ok {
			s.MissingSpins = append(s.MissingSpins, spin)
		}
	}

	ordered := make([]int, 0, len(classes))
	for c := range classes {
		ordered = append(ordered, c)
	}
	sort.Ints(ordered)
	for _, c := range ordered {
		s.Exchanges = append(s.Exchanges, model.ExchangeName(c))
	}

	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
