package projection

import (
	"slices"
	"strings"

	"github.com/scienceol/labinv/pkg/common/code"
)

type Facet string

const (
	FacetDesignation Facet = "designation"
	FacetLaboratory  Facet = "laboratory"
	FacetStatus      Facet = "status"
)

// Facets holds the accepted values per dimension. An empty dimension
// accepts everything.
type Facets struct {
	Designation []string `json:"designation"`
	Laboratory  []string `json:"laboratory"`
	Status      []string `json:"status"`
}

func (f *Facets) set(facet Facet) (*[]string, error) {
	switch facet {
	case FacetDesignation:
		return &f.Designation, nil
	case FacetLaboratory:
		return &f.Laboratory, nil
	case FacetStatus:
		return &f.Status, nil
	}
	return nil, code.UnknownFacetErr.WithMsgf("unknown filter facet: %s", facet)
}

// Toggle adds value to the facet or removes it when already selected.
func (f *Facets) Toggle(facet Facet, value string) error {
	s, err := f.set(facet)
	if err != nil {
		return err
	}
	if i := indexFold(*s, value); i >= 0 {
		*s = slices.Delete(*s, i, i+1)
		return nil
	}
	*s = append(*s, value)
	return nil
}

func (f *Facets) Clear(facet Facet) error {
	s, err := f.set(facet)
	if err != nil {
		return err
	}
	*s = nil
	return nil
}

func (f *Facets) ClearAll() {
	*f = Facets{}
}

func (f *Facets) Empty() bool {
	return len(f.Designation) == 0 && len(f.Laboratory) == 0 && len(f.Status) == 0
}

// Accepts is the conjunction of the three dimensions. Values compare case
// insensitively since the catalogue is title case and records are not.
func (f *Facets) Accepts(u *User) bool {
	return accepts(f.Designation, u.Designation) &&
		accepts(f.Laboratory, u.Laboratory) &&
		accepts(f.Status, u.Status)
}

func accepts(set []string, value string) bool {
	return len(set) == 0 || indexFold(set, value) >= 0
}

func indexFold(set []string, value string) int {
	return slices.IndexFunc(set, func(s string) bool {
		return strings.EqualFold(s, value)
	})
}
