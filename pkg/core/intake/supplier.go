package intake

import (
	"slices"
	"strconv"
	"strings"
)

// SupplierSet is the ordered, duplicate free set of supplier ids hidden from
// one user. On the wire it is a comma separated string.
type SupplierSet []int64

// ParseSupplierSet skips blanks and anything that is not an id.
func ParseSupplierSet(raw string) SupplierSet {
	set := SupplierSet{}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 || set.Contains(id) {
			continue
		}
		set = append(set, id)
	}
	return set
}

func (s SupplierSet) String() string {
	parts := make([]string, 0, len(s))
	for _, id := range s {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func (s SupplierSet) Contains(id int64) bool {
	return slices.Contains(s, id)
}

// Add reports false when id was already present.
func (s SupplierSet) Add(id int64) (SupplierSet, bool) {
	if s.Contains(id) {
		return s, false
	}
	return append(slices.Clone(s), id), true
}

func (s SupplierSet) Remove(id int64) (SupplierSet, bool) {
	i := slices.Index(s, id)
	if i < 0 {
		return s, false
	}
	return slices.Delete(slices.Clone(s), i, i+1), true
}
