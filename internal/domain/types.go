package domain

import "sort"

// TypeSet is the set of category tags attached to a place.
type TypeSet map[string]struct{}

func NewTypeSet(tags ...string) TypeSet {
	s := make(TypeSet, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		s[t] = struct{}{}
	}
	return s
}

func (s TypeSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Intersects reports whether s and other share at least one tag.
func (s TypeSet) Intersects(other TypeSet) bool {
	a, b := s, other
	if len(b) < len(a) {
		a, b = b, a
	}
	for t := range a {
		if _, ok := b[t]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the tags in lexical order.
func (s TypeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
