package domain

import (
	"regexp"
	"sort"
)

// categoryPattern is the accepted shape of a category name: one word of 3-20
// letters, optionally followed by a second word of 2-25 letters.
var categoryPattern = regexp.MustCompile(`^[A-Za-z]{3,20}( [A-Za-z]{2,25})?$`)

// CategorySet is the read-only reference data of known product categories.
// Membership is an exact, case-sensitive string match.
type CategorySet interface {
	Contains(category string) bool
}

// Categories is an in-memory CategorySet. It must not be mutated once shared.
type Categories map[string]struct{}

func NewCategories(names ...string) Categories {
	c := make(Categories, len(names))
	for _, n := range names {
		c[n] = struct{}{}
	}
	return c
}

func (c Categories) Contains(category string) bool {
	_, ok := c[category]
	return ok
}

// Names returns the members in sorted order.
func (c Categories) Names() []string {
	out := make([]string, 0, len(c))
	for n := range c {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
