package matching

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rule suggests TagID for any description containing Pattern, ignoring case.
type Rule struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Pattern   string
	TagID     uuid.UUID
	CreatedAt time.Time
}

// Matcher applies a user's rules in memory so a whole file can be tagged
// with one query.
type Matcher struct {
	rules []Rule
}

// NewMatcher orders rules longest pattern first.
func NewMatcher(rules []Rule) *Matcher {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b Rule) int {
		return cmp.Compare(len(b.Pattern), len(a.Pattern))
	})

	for i := range sorted {
		sorted[i].Pattern = strings.ToLower(sorted[i].Pattern)
	}

	return &Matcher{rules: sorted}
}

// Suggest returns the tag ids of every matching rule, most specific first,
// without repeats.
func (m *Matcher) Suggest(description string) []uuid.UUID {
	if m == nil || description == "" {
		return nil
	}

	desc := strings.ToLower(description)

	var ids []uuid.UUID

	for _, r := range m.rules {
		if r.Pattern == "" || !strings.Contains(desc, r.Pattern) {
			continue
		}

		if !slices.Contains(ids, r.TagID) {
			ids = append(ids, r.TagID)
		}
	}

	return ids
}
