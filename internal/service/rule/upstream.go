package rule

import (
	"fmt"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

// UpstreamSet is the ordered collection of upstreams of one location.
// Entries are never reordered.
type UpstreamSet struct {
	path    string
	entries []entities.Upstream
}

// NewUpstreamSet returns a set for path, "/" when empty.
func NewUpstreamSet(path string, upstreams ...entities.Upstream) *UpstreamSet {
	s := &UpstreamSet{path: normalizePath(path)}
	for _, u := range upstreams {
		s.Add(u)
	}
	return s
}

// FromLocation wraps an existing location.
func FromLocation(loc entities.Location) *UpstreamSet {
	return NewUpstreamSet(loc.Path, loc.Upstreams...)
}

// Add appends u, defaulting an unset CIDR to match-all.
func (s *UpstreamSet) Add(u entities.Upstream) {
	if isMatchAll(u.Condition.IPCIDR) {
		u.Condition.IPCIDR = entities.MatchAllCIDR
	}
	s.entries = append(s.entries, copyUpstream(u))
}

// Remove deletes the entry at index i, keeping the order of the rest.
func (s *UpstreamSet) Remove(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("upstream index %d out of range [0,%d)", i, len(s.entries))
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

// Len returns the number of entries.
func (s *UpstreamSet) Len() int {
	return len(s.entries)
}

// Path returns the location path.
func (s *UpstreamSet) Path() string {
	return s.path
}

// Validate checks the set in isolation: every target is set, the set is not
// empty, and every condition parses.
func (s *UpstreamSet) Validate() error {
	loc := s.Location()
	if err := checkTargets(0, loc); err != nil {
		return err
	}
	if len(loc.Upstreams) == 0 {
		return errs.Validation(errs.NoUpstreams, "upstreams", "")
	}
	return checkConditions(0, loc)
}

// Select returns the first entry whose condition matches req.
func (s *UpstreamSet) Select(req entities.RequestContext) (entities.Upstream, int, bool) {
	for i, u := range s.entries {
		if Matches(u.Condition, req) {
			return copyUpstream(u), i, true
		}
	}
	return entities.Upstream{}, -1, false
}

// Location returns a copy of the set as a Location.
func (s *UpstreamSet) Location() entities.Location {
	ups := make([]entities.Upstream, 0, len(s.entries))
	for _, u := range s.entries {
		ups = append(ups, copyUpstream(u))
	}
	return entities.Location{Path: s.path, Upstreams: ups}
}

func copyUpstream(u entities.Upstream) entities.Upstream {
	if u.Condition.Headers != nil {
		h := make(map[string]string, len(u.Condition.Headers))
		for k, v := range u.Condition.Headers {
			h[k] = v
		}
		u.Condition.Headers = h
	}
	return u
}

func normalizePath(p string) string {
	if p == "" {
		return entities.DefaultPath
	}
	return p
}
