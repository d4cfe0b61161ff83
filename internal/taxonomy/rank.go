package taxonomy

import (
	"sort"
	"strings"

	"gamerhub/internal/models"
)

// Selection is the set of ranking ids the feed is filtered by. The zero value
// is an empty selection ready to use. A nil *Selection reads as empty and
// Remove and Clear are no-ops on it; Add, Toggle and ToggleGroup need a
// non-nil receiver.
type Selection struct {
	ids map[uint]struct{}
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...uint) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Selection) Has(id uint) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Add(id uint) {
	if s.ids == nil {
		s.ids = make(map[uint]struct{})
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Remove(id uint) {
	if s == nil {
		return
	}
	delete(s.ids, id)
}

// Toggle flips membership of id.
func (s *Selection) Toggle(id uint) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.Add(id)
}

// ToggleGroup deselects every member of a fully selected group and selects
// every member otherwise.
func (s *Selection) ToggleGroup(g RankGroup) {
	if g.FullySelected() {
		for _, r := range g.Members {
			s.Remove(r.ID)
		}
		return
	}
	for _, r := range g.Members {
		s.Add(r.ID)
	}
}

func (s *Selection) Clear() {
	if s == nil {
		return
	}
	s.ids = nil
}

func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Empty reports whether no ranking is selected, meaning no filter applies.
func (s *Selection) Empty() bool {
	return s.Len() == 0
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []uint {
	if s == nil {
		return nil
	}
	out := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	return NewSelection(s.IDs()...)
}

// RankGroup is a tier and the rankings that belong to it.
type RankGroup struct {
	Tier     string
	Members  []models.Ranking
	selected int
}

// FullySelected reports whether every member is in the selection the group was built with.
func (g RankGroup) FullySelected() bool {
	return len(g.Members) > 0 && g.selected == len(g.Members)
}

// PartiallySelected reports whether some but not all members are selected.
func (g RankGroup) PartiallySelected() bool {
	return g.selected > 0 && g.selected < len(g.Members)
}

// IDs returns the member ranking ids in ladder order.
func (g RankGroup) IDs() []uint {
	out := make([]uint, 0, len(g.Members))
	for _, r := range g.Members {
		out = append(out, r.ID)
	}
	return out
}

// Tier returns the part of a ranking name before its first space, or the
// whole name when there is none ("Iron 1" -> "Iron", "Radiant" -> "Radiant").
func Tier(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// GroupRankings groups rankings by tier, keeping the order in which tiers
// first appear. sel may be nil.
func GroupRankings(rankings []models.Ranking, sel *Selection) []RankGroup {
	groups := make([]RankGroup, 0, len(rankings))
	index := make(map[string]int, len(rankings))

	for _, r := range rankings {
		tier := Tier(r.RankingName)
		i, ok := index[tier]
		if !ok {
			i = len(groups)
			index[tier] = i
			groups = append(groups, RankGroup{Tier: tier})
		}
		groups[i].Members = append(groups[i].Members, r)
		if sel.Has(r.ID) {
			groups[i].selected++
		}
	}
	return groups
}

// FindGroup looks a tier up by name, ignoring case.
func FindGroup(groups []RankGroup, tier string) (RankGroup, bool) {
	for _, g := range groups {
		if strings.EqualFold(g.Tier, strings.TrimSpace(tier)) {
			return g, true
		}
	}
	return RankGroup{}, false
}
