package mapview

import (
	"strings"

	"pet-reports-map/internal/domain/reports"
)

type Category string

const (
	CategoryAll     Category = "all"
	CategoryMissing Category = "missing"
	CategoryStray   Category = "stray"
)

func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryAll:
		return CategoryAll, true
	case CategoryMissing:
		return CategoryMissing, true
	case CategoryStray:
		return CategoryStray, true
	}
	return CategoryAll, false
}

// RegionAll desactiva el filtro por región (igual que vacío).
const RegionAll = "all"

type Filter struct {
	Category Category `json:"category"`
	Region   string   `json:"region"`
}

func DefaultFilter() Filter {
	return Filter{Category: CategoryAll, Region: RegionAll}
}

// regionSeparators: coma latina y árabe, guion y sus variantes tipográficas.
const regionSeparators = ",،-–—"

// RegionKey es el texto antes del primer separador, sin espacios.
// "حي الخالدية، الدمام" => "حي الخالدية".
func RegionKey(location string) string {
	if i := strings.IndexAny(location, regionSeparators); i >= 0 {
		location = location[:i]
	}
	return strings.TrimSpace(location)
}

func (f Filter) regionActive() bool {
	r := strings.TrimSpace(f.Region)
	return r != "" && !strings.EqualFold(r, RegionAll)
}

func (f Filter) matchRegion(location string) bool {
	if !f.regionActive() {
		return true
	}
	key := strings.ToLower(RegionKey(location))
	return strings.HasPrefix(key, strings.ToLower(strings.TrimSpace(f.Region)))
}

func (f Filter) wants(c Category) bool {
	return f.Category == "" || f.Category == CategoryAll || f.Category == c
}

func (f Filter) MatchMissing(r reports.MissingReport) bool {
	return f.wants(CategoryMissing) && f.matchRegion(r.LastSeenLocation)
}

func (f Filter) MatchStray(r reports.StrayReport) bool {
	return f.wants(CategoryStray) && f.matchRegion(r.Location)
}
