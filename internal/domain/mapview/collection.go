package mapview

import (
	"pet-reports-map/internal/domain/reports"
)

// Collection es el set de reportes cargados en la sesión, más nuevos primero.
// Todo merge es por id: nunca hay dos entradas con el mismo id.
type Collection struct {
	missing []reports.MissingReport
	stray   []reports.StrayReport
}

func NewCollection(mc reports.MapCollection) *Collection {
	c := &Collection{}
	c.Replace(mc)
	return c
}

// Replace carga un snapshot completo, descartando duplicados.
func (c *Collection) Replace(mc reports.MapCollection) {
	c.missing = make([]reports.MissingReport, 0, len(mc.Missing))
	c.stray = make([]reports.StrayReport, 0, len(mc.Stray))

	seen := map[string]struct{}{}
	for _, r := range mc.Missing {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		c.missing = append(c.missing, r)
	}
	seen = map[string]struct{}{}
	for _, r := range mc.Stray {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		c.stray = append(c.stray, r)
	}
}

// MergeMissing antepone r o lo reemplaza en su lugar si ya estaba.
// Devuelve true si era nuevo.
func (c *Collection) MergeMissing(r reports.MissingReport) bool {
	for i := range c.missing {
		if c.missing[i].ID == r.ID {
			if r.Pet == nil {
				r.Pet = c.missing[i].Pet
			}
			c.missing[i] = r
			return false
		}
	}
	c.missing = append([]reports.MissingReport{r}, c.missing...)
	return true
}

func (c *Collection) MergeStray(r reports.StrayReport) bool {
	for i := range c.stray {
		if c.stray[i].ID == r.ID {
			c.stray[i] = r
			return false
		}
	}
	c.stray = append([]reports.StrayReport{r}, c.stray...)
	return true
}

func (c *Collection) FindMissing(id string) (reports.MissingReport, bool) {
	for _, r := range c.missing {
		if r.ID == id {
			return r, true
		}
	}
	return reports.MissingReport{}, false
}

func (c *Collection) FindStray(id string) (reports.StrayReport, bool) {
	for _, r := range c.stray {
		if r.ID == id {
			return r, true
		}
	}
	return reports.StrayReport{}, false
}

func (c *Collection) Missing() []reports.MissingReport { return c.missing }
func (c *Collection) Stray() []reports.StrayReport     { return c.stray }

// Markers devuelve un pin por reporte que pasa el filtro y tiene coordenadas.
func (c *Collection) Markers(f Filter) []Marker {
	out := make([]Marker, 0, len(c.missing)+len(c.stray))
	for _, r := range c.missing {
		if r.Coord != nil && f.MatchMissing(r) {
			out = append(out, missingMarker(r))
		}
	}
	for _, r := range c.stray {
		if r.Coord != nil && f.MatchStray(r) {
			out = append(out, strayMarker(r))
		}
	}
	return out
}
