package mapview

import (
	"pet-reports-map/internal/domain/reports"
)

type Kind string

const (
	KindMissing Kind = "missing"
	KindStray   Kind = "stray"
)

// Marker es un pin del mapa. Key es estable entre renders: "<kind>:<id>".
type Marker struct {
	Key         string  `json:"key"`
	Kind        Kind    `json:"kind"`
	ReportID    string  `json:"report_id"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	DangerLevel string  `json:"danger_level,omitempty"`
}

func MarkerKey(k Kind, id string) string {
	return string(k) + ":" + id
}

func missingMarker(r reports.MissingReport) Marker {
	title := "missing"
	if r.Pet != nil && r.Pet.Name != "" {
		title = r.Pet.Name
	}
	return Marker{
		Key:      MarkerKey(KindMissing, r.ID),
		Kind:     KindMissing,
		ReportID: r.ID,
		Lat:      r.Coord.Lat,
		Lon:      r.Coord.Lon,
		Title:    title,
		Status:   string(r.Status),
	}
}

func strayMarker(r reports.StrayReport) Marker {
	return Marker{
		Key:         MarkerKey(KindStray, r.ID),
		Kind:        KindStray,
		ReportID:    r.ID,
		Lat:         r.Coord.Lat,
		Lon:         r.Coord.Lon,
		Title:       r.AnimalType,
		Status:      string(r.Status),
		DangerLevel: string(r.DangerLevel),
	}
}

// Diff es lo que hay que aplicar sobre el mapa para llegar al set nuevo.
type Diff struct {
	Added   []Marker `json:"added"`
	Removed []string `json:"removed"`
	Updated []Marker `json:"updated"`
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Updated) == 0
}

// MarkerSet es el estado de pines montados, indexado por Key.
type MarkerSet struct {
	byKey map[string]Marker
	order []string
}

func NewMarkerSet() *MarkerSet {
	return &MarkerSet{byKey: map[string]Marker{}}
}

// Reconcile deja el set igual a next y devuelve el diff. Keys repetidas en
// next se colapsan (gana la primera).
func (m *MarkerSet) Reconcile(next []Marker) Diff {
	var d Diff

	nextByKey := make(map[string]Marker, len(next))
	order := make([]string, 0, len(next))
	for _, mk := range next {
		if _, dup := nextByKey[mk.Key]; dup {
			continue
		}
		nextByKey[mk.Key] = mk
		order = append(order, mk.Key)

		prev, ok := m.byKey[mk.Key]
		switch {
		case !ok:
			d.Added = append(d.Added, mk)
		case prev != mk:
			d.Updated = append(d.Updated, mk)
		}
	}
	for _, k := range m.order {
		if _, keep := nextByKey[k]; !keep {
			d.Removed = append(d.Removed, k)
		}
	}

	m.byKey = nextByKey
	m.order = order
	return d
}

func (m *MarkerSet) Len() int { return len(m.order) }

func (m *MarkerSet) Has(key string) bool {
	_, ok := m.byKey[key]
	return ok
}

func (m *MarkerSet) Markers() []Marker {
	out := make([]Marker, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.byKey[k])
	}
	return out
}
