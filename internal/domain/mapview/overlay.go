package mapview

import (
	"pet-reports-map/internal/domain/reports"
)

// Overlay es el rastro del reporte de pérdida seleccionado.
// Los avistamientos se conservan aunque esté oculto, para que
// volver a prenderlo muestre exactamente lo mismo.
type Overlay struct {
	report    reports.MissingReport
	loaded    bool
	visible   bool
	sightings []reports.Sighting
}

type SightingMarker struct {
	Key          string  `json:"key"`
	SightingID   string  `json:"sighting_id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	LocationText string  `json:"location_text"`
	Index        int     `json:"index"`
}

// OverlayView es lo que se dibuja. Vacío si no hay selección o está oculto.
type OverlayView struct {
	ReportID string           `json:"report_id,omitempty"`
	Visible  bool             `json:"visible"`
	Markers  []SightingMarker `json:"markers"`
	Path     []reports.Coord  `json:"path"`
}

func (o *Overlay) Load(r reports.MissingReport, t reports.Track) {
	o.report = r
	o.loaded = true
	o.sightings = append(o.sightings[:0], t.Sightings...)
}

func (o *Overlay) ReportID() string {
	if !o.loaded {
		return ""
	}
	return o.report.ID
}

func (o *Overlay) SetVisible(v bool) { o.visible = v }

// Clear olvida la selección y todos sus avistamientos.
func (o *Overlay) Clear() {
	*o = Overlay{visible: o.visible}
}

// MergeSighting agrega por id. Devuelve true solo si era nuevo.
func (o *Overlay) MergeSighting(s reports.Sighting) bool {
	if !o.loaded || s.ReportID != o.report.ID {
		return false
	}
	for i := range o.sightings {
		if o.sightings[i].ID == s.ID {
			return false
		}
	}
	o.sightings = append(o.sightings, s)
	return true
}

func (o *Overlay) View() OverlayView {
	v := OverlayView{Markers: []SightingMarker{}, Path: []reports.Coord{}}
	if !o.loaded {
		return v
	}
	v.ReportID = o.report.ID
	v.Visible = o.visible
	if !o.visible {
		return v
	}

	t := reports.BuildTrack(o.report, o.sightings)
	for i, s := range t.Sightings {
		v.Markers = append(v.Markers, SightingMarker{
			Key:          "sighting:" + s.ID,
			SightingID:   s.ID,
			Lat:          s.Coord.Lat,
			Lon:          s.Coord.Lon,
			LocationText: s.LocationText,
			Index:        i + 1,
		})
	}
	v.Path = t.Path
	return v
}
