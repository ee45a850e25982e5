package reports

import "sort"

// Track es el rastro de una mascota perdida: punto original + avistamientos.
type Track struct {
	ReportID  string
	Origin    *Coord
	Sightings []Sighting
	Path      []Coord
}

// BuildTrack arma el polyline: coordenada original (si hay) y luego los
// avistamientos en orden de creación. Empates conservan el orden recibido.
func BuildTrack(r MissingReport, sightings []Sighting) Track {
	ordered := make([]Sighting, 0, len(sightings))
	for _, s := range sightings {
		if s.ReportID != "" && s.ReportID != r.ID {
			continue
		}
		ordered = append(ordered, s)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	path := make([]Coord, 0, len(ordered)+1)
	var origin *Coord
	if r.Coord != nil {
		c := *r.Coord
		origin = &c
		path = append(path, c)
	}
	for _, s := range ordered {
		path = append(path, s.Coord)
	}

	return Track{
		ReportID:  r.ID,
		Origin:    origin,
		Sightings: ordered,
		Path:      path,
	}
}
