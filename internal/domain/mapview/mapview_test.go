package mapview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-reports-map/internal/domain/realtime"
	"pet-reports-map/internal/domain/reports"
	"pet-reports-map/internal/domain/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	col      reports.MapCollection
	tracks   map[string]reports.Track
	listErr  error
	trackErr error
	lastQ    reports.MapQuery
}

func (f *fakeLoader) ListForMap(_ context.Context, _ visibility.Viewer, q reports.MapQuery) (reports.MapCollection, error) {
	f.lastQ = q
	if f.listErr != nil {
		return reports.MapCollection{}, f.listErr
	}
	return f.col, nil
}

func (f *fakeLoader) TrackingPath(_ context.Context, _ visibility.Viewer, id string) (reports.Track, error) {
	if f.trackErr != nil {
		return reports.Track{}, f.trackErr
	}
	return f.tracks[id], nil
}

type fixedAddr string

func (a fixedAddr) Address(context.Context, float64, float64) string { return string(a) }

func coord(lat, lon float64) *reports.Coord { return &reports.Coord{Lat: lat, Lon: lon} }

func fixture() *fakeLoader {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	r1 := reports.MissingReport{
		ID: "r1", LastSeenLocation: "حي الخالدية، الدمام", Coord: coord(26.42, 50.08),
		Status: reports.MissingActive, Pet: &reports.PetRef{Name: "Luna"},
	}
	return &fakeLoader{
		col: reports.MapCollection{
			Missing: []reports.MissingReport{
				r1,
				{ID: "r2", LastSeenLocation: "Khobar - Corniche", Coord: coord(26.28, 50.21), Status: reports.MissingActive},
				{ID: "r3", LastSeenLocation: "Dammam", Status: reports.MissingActive}, // sin coordenadas
			},
			Stray: []reports.StrayReport{
				{ID: "s1", AnimalType: "dog", Location: "Dammam, 1st St", Coord: coord(26.43, 50.1), Status: reports.StrayNew, DangerLevel: reports.DangerHigh},
				{ID: "s2", AnimalType: "cat", Location: "khobar — north", Coord: coord(26.3, 50.2), Status: reports.StrayInProgress, DangerLevel: reports.DangerLow},
			},
		},
		tracks: map[string]reports.Track{
			"r1": reports.BuildTrack(r1, []reports.Sighting{
				{ID: "g1", ReportID: "r1", Coord: reports.Coord{Lat: 26.43, Lon: 50.09}, CreatedAt: t0},
				{ID: "g2", ReportID: "r1", Coord: reports.Coord{Lat: 26.44, Lon: 50.10}, CreatedAt: t0.Add(time.Minute)},
			}),
		},
	}
}

func loaded(t *testing.T, l *fakeLoader) *Session {
	t.Helper()
	s := NewSession(visibility.Guest(), l, fixedAddr("Dammam"), true, nil)
	msgs := s.Load(context.Background())
	require.Len(t, msgs, 1)
	require.Equal(t, MsgSnapshot, msgs[0].Type)
	return s
}

func keys(ms []Marker) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Key)
	}
	return out
}

func msgTypes(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestRegionKey(t *testing.T) {
	cases := map[string]string{
		"حي الخالدية، الدمام": "حي الخالدية",
		"Khobar - Corniche":   "Khobar",
		"Dammam, 1st St":      "Dammam",
		"khobar — north":      "khobar",
		"Riyadh–Olaya":        "Riyadh",
		"  Jeddah  ":          "Jeddah",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, RegionKey(in), "RegionKey(%q)", in)
	}
}

func TestMarkers_CountMatchesFilter(t *testing.T) {
	s := loaded(t, fixture())

	cases := []struct {
		f    Filter
		want []string
	}{
		{DefaultFilter(), []string{"missing:r1", "missing:r2", "stray:s1", "stray:s2"}},
		{Filter{Category: CategoryMissing, Region: "all"}, []string{"missing:r1", "missing:r2"}},
		{Filter{Category: CategoryStray}, []string{"stray:s1", "stray:s2"}},
		{Filter{Category: CategoryAll, Region: "KHOBAR"}, []string{"missing:r2", "stray:s2"}},
		{Filter{Category: CategoryAll, Region: "حي"}, []string{"missing:r1"}},
		{Filter{Category: CategoryStray, Region: "dam"}, []string{"stray:s1"}},
		{Filter{Category: CategoryMissing, Region: "Dammam"}, []string{}},
	}
	for _, c := range cases {
		s.SetFilter(c.f)
		assert.ElementsMatch(t, c.want, keys(s.Markers()), "filter %+v", c.f)
	}
}

func TestRegionAll_RestoresUnfilteredSet(t *testing.T) {
	s := loaded(t, fixture())
	full := keys(s.Markers())

	for _, region := range []string{"Khobar", "حي", "nowhere", "dammam"} {
		s.SetFilter(Filter{Category: CategoryAll, Region: region})
		msgs := s.SetFilter(Filter{Category: CategoryAll, Region: "all"})
		assert.ElementsMatch(t, full, keys(s.Markers()))
		for _, m := range msgs {
			assert.NotEqual(t, MsgMarkersRemoved, m.Type)
		}
		s.SetFilter(Filter{Category: CategoryAll, Region: "Khobar"})
		s.SetFilter(Filter{Category: CategoryAll, Region: ""})
		assert.ElementsMatch(t, full, keys(s.Markers()))
	}
}

func TestMarkerSet_ReconcileNoStaleDuplicates(t *testing.T) {
	m := NewMarkerSet()
	a := Marker{Key: "missing:a", Lat: 1}
	b := Marker{Key: "stray:b", Lat: 2}
	c := Marker{Key: "stray:c", Lat: 3}

	d := m.Reconcile([]Marker{a, b, a})
	assert.Len(t, d.Added, 2)
	assert.Equal(t, 2, m.Len())

	b2 := b
	b2.Lat = 2.5
	d = m.Reconcile([]Marker{b2, c})
	assert.Equal(t, []string{"missing:a"}, d.Removed)
	assert.Equal(t, []Marker{c}, d.Added)
	assert.Equal(t, []Marker{b2}, d.Updated)
	assert.Equal(t, []Marker{b2, c}, m.Markers())

	d = m.Reconcile([]Marker{b2, c})
	assert.True(t, d.Empty())
}

func TestTrackingOverlay_ToggleRestoresSameSet(t *testing.T) {
	s := loaded(t, fixture())

	msgs := s.Select(context.Background(), KindMissing, "r1")
	assert.Equal(t, []string{MsgSelection, MsgOverlay}, msgTypes(msgs))

	on := s.Overlay()
	require.True(t, on.Visible)
	require.Len(t, on.Markers, 2)
	assert.Equal(t, []reports.Coord{{Lat: 26.42, Lon: 50.08}, {Lat: 26.43, Lon: 50.09}, {Lat: 26.44, Lon: 50.10}}, on.Path)

	s.SetTracking(false)
	off := s.Overlay()
	assert.Empty(t, off.Markers)
	assert.Empty(t, off.Path)

	s.SetTracking(true)
	assert.Equal(t, on, s.Overlay())
}

func TestTrackingOverlay_ClearsOnSelectionChange(t *testing.T) {
	s := loaded(t, fixture())
	ctx := context.Background()

	s.Select(ctx, KindMissing, "r1")
	require.NotEmpty(t, s.Overlay().Markers)

	s.Select(ctx, KindStray, "s1")
	assert.Empty(t, s.Overlay().Markers)
	assert.Empty(t, s.Overlay().Path)
	assert.Equal(t, &Selection{Kind: KindStray, ReportID: "s1"}, s.Selected())

	s.Select(ctx, KindMissing, "r1")
	require.NotEmpty(t, s.Overlay().Markers)
	s.ClearSelection()
	assert.Nil(t, s.Selected())
	assert.Empty(t, s.Overlay().Markers)
	assert.Empty(t, s.Overlay().ReportID)

	// Sighting de un reporte no seleccionado: se ignora
	assert.Nil(t, s.Ingest(realtime.SightingEvent(reports.Sighting{ID: "gx", ReportID: "r1"})))
}

func TestSelect_UnknownReportKeepsState(t *testing.T) {
	s := loaded(t, fixture())
	ctx := context.Background()
	s.Select(ctx, KindMissing, "r1")

	msgs := s.Select(ctx, KindMissing, "nope")
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgError, msgs[0].Type)
	assert.Equal(t, "r1", s.Selected().ReportID)
	assert.Len(t, s.Overlay().Markers, 2)
}

func TestSelect_TrackFailureNotifies(t *testing.T) {
	l := fixture()
	l.trackErr = errors.New("timeout")
	s := loaded(t, l)

	msgs := s.Select(context.Background(), KindMissing, "r1")
	assert.Equal(t, []string{MsgSelection, MsgNotification, MsgOverlay}, msgTypes(msgs))
	assert.Empty(t, s.Overlay().Markers)
}

func TestSelect_SameReportRetriesFailedTrack(t *testing.T) {
	l := fixture()
	l.trackErr = errors.New("timeout")
	s := loaded(t, l)
	ctx := context.Background()

	s.Select(ctx, KindMissing, "r1")
	require.Empty(t, s.Overlay().Markers)

	l.trackErr = nil
	msgs := s.Select(ctx, KindMissing, "r1")
	assert.Equal(t, []string{MsgSelection, MsgOverlay}, msgTypes(msgs))
	assert.Len(t, s.Overlay().Markers, 2)
	assert.Equal(t, "r1", s.Overlay().ReportID)

	// Ya cargado: no vuelve a pedir el rastro
	l.trackErr = errors.New("should not be called")
	msgs = s.Select(ctx, KindMissing, "r1")
	assert.Equal(t, []string{MsgSelection, MsgOverlay}, msgTypes(msgs))
	assert.Len(t, s.Overlay().Markers, 2)
}

func TestIngest_SightingMergedByID(t *testing.T) {
	s := loaded(t, fixture())
	s.Select(context.Background(), KindMissing, "r1")

	g3 := reports.Sighting{ID: "g3", ReportID: "r1", Coord: reports.Coord{Lat: 26.45, Lon: 50.11}, CreatedAt: time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)}
	msgs := s.Ingest(realtime.SightingEvent(g3))
	assert.Equal(t, []string{MsgOverlay, MsgNotification}, msgTypes(msgs))
	s.Ingest(realtime.SightingEvent(g3))

	ov := s.Overlay()
	assert.Len(t, ov.Markers, 3)
	assert.Len(t, ov.Path, 4)
	assert.Equal(t, reports.Coord{Lat: 26.45, Lon: 50.11}, ov.Path[3])
}

func TestIngest_IdempotentByID(t *testing.T) {
	s := loaded(t, fixture())
	r := reports.MissingReport{ID: "r9", LastSeenLocation: "Dammam", Coord: coord(26.4, 50.0), Status: reports.MissingActive}

	msgs := s.Ingest(realtime.MissingEvent(r))
	assert.Equal(t, []string{MsgMarkersAdded, MsgNotification}, msgTypes(msgs))
	note := msgs[1].Payload.(Notification)
	assert.Equal(t, NoteNewMissing, note.Key)
	assert.True(t, note.Sound)

	msgs = s.Ingest(realtime.MissingEvent(r))
	assert.Empty(t, msgs)

	assert.Equal(t, "r9", s.Collection().Missing()[0].ID)
	count := 0
	for _, m := range s.Collection().Missing() {
		if m.ID == "r9" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, s.Markers(), 5)
}

func TestIngest_RespectsFilterAndSound(t *testing.T) {
	s := loaded(t, fixture())
	s.SetSound(false)
	s.SetFilter(Filter{Category: CategoryMissing})

	msgs := s.Ingest(realtime.StrayEvent(reports.StrayReport{ID: "s9", Location: "x", Coord: coord(1, 1), Status: reports.StrayNew}))
	require.Equal(t, []string{MsgNotification}, msgTypes(msgs))
	assert.False(t, msgs[0].Payload.(Notification).Sound)
	for _, m := range s.Markers() {
		assert.Equal(t, KindMissing, m.Kind)
	}

	// Insert ya resuelto: no entra si no se pidieron resueltos
	assert.Nil(t, s.Ingest(realtime.StrayEvent(reports.StrayReport{ID: "s10", Status: reports.StrayClosed})))
}

func TestLocate_SingleMarkerAndFailures(t *testing.T) {
	s := loaded(t, fixture())
	ctx := context.Background()

	msgs := s.Locate(ctx, LocateResult{Coord: coord(26.4, 50.1)})
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgUserLocation, msgs[0].Type)
	s.Locate(ctx, LocateResult{Coord: coord(26.5, 50.2)})
	require.NotNil(t, s.UserLocation())
	assert.Equal(t, 26.5, s.UserLocation().Lat)
	assert.Equal(t, "Dammam", s.UserLocation().Address)

	before := keys(s.Markers())
	seen := map[string]bool{}
	for _, f := range []GeoFailure{GeoPermissionDenied, GeoPositionUnavailable, GeoTimeout} {
		msgs := s.Locate(ctx, LocateResult{Failure: f})
		require.Len(t, msgs, 1)
		n := msgs[0].Payload.(Notification)
		assert.Equal(t, LevelWarning, n.Level)
		seen[n.Key] = true
	}
	assert.Len(t, seen, 3, "each failure kind has its own advisory")
	assert.Equal(t, 26.5, s.UserLocation().Lat)
	assert.Equal(t, before, keys(s.Markers()))
}

func TestLoad_FailureKeepsPriorState(t *testing.T) {
	l := fixture()
	s := loaded(t, l)
	before := keys(s.Markers())

	l.listErr = errors.New("down")
	msgs := s.Apply(context.Background(), Command{Type: CmdRefresh})
	require.Len(t, msgs, 1)
	assert.Equal(t, NoteLoadFailed, msgs[0].Payload.(Notification).Key)
	assert.Equal(t, before, keys(s.Markers()))

	yes := true
	s.Apply(context.Background(), Command{Type: CmdRefresh, IncludeResolved: &yes})
	assert.True(t, l.lastQ.IncludeResolved)
	assert.False(t, s.includeResolved, "flag rolls back when load fails")
}

func TestApply_Commands(t *testing.T) {
	s := loaded(t, fixture())
	ctx := context.Background()
	off := false

	assert.Equal(t, MsgError, s.Apply(ctx, Command{Type: CmdFilter, Category: "birds"})[0].Type)
	assert.Equal(t, MsgError, s.Apply(ctx, Command{Type: "dance"})[0].Type)
	assert.Equal(t, MsgError, s.Apply(ctx, Command{Type: CmdSelect, Kind: "cat", ID: "x"})[0].Type)
	assert.Equal(t, MsgError, s.Apply(ctx, Command{Type: CmdTracking})[0].Type)

	s.Apply(ctx, Command{Type: CmdFilter, Category: "stray", Region: "khobar"})
	assert.Equal(t, []string{"stray:s2"}, keys(s.Markers()))

	s.Apply(ctx, Command{Type: CmdSelect, Kind: KindMissing, ID: "r1"})
	s.Apply(ctx, Command{Type: CmdTracking, On: &off})
	assert.False(t, s.Overlay().Visible)

	msgs := s.Apply(ctx, Command{Type: CmdLocate, Error: "timeout"})
	assert.Equal(t, GeoTimeout.NoteKey(), msgs[0].Payload.(Notification).Key)
	msgs = s.Apply(ctx, Command{Type: CmdLocate})
	assert.Equal(t, GeoPositionUnavailable.NoteKey(), msgs[0].Payload.(Notification).Key)

	assert.Nil(t, s.Apply(ctx, Command{Type: CmdSound, On: &off}))
	assert.False(t, s.sound)
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand([]byte(`{"type":"select","kind":"missing","id":"r1"}`))
	require.NoError(t, err)
	assert.Equal(t, Command{Type: CmdSelect, Kind: KindMissing, ID: "r1"}, c)

	for _, raw := range []string{`{`, `{}`, `{"type":""}`} {
		_, err := ParseCommand([]byte(raw))
		assert.ErrorIs(t, err, ErrBadCommand, fmt.Sprintf("raw=%s", raw))
	}
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://api.example.org/map/live", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.Nil(t, originChecker(nil), "empty list falls back to gorilla's same-host check")
	assert.Nil(t, originChecker([]string{" ", ""}))

	anyOrigin := originChecker([]string{"*"})
	require.NotNil(t, anyOrigin)
	assert.True(t, anyOrigin(req("https://evil.example.com")))

	check := originChecker([]string{"https://Mapa.Example.org/", "http://localhost:5173"})
	require.NotNil(t, check)
	tests := []struct {
		origin string
		want   bool
	}{
		{"https://mapa.example.org", true},
		{"http://localhost:5173", true},
		{"http://mapa.example.org", false},
		{"https://evil.example.com", false},
		{"null", false},
		{"", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, check(req(tt.origin)), tt.origin)
	}
}
