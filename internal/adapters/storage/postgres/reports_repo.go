package postgres

import (
	"context"
	"fmt"
	"time"

	"pet-reports-map/internal/domain/reports"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const (
	tableMissing     = "missing_reports"
	tableMissingMap  = "missing_reports_map"
	tableStray       = "stray_reports"
	tableStrayMap    = "stray_reports_map"
	tableSightings   = "missing_report_sightings"
	defaultListLimit = 500
)

var (
	missingColumns = []string{
		"id", "owner_user_id", "pet_id", "last_seen_location", "lat", "lon", "last_seen_at",
		"description", "status", "contact_phone", "resolution_type", "resolution_notes",
		"resolved_at", "resolved_by", "created_at", "updated_at",
	}
	// Las vistas *_map no tienen owner_user_id, contact_phone ni resolved_by.
	missingPublicColumns = []string{
		"id", "pet_id", "last_seen_location", "lat", "lon", "last_seen_at",
		"description", "status", "resolution_type", "resolution_notes",
		"resolved_at", "created_at", "updated_at",
	}
	strayColumns = []string{
		"id", "reporter_user_id", "animal_type", "danger_level", "location", "lat", "lon",
		"description", "photo_url", "status", "taken_to_clinic", "clinic_name", "rescue_notes",
		"rescue_date", "contact_phone", "created_at", "updated_at",
	}
	strayPublicColumns = []string{
		"id", "animal_type", "danger_level", "location", "lat", "lon",
		"description", "photo_url", "status", "taken_to_clinic", "clinic_name", "rescue_notes",
		"rescue_date", "created_at", "updated_at",
	}
	sightingColumns = []string{
		"id", "report_id", "lat", "lon", "location_text", "description", "photo_url",
		"reporter_id", "created_at",
	}
)

type missingRow struct {
	ID               string     `db:"id"`
	OwnerUserID      string     `db:"owner_user_id"`
	PetID            string     `db:"pet_id"`
	LastSeenLocation string     `db:"last_seen_location"`
	Lat              *float64   `db:"lat"`
	Lon              *float64   `db:"lon"`
	LastSeenAt       *time.Time `db:"last_seen_at"`
	Description      string     `db:"description"`
	Status           string     `db:"status"`
	ContactPhone     string     `db:"contact_phone"`
	ResolutionType   *string    `db:"resolution_type"`
	ResolutionNotes  *string    `db:"resolution_notes"`
	ResolvedAt       *time.Time `db:"resolved_at"`
	ResolvedBy       *string    `db:"resolved_by"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

type strayRow struct {
	ID             string     `db:"id"`
	ReporterUserID string     `db:"reporter_user_id"`
	AnimalType     string     `db:"animal_type"`
	DangerLevel    string     `db:"danger_level"`
	Location       string     `db:"location"`
	Lat            *float64   `db:"lat"`
	Lon            *float64   `db:"lon"`
	Description    string     `db:"description"`
	PhotoURL       string     `db:"photo_url"`
	Status         string     `db:"status"`
	TakenToClinic  bool       `db:"taken_to_clinic"`
	ClinicName     string     `db:"clinic_name"`
	RescueNotes    string     `db:"rescue_notes"`
	RescueDate     *time.Time `db:"rescue_date"`
	ContactPhone   string     `db:"contact_phone"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type sightingRow struct {
	ID           string    `db:"id"`
	ReportID     string    `db:"report_id"`
	Lat          float64   `db:"lat"`
	Lon          float64   `db:"lon"`
	LocationText string    `db:"location_text"`
	Description  string    `db:"description"`
	PhotoURL     string    `db:"photo_url"`
	ReporterID   *string   `db:"reporter_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type ReportsRepo struct {
	db Querier
}

func NewReportsRepo(db Querier) *ReportsRepo {
	return &ReportsRepo{db: db}
}

// -------------------------
// Missing
// -------------------------

func (r *ReportsRepo) CreateMissing(ctx context.Context, m reports.MissingReport) error {
	lat, lon := coordArgs(m.Coord)
	resType, resNotes, resAt, resBy := resolutionArgs(m.Resolution)

	q, args, err := psql.Insert(tableMissing).
		Columns(missingColumns...).
		Values(
			m.ID, m.OwnerUserID, m.PetID, m.LastSeenLocation, lat, lon, m.LastSeenAt,
			m.Description, string(m.Status), m.ContactPhone, resType, resNotes,
			resAt, resBy, m.CreatedAt, m.UpdatedAt,
		).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, q, args...)
	return mapError(err, "missing report", m.ID, reports.ErrRepoNotFound)
}

func (r *ReportsRepo) UpdateMissing(ctx context.Context, m reports.MissingReport, expect reports.MissingStatus) error {
	lat, lon := coordArgs(m.Coord)
	resType, resNotes, resAt, resBy := resolutionArgs(m.Resolution)

	q, args, err := psql.Update(tableMissing).
		SetMap(map[string]any{
			"last_seen_location": m.LastSeenLocation,
			"lat":                lat,
			"lon":                lon,
			"last_seen_at":       m.LastSeenAt,
			"description":        m.Description,
			"status":             string(m.Status),
			"contact_phone":      m.ContactPhone,
			"resolution_type":    resType,
			"resolution_notes":   resNotes,
			"resolved_at":        resAt,
			"resolved_by":        resBy,
			"updated_at":         m.UpdatedAt,
		}).
		Where(sq.Eq{"id": m.ID, "status": string(expect)}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return mapError(err, "missing report", m.ID, reports.ErrRepoNotFound)
	}
	if tag.RowsAffected() == 0 {
		return r.missedUpdate(ctx, tableMissing, "missing report", m.ID)
	}
	return nil
}

func (r *ReportsRepo) GetMissing(ctx context.Context, id string) (reports.MissingReport, error) {
	return r.getMissing(ctx, tableMissing, missingColumns, id)
}

func (r *ReportsRepo) GetMissingPublic(ctx context.Context, id string) (reports.MissingReport, error) {
	return r.getMissing(ctx, tableMissingMap, missingPublicColumns, id)
}

func (r *ReportsRepo) ListMissing(ctx context.Context, f reports.ListFilter) ([]reports.MissingReport, error) {
	return r.listMissing(ctx, tableMissing, missingColumns, f)
}

func (r *ReportsRepo) ListMissingPublic(ctx context.Context, f reports.ListFilter) ([]reports.MissingReport, error) {
	return r.listMissing(ctx, tableMissingMap, missingPublicColumns, f)
}

func (r *ReportsRepo) getMissing(ctx context.Context, from string, cols []string, id string) (reports.MissingReport, error) {
	q, args, err := psql.Select(cols...).From(from).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return reports.MissingReport{}, err
	}
	var row missingRow
	if err := pgxscan.Get(ctx, r.db, &row, q, args...); err != nil {
		return reports.MissingReport{}, mapError(err, "missing report", id, reports.ErrRepoNotFound)
	}
	return row.toDomain(), nil
}

func (r *ReportsRepo) listMissing(ctx context.Context, from string, cols []string, f reports.ListFilter) ([]reports.MissingReport, error) {
	b := psql.Select(cols...).From(from).OrderBy("created_at DESC", "id")
	if len(f.MissingStatuses) > 0 {
		b = b.Where(sq.Eq{"status": toStrings(f.MissingStatuses)})
	}
	b = b.Limit(listLimit(f.Limit))

	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []missingRow
	if err := pgxscan.Select(ctx, r.db, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", from, err)
	}
	out := make([]reports.MissingReport, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// -------------------------
// Stray
// -------------------------

func (r *ReportsRepo) CreateStray(ctx context.Context, s reports.StrayReport) error {
	lat, lon := coordArgs(s.Coord)

	q, args, err := psql.Insert(tableStray).
		Columns(strayColumns...).
		Values(
			s.ID, s.ReporterUserID, s.AnimalType, string(s.DangerLevel), s.Location, lat, lon,
			s.Description, s.PhotoURL, string(s.Status), s.Rescue.TakenToClinic, s.Rescue.ClinicName,
			s.Rescue.Notes, s.Rescue.RescueDate, s.ContactPhone, s.CreatedAt, s.UpdatedAt,
		).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, q, args...)
	return mapError(err, "stray report", s.ID, reports.ErrRepoNotFound)
}

func (r *ReportsRepo) UpdateStray(ctx context.Context, s reports.StrayReport, expect reports.StrayStatus) error {
	lat, lon := coordArgs(s.Coord)

	q, args, err := psql.Update(tableStray).
		SetMap(map[string]any{
			"animal_type":     s.AnimalType,
			"danger_level":    string(s.DangerLevel),
			"location":        s.Location,
			"lat":             lat,
			"lon":             lon,
			"description":     s.Description,
			"photo_url":       s.PhotoURL,
			"status":          string(s.Status),
			"taken_to_clinic": s.Rescue.TakenToClinic,
			"clinic_name":     s.Rescue.ClinicName,
			"rescue_notes":    s.Rescue.Notes,
			"rescue_date":     s.Rescue.RescueDate,
			"contact_phone":   s.ContactPhone,
			"updated_at":      s.UpdatedAt,
		}).
		Where(sq.Eq{"id": s.ID, "status": string(expect)}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return mapError(err, "stray report", s.ID, reports.ErrRepoNotFound)
	}
	if tag.RowsAffected() == 0 {
		return r.missedUpdate(ctx, tableStray, "stray report", s.ID)
	}
	return nil
}

// missedUpdate distingue fila inexistente de status cambiado por otra escritura.
func (r *ReportsRepo) missedUpdate(ctx context.Context, table, entity, id string) error {
	q, args, err := psql.Select("1").From(table).Where(sq.Eq{"id": id}).Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, q, args...).Scan(&exists); err != nil {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
	if exists {
		return fmt.Errorf("%s %s: %w", entity, id, reports.ErrRepoStale)
	}
	return fmt.Errorf("%s %s: %w", entity, id, reports.ErrRepoNotFound)
}

func (r *ReportsRepo) GetStray(ctx context.Context, id string) (reports.StrayReport, error) {
	return r.getStray(ctx, tableStray, strayColumns, id)
}

func (r *ReportsRepo) GetStrayPublic(ctx context.Context, id string) (reports.StrayReport, error) {
	return r.getStray(ctx, tableStrayMap, strayPublicColumns, id)
}

func (r *ReportsRepo) ListStray(ctx context.Context, f reports.ListFilter) ([]reports.StrayReport, error) {
	return r.listStray(ctx, tableStray, strayColumns, f)
}

func (r *ReportsRepo) ListStrayPublic(ctx context.Context, f reports.ListFilter) ([]reports.StrayReport, error) {
	return r.listStray(ctx, tableStrayMap, strayPublicColumns, f)
}

func (r *ReportsRepo) getStray(ctx context.Context, from string, cols []string, id string) (reports.StrayReport, error) {
	q, args, err := psql.Select(cols...).From(from).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return reports.StrayReport{}, err
	}
	var row strayRow
	if err := pgxscan.Get(ctx, r.db, &row, q, args...); err != nil {
		return reports.StrayReport{}, mapError(err, "stray report", id, reports.ErrRepoNotFound)
	}
	return row.toDomain(), nil
}

func (r *ReportsRepo) listStray(ctx context.Context, from string, cols []string, f reports.ListFilter) ([]reports.StrayReport, error) {
	b := psql.Select(cols...).From(from).OrderBy("created_at DESC", "id")
	if len(f.StrayStatuses) > 0 {
		b = b.Where(sq.Eq{"status": toStrings(f.StrayStatuses)})
	}
	b = b.Limit(listLimit(f.Limit))

	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []strayRow
	if err := pgxscan.Select(ctx, r.db, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", from, err)
	}
	out := make([]reports.StrayReport, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// -------------------------
// Sightings
// -------------------------

// AddSighting: si el reporte no existe la FK devuelve 23503 => ErrRepoNotFound.
func (r *ReportsRepo) AddSighting(ctx context.Context, s reports.Sighting) error {
	var reporter *string
	if s.ReporterID != "" {
		reporter = &s.ReporterID
	}

	q, args, err := psql.Insert(tableSightings).
		Columns(sightingColumns...).
		Values(
			s.ID, s.ReportID, s.Coord.Lat, s.Coord.Lon, s.LocationText, s.Description, s.PhotoURL,
			reporter, s.CreatedAt,
		).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, q, args...)
	return mapError(err, "sighting", s.ID, reports.ErrRepoNotFound)
}

func (r *ReportsRepo) ListSightings(ctx context.Context, reportID string) ([]reports.Sighting, error) {
	q, args, err := psql.Select(sightingColumns...).
		From(tableSightings).
		Where(sq.Eq{"report_id": reportID}).
		OrderBy("created_at ASC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []sightingRow
	if err := pgxscan.Select(ctx, r.db, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list sightings: %w", err)
	}
	out := make([]reports.Sighting, 0, len(rows))
	for _, row := range rows {
		s := reports.Sighting{
			ID:           row.ID,
			ReportID:     row.ReportID,
			Coord:        reports.Coord{Lat: row.Lat, Lon: row.Lon},
			LocationText: row.LocationText,
			Description:  row.Description,
			PhotoURL:     row.PhotoURL,
			CreatedAt:    row.CreatedAt,
		}
		if row.ReporterID != nil {
			s.ReporterID = *row.ReporterID
		}
		out = append(out, s)
	}
	return out, nil
}

// -------------------------
// Mapping
// -------------------------

func (row missingRow) toDomain() reports.MissingReport {
	m := reports.MissingReport{
		ID:               row.ID,
		OwnerUserID:      row.OwnerUserID,
		PetID:            row.PetID,
		LastSeenLocation: row.LastSeenLocation,
		Coord:            toCoord(row.Lat, row.Lon),
		LastSeenAt:       row.LastSeenAt,
		Description:      row.Description,
		Status:           reports.MissingStatus(row.Status),
		ContactPhone:     row.ContactPhone,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.ResolutionType != nil {
		res := &reports.Resolution{Type: reports.ResolutionType(*row.ResolutionType)}
		if row.ResolutionNotes != nil {
			res.Notes = *row.ResolutionNotes
		}
		if row.ResolvedAt != nil {
			res.ResolvedAt = *row.ResolvedAt
		}
		if row.ResolvedBy != nil {
			res.ResolvedBy = *row.ResolvedBy
		}
		m.Resolution = res
	}
	return m
}

func (row strayRow) toDomain() reports.StrayReport {
	return reports.StrayReport{
		ID:             row.ID,
		ReporterUserID: row.ReporterUserID,
		AnimalType:     row.AnimalType,
		DangerLevel:    reports.DangerLevel(row.DangerLevel),
		Location:       row.Location,
		Coord:          toCoord(row.Lat, row.Lon),
		Description:    row.Description,
		PhotoURL:       row.PhotoURL,
		Status:         reports.StrayStatus(row.Status),
		Rescue: reports.Rescue{
			TakenToClinic: row.TakenToClinic,
			ClinicName:    row.ClinicName,
			Notes:         row.RescueNotes,
			RescueDate:    row.RescueDate,
		},
		ContactPhone: row.ContactPhone,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toCoord(lat, lon *float64) *reports.Coord {
	if lat == nil || lon == nil {
		return nil
	}
	return &reports.Coord{Lat: *lat, Lon: *lon}
}

func coordArgs(c *reports.Coord) (lat, lon *float64) {
	if c == nil {
		return nil, nil
	}
	la, lo := c.Lat, c.Lon
	return &la, &lo
}

func resolutionArgs(res *reports.Resolution) (typ, notes *string, at *time.Time, by *string) {
	if res == nil {
		return nil, nil, nil, nil
	}
	t := string(res.Type)
	n := res.Notes
	a := res.ResolvedAt
	typ, notes, at = &t, &n, &a
	if res.ResolvedBy != "" {
		b := res.ResolvedBy
		by = &b
	}
	return typ, notes, at, by
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func listLimit(n int) uint64 {
	if n <= 0 {
		return defaultListLimit
	}
	return uint64(n)
}
