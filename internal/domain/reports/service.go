package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pet-reports-map/internal/domain/visibility"
	"pet-reports-map/internal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PetLookup resuelve la mascota referenciada por un reporte de pérdida.
// Se usa para no importar el paquete pets.
type PetLookup interface {
	PetRef(ctx context.Context, petID string) (PetRef, string, error) // ref, ownerUserID, err
}

// Preferences expone la preferencia de sonido del perfil.
type Preferences interface {
	SoundEnabled(ctx context.Context, userID string) (bool, error)
}

// Publisher recibe los INSERT para el canal realtime.
type Publisher interface {
	MissingInserted(ctx context.Context, r MissingReport)
	StrayInserted(ctx context.Context, r StrayReport)
	SightingInserted(ctx context.Context, s Sighting)
}

type ResolvePolicy string

const (
	ResolveOwnerOrPrivileged ResolvePolicy = "owner_or_privileged"
	ResolveAnyAuthenticated  ResolvePolicy = "any_authenticated"
)

type Options struct {
	ResolvePolicy            ResolvePolicy
	AllowSightingsOnResolved bool
	// Roles declarados (perfil) que cuentan como privilegiados para gestionar reportes.
	PrivilegedDeclaredRoles []string
	// Roles de plataforma (has_role) privilegiados.
	PrivilegedPlatformRoles []string
}

func DefaultOptions() Options {
	return Options{
		ResolvePolicy:            ResolveOwnerOrPrivileged,
		AllowSightingsOnResolved: true,
		PrivilegedDeclaredRoles:  []string{"shelter", "vet"},
		PrivilegedPlatformRoles:  []string{visibility.RoleAdmin, "moderator"},
	}
}

type Service struct {
	repo   Repository
	policy *visibility.Policy
	pets   PetLookup
	pub    Publisher
	prefs  Preferences
	log    logger.Logger
	opts   Options
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewService(repo Repository, policy *visibility.Policy, opts Options) *Service {
	if opts.ResolvePolicy == "" {
		opts.ResolvePolicy = ResolveOwnerOrPrivileged
	}
	if policy == nil {
		policy = visibility.NewPolicy(nil, nil)
	}
	return &Service{
		repo:     repo,
		policy:   policy,
		log:      logger.Nop(),
		opts:     opts,
		now:      time.Now,
		inflight: map[string]struct{}{},
	}
}

func (s *Service) SetPetLookup(p PetLookup)  { s.pets = p }
func (s *Service) SetPublisher(p Publisher)  { s.pub = p }
func (s *Service) SetLogger(l logger.Logger) { s.log = l }

func (s *Service) SetPreferences(p Preferences) { s.prefs = p }

// SoundFor devuelve si el cliente debe sonar al confirmar. Default true.
func (s *Service) SoundFor(ctx context.Context, v visibility.Viewer) bool {
	if s.prefs == nil || !v.Authenticated() {
		return true
	}
	on, err := s.prefs.SoundEnabled(ctx, v.UserID)
	if err != nil {
		return true
	}
	return on
}

// -------------------------
// Mapa
// -------------------------

type MapQuery struct {
	IncludeResolved bool
}

// MapCollection es lo que consume el mapa. Nunca lleva teléfonos.
type MapCollection struct {
	Missing []MissingReport
	Stray   []StrayReport
}

// ListForMap trae perdidos y callejeros en paralelo.
// Invitados leen de las vistas públicas.
func (s *Service) ListForMap(ctx context.Context, v visibility.Viewer, q MapQuery) (MapCollection, error) {
	f := ListFilter{
		MissingStatuses: []MissingStatus{MissingActive},
		StrayStatuses:   []StrayStatus{StrayNew, StrayInProgress},
	}
	if q.IncludeResolved {
		f = ListFilter{}
	}

	var (
		missing []MissingReport
		stray   []StrayReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if v.Authenticated() {
			missing, err = s.repo.ListMissing(gctx, f)
		} else {
			missing, err = s.repo.ListMissingPublic(gctx, f)
		}
		if err != nil {
			return fmt.Errorf("list missing: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if v.Authenticated() {
			stray, err = s.repo.ListStray(gctx, f)
		} else {
			stray, err = s.repo.ListStrayPublic(gctx, f)
		}
		if err != nil {
			return fmt.Errorf("list stray: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return MapCollection{}, err
	}

	outStray := make([]StrayReport, 0, len(stray))
	for _, r := range stray {
		// rescatado en clínica = resuelto aunque el status siga en new
		if !q.IncludeResolved && r.Resolved() {
			continue
		}
		r.ContactPhone = ""
		outStray = append(outStray, r)
	}

	s.enrich(ctx, missing)
	for i := range missing {
		missing[i].ContactPhone = ""
	}

	return MapCollection{Missing: missing, Stray: outStray}, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		missing []MissingReport
		stray   []StrayReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		missing, err = s.repo.ListMissingPublic(gctx, ListFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		stray, err = s.repo.ListStrayPublic(gctx, ListFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, r := range missing {
		switch r.Status {
		case MissingActive:
			st.ActiveMissing++
		case MissingFound:
			st.FoundMissing++
		case MissingClosed:
			st.ClosedMissing++
		}
	}
	for _, r := range stray {
		if r.Resolved() {
			st.ResolvedStray++
		} else {
			st.OpenStray++
		}
	}
	return st, nil
}

// -------------------------
// Reportes de pérdida
// -------------------------

type CreateMissingInput struct {
	PetID            string
	LastSeenLocation string
	Coord            *Coord
	LastSeenAt       *time.Time
	Description      string
	ContactPhone     string
}

func (s *Service) CreateMissing(ctx context.Context, v visibility.Viewer, in CreateMissingInput) (MissingReport, error) {
	if !v.Authenticated() {
		return MissingReport{}, ErrAuthRequired
	}
	loc := strings.TrimSpace(in.LastSeenLocation)
	petID := strings.TrimSpace(in.PetID)
	if loc == "" || petID == "" {
		return MissingReport{}, ErrInvalidInput
	}
	if in.Coord != nil && !in.Coord.Valid() {
		return MissingReport{}, ErrInvalidInput
	}

	var pet *PetRef
	if s.pets != nil {
		ref, owner, err := s.pets.PetRef(ctx, petID)
		if err != nil {
			return MissingReport{}, ErrInvalidInput
		}
		if owner != v.UserID {
			return MissingReport{}, ErrForbidden
		}
		pet = &ref
	}

	now := s.now()
	r := MissingReport{
		ID:               uuid.NewString(),
		OwnerUserID:      v.UserID,
		PetID:            petID,
		Pet:              pet,
		LastSeenLocation: loc,
		Coord:            in.Coord,
		LastSeenAt:       in.LastSeenAt,
		Description:      strings.TrimSpace(in.Description),
		Status:           MissingActive,
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateMissing(ctx, r); err != nil {
		return MissingReport{}, err
	}
	if s.pub != nil {
		s.pub.MissingInserted(ctx, r)
	}
	return r, nil
}

type MissingDetail struct {
	Report     MissingReport
	Contact    visibility.ContactDisclosure
	CanResolve bool
}

func (s *Service) GetMissingDetail(ctx context.Context, v visibility.Viewer, id string) (MissingDetail, error) {
	r, err := s.getMissingFor(ctx, v, id)
	if err != nil {
		return MissingDetail{}, err
	}

	one := []MissingReport{r}
	s.enrich(ctx, one)
	r = one[0]

	contact := s.policy.Disclose(ctx, v, r.OwnerUserID, r.ContactPhone)
	r.ContactPhone = ""

	canResolve := v.Authenticated() && r.Status == MissingActive && s.mayResolve(ctx, v, r.OwnerUserID)

	return MissingDetail{Report: r, Contact: contact, CanResolve: canResolve}, nil
}

// MarkFound cierra un reporte activo como encontrado.
// Un solo intento en vuelo por reporte.
func (s *Service) MarkFound(ctx context.Context, v visibility.Viewer, reportID string, t ResolutionType, notes string) (MissingReport, error) {
	if !v.Authenticated() {
		return MissingReport{}, ErrAuthRequired
	}
	reportID = strings.TrimSpace(reportID)
	if reportID == "" || !t.Valid() {
		return MissingReport{}, ErrInvalidInput
	}

	release, ok := s.acquire(reportID)
	if !ok {
		return MissingReport{}, ErrBusy
	}
	defer release()

	r, err := s.repo.GetMissing(ctx, reportID)
	if err != nil {
		return MissingReport{}, mapRepoErr(err)
	}
	if r.Status != MissingActive {
		return MissingReport{}, ErrBadState
	}
	if !s.mayResolve(ctx, v, r.OwnerUserID) {
		return MissingReport{}, ErrForbidden
	}

	now := s.now()
	prev := r.Status
	r.Status = MissingFound
	r.Resolution = &Resolution{
		Type:       t,
		Notes:      strings.TrimSpace(notes),
		ResolvedAt: now,
		ResolvedBy: v.UserID,
	}
	r.UpdatedAt = now

	if err := s.repo.UpdateMissing(ctx, r, prev); err != nil {
		return MissingReport{}, mapRepoErr(err)
	}

	s.log.Info("missing report marked found", map[string]any{
		"report_id":  r.ID,
		"resolution": string(t),
		"by":         v.UserID,
	})
	return r, nil
}

// Close pasa un reporte a closed (terminal, inmutable desde ahí).
func (s *Service) Close(ctx context.Context, v visibility.Viewer, reportID string) (MissingReport, error) {
	if !v.Authenticated() {
		return MissingReport{}, ErrAuthRequired
	}
	reportID = strings.TrimSpace(reportID)

	release, ok := s.acquire(reportID)
	if !ok {
		return MissingReport{}, ErrBusy
	}
	defer release()

	r, err := s.repo.GetMissing(ctx, reportID)
	if err != nil {
		return MissingReport{}, mapRepoErr(err)
	}
	if r.Status == MissingClosed {
		return MissingReport{}, ErrBadState
	}
	if r.OwnerUserID != v.UserID && !s.isPrivileged(ctx, v) {
		return MissingReport{}, ErrForbidden
	}

	prev := r.Status
	r.Status = MissingClosed
	r.UpdatedAt = s.now()
	if err := s.repo.UpdateMissing(ctx, r, prev); err != nil {
		return MissingReport{}, mapRepoErr(err)
	}
	return r, nil
}

// -------------------------
// Avistamientos
// -------------------------

type SightingInput struct {
	LocationText string
	Description  string
	PhotoURL     string
	// Coord explícita (elegida en el mapa).
	Coord *Coord
	// DeviceCoord es la posición que reportó el dispositivo, si la obtuvo.
	DeviceCoord *Coord
}

// SubmitSighting agrega un avistamiento. Coordenadas: explícita -> dispositivo -> reporte padre.
func (s *Service) SubmitSighting(ctx context.Context, v visibility.Viewer, reportID string, in SightingInput) (Sighting, error) {
	if !v.Authenticated() {
		return Sighting{}, ErrAuthRequired
	}
	loc := strings.TrimSpace(in.LocationText)
	if loc == "" {
		return Sighting{}, ErrInvalidInput
	}

	r, err := s.repo.GetMissing(ctx, strings.TrimSpace(reportID))
	if err != nil {
		return Sighting{}, mapRepoErr(err)
	}
	if r.Status == MissingClosed {
		return Sighting{}, ErrBadState
	}
	if r.Resolved() && !s.opts.AllowSightingsOnResolved {
		return Sighting{}, ErrBadState
	}

	coord, ok := pickCoord(in.Coord, in.DeviceCoord, r.Coord)
	if !ok {
		return Sighting{}, ErrNoCoordinates
	}
	if !coord.Valid() {
		return Sighting{}, ErrInvalidInput
	}

	sg := Sighting{
		ID:           uuid.NewString(),
		ReportID:     r.ID,
		Coord:        coord,
		LocationText: loc,
		Description:  strings.TrimSpace(in.Description),
		PhotoURL:     strings.TrimSpace(in.PhotoURL),
		ReporterID:   v.UserID,
		CreatedAt:    s.now(),
	}
	if err := s.repo.AddSighting(ctx, sg); err != nil {
		return Sighting{}, err
	}
	if s.pub != nil {
		s.pub.SightingInserted(ctx, sg)
	}
	return sg, nil
}

func (s *Service) ListSightings(ctx context.Context, v visibility.Viewer, reportID string) ([]Sighting, error) {
	t, err := s.TrackingPath(ctx, v, reportID)
	if err != nil {
		return nil, err
	}
	return t.Sightings, nil
}

// TrackingPath arma el rastro completo de un reporte de pérdida.
func (s *Service) TrackingPath(ctx context.Context, v visibility.Viewer, reportID string) (Track, error) {
	r, err := s.getMissingFor(ctx, v, reportID)
	if err != nil {
		return Track{}, err
	}
	items, err := s.repo.ListSightings(ctx, r.ID)
	if err != nil {
		return Track{}, err
	}
	if !v.Authenticated() {
		for i := range items {
			items[i].ReporterID = ""
		}
	}
	return BuildTrack(r, items), nil
}

// -------------------------
// Callejeros
// -------------------------

type CreateStrayInput struct {
	AnimalType   string
	DangerLevel  DangerLevel
	Location     string
	Coord        *Coord
	Description  string
	PhotoURL     string
	ContactPhone string
}

func (s *Service) CreateStray(ctx context.Context, v visibility.Viewer, in CreateStrayInput) (StrayReport, error) {
	if !v.Authenticated() {
		return StrayReport{}, ErrAuthRequired
	}
	animal := strings.TrimSpace(in.AnimalType)
	loc := strings.TrimSpace(in.Location)
	if animal == "" || loc == "" {
		return StrayReport{}, ErrInvalidInput
	}
	danger := in.DangerLevel
	if danger == "" {
		danger = DangerLow
	}
	if !danger.Valid() {
		return StrayReport{}, ErrInvalidInput
	}
	if in.Coord != nil && !in.Coord.Valid() {
		return StrayReport{}, ErrInvalidInput
	}

	now := s.now()
	r := StrayReport{
		ID:             uuid.NewString(),
		ReporterUserID: v.UserID,
		AnimalType:     animal,
		DangerLevel:    danger,
		Location:       loc,
		Coord:          in.Coord,
		Description:    strings.TrimSpace(in.Description),
		PhotoURL:       strings.TrimSpace(in.PhotoURL),
		Status:         StrayNew,
		ContactPhone:   strings.TrimSpace(in.ContactPhone),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateStray(ctx, r); err != nil {
		return StrayReport{}, err
	}
	if s.pub != nil {
		s.pub.StrayInserted(ctx, r)
	}
	return r, nil
}

type StrayDetail struct {
	Report    StrayReport
	Contact   visibility.ContactDisclosure
	CanManage bool
}

func (s *Service) GetStrayDetail(ctx context.Context, v visibility.Viewer, id string) (StrayDetail, error) {
	var (
		r   StrayReport
		err error
	)
	id = strings.TrimSpace(id)
	if v.Authenticated() {
		r, err = s.repo.GetStray(ctx, id)
	} else {
		r, err = s.repo.GetStrayPublic(ctx, id)
	}
	if err != nil {
		return StrayDetail{}, mapRepoErr(err)
	}

	contact := s.policy.Disclose(ctx, v, r.ReporterUserID, r.ContactPhone)
	r.ContactPhone = ""

	canManage := v.Authenticated() && !r.Resolved() && (r.ReporterUserID == v.UserID || s.isPrivileged(ctx, v))
	return StrayDetail{Report: r, Contact: contact, CanManage: canManage}, nil
}

type RescueInput struct {
	ClinicName string
	Notes      string
	RescueDate *time.Time
}

// MarkRescued registra que el animal fue llevado a una clínica.
func (s *Service) MarkRescued(ctx context.Context, v visibility.Viewer, id string, in RescueInput) (StrayReport, error) {
	if !v.Authenticated() {
		return StrayReport{}, ErrAuthRequired
	}
	clinic := strings.TrimSpace(in.ClinicName)
	if clinic == "" {
		return StrayReport{}, ErrInvalidInput
	}

	id = strings.TrimSpace(id)
	release, ok := s.acquire(strayKey(id))
	if !ok {
		return StrayReport{}, ErrBusy
	}
	defer release()

	r, err := s.repo.GetStray(ctx, id)
	if err != nil {
		return StrayReport{}, mapRepoErr(err)
	}
	if r.ReporterUserID != v.UserID && !s.isPrivileged(ctx, v) {
		return StrayReport{}, ErrForbidden
	}
	if r.Resolved() {
		return StrayReport{}, ErrBadState
	}

	now := s.now()
	date := now
	if in.RescueDate != nil {
		date = *in.RescueDate
	}
	r.Rescue = Rescue{
		TakenToClinic: true,
		ClinicName:    clinic,
		Notes:         strings.TrimSpace(in.Notes),
		RescueDate:    &date,
	}
	r.UpdatedAt = now

	if err := s.repo.UpdateStray(ctx, r, r.Status); err != nil {
		return StrayReport{}, mapRepoErr(err)
	}
	return r, nil
}

// UpdateStrayStatus: new -> in_progress -> closed (closed es terminal). Solo privilegiados.
func (s *Service) UpdateStrayStatus(ctx context.Context, v visibility.Viewer, id string, to StrayStatus) (StrayReport, error) {
	if !v.Authenticated() {
		return StrayReport{}, ErrAuthRequired
	}
	if !to.Valid() {
		return StrayReport{}, ErrInvalidInput
	}

	id = strings.TrimSpace(id)
	release, ok := s.acquire(strayKey(id))
	if !ok {
		return StrayReport{}, ErrBusy
	}
	defer release()

	r, err := s.repo.GetStray(ctx, id)
	if err != nil {
		return StrayReport{}, mapRepoErr(err)
	}
	if !s.isPrivileged(ctx, v) {
		return StrayReport{}, ErrForbidden
	}

	// Idempotente
	if r.Status == to {
		return r, nil
	}
	if !strayTransitionAllowed(r.Status, to) {
		return StrayReport{}, ErrBadState
	}

	prev := r.Status
	r.Status = to
	r.UpdatedAt = s.now()
	if err := s.repo.UpdateStray(ctx, r, prev); err != nil {
		return StrayReport{}, mapRepoErr(err)
	}
	return r, nil
}

func strayTransitionAllowed(from, to StrayStatus) bool {
	switch from {
	case StrayNew:
		return to == StrayInProgress || to == StrayClosed
	case StrayInProgress:
		return to == StrayClosed
	}
	return false
}

// -------------------------
// helpers
// -------------------------

func (s *Service) getMissingFor(ctx context.Context, v visibility.Viewer, id string) (MissingReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MissingReport{}, ErrNotFound
	}
	var (
		r   MissingReport
		err error
	)
	if v.Authenticated() {
		r, err = s.repo.GetMissing(ctx, id)
	} else {
		r, err = s.repo.GetMissingPublic(ctx, id)
	}
	if err != nil {
		return MissingReport{}, mapRepoErr(err)
	}
	return r, nil
}

func (s *Service) mayResolve(ctx context.Context, v visibility.Viewer, ownerUserID string) bool {
	if s.opts.ResolvePolicy == ResolveAnyAuthenticated {
		return v.Authenticated()
	}
	if ownerUserID != "" && ownerUserID == v.UserID {
		return true
	}
	return s.isPrivileged(ctx, v)
}

func (s *Service) isPrivileged(ctx context.Context, v visibility.Viewer) bool {
	if !v.Authenticated() {
		return false
	}
	declared := strings.ToLower(strings.TrimSpace(v.DeclaredRole))
	for _, r := range s.opts.PrivilegedDeclaredRoles {
		if declared != "" && declared == r {
			return true
		}
	}
	for _, r := range s.opts.PrivilegedPlatformRoles {
		if s.policy.HasRole(ctx, v, r) {
			return true
		}
	}
	return false
}

// Missing y stray comparten el mapa de operaciones en vuelo.
func strayKey(id string) string { return "stray:" + id }

// acquire: una sola transición de estado en vuelo por reporte.
func (s *Service) acquire(reportID string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[reportID]; busy {
		return nil, false
	}
	s.inflight[reportID] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, reportID)
		s.mu.Unlock()
	}, true
}

// enrich completa Pet en los reportes que no lo traen. Errores se toleran.
func (s *Service) enrich(ctx context.Context, items []MissingReport) {
	if s.pets == nil {
		return
	}
	cache := map[string]*PetRef{}
	for i := range items {
		if items[i].Pet != nil || items[i].PetID == "" {
			continue
		}
		ref, ok := cache[items[i].PetID]
		if !ok {
			got, _, err := s.pets.PetRef(ctx, items[i].PetID)
			if err != nil {
				s.log.Debug("pet lookup failed", map[string]any{"pet_id": items[i].PetID, "err": err})
			} else {
				ref = &got
			}
			cache[items[i].PetID] = ref
		}
		items[i].Pet = ref
	}
}

func pickCoord(candidates ...*Coord) (Coord, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return Coord{}, false
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, ErrRepoNotFound):
		return ErrNotFound
	case errors.Is(err, ErrRepoStale):
		return ErrBadState
	}
	return err
}
