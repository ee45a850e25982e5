package reports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-reports-map/internal/domain/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu        sync.Mutex
	missing   map[string]MissingReport
	stray     map[string]StrayReport
	sightings []Sighting

	publicCalls int
	rawCalls    int
	getHook     func()
}

func newTestRepo() *testRepo {
	return &testRepo{missing: map[string]MissingReport{}, stray: map[string]StrayReport{}}
}

func (r *testRepo) CreateMissing(_ context.Context, m MissingReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing[m.ID] = m
	return nil
}

func (r *testRepo) UpdateMissing(_ context.Context, m MissingReport, expect MissingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.missing[m.ID]
	if !ok {
		return ErrRepoNotFound
	}
	if cur.Status != expect {
		return ErrRepoStale
	}
	r.missing[m.ID] = m
	return nil
}

func (r *testRepo) GetMissing(_ context.Context, id string) (MissingReport, error) {
	if r.getHook != nil {
		r.getHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rawCalls++
	m, ok := r.missing[id]
	if !ok {
		return MissingReport{}, ErrRepoNotFound
	}
	return m, nil
}

func (r *testRepo) GetMissingPublic(ctx context.Context, id string) (MissingReport, error) {
	r.mu.Lock()
	r.publicCalls++
	m, ok := r.missing[id]
	r.mu.Unlock()
	if !ok {
		return MissingReport{}, ErrRepoNotFound
	}
	m.OwnerUserID, m.ContactPhone = "", ""
	return m, nil
}

func matchMissing(f ListFilter, s MissingStatus) bool {
	if len(f.MissingStatuses) == 0 {
		return true
	}
	for _, x := range f.MissingStatuses {
		if x == s {
			return true
		}
	}
	return false
}

func matchStray(f ListFilter, s StrayStatus) bool {
	if len(f.StrayStatuses) == 0 {
		return true
	}
	for _, x := range f.StrayStatuses {
		if x == s {
			return true
		}
	}
	return false
}

func (r *testRepo) ListMissing(_ context.Context, f ListFilter) ([]MissingReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rawCalls++
	out := []MissingReport{}
	for _, m := range r.missing {
		if matchMissing(f, m.Status) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) ListMissingPublic(_ context.Context, f ListFilter) ([]MissingReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publicCalls++
	out := []MissingReport{}
	for _, m := range r.missing {
		if matchMissing(f, m.Status) {
			m.OwnerUserID, m.ContactPhone = "", ""
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) CreateStray(_ context.Context, s StrayReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stray[s.ID] = s
	return nil
}

func (r *testRepo) UpdateStray(_ context.Context, s StrayReport, expect StrayStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.stray[s.ID]
	if !ok {
		return ErrRepoNotFound
	}
	if cur.Status != expect {
		return ErrRepoStale
	}
	r.stray[s.ID] = s
	return nil
}

func (r *testRepo) GetStray(_ context.Context, id string) (StrayReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rawCalls++
	s, ok := r.stray[id]
	if !ok {
		return StrayReport{}, ErrRepoNotFound
	}
	return s, nil
}

func (r *testRepo) GetStrayPublic(_ context.Context, id string) (StrayReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publicCalls++
	s, ok := r.stray[id]
	if !ok {
		return StrayReport{}, ErrRepoNotFound
	}
	s.ReporterUserID, s.ContactPhone = "", ""
	return s, nil
}

func (r *testRepo) ListStray(_ context.Context, f ListFilter) ([]StrayReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rawCalls++
	out := []StrayReport{}
	for _, s := range r.stray {
		if matchStray(f, s.Status) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) ListStrayPublic(_ context.Context, f ListFilter) ([]StrayReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publicCalls++
	out := []StrayReport{}
	for _, s := range r.stray {
		if matchStray(f, s.Status) {
			s.ReporterUserID, s.ContactPhone = "", ""
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) AddSighting(_ context.Context, s Sighting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sightings = append(r.sightings, s)
	return nil
}

func (r *testRepo) ListSightings(_ context.Context, reportID string) ([]Sighting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Sighting{}
	for _, s := range r.sightings {
		if s.ReportID == reportID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeChecker struct {
	roles map[string][]string
	err   error
	calls int
	hook  func()
}

func (c *fakeChecker) HasRole(_ context.Context, userID, role string) (bool, error) {
	c.calls++
	if c.hook != nil {
		c.hook()
	}
	if c.err != nil {
		return false, c.err
	}
	for _, r := range c.roles[userID] {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

type recordingPublisher struct {
	missing   []MissingReport
	stray     []StrayReport
	sightings []Sighting
}

func (p *recordingPublisher) MissingInserted(_ context.Context, r MissingReport) {
	p.missing = append(p.missing, r)
}
func (p *recordingPublisher) StrayInserted(_ context.Context, r StrayReport) {
	p.stray = append(p.stray, r)
}
func (p *recordingPublisher) SightingInserted(_ context.Context, s Sighting) {
	p.sightings = append(p.sightings, s)
}

type fakePets map[string]PetRef

func (f fakePets) PetRef(_ context.Context, id string) (PetRef, string, error) {
	p, ok := f[id]
	if !ok {
		return PetRef{}, "", errors.New("pet not found")
	}
	return p, "owner-1", nil
}

// -------------------------
// Helpers
// -------------------------

var (
	owner    = visibility.Viewer{UserID: "owner-1", DeclaredRole: "owner"}
	stranger = visibility.Viewer{UserID: "user-9", DeclaredRole: "owner"}
	shelter  = visibility.Viewer{UserID: "shelter-1", DeclaredRole: "shelter"}
	admin    = visibility.Viewer{UserID: "admin-1"}
)

func newSvc(t *testing.T, repo *testRepo, opts Options) (*Service, *fakeChecker) {
	t.Helper()
	chk := &fakeChecker{roles: map[string][]string{"admin-1": {visibility.RoleAdmin}}}
	svc := NewService(repo, visibility.NewPolicy(chk, nil), opts)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return svc, chk
}

func seedR1(repo *testRepo) {
	repo.missing["r1"] = MissingReport{
		ID:               "r1",
		OwnerUserID:      "owner-1",
		PetID:            "pet-1",
		LastSeenLocation: "حي الخالدية، الدمام",
		Coord:            &Coord{Lat: 26.42, Lon: 50.08},
		Status:           MissingActive,
		ContactPhone:     "+966500000000",
	}
}

// -------------------------
// Tests
// -------------------------

func TestTrackingPath_R1Example(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	svc, _ := newSvc(t, repo, DefaultOptions())
	ctx := context.Background()

	_, err := svc.SubmitSighting(ctx, stranger, "r1", SightingInput{LocationText: "a", Coord: &Coord{Lat: 26.43, Lon: 50.09}})
	require.NoError(t, err)
	_, err = svc.SubmitSighting(ctx, stranger, "r1", SightingInput{LocationText: "b", Coord: &Coord{Lat: 26.44, Lon: 50.10}})
	require.NoError(t, err)

	want := []Coord{{26.42, 50.08}, {26.43, 50.09}, {26.44, 50.10}}
	for i := 0; i < 3; i++ {
		tr, err := svc.TrackingPath(ctx, visibility.Guest(), "r1")
		require.NoError(t, err)
		assert.Equal(t, want, tr.Path)
		for _, s := range tr.Sightings {
			assert.Empty(t, s.ReporterID, "guests should not see reporter ids")
		}
	}
}

func TestMarkFound_SetsResolutionAndLeavesActiveCount(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	svc, _ := newSvc(t, repo, DefaultOptions())
	ctx := context.Background()

	before, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, before.ActiveMissing)

	got, err := svc.MarkFound(ctx, owner, "r1", ResolutionReturnedToOwner, " back home ")
	require.NoError(t, err)
	assert.Equal(t, MissingFound, got.Status)
	require.NotNil(t, got.Resolution)
	assert.Equal(t, ResolutionReturnedToOwner, got.Resolution.Type)
	assert.Equal(t, "back home", got.Resolution.Notes)
	assert.Equal(t, "owner-1", got.Resolution.ResolvedBy)
	assert.False(t, got.Resolution.ResolvedAt.IsZero())

	stored := repo.missing["r1"]
	assert.Equal(t, MissingFound, stored.Status)
	require.NotNil(t, stored.Resolution)

	after, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, after.ActiveMissing)
	assert.Equal(t, 1, after.FoundMissing)

	col, err := svc.ListForMap(ctx, owner, MapQuery{})
	require.NoError(t, err)
	assert.Empty(t, col.Missing)
}

func TestMarkFound_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("guest needs sign in", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		svc, _ := newSvc(t, repo, DefaultOptions())
		_, err := svc.MarkFound(ctx, visibility.Guest(), "r1", ResolutionReturnedToOwner, "")
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.Equal(t, MissingActive, repo.missing["r1"].Status)
	})

	t.Run("invalid resolution type", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		svc, _ := newSvc(t, repo, DefaultOptions())
		_, err := svc.MarkFound(ctx, owner, "r1", "eaten", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newSvc(t, newTestRepo(), DefaultOptions())
		_, err := svc.MarkFound(ctx, owner, "nope", ResolutionReturnedToOwner, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already found", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		svc, _ := newSvc(t, repo, DefaultOptions())
		_, err := svc.MarkFound(ctx, owner, "r1", ResolutionReturnedToOwner, "")
		require.NoError(t, err)
		_, err = svc.MarkFound(ctx, owner, "r1", ResolutionTakenToClinic, "")
		assert.ErrorIs(t, err, ErrBadState)
	})

	t.Run("stranger forbidden with owner_or_privileged", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		svc, _ := newSvc(t, repo, DefaultOptions())
		_, err := svc.MarkFound(ctx, stranger, "r1", ResolutionReturnedToOwner, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("stranger allowed with any_authenticated", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		opts := DefaultOptions()
		opts.ResolvePolicy = ResolveAnyAuthenticated
		svc, _ := newSvc(t, repo, opts)
		_, err := svc.MarkFound(ctx, stranger, "r1", ResolutionTakenToShelter, "")
		assert.NoError(t, err)
	})

	t.Run("privileged roles", func(t *testing.T) {
		for _, v := range []visibility.Viewer{shelter, admin, {UserID: "vet-1", DeclaredRole: "vet"}} {
			repo := newTestRepo()
			seedR1(repo)
			svc, _ := newSvc(t, repo, DefaultOptions())
			_, err := svc.MarkFound(ctx, v, "r1", ResolutionTakenToClinic, "")
			assert.NoError(t, err, "viewer %s", v.UserID)
		}
	})
}

func TestMarkFound_OneAttemptInFlight(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	svc, _ := newSvc(t, repo, DefaultOptions())
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	repo.getHook = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.MarkFound(ctx, owner, "r1", ResolutionReturnedToOwner, "")
		done <- err
	}()

	<-entered
	_, err := svc.MarkFound(ctx, owner, "r1", ResolutionReturnedToOwner, "")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestClose_WaitsForInFlightMarkFound(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	svc, chk := newSvc(t, repo, DefaultOptions())
	ctx := context.Background()

	// El admin queda frenado en has_role con el reporte ya leído como activo
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	chk.hook = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.MarkFound(ctx, admin, "r1", ResolutionTakenToShelter, "")
		done <- err
	}()

	<-entered
	_, err := svc.Close(ctx, owner, "r1")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, MissingFound, repo.missing["r1"].Status)

	got, err := svc.Close(ctx, owner, "r1")
	require.NoError(t, err)
	assert.Equal(t, MissingClosed, got.Status)
}

func TestMarkFound_DoesNotReopenConcurrentlyClosed(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	svc, chk := newSvc(t, repo, DefaultOptions())
	ctx := context.Background()

	// Otra instancia cierra el reporte entre la lectura y la escritura
	chk.hook = func() {
		repo.mu.Lock()
		r := repo.missing["r1"]
		r.Status = MissingClosed
		repo.missing["r1"] = r
		repo.mu.Unlock()
	}

	_, err := svc.MarkFound(ctx, admin, "r1", ResolutionTakenToShelter, "")
	assert.ErrorIs(t, err, ErrBadState)
	assert.Equal(t, MissingClosed, repo.missing["r1"].Status)
	assert.Nil(t, repo.missing["r1"].Resolution)
}

func TestUpdateStrayStatus_StaleWriteIsRejected(t *testing.T) {
	repo := newTestRepo()
	repo.stray["s1"] = StrayReport{ID: "s1", ReporterUserID: "rep-1", AnimalType: "dog", Location: "x", Status: StrayNew}
	svc, chk := newSvc(t, repo, DefaultOptions())
	ctx := context.Background()

	chk.hook = func() {
		repo.mu.Lock()
		r := repo.stray["s1"]
		r.Status = StrayClosed
		repo.stray["s1"] = r
		repo.mu.Unlock()
	}

	// admin pasa por has_role; shelter no
	_, err := svc.UpdateStrayStatus(ctx, admin, "s1", StrayInProgress)
	assert.ErrorIs(t, err, ErrBadState)
	assert.Equal(t, StrayClosed, repo.stray["s1"].Status)
}

func TestClose_ImmutableAfterwards(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	svc, _ := newSvc(t, repo, DefaultOptions())
	ctx := context.Background()

	_, err := svc.Close(ctx, stranger, "r1")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Close(ctx, owner, "r1")
	require.NoError(t, err)
	assert.Equal(t, MissingClosed, got.Status)

	_, err = svc.Close(ctx, owner, "r1")
	assert.ErrorIs(t, err, ErrBadState)
	_, err = svc.MarkFound(ctx, owner, "r1", ResolutionReturnedToOwner, "")
	assert.ErrorIs(t, err, ErrBadState)
	_, err = svc.SubmitSighting(ctx, owner, "r1", SightingInput{LocationText: "x"})
	assert.ErrorIs(t, err, ErrBadState)
}

func TestSubmitSighting_CoordinateFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit wins over device", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		svc, _ := newSvc(t, repo, DefaultOptions())
		s, err := svc.SubmitSighting(ctx, stranger, "r1", SightingInput{
			LocationText: "market",
			Coord:        &Coord{Lat: 1, Lon: 2},
			DeviceCoord:  &Coord{Lat: 3, Lon: 4},
		})
		require.NoError(t, err)
		assert.Equal(t, Coord{Lat: 1, Lon: 2}, s.Coord)
	})

	t.Run("device then report", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		svc, _ := newSvc(t, repo, DefaultOptions())
		s, err := svc.SubmitSighting(ctx, stranger, "r1", SightingInput{LocationText: "m", DeviceCoord: &Coord{Lat: 3, Lon: 4}})
		require.NoError(t, err)
		assert.Equal(t, Coord{Lat: 3, Lon: 4}, s.Coord)

		s, err = svc.SubmitSighting(ctx, stranger, "r1", SightingInput{LocationText: "m"})
		require.NoError(t, err)
		assert.Equal(t, Coord{Lat: 26.42, Lon: 50.08}, s.Coord)
	})

	t.Run("no coordinates anywhere", func(t *testing.T) {
		repo := newTestRepo()
		repo.missing["r2"] = MissingReport{ID: "r2", OwnerUserID: "owner-1", Status: MissingActive, LastSeenLocation: "x"}
		svc, _ := newSvc(t, repo, DefaultOptions())
		_, err := svc.SubmitSighting(ctx, stranger, "r2", SightingInput{LocationText: "m"})
		assert.ErrorIs(t, err, ErrNoCoordinates)
		assert.Empty(t, repo.sightings)
	})

	t.Run("validation", func(t *testing.T) {
		repo := newTestRepo()
		seedR1(repo)
		svc, _ := newSvc(t, repo, DefaultOptions())
		_, err := svc.SubmitSighting(ctx, visibility.Guest(), "r1", SightingInput{LocationText: "m"})
		assert.ErrorIs(t, err, ErrAuthRequired)
		_, err = svc.SubmitSighting(ctx, stranger, "r1", SightingInput{LocationText: "   "})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.SubmitSighting(ctx, stranger, "r1", SightingInput{LocationText: "m", Coord: &Coord{Lat: 95, Lon: 0}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestSubmitSighting_OnResolvedReport(t *testing.T) {
	ctx := context.Background()
	for _, allow := range []bool{true, false} {
		repo := newTestRepo()
		seedR1(repo)
		opts := DefaultOptions()
		opts.AllowSightingsOnResolved = allow
		svc, _ := newSvc(t, repo, opts)
		pub := &recordingPublisher{}
		svc.SetPublisher(pub)

		_, err := svc.MarkFound(ctx, owner, "r1", ResolutionReturnedToOwner, "")
		require.NoError(t, err)

		_, err = svc.SubmitSighting(ctx, stranger, "r1", SightingInput{LocationText: "m"})
		if allow {
			assert.NoError(t, err)
			assert.Len(t, pub.sightings, 1)
		} else {
			assert.ErrorIs(t, err, ErrBadState)
			assert.Empty(t, pub.sightings)
		}
	}
}

func TestListForMap_GuestUsesPublicViews(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	repo.stray["s1"] = StrayReport{ID: "s1", ReporterUserID: "u2", Status: StrayNew, ContactPhone: "123", Location: "x"}
	svc, _ := newSvc(t, repo, DefaultOptions())

	col, err := svc.ListForMap(context.Background(), visibility.Guest(), MapQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.rawCalls)
	assert.Equal(t, 2, repo.publicCalls)

	require.Len(t, col.Missing, 1)
	require.Len(t, col.Stray, 1)
	assert.Empty(t, col.Missing[0].ContactPhone)
	assert.Empty(t, col.Missing[0].OwnerUserID)
	assert.Empty(t, col.Stray[0].ContactPhone)
}

func TestListForMap_AuthenticatedNeverCarriesPhones(t *testing.T) {
	repo := newTestRepo()
	seedR1(repo)
	svc, _ := newSvc(t, repo, DefaultOptions())
	svc.SetPetLookup(fakePets{"pet-1": {ID: "pet-1", Name: "Luna", Species: "cat"}})

	col, err := svc.ListForMap(context.Background(), owner, MapQuery{})
	require.NoError(t, err)
	require.Len(t, col.Missing, 1)
	assert.Empty(t, col.Missing[0].ContactPhone)
	require.NotNil(t, col.Missing[0].Pet)
	assert.Equal(t, "Luna", col.Missing[0].Pet.Name)
	assert.Equal(t, 2, repo.rawCalls)
}

func TestListForMap_RescuedStrayIsResolved(t *testing.T) {
	repo := newTestRepo()
	repo.stray["s1"] = StrayReport{ID: "s1", Status: StrayNew, Rescue: Rescue{TakenToClinic: true}}
	repo.stray["s2"] = StrayReport{ID: "s2", Status: StrayInProgress}
	svc, _ := newSvc(t, repo, DefaultOptions())

	col, err := svc.ListForMap(context.Background(), owner, MapQuery{})
	require.NoError(t, err)
	require.Len(t, col.Stray, 1)
	assert.Equal(t, "s2", col.Stray[0].ID)

	col, err = svc.ListForMap(context.Background(), owner, MapQuery{IncludeResolved: true})
	require.NoError(t, err)
	assert.Len(t, col.Stray, 2)
}

func TestGetMissingDetail_ContactBranches(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	seedR1(repo)
	svc, chk := newSvc(t, repo, DefaultOptions())

	d, err := svc.GetMissingDetail(ctx, visibility.Guest(), "r1")
	require.NoError(t, err)
	assert.Equal(t, visibility.ModeSignIn, d.Contact.Mode)
	assert.Empty(t, d.Contact.Phone)
	assert.Empty(t, d.Report.ContactPhone)
	assert.False(t, d.CanResolve)
	assert.Equal(t, 0, chk.calls, "guests must not trigger role checks")

	d, err = svc.GetMissingDetail(ctx, stranger, "r1")
	require.NoError(t, err)
	assert.Equal(t, visibility.ModeHidden, d.Contact.Mode)
	assert.Empty(t, d.Contact.Phone)

	d, err = svc.GetMissingDetail(ctx, owner, "r1")
	require.NoError(t, err)
	assert.Equal(t, visibility.ModeCall, d.Contact.Mode)
	assert.Equal(t, "+966500000000", d.Contact.Phone)
	assert.Empty(t, d.Report.ContactPhone)
	assert.True(t, d.CanResolve)
}

func TestCreateMissing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	svc, _ := newSvc(t, repo, DefaultOptions())
	svc.SetPetLookup(fakePets{"pet-1": {ID: "pet-1", Name: "Luna"}})
	pub := &recordingPublisher{}
	svc.SetPublisher(pub)

	_, err := svc.CreateMissing(ctx, visibility.Guest(), CreateMissingInput{PetID: "pet-1", LastSeenLocation: "x"})
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = svc.CreateMissing(ctx, owner, CreateMissingInput{PetID: "pet-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateMissing(ctx, stranger, CreateMissingInput{PetID: "pet-1", LastSeenLocation: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	r, err := svc.CreateMissing(ctx, owner, CreateMissingInput{
		PetID:            "pet-1",
		LastSeenLocation: " Dammam ",
		Coord:            &Coord{Lat: 26.4, Lon: 50.1},
		ContactPhone:     "555",
	})
	require.NoError(t, err)
	assert.Equal(t, MissingActive, r.Status)
	assert.Equal(t, "Dammam", r.LastSeenLocation)
	require.NotNil(t, r.Pet)
	assert.Equal(t, "Luna", r.Pet.Name)
	require.Len(t, pub.missing, 1)
	assert.Equal(t, r.ID, pub.missing[0].ID)
}

func TestStrayLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	svc, _ := newSvc(t, repo, DefaultOptions())
	pub := &recordingPublisher{}
	svc.SetPublisher(pub)

	s, err := svc.CreateStray(ctx, stranger, CreateStrayInput{AnimalType: "dog", Location: "Khobar"})
	require.NoError(t, err)
	assert.Equal(t, DangerLow, s.DangerLevel)
	assert.Equal(t, StrayNew, s.Status)
	assert.Len(t, pub.stray, 1)

	_, err = svc.CreateStray(ctx, stranger, CreateStrayInput{AnimalType: "dog", Location: "x", DangerLevel: "extreme"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// status: solo privilegiados
	_, err = svc.UpdateStrayStatus(ctx, stranger, s.ID, StrayInProgress)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.UpdateStrayStatus(ctx, shelter, s.ID, StrayInProgress)
	require.NoError(t, err)
	assert.Equal(t, StrayInProgress, got.Status)

	_, err = svc.UpdateStrayStatus(ctx, shelter, s.ID, StrayNew)
	assert.ErrorIs(t, err, ErrBadState)

	// rescate del reportante
	_, err = svc.MarkRescued(ctx, stranger, s.ID, RescueInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err = svc.MarkRescued(ctx, stranger, s.ID, RescueInput{ClinicName: "Al Noor Vet"})
	require.NoError(t, err)
	assert.True(t, got.Resolved())
	require.NotNil(t, got.Rescue.RescueDate)

	_, err = svc.MarkRescued(ctx, stranger, s.ID, RescueInput{ClinicName: "again"})
	assert.ErrorIs(t, err, ErrBadState)

	got, err = svc.UpdateStrayStatus(ctx, admin, s.ID, StrayClosed)
	require.NoError(t, err)
	assert.Equal(t, StrayClosed, got.Status)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.ResolvedStray)
	assert.Equal(t, 0, st.OpenStray)
}

func TestGetStrayDetail_FailsClosedOnRoleError(t *testing.T) {
	repo := newTestRepo()
	repo.stray["s1"] = StrayReport{ID: "s1", ReporterUserID: "u2", Status: StrayNew, ContactPhone: "123"}
	svc, chk := newSvc(t, repo, DefaultOptions())
	chk.err = errors.New("rpc down")

	d, err := svc.GetStrayDetail(context.Background(), admin, "s1")
	require.NoError(t, err)
	assert.Equal(t, visibility.ModeHidden, d.Contact.Mode)
	assert.False(t, d.CanManage)

	d, err = svc.GetStrayDetail(context.Background(), visibility.Viewer{UserID: "u2"}, "s1")
	require.NoError(t, err)
	assert.Equal(t, visibility.ModeCall, d.Contact.Mode)
	assert.Equal(t, "123", d.Contact.Phone)
}

func TestBuildTrack_StableOrderAndForeignSightings(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := MissingReport{ID: "r1"}
	tr := BuildTrack(r, []Sighting{
		{ID: "b", ReportID: "r1", Coord: Coord{2, 2}, CreatedAt: t0.Add(time.Minute)},
		{ID: "x", ReportID: "other", Coord: Coord{9, 9}, CreatedAt: t0},
		{ID: "a", ReportID: "r1", Coord: Coord{1, 1}, CreatedAt: t0},
		{ID: "c", ReportID: "r1", Coord: Coord{3, 3}, CreatedAt: t0.Add(time.Minute)},
	})
	assert.Nil(t, tr.Origin)
	assert.Equal(t, []Coord{{1, 1}, {2, 2}, {3, 3}}, tr.Path)
}
