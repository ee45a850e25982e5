package pets

import (
	"context"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Pet{}} }

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(_ context.Context, owner string) ([]Pet, error) {
	out := []Pet{}
	for _, p := range r.byID {
		if p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", CreateInput{Name: "Luna", Species: "cat"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty owner, got %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CreateInput{Name: "Luna", Species: "dragon"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for species, got %v", err)
	}

	p, err := svc.Create(ctx, "u1", CreateInput{Name: " Luna ", Species: "cat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Luna" || p.Sex != SexUnknown {
		t.Fatalf("unexpected pet %+v", p)
	}
}

func TestUpdateProfile_OwnerOnlyAndBirthDateClear(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()
	bd := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Luna", Species: "cat", BirthDate: &bd})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Nala"
	if _, err := svc.UpdateProfile(ctx, p.ID, "u2", UpdateProfileInput{Name: &name}); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, err := svc.UpdateProfile(ctx, p.ID, "u1", UpdateProfileInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Nala" || got.BirthDate == nil {
		t.Fatalf("birth date should be untouched: %+v", got)
	}

	got, err = svc.UpdateProfile(ctx, p.ID, "u1", UpdateProfileInput{BirthDatePresent: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.BirthDate != nil {
		t.Fatalf("birth date should be cleared")
	}

	if _, err := svc.UpdateProfile(ctx, "nope", "u1", UpdateProfileInput{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPetRef(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", CreateInput{Name: "Rex", Species: "dog", Breed: "beagle", PhotoURL: "https://x/rex.jpg"})

	ref, owner, err := svc.PetRef(ctx, p.ID)
	if err != nil {
		t.Fatalf("PetRef: %v", err)
	}
	if owner != "u1" || ref.Name != "Rex" || ref.Species != "dog" || ref.PhotoURL == "" {
		t.Fatalf("unexpected ref %+v owner=%s", ref, owner)
	}

	if _, _, err := svc.PetRef(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
