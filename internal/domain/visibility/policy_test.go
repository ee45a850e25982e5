package visibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	admins map[string]bool
	err    error
	calls  int
}

func (f *fakeChecker) HasRole(_ context.Context, userID, role string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return role == RoleAdmin && f.admins[userID], nil
}

func TestCanViewPhone_TruthTable(t *testing.T) {
	checker := &fakeChecker{admins: map[string]bool{"admin-1": true}}
	p := NewPolicy(checker, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		viewer Viewer
		owner  string
		want   bool
	}{
		{"guest", Guest(), "owner-1", false},
		{"owner", Viewer{UserID: "owner-1"}, "owner-1", true},
		{"admin", Viewer{UserID: "admin-1"}, "owner-1", true},
		{"shelter declared", Viewer{UserID: "u-2", DeclaredRole: "shelter"}, "owner-1", true},
		{"shelter declared mixed case", Viewer{UserID: "u-2", DeclaredRole: " Shelter "}, "owner-1", true},
		{"vet declared", Viewer{UserID: "u-3", DeclaredRole: "vet"}, "owner-1", false},
		{"plain user", Viewer{UserID: "u-4"}, "owner-1", false},
		{"empty owner never matches", Viewer{UserID: "u-4"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanViewPhone(ctx, tt.viewer, tt.owner))
		})
	}
}

func TestCanViewPhone_FailsClosedOnRoleError(t *testing.T) {
	checker := &fakeChecker{err: errors.New("rpc down")}
	p := NewPolicy(checker, nil)

	assert.False(t, p.CanViewPhone(context.Background(), Viewer{UserID: "admin-1"}, "owner-1"))
	// el dueño no depende del RPC
	assert.True(t, p.CanViewPhone(context.Background(), Viewer{UserID: "owner-1"}, "owner-1"))
}

func TestCanViewPhone_GuestNeverCallsChecker(t *testing.T) {
	checker := &fakeChecker{}
	p := NewPolicy(checker, nil)

	_ = p.CanViewPhone(context.Background(), Guest(), "owner-1")
	assert.Zero(t, checker.calls)
}

func TestDisclose_ThreeBranches(t *testing.T) {
	p := NewPolicy(&fakeChecker{}, nil)
	ctx := context.Background()

	d := p.Disclose(ctx, Viewer{UserID: "owner-1"}, "owner-1", " 0500000000 ")
	assert.Equal(t, ContactDisclosure{Mode: ModeCall, Phone: "0500000000"}, d)

	d = p.Disclose(ctx, Viewer{UserID: "u-9"}, "owner-1", "0500000000")
	assert.Equal(t, ModeHidden, d.Mode)
	assert.Empty(t, d.Phone)

	d = p.Disclose(ctx, Guest(), "owner-1", "0500000000")
	assert.Equal(t, ModeSignIn, d.Mode)
	assert.Empty(t, d.Phone)

	d = p.Disclose(ctx, Viewer{UserID: "owner-1"}, "owner-1", "")
	assert.Equal(t, ModeNone, d.Mode)
}

func TestNewPolicy_CustomCaregiverRoles(t *testing.T) {
	p := NewPolicy(nil, nil, "vet", "shelter")
	assert.True(t, p.CanViewPhone(context.Background(), Viewer{UserID: "u", DeclaredRole: "vet"}, "o"))
	// sin checker: admin nunca se concede
	assert.False(t, p.IsAdmin(context.Background(), Viewer{UserID: "u"}))
}
