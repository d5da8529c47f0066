package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/concesionaria/internal/gate"
)

func TestPermission_NewPermission(t *testing.T) {
	perm := gate.NewPermission("vehicle", gate.ActionCreate)
	if perm != "vehicle:create" {
		t.Errorf("expected 'vehicle:create', got '%s'", perm)
	}
}

func TestPermission_Parse(t *testing.T) {
	perm := gate.Permission("purchase:view")
	res, act := perm.Parse()
	if res != "purchase" {
		t.Errorf("expected resource 'purchase', got '%s'", res)
	}
	if act != gate.ActionView {
		t.Errorf("expected action 'view', got '%s'", act)
	}
}

func TestPermission_Parse_Invalid(t *testing.T) {
	perm := gate.Permission("invalid")
	res, act := perm.Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty strings, got '%s' and '%s'", res, act)
	}
}

func TestPermission_Matches_Exact(t *testing.T) {
	perm := gate.Permission("vehicle:create")
	if !perm.Matches("vehicle:create") {
		t.Error("expected exact match to succeed")
	}
	if perm.Matches("vehicle:delete") {
		t.Error("expected different action to fail")
	}
	if perm.Matches("purchase:create") {
		t.Error("expected different resource to fail")
	}
}

func TestPermission_Matches_SuperAdmin(t *testing.T) {
	perm := gate.PermissionSuperAdmin
	if !perm.Matches("vehicle:create") {
		t.Error("superadmin should match any permission")
	}
	if !perm.Matches("purchase:delete") {
		t.Error("superadmin should match any permission")
	}
}

func TestPermission_Matches_ResourceWildcard(t *testing.T) {
	perm := gate.Permission("vehicle:*")
	if !perm.Matches("vehicle:create") {
		t.Error("vehicle:* should match vehicle:create")
	}
	if !perm.Matches("vehicle:delete") {
		t.Error("vehicle:* should match vehicle:delete")
	}
	if perm.Matches("purchase:create") {
		t.Error("vehicle:* should not match purchase:create")
	}
}

// mockOwnerPolicy allows access only when resource.OwnerID == userID.
type mockOwnerPolicy struct{}

type mockResource struct {
	OwnerID uint
}

func (p *mockOwnerPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if r, ok := resource.(*mockResource); ok {
		return r.OwnerID == userID
	}
	return false
}

func TestHybridGate_ProfileOnly(t *testing.T) {
	resolver := gate.NewStaticResolver[uint]()
	profile := gate.NewStaticProfile(1, "vendedor",
		gate.NewPermission("vehicle", gate.ActionList),
		gate.NewPermission("vehicle", gate.ActionView),
	)
	resolver.Set(1, profile)

	g := gate.NewHybridGate[uint](resolver)

	if !g.Can(context.Background(), 1, gate.ActionList, "vehicle", nil) {
		t.Error("user with permission should be allowed")
	}
	if g.Can(context.Background(), 1, gate.ActionDelete, "vehicle", nil) {
		t.Error("user without permission should be denied")
	}
	if g.Can(context.Background(), 2, gate.ActionView, "vehicle", nil) {
		t.Error("user without profile should be denied")
	}
	if g.Can(context.Background(), 0, gate.ActionView, "vehicle", nil) {
		t.Error("zero user should be denied")
	}
}

func TestHybridGate_WithOwnershipPolicy(t *testing.T) {
	resolver := gate.NewStaticResolver[uint]()
	profile := gate.NewStaticProfile(1, "vendedor",
		gate.NewPermission("purchase", gate.ActionView),
	)
	resolver.Set(1, profile)
	resolver.Set(2, profile)

	g := gate.NewHybridGate[uint](resolver)
	g.Register("purchase", &mockOwnerPolicy{})

	resource := &mockResource{OwnerID: 1}

	if !g.Can(context.Background(), 1, gate.ActionView, "purchase", resource) {
		t.Error("owner should be allowed")
	}
	if g.Can(context.Background(), 2, gate.ActionView, "purchase", resource) {
		t.Error("non-owner should be denied even with profile permission")
	}
}

func TestHybridGate_Authorize_Errors(t *testing.T) {
	resolver := gate.NewStaticResolver[uint]()
	g := gate.NewHybridGate[uint](resolver)

	if err := g.Authorize(context.Background(), 1, gate.ActionView, "vehicle", nil); err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHybridGate_CanProfile(t *testing.T) {
	resolver := gate.NewStaticResolver[uint]()
	profile := gate.NewStaticProfile(1, "vendedor",
		gate.NewPermission("vehicle", gate.ActionView),
	)
	resolver.Set(1, profile)

	g := gate.NewHybridGate[uint](resolver)
	g.Register("purchase", &mockOwnerPolicy{})

	if !g.CanProfile(context.Background(), 1, gate.ActionView, "vehicle") {
		t.Error("CanProfile should return true for user with permission")
	}
	if g.CanProfile(context.Background(), 1, gate.ActionDelete, "vehicle") {
		t.Error("CanProfile should return false for missing permission")
	}
}

func TestCachedResolver_CachesAndInvalidates(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	inner.Set(1, gate.NewStaticProfile(1, "administrador", gate.PermissionSuperAdmin))

	cached := gate.NewCachedResolver[uint](inner, 5*time.Minute)

	p, err := cached.Resolve(context.Background(), 1)
	if err != nil || p == nil {
		t.Fatalf("first resolve: %v %v", p, err)
	}

	// Change the underlying assignment; the cache must keep serving the old
	// profile until invalidated.
	inner.Set(1, nil)
	p, _ = cached.Resolve(context.Background(), 1)
	if p == nil {
		t.Fatal("expected cached profile to be served")
	}

	cached.Invalidate(1)
	p, _ = cached.Resolve(context.Background(), 1)
	if p != nil {
		t.Fatal("expected invalidated entry to be re-resolved")
	}
}
