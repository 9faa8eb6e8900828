package service

import (
	"context"
	"errors"
	"testing"

	"github.com/streetfare/booking-api/internal/core/domain"
)

func TestIdentityService_Resolve_GateStates(t *testing.T) {
	profiles := newStubProfileRepo(
		&domain.Profile{ID: "p_waiting", Role: domain.RoleNone, FullName: "Waiting User"},
		&domain.Profile{ID: "p_owner", Role: domain.RoleTruckOwner, FullName: "Owner User"},
	)
	svc := NewIdentityService(profiles, discardLogger)
	ctx := context.Background()

	// No principal: nothing resolved.
	id, err := svc.Resolve(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Principal != "" || id.ProfileExists {
		t.Errorf("empty principal must resolve to the empty identity, got %+v", id)
	}

	// Principal without a profile row.
	id, err = svc.Resolve(ctx, "p_missing")
	if err != nil {
		t.Fatalf("missing profile must not error: %v", err)
	}
	if id.ProfileExists {
		t.Error("missing profile must report ProfileExists=false")
	}
	if id.Principal != "p_missing" {
		t.Errorf("principal must be echoed, got %q", id.Principal)
	}

	// Profile without a role: the waiting state.
	id, err = svc.Resolve(ctx, "p_waiting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.ProfileExists || id.Role != domain.RoleNone {
		t.Errorf("waiting profile must exist with no role, got %+v", id)
	}

	// Profile with an assigned role.
	id, err = svc.Resolve(ctx, "p_owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Role != domain.RoleTruckOwner || id.DisplayName != "Owner User" {
		t.Errorf("assigned profile resolved wrong: %+v", id)
	}
}

func TestIdentityService_AssignRole(t *testing.T) {
	profiles := newStubProfileRepo(&domain.Profile{ID: "p1", Role: domain.RoleNone})
	svc := NewIdentityService(profiles, discardLogger)
	ctx := context.Background()
	admin := adminCaller()

	if err := svc.AssignRole(ctx, admin, "p1", domain.RoleBusinessOwner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := profiles.FindByID(ctx, "p1")
	if p.Role != domain.RoleBusinessOwner {
		t.Errorf("role = %q, want business_owner", p.Role)
	}

	// Assigning the empty role revokes access.
	if err := svc.AssignRole(ctx, admin, "p1", domain.RoleNone); err != nil {
		t.Fatalf("revoke must be allowed: %v", err)
	}
	p, _ = profiles.FindByID(ctx, "p1")
	if p.Role != domain.RoleNone {
		t.Errorf("role = %q, want revoked", p.Role)
	}
}

func TestIdentityService_AssignRole_Rejections(t *testing.T) {
	profiles := newStubProfileRepo(&domain.Profile{ID: "p1"})
	svc := NewIdentityService(profiles, discardLogger)
	ctx := context.Background()

	err := svc.AssignRole(ctx, truckCaller("owner_1"), "p1", domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin must be forbidden, got %v", err)
	}

	err = svc.AssignRole(ctx, adminCaller(), "p1", "superuser")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown role must be rejected, got %v", err)
	}

	err = svc.AssignRole(ctx, adminCaller(), "p_missing", domain.RoleAdmin)
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("missing profile must 404, got %v", err)
	}
}

func TestIdentityService_ListUsers_AdminOnly(t *testing.T) {
	profiles := newStubProfileRepo(
		&domain.Profile{ID: "p1"},
		&domain.Profile{ID: "p2"},
	)
	svc := NewIdentityService(profiles, discardLogger)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx, adminCaller())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	_, err = svc.ListUsers(ctx, businessCaller("biz_1"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin must be forbidden, got %v", err)
	}
}
