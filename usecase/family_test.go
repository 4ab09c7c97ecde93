package usecase

import (
	"context"
	"errors"
	"testing"

	"famdo/model"

	"github.com/google/uuid"
)

func newFamilyFixture(t *testing.T) (*FamilyService, *fakeFamilyStore, *fakeUserStore, *model.User, *model.User) {
	t.Helper()
	families := newFakeFamilyStore()
	users := newFakeUserStore()
	svc := NewFamilyService(families, users)

	ctx := context.Background()
	admin := &model.User{UserID: uuid.New().String(), Username: "mom"}
	kid := &model.User{UserID: uuid.New().String(), Username: "kid"}
	for _, u := range []*model.User{admin, kid} {
		if err := users.AddUser(ctx, u); err != nil {
			t.Fatalf("seeding user: %v", err)
		}
	}
	return svc, families, users, admin, kid
}

func TestCreateFamily(t *testing.T) {
	ctx := context.Background()

	t.Run("Creator Is Sole Admin And Member", func(t *testing.T) {
		svc, _, users, admin, _ := newFamilyFixture(t)

		family, err := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if family.AdminID != admin.UserID {
			t.Errorf("admin = %q, want creator", family.AdminID)
		}
		if len(family.MemberIDs) != 1 || family.MemberIDs[0] != admin.UserID {
			t.Errorf("members = %v, want just the creator", family.MemberIDs)
		}

		stored, _ := users.FindUser(ctx, admin.UserID)
		if stored.FamilyID != family.FamilyID {
			t.Error("creator's family_id must point at the new family")
		}
	})

	t.Run("Blank Name Rejected", func(t *testing.T) {
		svc, _, _, admin, _ := newFamilyFixture(t)
		if _, err := svc.CreateFamily(ctx, admin.UserID, "  "); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("Second Family Rejected", func(t *testing.T) {
		svc, _, _, admin, _ := newFamilyFixture(t)
		if _, err := svc.CreateFamily(ctx, admin.UserID, "First"); err != nil {
			t.Fatalf("first create: %v", err)
		}
		if _, err := svc.CreateFamily(ctx, admin.UserID, "Second"); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin Adds By Username", func(t *testing.T) {
		svc, families, users, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")

		updated, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.HasMember(kid.UserID) {
			t.Error("kid should be in the member list")
		}

		storedFamily, _ := families.FindFamily(ctx, family.FamilyID)
		if !storedFamily.HasMember(kid.UserID) {
			t.Error("membership must be persisted")
		}
		storedKid, _ := users.FindUser(ctx, kid.UserID)
		if storedKid.FamilyID != family.FamilyID {
			t.Error("kid's family_id must be set")
		}
	})

	t.Run("Non Admin Is Forbidden", func(t *testing.T) {
		svc, _, users, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if _, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username); err != nil {
			t.Fatalf("adding kid: %v", err)
		}

		other := &model.User{UserID: uuid.New().String(), Username: "cousin"}
		if err := users.AddUser(ctx, other); err != nil {
			t.Fatalf("seeding cousin: %v", err)
		}

		_, err := svc.AddMember(ctx, kid.UserID, family.FamilyID, other.Username)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("Unknown Username", func(t *testing.T) {
		svc, _, _, admin, _ := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")

		_, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, "ghost")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("User In Another Family Conflicts", func(t *testing.T) {
		svc, _, _, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		otherFamily, err := svc.CreateFamily(ctx, kid.UserID, "The Kids")
		if err != nil {
			t.Fatalf("kid's family: %v", err)
		}
		_ = otherFamily

		_, err = svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username)
		if !errors.Is(err, ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})

	t.Run("Adding Twice Conflicts", func(t *testing.T) {
		svc, _, _, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if _, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username); err != nil {
			t.Fatalf("first add: %v", err)
		}

		_, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username)
		if !errors.Is(err, ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin Removes Member", func(t *testing.T) {
		svc, _, users, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if _, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username); err != nil {
			t.Fatalf("add: %v", err)
		}

		updated, err := svc.RemoveMember(ctx, admin.UserID, family.FamilyID, kid.UserID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.HasMember(kid.UserID) {
			t.Error("kid should be removed from the member list")
		}

		storedKid, _ := users.FindUser(ctx, kid.UserID)
		if storedKid.FamilyID != "" {
			t.Error("kid's family_id must be cleared")
		}
	})

	t.Run("Non Admin Is Forbidden", func(t *testing.T) {
		svc, _, _, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if _, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username); err != nil {
			t.Fatalf("add: %v", err)
		}

		_, err := svc.RemoveMember(ctx, kid.UserID, family.FamilyID, admin.UserID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("Admin Is Not Removable", func(t *testing.T) {
		svc, _, _, admin, _ := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")

		_, err := svc.RemoveMember(ctx, admin.UserID, family.FamilyID, admin.UserID)
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("Non Member Cannot Be Removed", func(t *testing.T) {
		svc, _, _, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")

		_, err := svc.RemoveMember(ctx, admin.UserID, family.FamilyID, kid.UserID)
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})
}

func TestDeleteFamily(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin Disbands Family", func(t *testing.T) {
		svc, families, users, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if _, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username); err != nil {
			t.Fatalf("add: %v", err)
		}

		if err := svc.DeleteFamily(ctx, admin.UserID, family.FamilyID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if stored, _ := families.FindFamily(ctx, family.FamilyID); stored != nil {
			t.Error("family document should be gone")
		}
		for _, u := range []*model.User{admin, kid} {
			stored, _ := users.FindUser(ctx, u.UserID)
			if stored.FamilyID != "" {
				t.Errorf("%s's family_id must be cleared", stored.Username)
			}
		}
	})

	t.Run("Non Admin Is Forbidden", func(t *testing.T) {
		svc, _, _, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if _, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username); err != nil {
			t.Fatalf("add: %v", err)
		}

		if err := svc.DeleteFamily(ctx, kid.UserID, family.FamilyID); !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("Unknown Family", func(t *testing.T) {
		svc, _, _, admin, _ := newFamilyFixture(t)
		if err := svc.DeleteFamily(ctx, admin.UserID, uuid.New().String()); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestGetFamily(t *testing.T) {
	ctx := context.Background()

	t.Run("Members Resolved", func(t *testing.T) {
		svc, _, _, admin, kid := newFamilyFixture(t)
		family, _ := svc.CreateFamily(ctx, admin.UserID, "The Does")
		if _, err := svc.AddMember(ctx, admin.UserID, family.FamilyID, kid.Username); err != nil {
			t.Fatalf("add: %v", err)
		}

		got, members, err := svc.GetFamily(ctx, kid.UserID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.FamilyID != family.FamilyID {
			t.Errorf("family = %q, want %q", got.FamilyID, family.FamilyID)
		}
		if len(members) != 2 {
			t.Errorf("members = %d, want 2", len(members))
		}
	})

	t.Run("No Family", func(t *testing.T) {
		svc, _, _, admin, _ := newFamilyFixture(t)
		_, _, err := svc.GetFamily(ctx, admin.UserID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
