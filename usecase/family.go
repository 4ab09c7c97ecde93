package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"famdo/model"

	"github.com/google/uuid"
)

// FamilyService manages the group sharing model: one family per user, one
// admin per family.
type FamilyService struct {
	families FamilyStore
	users    UserStore
}

func NewFamilyService(families FamilyStore, users UserStore) *FamilyService {
	return &FamilyService{families: families, users: users}
}

// CreateFamily creates a family with the creator as sole admin and member.
func (svc *FamilyService) CreateFamily(ctx context.Context, creatorID, name string) (*model.Family, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: family name is required", ErrInvalidOperation)
	}

	creator, err := svc.users.FindUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if creator.FamilyID != "" {
		return nil, fmt.Errorf("%w: you already belong to a family", ErrInvalidOperation)
	}

	now := time.Now()
	family := &model.Family{
		FamilyID:  uuid.New().String(),
		Name:      strings.TrimSpace(name),
		AdminID:   creatorID,
		MemberIDs: []string{creatorID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.families.CreateFamily(ctx, family); err != nil {
		return nil, err
	}
	if err := svc.users.SetUserFamily(ctx, creatorID, family.FamilyID); err != nil {
		return nil, err
	}
	return family, nil
}

// GetFamily returns the requester's family with member records for display.
func (svc *FamilyService) GetFamily(ctx context.Context, requesterID string) (*model.Family, []*model.User, error) {
	user, err := svc.users.FindUser(ctx, requesterID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.FamilyID == "" {
		return nil, nil, fmt.Errorf("%w: family", ErrNotFound)
	}

	family, err := svc.families.FindFamily(ctx, user.FamilyID)
	if err != nil {
		return nil, nil, err
	}
	if family == nil {
		return nil, nil, fmt.Errorf("%w: family", ErrNotFound)
	}

	members := make([]*model.User, 0, len(family.MemberIDs))
	for _, memberID := range family.MemberIDs {
		member, err := svc.users.FindUser(ctx, memberID)
		if err != nil {
			return nil, nil, err
		}
		if member != nil {
			members = append(members, member)
		}
	}
	return family, members, nil
}

// AddMember adds a user, looked up by username, to the family. Admin only;
// the target must not belong to any family yet.
func (svc *FamilyService) AddMember(ctx context.Context, requesterID, familyID, username string) (*model.Family, error) {
	family, err := svc.families.FindFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, fmt.Errorf("%w: family", ErrNotFound)
	}
	if family.AdminID != requesterID {
		return nil, fmt.Errorf("%w: only the family admin can add members", ErrForbidden)
	}

	target, err := svc.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if target.FamilyID != "" {
		return nil, fmt.Errorf("%w: user already belongs to a family", ErrConflict)
	}
	if family.HasMember(target.UserID) {
		return nil, fmt.Errorf("%w: user is already a member of this family", ErrConflict)
	}

	if err := svc.families.AddFamilyMember(ctx, familyID, target.UserID); err != nil {
		return nil, err
	}
	if err := svc.users.SetUserFamily(ctx, target.UserID, familyID); err != nil {
		return nil, err
	}

	family.MemberIDs = append(family.MemberIDs, target.UserID)
	family.UpdatedAt = time.Now()
	return family, nil
}

// DeleteFamily disbands the family, clearing every member's membership.
// Admin only; this is the admin's exit path, since admins cannot be
// removed as members.
func (svc *FamilyService) DeleteFamily(ctx context.Context, requesterID, familyID string) error {
	family, err := svc.families.FindFamily(ctx, familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return fmt.Errorf("%w: family", ErrNotFound)
	}
	if family.AdminID != requesterID {
		return fmt.Errorf("%w: only the family admin can delete the family", ErrForbidden)
	}

	for _, memberID := range family.MemberIDs {
		if err := svc.users.ClearUserFamily(ctx, memberID); err != nil {
			return err
		}
	}
	return svc.families.DeleteFamily(ctx, familyID)
}

// RemoveMember removes a member from the family. Admin only; the admin
// itself is never removable.
func (svc *FamilyService) RemoveMember(ctx context.Context, requesterID, familyID, targetID string) (*model.Family, error) {
	family, err := svc.families.FindFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, fmt.Errorf("%w: family", ErrNotFound)
	}
	if family.AdminID != requesterID {
		return nil, fmt.Errorf("%w: only the family admin can remove members", ErrForbidden)
	}
	if family.AdminID == targetID {
		return nil, fmt.Errorf("%w: cannot remove the family admin", ErrInvalidOperation)
	}
	if !family.HasMember(targetID) {
		return nil, fmt.Errorf("%w: user is not a member of this family", ErrInvalidOperation)
	}

	if err := svc.families.RemoveFamilyMember(ctx, familyID, targetID); err != nil {
		return nil, err
	}
	if err := svc.users.ClearUserFamily(ctx, targetID); err != nil {
		return nil, err
	}

	remaining := family.MemberIDs[:0]
	for _, id := range family.MemberIDs {
		if id != targetID {
			remaining = append(remaining, id)
		}
	}
	family.MemberIDs = remaining
	family.UpdatedAt = time.Now()
	return family, nil
}
