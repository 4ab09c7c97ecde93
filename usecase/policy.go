package usecase

import (
	"context"
	"fmt"

	"famdo/model"
)

// SharingPolicy decides what a requester may do with a todo and which parts
// of an update payload survive when the requester is not the owner. The two
// implementations cover the two sharing models; one is selected at service
// construction via NewSharingPolicy.
type SharingPolicy interface {
	Evaluate(ctx context.Context, requesterID string, todo *model.Todo) (model.Access, error)
	// FilterUpdate narrows a non-owner editor's patch to the fields the
	// model allows. Disallowed fields are silently discarded; a patch left
	// empty by the filter fails with ErrForbidden. Owner patches must not
	// be passed through here.
	FilterUpdate(requesterID string, todo *model.Todo, patch *model.TodoPatch) (*model.TodoPatch, error)
}

const (
	ModelPairwise    = "pairwise"
	ModelFamilyGroup = "family"
)

// NewSharingPolicy selects the sharing model by name.
func NewSharingPolicy(mode string, users UserStore) (SharingPolicy, error) {
	switch mode {
	case ModelPairwise:
		return PairwiseSharing{}, nil
	case ModelFamilyGroup:
		return FamilyGroupSharing{Users: users}, nil
	default:
		return nil, fmt.Errorf("unknown sharing model %q", mode)
	}
}

// PairwiseSharing grants access through the todo's shared_with set. The
// owner always has full access; anyone else sees the todo only when listed,
// and edits only when allow_edit is set.
type PairwiseSharing struct{}

func (PairwiseSharing) Evaluate(ctx context.Context, requesterID string, todo *model.Todo) (model.Access, error) {
	if todo.OwnerID == requesterID {
		return model.Access{CanView: true, CanEdit: true}, nil
	}
	if todo.IsSharedWith(requesterID) {
		return model.Access{CanView: true, CanEdit: todo.AllowEdit}, nil
	}
	return model.Access{}, nil
}

func (PairwiseSharing) FilterUpdate(requesterID string, todo *model.Todo, patch *model.TodoPatch) (*model.TodoPatch, error) {
	// A sharee with edit rights may change content fields. Sharing
	// attributes stay owner-only.
	filtered := &model.TodoPatch{
		Title:       patch.Title,
		Description: patch.Description,
		Completed:   patch.Completed,
		CompletedAt: patch.CompletedAt,
		DueDate:     patch.DueDate,
		DayOfWeek:   patch.DayOfWeek,
		IsRecurring: patch.IsRecurring,
	}
	if filtered.IsEmpty() {
		return nil, fmt.Errorf("%w: no editable fields in update", ErrForbidden)
	}
	return filtered, nil
}

// FamilyGroupSharing grants access to members of the owner's family when the
// todo has family_access set, bounded by the todo's access level.
type FamilyGroupSharing struct {
	Users UserStore
}

func (p FamilyGroupSharing) Evaluate(ctx context.Context, requesterID string, todo *model.Todo) (model.Access, error) {
	if todo.OwnerID == requesterID {
		return model.Access{CanView: true, CanEdit: true}, nil
	}
	if !todo.FamilyAccess {
		return model.Access{}, nil
	}

	owner, err := p.Users.FindUser(ctx, todo.OwnerID)
	if err != nil {
		return model.Access{}, err
	}
	requester, err := p.Users.FindUser(ctx, requesterID)
	if err != nil {
		return model.Access{}, err
	}
	if owner == nil || requester == nil {
		return model.Access{}, nil
	}
	if owner.FamilyID == "" || requester.FamilyID == "" || owner.FamilyID != requester.FamilyID {
		return model.Access{}, nil
	}

	switch todo.AccessLevel {
	case model.AccessView:
		return model.Access{CanView: true}, nil
	case model.AccessEdit:
		return model.Access{CanView: true, CanEdit: true}, nil
	default:
		return model.Access{}, nil
	}
}

func (FamilyGroupSharing) FilterUpdate(requesterID string, todo *model.Todo, patch *model.TodoPatch) (*model.TodoPatch, error) {
	// Family members with edit rights may only complete a todo or touch
	// its description. Everything else in the payload is dropped.
	filtered := &model.TodoPatch{
		Completed:   patch.Completed,
		CompletedAt: patch.CompletedAt,
		Description: patch.Description,
	}
	if filtered.IsEmpty() {
		return nil, fmt.Errorf("%w: no editable fields in update", ErrForbidden)
	}
	return filtered, nil
}
