package usecase

import (
	"context"
	"fmt"
	"time"

	"famdo/model"

	"github.com/google/uuid"
)

// RelationshipsService manages the pairwise invitation lifecycle: a
// directed invite that the invitee accepts or rejects, and the cleanup
// when an accepted relationship is removed.
type RelationshipsService struct {
	relationships RelationshipStore
	users         UserStore
	todos         TodoStore
}

func NewRelationshipsService(relationships RelationshipStore, users UserStore, todos TodoStore) *RelationshipsService {
	return &RelationshipsService{relationships: relationships, users: users, todos: todos}
}

// Invite creates a pending relationship towards the user holding the given
// email. An existing relationship in either direction blocks the invite and
// reports its current status; a rejected one therefore blocks forever.
func (svc *RelationshipsService) Invite(ctx context.Context, inviterID, inviteeEmail string) (*model.Relationship, error) {
	invitee, err := svc.users.FindUserByEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, fmt.Errorf("%w: no user with that email", ErrNotFound)
	}
	if invitee.UserID == inviterID {
		return nil, fmt.Errorf("%w: cannot invite yourself", ErrInvalidOperation)
	}

	existing, err := svc.relationships.FindRelationshipBetween(ctx, inviterID, invitee.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: relationship already exists with status %q", ErrConflict, existing.Status)
	}

	now := time.Now()
	rel := &model.Relationship{
		RelationshipID: uuid.New().String(),
		UserID:         inviterID,
		FamilyMemberID: invitee.UserID,
		Status:         model.RelationshipPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// The unique index on (user_id, family_member_id) backstops a racing
	// duplicate invite; the store reports it as ErrConflict.
	if err := svc.relationships.CreateRelationship(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// Respond settles a pending invitation. Only the invitee may respond, only
// while pending, and only with accepted or rejected; there is no reversal
// path afterwards.
func (svc *RelationshipsService) Respond(ctx context.Context, inviteeID, relationshipID string, action model.RelationshipStatus) (*model.Relationship, error) {
	if action != model.RelationshipAccepted && action != model.RelationshipRejected {
		return nil, fmt.Errorf("%w: action must be accepted or rejected", ErrInvalidOperation)
	}

	rel, err := svc.relationships.FindRelationship(ctx, relationshipID)
	if err != nil {
		return nil, err
	}
	if rel == nil || rel.FamilyMemberID != inviteeID || rel.Status != model.RelationshipPending {
		return nil, fmt.Errorf("%w: pending invitation", ErrNotFound)
	}

	if err := svc.relationships.UpdateRelationshipStatus(ctx, relationshipID, action); err != nil {
		return nil, err
	}
	rel.Status = action
	rel.UpdatedAt = time.Now()
	return rel, nil
}

// ListPending returns invitations awaiting the user's response, joined
// with the inviter's user record for display.
func (svc *RelationshipsService) ListPending(ctx context.Context, userID string) ([]*model.Relationship, map[string]*model.User, error) {
	rels, err := svc.relationships.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	inviters := make(map[string]*model.User, len(rels))
	for _, rel := range rels {
		if _, ok := inviters[rel.UserID]; ok {
			continue
		}
		inviter, err := svc.users.FindUser(ctx, rel.UserID)
		if err != nil {
			return nil, nil, err
		}
		if inviter != nil {
			inviters[rel.UserID] = inviter
		}
	}
	return rels, inviters, nil
}

// ListAccepted returns the user's accepted family members, normalized to
// the other party of each relationship.
func (svc *RelationshipsService) ListAccepted(ctx context.Context, userID string) ([]*model.User, error) {
	rels, err := svc.relationships.ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	members := make([]*model.User, 0, len(rels))
	for _, rel := range rels {
		member, err := svc.users.FindUser(ctx, rel.OtherParty(userID))
		if err != nil {
			return nil, err
		}
		if member != nil {
			members = append(members, member)
		}
	}
	return members, nil
}

// Remove deletes the accepted relationship between the two users,
// whichever direction it was created in, then strips otherID from the
// shared_with set of every todo the remover owns. The other party's shared
// todos are deliberately left alone; the remover can no longer see them
// once the relationship is gone, and their owner keeps control of the
// stale entry.
func (svc *RelationshipsService) Remove(ctx context.Context, userID, otherID string) error {
	deleted, err := svc.relationships.DeleteAcceptedBetween(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: accepted relationship", ErrNotFound)
	}

	return svc.todos.PullSharedUser(ctx, userID, otherID)
}
