package usecase

import (
	"context"
	"time"

	"famdo/model"
)

// Store interfaces implemented by the Mongo repositories. Lookups return
// (nil, nil) when the document is absent; services decide how absence maps
// onto the error kinds.

type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUser(ctx context.Context, userID string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	SetUserFamily(ctx context.Context, userID, familyID string) error
	ClearUserFamily(ctx context.Context, userID string) error
}

type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	FindTodo(ctx context.Context, todoID string) (*model.Todo, error)
	FindTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error)
	// FindTodosDueBetween matches due_date in [from, to), sorted ascending.
	FindTodosDueBetween(ctx context.Context, ownerID string, from, to time.Time) ([]*model.Todo, error)
	FindTodosByDayOfWeek(ctx context.Context, ownerID string, dayOfWeek int) ([]*model.Todo, error)
	FindTodosSharedWith(ctx context.Context, userID string) ([]*model.Todo, error)
	ReplaceTodo(ctx context.Context, todo *model.Todo) error
	// SetTodoSharing replaces shared_with wholesale; allowEdit is only
	// written when non-nil.
	SetTodoSharing(ctx context.Context, todoID string, sharedWith []string, allowEdit *bool) error
	// PullSharedUser strips userID from shared_with on every todo owned by
	// ownerID, as an atomic $pull.
	PullSharedUser(ctx context.Context, ownerID, userID string) error
	DeleteTodo(ctx context.Context, todoID, ownerID string) error
}

type RelationshipStore interface {
	// CreateRelationship returns ErrConflict when the unique (user,
	// family_member) index rejects the insert.
	CreateRelationship(ctx context.Context, rel *model.Relationship) error
	FindRelationship(ctx context.Context, relationshipID string) (*model.Relationship, error)
	// FindRelationshipBetween matches either direction of the pair.
	FindRelationshipBetween(ctx context.Context, userID, otherID string) (*model.Relationship, error)
	UpdateRelationshipStatus(ctx context.Context, relationshipID string, status model.RelationshipStatus) error
	ListPendingFor(ctx context.Context, userID string) ([]*model.Relationship, error)
	ListAcceptedFor(ctx context.Context, userID string) ([]*model.Relationship, error)
	// DeleteAcceptedBetween removes the accepted relationship in either
	// direction and reports how many documents went away.
	DeleteAcceptedBetween(ctx context.Context, userID, otherID string) (int64, error)
}

type FamilyStore interface {
	CreateFamily(ctx context.Context, family *model.Family) error
	FindFamily(ctx context.Context, familyID string) (*model.Family, error)
	AddFamilyMember(ctx context.Context, familyID, userID string) error
	RemoveFamilyMember(ctx context.Context, familyID, userID string) error
	DeleteFamily(ctx context.Context, familyID string) error
}
