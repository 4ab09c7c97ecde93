package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"famdo/model"
	"famdo/utils"

	"github.com/google/uuid"
)

type TodosService struct {
	todos         TodoStore
	relationships RelationshipStore
	policy        SharingPolicy
}

func NewTodosService(todos TodoStore, relationships RelationshipStore, policy SharingPolicy) *TodosService {
	return &TodosService{todos: todos, relationships: relationships, policy: policy}
}

// Create Todo
func (svc *TodosService) CreateTodo(ctx context.Context, todo *model.Todo) error {
	if todo.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if strings.TrimSpace(todo.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidOperation)
	}
	if todo.DayOfWeek != 0 && (todo.DayOfWeek < 1 || todo.DayOfWeek > 7) {
		return fmt.Errorf("%w: day of week must be between 1 and 7", ErrInvalidOperation)
	}
	if todo.AccessLevel == "" {
		todo.AccessLevel = model.AccessPrivate
	}
	if err := validateAccessLevel(todo.AccessLevel); err != nil {
		return err
	}

	now := time.Now()
	if todo.TodoID == "" {
		todo.TodoID = uuid.New().String()
	}
	if todo.DueDate.IsZero() && todo.DayOfWeek == 0 {
		todo.DueDate = now
	}
	todo.CreatedAt = now
	todo.UpdatedAt = now
	// Sharing starts empty regardless of what the payload carried.
	todo.SharedWith = nil

	return svc.todos.CreateTodo(ctx, todo)
}

// GetTodo resolves a todo for a requester. Missing todos and todos the
// requester cannot view both come back as ErrNotFound.
func (svc *TodosService) GetTodo(ctx context.Context, requesterID, todoID string) (*model.Todo, model.Access, error) {
	todo, err := svc.todos.FindTodo(ctx, todoID)
	if err != nil {
		return nil, model.Access{}, err
	}
	if todo == nil {
		return nil, model.Access{}, fmt.Errorf("%w: todo", ErrNotFound)
	}

	access, err := svc.policy.Evaluate(ctx, requesterID, todo)
	if err != nil {
		return nil, model.Access{}, err
	}
	if !access.CanView {
		return nil, model.Access{}, fmt.Errorf("%w: todo", ErrNotFound)
	}
	return todo, access, nil
}

// EvaluateAccess exposes the raw policy decision for a todo the requester
// may or may not see.
func (svc *TodosService) EvaluateAccess(ctx context.Context, requesterID string, todo *model.Todo) (model.Access, error) {
	if todo == nil {
		return model.Access{}, fmt.Errorf("%w: todo", ErrNotFound)
	}
	return svc.policy.Evaluate(ctx, requesterID, todo)
}

// GetUserTodos returns the requester's own todos sorted by due date, with
// completed items last.
func (svc *TodosService) GetUserTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	todos, err := svc.todos.FindTodosByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(todos, func(i, j int) bool {
		if todos[i].Completed != todos[j].Completed {
			return !todos[i].Completed
		}
		if !todos[i].DueDate.Equal(todos[j].DueDate) {
			return todos[i].DueDate.Before(todos[j].DueDate)
		}
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})

	return todos, nil
}

// GetSharedTodos returns todos other users have shared with the requester
// (pairwise model).
func (svc *TodosService) GetSharedTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	return svc.todos.FindTodosSharedWith(ctx, userID)
}

// GetTodosByDate returns the requester's todos due within the given
// calendar day.
func (svc *TodosService) GetTodosByDate(ctx context.Context, userID string, day time.Time) ([]*model.Todo, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	return svc.todos.FindTodosDueBetween(ctx, userID, start, end)
}

// GetTodosByDay returns the requester's todos scheduled on a day of week
// (1=Monday .. 7=Sunday, group-model scheduling).
func (svc *TodosService) GetTodosByDay(ctx context.Context, userID string, dayOfWeek int) ([]*model.Todo, error) {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return nil, fmt.Errorf("%w: day of week must be between 1 and 7", ErrInvalidOperation)
	}
	return svc.todos.FindTodosByDayOfWeek(ctx, userID, dayOfWeek)
}

// ApplyUpdate applies a partial update on behalf of the requester. Owners
// update anything, including the sharing attributes; everyone else goes
// through the policy's field filter first.
func (svc *TodosService) ApplyUpdate(ctx context.Context, requesterID, todoID string, patch *model.TodoPatch) (*model.Todo, error) {
	todo, err := svc.todos.FindTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, fmt.Errorf("%w: todo", ErrNotFound)
	}

	access, err := svc.policy.Evaluate(ctx, requesterID, todo)
	if err != nil {
		return nil, err
	}
	if !access.CanView {
		return nil, fmt.Errorf("%w: todo", ErrNotFound)
	}
	if !access.CanEdit {
		utils.TrackAccessDenied("update")
		return nil, fmt.Errorf("%w: no edit rights on this todo", ErrForbidden)
	}

	if requesterID != todo.OwnerID {
		patch, err = svc.policy.FilterUpdate(requesterID, todo, patch)
		if err != nil {
			utils.TrackAccessDenied("update_fields")
			return nil, err
		}
	}

	if err := applyPatch(todo, patch); err != nil {
		return nil, err
	}
	todo.UpdatedAt = time.Now()

	if err := svc.todos.ReplaceTodo(ctx, todo); err != nil {
		return nil, err
	}
	if todo.Completed {
		utils.TrackTodoCompletion(todo.OwnerID)
	}
	return todo, nil
}

// ToggleComplete flips the completion flag, stamping or clearing the
// completion time.
func (svc *TodosService) ToggleComplete(ctx context.Context, requesterID, todoID string) (*model.Todo, error) {
	completed := new(bool)
	todo, err := svc.todos.FindTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, fmt.Errorf("%w: todo", ErrNotFound)
	}
	*completed = !todo.Completed
	return svc.ApplyUpdate(ctx, requesterID, todoID, &model.TodoPatch{Completed: completed})
}

// DeleteTodo removes a todo. Only the owner may delete, regardless of
// sharing state; a sharee who can see the todo gets ErrForbidden, anyone
// else ErrNotFound.
func (svc *TodosService) DeleteTodo(ctx context.Context, requesterID, todoID string) error {
	todo, err := svc.todos.FindTodo(ctx, todoID)
	if err != nil {
		return err
	}
	if todo == nil {
		return fmt.Errorf("%w: todo", ErrNotFound)
	}

	if todo.OwnerID != requesterID {
		access, err := svc.policy.Evaluate(ctx, requesterID, todo)
		if err != nil {
			return err
		}
		if !access.CanView {
			return fmt.Errorf("%w: todo", ErrNotFound)
		}
		utils.TrackAccessDenied("delete")
		return fmt.Errorf("%w: only the owner can delete a todo", ErrForbidden)
	}

	return svc.todos.DeleteTodo(ctx, todoID, requesterID)
}

// ShareTodo replaces the todo's shared_with set wholesale (pairwise model).
// Every target must hold an accepted relationship with the owner; a single
// bad id fails the whole call.
func (svc *TodosService) ShareTodo(ctx context.Context, ownerID, todoID string, targetIDs []string, allowEdit *bool) (*model.Todo, error) {
	todo, err := svc.todos.FindTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}
	if todo == nil || todo.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: todo", ErrNotFound)
	}

	targets := dedupe(targetIDs)
	var rejected []string
	for _, targetID := range targets {
		if targetID == ownerID {
			rejected = append(rejected, targetID)
			continue
		}
		rel, err := svc.relationships.FindRelationshipBetween(ctx, ownerID, targetID)
		if err != nil {
			return nil, err
		}
		if rel == nil || rel.Status != model.RelationshipAccepted {
			rejected = append(rejected, targetID)
		}
	}
	if len(rejected) > 0 {
		return nil, fmt.Errorf("%w: no accepted relationship with: %s",
			ErrInvalidOperation, strings.Join(rejected, ", "))
	}

	if err := svc.todos.SetTodoSharing(ctx, todoID, targets, allowEdit); err != nil {
		return nil, err
	}

	todo.SharedWith = targets
	if allowEdit != nil {
		todo.AllowEdit = *allowEdit
	}
	todo.UpdatedAt = time.Now()
	return todo, nil
}

// GetUserStats summarizes the requester's todos for the profile view.
func (svc *TodosService) GetUserStats(ctx context.Context, userID string) (*model.TodoStats, error) {
	todos, err := svc.todos.FindTodosByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats := &model.TodoStats{Total: len(todos)}
	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
		} else {
			stats.Pending++
			if !todo.DueDate.IsZero() && todo.DueDate.Before(now) {
				stats.Overdue++
			}
		}
		if !todo.DueDate.IsZero() && !todo.DueDate.Before(today) && todo.DueDate.Before(today.Add(24*time.Hour)) {
			stats.DueToday++
		}
		if len(todo.SharedWith) > 0 || todo.FamilyAccess {
			stats.Shared++
		}
	}
	return stats, nil
}

func applyPatch(todo *model.Todo, patch *model.TodoPatch) error {
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalidOperation)
		}
		todo.Title = *patch.Title
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
		if todo.Completed {
			if patch.CompletedAt != nil {
				todo.CompletedAt = *patch.CompletedAt
			} else {
				todo.CompletedAt = time.Now()
			}
		} else {
			todo.CompletedAt = time.Time{}
		}
	} else if patch.CompletedAt != nil {
		todo.CompletedAt = *patch.CompletedAt
	}
	if patch.DueDate != nil {
		todo.DueDate = *patch.DueDate
	}
	if patch.DayOfWeek != nil {
		if *patch.DayOfWeek < 1 || *patch.DayOfWeek > 7 {
			return fmt.Errorf("%w: day of week must be between 1 and 7", ErrInvalidOperation)
		}
		todo.DayOfWeek = *patch.DayOfWeek
	}
	if patch.IsRecurring != nil {
		todo.IsRecurring = *patch.IsRecurring
	}
	if patch.SharedWith != nil {
		todo.SharedWith = dedupe(*patch.SharedWith)
	}
	if patch.AllowEdit != nil {
		todo.AllowEdit = *patch.AllowEdit
	}
	if patch.FamilyAccess != nil {
		todo.FamilyAccess = *patch.FamilyAccess
	}
	if patch.AccessLevel != nil {
		if err := validateAccessLevel(*patch.AccessLevel); err != nil {
			return err
		}
		todo.AccessLevel = *patch.AccessLevel
	}
	return nil
}

func validateAccessLevel(level model.AccessLevel) error {
	switch level {
	case model.AccessPrivate, model.AccessView, model.AccessEdit:
		return nil
	default:
		return fmt.Errorf("%w: invalid access level %q", ErrInvalidOperation, level)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
