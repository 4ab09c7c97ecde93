package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"famdo/model"

	"github.com/google/uuid"
)

func newPairwiseTodosService() (*TodosService, *fakeTodoStore, *fakeRelationshipStore) {
	todos := newFakeTodoStore()
	rels := newFakeRelationshipStore()
	svc := NewTodosService(todos, rels, PairwiseSharing{})
	return svc, todos, rels
}

func acceptRelationship(t *testing.T, rels *fakeRelationshipStore, a, b string) {
	t.Helper()
	err := rels.CreateRelationship(context.Background(), &model.Relationship{
		RelationshipID: uuid.New().String(),
		UserID:         a,
		FamilyMemberID: b,
		Status:         model.RelationshipAccepted,
	})
	if err != nil {
		t.Fatalf("seeding relationship: %v", err)
	}
}

func TestCreateTodo(t *testing.T) {
	svc, _, _ := newPairwiseTodosService()
	ctx := context.Background()
	ownerID := uuid.New().String()

	t.Run("Defaults Applied", func(t *testing.T) {
		todo := &model.Todo{OwnerID: ownerID, Title: "Buy milk"}
		if err := svc.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if todo.TodoID == "" {
			t.Error("expected generated todo ID")
		}
		if todo.DueDate.IsZero() {
			t.Error("expected default due date")
		}
		if todo.AccessLevel != model.AccessPrivate {
			t.Errorf("access level = %q, want private", todo.AccessLevel)
		}
	})

	t.Run("Title Required", func(t *testing.T) {
		err := svc.CreateTodo(ctx, &model.Todo{OwnerID: ownerID, Title: "   "})
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("Sharing Cleared On Create", func(t *testing.T) {
		todo := &model.Todo{OwnerID: ownerID, Title: "Secret", SharedWith: []string{"sneaky"}}
		if err := svc.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(todo.SharedWith) != 0 {
			t.Error("shared_with must start empty")
		}
	})

	t.Run("Invalid Day Of Week", func(t *testing.T) {
		err := svc.CreateTodo(ctx, &model.Todo{OwnerID: ownerID, Title: "Laundry", DayOfWeek: 9})
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})
}

func TestGetTodoMasksInaccessible(t *testing.T) {
	svc, todos, _ := newPairwiseTodosService()
	ctx := context.Background()
	ownerID := uuid.New().String()
	strangerID := uuid.New().String()

	todo := &model.Todo{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "Private plans"}
	if err := todos.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("seeding todo: %v", err)
	}

	t.Run("Owner Reads", func(t *testing.T) {
		got, access, err := svc.GetTodo(ctx, ownerID, todo.TodoID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TodoID != todo.TodoID || !access.CanEdit {
			t.Error("owner should read with edit access")
		}
	})

	t.Run("Stranger Gets NotFound", func(t *testing.T) {
		_, _, err := svc.GetTodo(ctx, strangerID, todo.TodoID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound (no resource confirmation)", err)
		}
	})

	t.Run("Missing Todo Gets NotFound", func(t *testing.T) {
		_, _, err := svc.GetTodo(ctx, ownerID, uuid.New().String())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestApplyUpdate(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New().String()
	shareeID := uuid.New().String()

	seed := func(t *testing.T, todos *fakeTodoStore, allowEdit bool) *model.Todo {
		t.Helper()
		todo := &model.Todo{
			TodoID:     uuid.New().String(),
			OwnerID:    ownerID,
			Title:      "Walk the dog",
			SharedWith: []string{shareeID},
			AllowEdit:  allowEdit,
		}
		if err := todos.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("seeding todo: %v", err)
		}
		return todo
	}

	t.Run("Owner Updates Everything", func(t *testing.T) {
		svc, todos, _ := newPairwiseTodosService()
		todo := seed(t, todos, false)

		title := "Walk both dogs"
		allowEdit := true
		updated, err := svc.ApplyUpdate(ctx, ownerID, todo.TodoID, &model.TodoPatch{
			Title:     &title,
			AllowEdit: &allowEdit,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Title != title || !updated.AllowEdit {
			t.Errorf("updated = %+v, want title and allow_edit applied", updated)
		}
	})

	t.Run("View Only Sharee Is Forbidden", func(t *testing.T) {
		svc, todos, _ := newPairwiseTodosService()
		todo := seed(t, todos, false)

		title := "Hijacked"
		_, err := svc.ApplyUpdate(ctx, shareeID, todo.TodoID, &model.TodoPatch{Title: &title})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("Editing Sharee Changes Content Not Sharing", func(t *testing.T) {
		svc, todos, _ := newPairwiseTodosService()
		todo := seed(t, todos, true)

		completed := true
		allowEdit := false
		updated, err := svc.ApplyUpdate(ctx, shareeID, todo.TodoID, &model.TodoPatch{
			Completed: &completed,
			AllowEdit: &allowEdit,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.Completed {
			t.Error("completed change should have applied")
		}
		if updated.CompletedAt.IsZero() {
			t.Error("completion timestamp should be set")
		}
		if !updated.AllowEdit {
			t.Error("sharee must not be able to flip allow_edit")
		}
	})

	t.Run("Sharing Only Patch From Sharee Is Forbidden", func(t *testing.T) {
		svc, todos, _ := newPairwiseTodosService()
		todo := seed(t, todos, true)

		shared := []string{"other"}
		_, err := svc.ApplyUpdate(ctx, shareeID, todo.TodoID, &model.TodoPatch{SharedWith: &shared})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("Stranger Gets NotFound", func(t *testing.T) {
		svc, todos, _ := newPairwiseTodosService()
		todo := seed(t, todos, true)

		title := "Nope"
		_, err := svc.ApplyUpdate(ctx, uuid.New().String(), todo.TodoID, &model.TodoPatch{Title: &title})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Uncompleting Clears Timestamp", func(t *testing.T) {
		svc, todos, _ := newPairwiseTodosService()
		todo := seed(t, todos, false)
		todo.Completed = true
		todo.CompletedAt = time.Now()
		if err := todos.ReplaceTodo(ctx, todo); err != nil {
			t.Fatalf("seeding completion: %v", err)
		}

		completed := false
		updated, err := svc.ApplyUpdate(ctx, ownerID, todo.TodoID, &model.TodoPatch{Completed: &completed})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Completed || !updated.CompletedAt.IsZero() {
			t.Errorf("updated = %+v, want completion cleared", updated)
		}
	})
}

func TestFamilyModelUpdateFiltering(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	todos := newFakeTodoStore()
	rels := newFakeRelationshipStore()

	familyID := uuid.New().String()
	owner := &model.User{UserID: uuid.New().String(), Username: "parent", FamilyID: familyID}
	member := &model.User{UserID: uuid.New().String(), Username: "kid", FamilyID: familyID}
	users.AddUser(ctx, owner)
	users.AddUser(ctx, member)

	svc := NewTodosService(todos, rels, FamilyGroupSharing{Users: users})

	todo := &model.Todo{
		TodoID:       uuid.New().String(),
		OwnerID:      owner.UserID,
		Title:        "Clean the kitchen",
		FamilyAccess: true,
		AccessLevel:  model.AccessEdit,
	}
	if err := todos.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("seeding todo: %v", err)
	}

	t.Run("Member Completes", func(t *testing.T) {
		completed := true
		updated, err := svc.ApplyUpdate(ctx, member.UserID, todo.TodoID, &model.TodoPatch{Completed: &completed})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.Completed {
			t.Error("member with edit level should complete the todo")
		}
	})

	t.Run("Member Title Mutation Dropped", func(t *testing.T) {
		title := "Hijacked"
		completed := false
		updated, err := svc.ApplyUpdate(ctx, member.UserID, todo.TodoID, &model.TodoPatch{
			Title:     &title,
			Completed: &completed,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Title != "Clean the kitchen" {
			t.Errorf("title = %q, member edits must not rename", updated.Title)
		}
	})

	t.Run("Member Title Only Patch Forbidden", func(t *testing.T) {
		title := "Hijacked again"
		_, err := svc.ApplyUpdate(ctx, member.UserID, todo.TodoID, &model.TodoPatch{Title: &title})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})
}

func TestDeleteTodo(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New().String()
	shareeID := uuid.New().String()

	svc, todos, _ := newPairwiseTodosService()
	todo := &model.Todo{
		TodoID:     uuid.New().String(),
		OwnerID:    ownerID,
		Title:      "Pay bills",
		SharedWith: []string{shareeID},
		AllowEdit:  true,
	}
	if err := todos.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("seeding todo: %v", err)
	}

	t.Run("Editing Sharee Cannot Delete", func(t *testing.T) {
		err := svc.DeleteTodo(ctx, shareeID, todo.TodoID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("Stranger Gets NotFound", func(t *testing.T) {
		err := svc.DeleteTodo(ctx, uuid.New().String(), todo.TodoID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Owner Deletes", func(t *testing.T) {
		if err := svc.DeleteTodo(ctx, ownerID, todo.TodoID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, _ := todos.FindTodo(ctx, todo.TodoID)
		if got != nil {
			t.Error("todo should be gone")
		}
	})
}

func TestShareTodo(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New().String()
	friendID := uuid.New().String()
	pendingID := uuid.New().String()
	strangerID := uuid.New().String()

	newSeeded := func(t *testing.T) (*TodosService, *fakeTodoStore, *model.Todo) {
		t.Helper()
		svc, todos, rels := newPairwiseTodosService()
		acceptRelationship(t, rels, ownerID, friendID)
		if err := rels.CreateRelationship(ctx, &model.Relationship{
			RelationshipID: uuid.New().String(),
			UserID:         ownerID,
			FamilyMemberID: pendingID,
			Status:         model.RelationshipPending,
		}); err != nil {
			t.Fatalf("seeding pending relationship: %v", err)
		}
		todo := &model.Todo{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "Plan trip"}
		if err := todos.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("seeding todo: %v", err)
		}
		return svc, todos, todo
	}

	t.Run("Share With Accepted Friend", func(t *testing.T) {
		svc, todos, todo := newSeeded(t)
		allowEdit := true
		updated, err := svc.ShareTodo(ctx, ownerID, todo.TodoID, []string{friendID}, &allowEdit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.IsSharedWith(friendID) || !updated.AllowEdit {
			t.Errorf("updated = %+v, want shared with friend and editable", updated)
		}

		stored, _ := todos.FindTodo(ctx, todo.TodoID)
		if !stored.IsSharedWith(friendID) {
			t.Error("share must be persisted")
		}
	})

	t.Run("All Or Nothing On Bad Target", func(t *testing.T) {
		svc, todos, todo := newSeeded(t)
		_, err := svc.ShareTodo(ctx, ownerID, todo.TodoID, []string{friendID, strangerID}, nil)
		if !errors.Is(err, ErrInvalidOperation) {
			t.Fatalf("error = %v, want ErrInvalidOperation", err)
		}
		if !strings.Contains(err.Error(), strangerID) {
			t.Errorf("error %q should name the offending id", err)
		}

		stored, _ := todos.FindTodo(ctx, todo.TodoID)
		if len(stored.SharedWith) != 0 {
			t.Error("failed share must not partially apply")
		}
	})

	t.Run("Pending Relationship Does Not Count", func(t *testing.T) {
		svc, _, todo := newSeeded(t)
		_, err := svc.ShareTodo(ctx, ownerID, todo.TodoID, []string{pendingID}, nil)
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("Self Share Rejected", func(t *testing.T) {
		svc, _, todo := newSeeded(t)
		_, err := svc.ShareTodo(ctx, ownerID, todo.TodoID, []string{ownerID}, nil)
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("Non Owner Gets NotFound", func(t *testing.T) {
		svc, _, todo := newSeeded(t)
		_, err := svc.ShareTodo(ctx, friendID, todo.TodoID, []string{friendID}, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Duplicate Targets Deduplicated", func(t *testing.T) {
		svc, _, todo := newSeeded(t)
		updated, err := svc.ShareTodo(ctx, ownerID, todo.TodoID, []string{friendID, friendID}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.SharedWith) != 1 {
			t.Errorf("shared_with = %v, want single entry", updated.SharedWith)
		}
	})
}

func TestGetTodosByDay(t *testing.T) {
	svc, todos, _ := newPairwiseTodosService()
	ctx := context.Background()
	ownerID := uuid.New().String()

	for day := 1; day <= 3; day++ {
		err := todos.CreateTodo(ctx, &model.Todo{
			TodoID:    uuid.New().String(),
			OwnerID:   ownerID,
			Title:     "Chore",
			DayOfWeek: day,
		})
		if err != nil {
			t.Fatalf("seeding todo: %v", err)
		}
	}

	t.Run("Filters By Day", func(t *testing.T) {
		got, err := svc.GetTodosByDay(ctx, ownerID, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].DayOfWeek != 2 {
			t.Errorf("got %d todos, want exactly the day-2 chore", len(got))
		}
	})

	t.Run("Rejects Out Of Range", func(t *testing.T) {
		if _, err := svc.GetTodosByDay(ctx, ownerID, 8); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})
}

func TestGetTodosByDate(t *testing.T) {
	svc, todos, _ := newPairwiseTodosService()
	ctx := context.Background()
	ownerID := uuid.New().String()

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	seed := []*model.Todo{
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "yesterday", DueDate: day.Add(-time.Hour)},
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "evening", DueDate: day.Add(20 * time.Hour)},
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "morning", DueDate: day.Add(9 * time.Hour)},
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "tomorrow", DueDate: day.Add(24 * time.Hour)},
		{TodoID: uuid.New().String(), OwnerID: uuid.New().String(), Title: "someone else's", DueDate: day.Add(12 * time.Hour)},
	}
	for _, todo := range seed {
		if err := todos.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("seeding todo: %v", err)
		}
	}

	got, err := svc.GetTodosByDate(ctx, ownerID, day.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d todos, want the 2 due that day", len(got))
	}
	if got[0].Title != "morning" || got[1].Title != "evening" {
		t.Errorf("order = [%s, %s], want due-date ascending", got[0].Title, got[1].Title)
	}
}

func TestGetUserStats(t *testing.T) {
	svc, todos, _ := newPairwiseTodosService()
	ctx := context.Background()
	ownerID := uuid.New().String()

	now := time.Now()
	seed := []*model.Todo{
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "done", Completed: true, DueDate: now.Add(-time.Hour)},
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "late", DueDate: now.Add(-2 * time.Hour)},
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "soon", DueDate: now.Add(time.Hour)},
		{TodoID: uuid.New().String(), OwnerID: ownerID, Title: "shared", DueDate: now.Add(48 * time.Hour), SharedWith: []string{"friend"}},
	}
	for _, todo := range seed {
		if err := todos.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("seeding todo: %v", err)
		}
	}

	stats, err := svc.GetUserStats(ctx, ownerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 4 || stats.Completed != 1 || stats.Pending != 3 {
		t.Errorf("stats = %+v, want total 4 / completed 1 / pending 3", stats)
	}
	if stats.Overdue != 1 {
		t.Errorf("overdue = %d, want 1", stats.Overdue)
	}
	if stats.Shared != 1 {
		t.Errorf("shared = %d, want 1", stats.Shared)
	}
}
