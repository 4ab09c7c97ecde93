package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"famdo/model"
)

// In-memory stores backing the service tests. They mirror the repository
// contracts: absent documents come back as (nil, nil), duplicate
// relationship pairs as ErrConflict.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) AddUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.UserID] = &copied
	return nil
}

func (s *fakeUserStore) FindUser(_ context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) SetUserFamily(_ context.Context, userID, familyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	user.FamilyID = familyID
	return nil
}

func (s *fakeUserStore) ClearUserFamily(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	user.FamilyID = ""
	return nil
}

type fakeTodoStore struct {
	mu    sync.Mutex
	todos map[string]*model.Todo
}

func newFakeTodoStore() *fakeTodoStore {
	return &fakeTodoStore{todos: make(map[string]*model.Todo)}
}

func (s *fakeTodoStore) CreateTodo(_ context.Context, todo *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *todo
	s.todos[todo.TodoID] = &copied
	return nil
}

func (s *fakeTodoStore) FindTodo(_ context.Context, todoID string) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	todo, ok := s.todos[todoID]
	if !ok {
		return nil, nil
	}
	copied := *todo
	return &copied, nil
}

func (s *fakeTodoStore) FindTodosByOwner(_ context.Context, ownerID string) ([]*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Todo
	for _, todo := range s.todos {
		if todo.OwnerID == ownerID {
			copied := *todo
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeTodoStore) FindTodosDueBetween(_ context.Context, ownerID string, from, to time.Time) ([]*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Todo
	for _, todo := range s.todos {
		if todo.OwnerID == ownerID && !todo.DueDate.Before(from) && todo.DueDate.Before(to) {
			copied := *todo
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}

func (s *fakeTodoStore) FindTodosByDayOfWeek(_ context.Context, ownerID string, dayOfWeek int) ([]*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Todo
	for _, todo := range s.todos {
		if todo.OwnerID == ownerID && todo.DayOfWeek == dayOfWeek {
			copied := *todo
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeTodoStore) FindTodosSharedWith(_ context.Context, userID string) ([]*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Todo
	for _, todo := range s.todos {
		if todo.IsSharedWith(userID) {
			copied := *todo
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeTodoStore) ReplaceTodo(_ context.Context, todo *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[todo.TodoID]; !ok {
		return fmt.Errorf("%w: todo", ErrNotFound)
	}
	copied := *todo
	s.todos[todo.TodoID] = &copied
	return nil
}

func (s *fakeTodoStore) SetTodoSharing(_ context.Context, todoID string, sharedWith []string, allowEdit *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	todo, ok := s.todos[todoID]
	if !ok {
		return fmt.Errorf("%w: todo", ErrNotFound)
	}
	todo.SharedWith = append([]string(nil), sharedWith...)
	if allowEdit != nil {
		todo.AllowEdit = *allowEdit
	}
	return nil
}

func (s *fakeTodoStore) PullSharedUser(_ context.Context, ownerID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, todo := range s.todos {
		if todo.OwnerID != ownerID {
			continue
		}
		kept := todo.SharedWith[:0]
		for _, id := range todo.SharedWith {
			if id != userID {
				kept = append(kept, id)
			}
		}
		todo.SharedWith = kept
	}
	return nil
}

func (s *fakeTodoStore) DeleteTodo(_ context.Context, todoID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	todo, ok := s.todos[todoID]
	if !ok || todo.OwnerID != ownerID {
		return fmt.Errorf("%w: todo", ErrNotFound)
	}
	delete(s.todos, todoID)
	return nil
}

type fakeRelationshipStore struct {
	mu   sync.Mutex
	rels map[string]*model.Relationship
}

func newFakeRelationshipStore() *fakeRelationshipStore {
	return &fakeRelationshipStore{rels: make(map[string]*model.Relationship)}
}

func (s *fakeRelationshipStore) CreateRelationship(_ context.Context, rel *model.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rels {
		if existing.UserID == rel.UserID && existing.FamilyMemberID == rel.FamilyMemberID {
			return fmt.Errorf("%w: relationship already exists", ErrConflict)
		}
	}
	copied := *rel
	s.rels[rel.RelationshipID] = &copied
	return nil
}

func (s *fakeRelationshipStore) FindRelationship(_ context.Context, relationshipID string) (*model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel, ok := s.rels[relationshipID]
	if !ok {
		return nil, nil
	}
	copied := *rel
	return &copied, nil
}

func (s *fakeRelationshipStore) FindRelationshipBetween(_ context.Context, userID, otherID string) (*model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rel := range s.rels {
		if (rel.UserID == userID && rel.FamilyMemberID == otherID) ||
			(rel.UserID == otherID && rel.FamilyMemberID == userID) {
			copied := *rel
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeRelationshipStore) UpdateRelationshipStatus(_ context.Context, relationshipID string, status model.RelationshipStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel, ok := s.rels[relationshipID]
	if !ok {
		return fmt.Errorf("%w: relationship", ErrNotFound)
	}
	rel.Status = status
	return nil
}

func (s *fakeRelationshipStore) ListPendingFor(_ context.Context, userID string) ([]*model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Relationship
	for _, rel := range s.rels {
		if rel.FamilyMemberID == userID && rel.Status == model.RelationshipPending {
			copied := *rel
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeRelationshipStore) ListAcceptedFor(_ context.Context, userID string) ([]*model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Relationship
	for _, rel := range s.rels {
		if rel.Status != model.RelationshipAccepted {
			continue
		}
		if rel.UserID == userID || rel.FamilyMemberID == userID {
			copied := *rel
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeRelationshipStore) DeleteAcceptedBetween(_ context.Context, userID, otherID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, rel := range s.rels {
		if rel.Status != model.RelationshipAccepted {
			continue
		}
		if (rel.UserID == userID && rel.FamilyMemberID == otherID) ||
			(rel.UserID == otherID && rel.FamilyMemberID == userID) {
			delete(s.rels, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeFamilyStore struct {
	mu       sync.Mutex
	families map[string]*model.Family
}

func newFakeFamilyStore() *fakeFamilyStore {
	return &fakeFamilyStore{families: make(map[string]*model.Family)}
}

func (s *fakeFamilyStore) CreateFamily(_ context.Context, family *model.Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *family
	copied.MemberIDs = append([]string(nil), family.MemberIDs...)
	s.families[family.FamilyID] = &copied
	return nil
}

func (s *fakeFamilyStore) FindFamily(_ context.Context, familyID string) (*model.Family, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	family, ok := s.families[familyID]
	if !ok {
		return nil, nil
	}
	copied := *family
	copied.MemberIDs = append([]string(nil), family.MemberIDs...)
	return &copied, nil
}

func (s *fakeFamilyStore) AddFamilyMember(_ context.Context, familyID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	family, ok := s.families[familyID]
	if !ok {
		return fmt.Errorf("%w: family", ErrNotFound)
	}
	// $addToSet semantics
	for _, id := range family.MemberIDs {
		if id == userID {
			return nil
		}
	}
	family.MemberIDs = append(family.MemberIDs, userID)
	return nil
}

func (s *fakeFamilyStore) RemoveFamilyMember(_ context.Context, familyID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	family, ok := s.families[familyID]
	if !ok {
		return fmt.Errorf("%w: family", ErrNotFound)
	}
	kept := family.MemberIDs[:0]
	for _, id := range family.MemberIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	family.MemberIDs = kept
	return nil
}

func (s *fakeFamilyStore) DeleteFamily(_ context.Context, familyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.families[familyID]; !ok {
		return fmt.Errorf("%w: family", ErrNotFound)
	}
	delete(s.families, familyID)
	return nil
}
