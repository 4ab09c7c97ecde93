package model

import "time"

type AccessLevel string

const (
	AccessPrivate AccessLevel = "private"
	AccessView    AccessLevel = "view"
	AccessEdit    AccessLevel = "edit"
)

type Todo struct {
	TodoID      string    `bson:"_id,omitempty" json:"id"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	Title       string    `bson:"title" json:"title" binding:"required"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Completed   bool      `bson:"completed" json:"completed"`
	CompletedAt time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	DueDate     time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	DayOfWeek   int       `bson:"day_of_week,omitempty" json:"day_of_week,omitempty"` // 1 (Monday) through 7 (Sunday)
	IsRecurring bool      `bson:"is_recurring,omitempty" json:"is_recurring,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`

	// Pairwise sharing attributes, owner-controlled.
	SharedWith []string `bson:"shared_with,omitempty" json:"shared_with,omitempty"`
	AllowEdit  bool     `bson:"allow_edit" json:"allow_edit"`

	// Family-group sharing attributes, owner-controlled.
	FamilyAccess bool        `bson:"family_access" json:"family_access"`
	AccessLevel  AccessLevel `bson:"access_level,omitempty" json:"access_level,omitempty"`
}

// IsSharedWith reports whether the todo's shared_with set contains userID.
func (t *Todo) IsSharedWith(userID string) bool {
	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// Access is the authorization decision for a (requester, todo) pair.
type Access struct {
	CanView bool `json:"can_view"`
	CanEdit bool `json:"can_edit"`
}

// TodoPatch is a partial update. Nil fields were absent from the payload
// and are left untouched when the patch is applied.
type TodoPatch struct {
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Completed    *bool        `json:"completed,omitempty"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	DayOfWeek    *int         `json:"day_of_week,omitempty"`
	IsRecurring  *bool        `json:"is_recurring,omitempty"`
	SharedWith   *[]string    `json:"shared_with,omitempty"`
	AllowEdit    *bool        `json:"allow_edit,omitempty"`
	FamilyAccess *bool        `json:"family_access,omitempty"`
	AccessLevel  *AccessLevel `json:"access_level,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.CompletedAt == nil && p.DueDate == nil && p.DayOfWeek == nil &&
		p.IsRecurring == nil && p.SharedWith == nil && p.AllowEdit == nil &&
		p.FamilyAccess == nil && p.AccessLevel == nil
}

type TodoStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
	DueToday  int `json:"due_today"`
	Shared    int `json:"shared"`
}
