package model

import "time"

type UserStats struct {
	TodoStats   TodoStats `json:"todo_stats"`
	FamilyStats struct {
		InFamily        bool `json:"in_family"`
		Members         int  `json:"members"`
		PendingInvites  int  `json:"pending_invites"`
		AcceptedMembers int  `json:"accepted_members"`
	} `json:"family_stats"`
	ActivityStats struct {
		LastActive     time.Time `json:"last_active"`
		AccountCreated time.Time `json:"account_created"`
		TotalSessions  int       `json:"total_sessions"`
	} `json:"activity_stats"`
}
