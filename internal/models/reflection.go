package models

import "time"

type ReflectionStatus string

const (
	ReflectionStatusPending ReflectionStatus = "pending"
	ReflectionStatusReplied ReflectionStatus = "replied"
	ReflectionStatusViewed  ReflectionStatus = "viewed"
)

// ReflectionMessage is a single dated entry in a reflection thread,
// written either by the user or by a coach.
type ReflectionMessage struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Reflection holds the whole journal thread one user keeps for one
// session. There is at most one per (user, session) pair.
type Reflection struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	SessionID   string              `json:"sessionId"`
	Entries     []ReflectionMessage `json:"entries"`
	Replies     []ReflectionMessage `json:"replies"`
	Status      ReflectionStatus    `json:"status"`
	LastUpdated time.Time           `json:"lastUpdated"`
}
