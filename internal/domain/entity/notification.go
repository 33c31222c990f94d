package entity

import "time"

type Notification struct {
	ID        string            `json:"id" firestore:"id"`
	UserID    string            `json:"user_id" firestore:"userId"`
	Type      string            `json:"type" firestore:"type"` // "message", "follow", "like", "comment", "call"
	Title     string            `json:"title" firestore:"title"`
	Body      string            `json:"body" firestore:"body"`
	Data      map[string]string `json:"data,omitempty" firestore:"data,omitempty"`
	Read      bool              `json:"read" firestore:"read"`
	CreatedAt time.Time         `json:"created_at" firestore:"createdAt"`
}
