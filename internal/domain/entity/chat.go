package entity

import (
	"sort"
	"strings"
	"time"
)

// Chat is the per-conversation summary document, distinct from the
// individual messages stored in its subcollection.
type Chat struct {
	ID            string         `json:"id" firestore:"id"`
	Participants  []string       `json:"participants" firestore:"participants"`
	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"`

	IsGroup    bool   `json:"is_group" firestore:"isGroup"`
	GroupName  string `json:"group_name,omitempty" firestore:"groupName,omitempty"`
	GroupPhoto string `json:"group_photo,omitempty" firestore:"groupPhoto,omitempty"`
	AdminID    string `json:"admin_id,omitempty" firestore:"adminId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// DirectChatID builds the deterministic document id for a 1:1 chat: the
// sorted pair of user ids. Both participants derive the same id.
func DirectChatID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}
