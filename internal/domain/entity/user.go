package entity

import (
	"time"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio      string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Status   string `json:"status" firestore:"status"`

	AvatarURL    string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	BalanceCoins int64  `json:"balance_coins" firestore:"balanceCoins"`

	Followers    []string `json:"followers" firestore:"followers"`
	Following    []string `json:"following" firestore:"following"`
	BlockedUsers []string `json:"blocked_users" firestore:"blockedUsers"`
	MutedUsers   []string `json:"muted_users" firestore:"mutedUsers"`

	PushToken string `json:"push_token,omitempty" firestore:"pushToken,omitempty"`

	// Online presence
	LastSeen     time.Time `json:"last_seen" firestore:"lastSeen"`
	OnlineStatus string    `json:"online_status" firestore:"onlineStatus"`

	// Soft delete marker; PII fields are overwritten when set
	Deleted bool `json:"deleted,omitempty" firestore:"deleted,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Report is a user-filed complaint against another user.
type Report struct {
	ID         string    `json:"id" firestore:"id"`
	ReporterID string    `json:"reporter_id" firestore:"reporterId"`
	ReportedID string    `json:"reported_id" firestore:"reportedId"`
	Reason     string    `json:"reason" firestore:"reason"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
