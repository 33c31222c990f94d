package entity

import "time"

type GalleryPost struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	MediaURL  string    `json:"media_url" firestore:"mediaUrl"`
	MediaType string    `json:"media_type" firestore:"mediaType"` // "image", "video"
	Caption   string    `json:"caption,omitempty" firestore:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
