package entity

import "time"

type Message struct {
	ID            string    `json:"id" firestore:"id"`
	ChatID        string    `json:"chat_id" firestore:"chatId"`
	SenderID      string    `json:"sender_id" firestore:"senderId"`
	ReceiverID    string    `json:"receiver_id,omitempty" firestore:"receiverId,omitempty"`
	Content       string    `json:"message" firestore:"message"`
	AttachmentURL string    `json:"attachment_url,omitempty" firestore:"attachmentUrl,omitempty"`
	Read          bool      `json:"read" firestore:"read"`
	Timestamp     time.Time `json:"timestamp" firestore:"timestamp"`
}
