package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailItem mirrors a Gmail message. IsUnread reflects the query used by the last sync,
// not the live state of the message.
type EmailItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	GmailID    string    `json:"gmailId"`
	ThreadID   string    `json:"threadId"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	ReceivedAt time.Time `json:"receivedAt"`
	IsUnread   bool      `json:"isUnread"`
	RawJSON    string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewEmailItem(userID, gmailID, threadID, from, subject, snippet string, receivedAt time.Time) *EmailItem {
	now := time.Now()
	return &EmailItem{
		ID:         uuid.New().String(),
		UserID:     userID,
		GmailID:    gmailID,
		ThreadID:   threadID,
		From:       from,
		Subject:    subject,
		Snippet:    snippet,
		ReceivedAt: receivedAt,
		IsUnread:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
