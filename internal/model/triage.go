package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClassificationSpam   = "SPAM"
	ClassificationFYI    = "FYI"
	ClassificationAction = "ACTION"
)

type TriageResult struct {
	GmailID        string `json:"gmailId" validate:"required"`
	Subject        string `json:"subject"`
	From           string `json:"from"`
	Classification string `json:"classification" validate:"oneof=SPAM FYI ACTION"`
	Reason         string `json:"reason" validate:"required"`
	DraftReply     string `json:"draftReply"`
}

// TriageRun stores one invocation's results as encoded JSON.
type TriageRun struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ResultJSON string    `json:"resultJson"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewTriageRun(userID, resultJSON string) *TriageRun {
	return &TriageRun{
		ID:         uuid.New().String(),
		UserID:     userID,
		ResultJSON: resultJSON,
		CreatedAt:  time.Now(),
	}
}
