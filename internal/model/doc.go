package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocSourceType          = "doc"
	GoogleDocumentMIMEType = "application/vnd.google-apps.document"
)

type DocItem struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FileID        string    `json:"fileId"`
	Title         string    `json:"title"`
	SourceType    string    `json:"sourceType"`
	ModifiedTime  time.Time `json:"modifiedTime"`
	ExtractedText string    `json:"extractedText"`
	RawJSON       string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewDocItem(userID, fileID, title string) *DocItem {
	now := time.Now()
	return &DocItem{
		ID:         uuid.New().String(),
		UserID:     userID,
		FileID:     fileID,
		Title:      title,
		SourceType: DocSourceType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
