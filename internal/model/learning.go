package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ArtifactSummary = "summary"
	ArtifactGraph   = "graph"
	ArtifactMCQ     = "mcq"
)

type LearningMaterial struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Filename      string    `json:"filename"`
	FileType      string    `json:"fileType"`
	ExtractedText string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewLearningMaterial(userID, filename, fileType, text string) *LearningMaterial {
	return &LearningMaterial{
		ID:            uuid.New().String(),
		UserID:        userID,
		Filename:      filename,
		FileType:      fileType,
		ExtractedText: text,
		CreatedAt:     time.Now(),
	}
}

// LearningArtifact is generated at most once per type per material.
type LearningArtifact struct {
	ID           string    `json:"id"`
	MaterialID   string    `json:"materialId"`
	Type         string    `json:"type"`
	ArtifactJSON string    `json:"artifactJson"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewLearningArtifact(materialID, artifactType, artifactJSON string) *LearningArtifact {
	return &LearningArtifact{
		ID:           uuid.New().String(),
		MaterialID:   materialID,
		Type:         artifactType,
		ArtifactJSON: artifactJSON,
		CreatedAt:    time.Now(),
	}
}

type KeyConcept struct {
	Concept     string `json:"concept" validate:"required"`
	Explanation string `json:"explanation" validate:"required"`
}

type DocumentSummary struct {
	Title        string       `json:"title" validate:"required"`
	Overview     string       `json:"overview" validate:"required"`
	KeyConcepts  []KeyConcept `json:"keyConcepts" validate:"required,min=1,dive"`
	KeyTakeaways []string     `json:"keyTakeaways" validate:"required,min=1,dive,required"`
	Topics       []string     `json:"topics" validate:"required,dive,required"`
}

type GraphNode struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label" validate:"required"`
	Type  string `json:"type" validate:"oneof=main sub"`
}

type GraphEdge struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Label string `json:"label"`
}

type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes" validate:"required,min=1,dive"`
	Edges []GraphEdge `json:"edges" validate:"required,dive"`
}

// Check verifies that every edge connects declared nodes.
func (g *KnowledgeGraph) Check() error {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := ids[e.From]; !ok {
			return fmt.Errorf("edge references unknown node %q", e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return fmt.Errorf("edge references unknown node %q", e.To)
		}
	}
	return nil
}

type QuizQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"min=0,max=3"`
	Explanation   string   `json:"explanation" validate:"required"`
}
