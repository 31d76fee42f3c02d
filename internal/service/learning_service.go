package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/singleflight"

	"focusos/internal/extract"
	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/prompt"
	"focusos/internal/repository"
)

// MaxUploadBytes caps the size of a single learning upload.
const MaxUploadBytes = 20 << 20

type learningService struct {
	materials repository.LearningMaterialRepository
	artifacts repository.LearningArtifactRepository
	extractor TextExtractor
	llm       LLM
	group     singleflight.Group
	logger    *logger.Logger
}

func NewLearningService(
	materials repository.LearningMaterialRepository,
	artifacts repository.LearningArtifactRepository,
	extractor TextExtractor,
	llm LLM,
	logger *logger.Logger,
) LearningService {
	return &learningService{
		materials: materials,
		artifacts: artifacts,
		extractor: extractor,
		llm:       llm,
		logger:    logger,
	}
}

func (s *learningService) Upload(ctx context.Context, userID, filename string, content io.Reader) (*UploadResult, error) {
	fileType := extract.FileType(filename)
	if fileType == "" {
		return nil, invalid("unsupported file type %q", filename)
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, invalid("file exceeds %d bytes", MaxUploadBytes)
	}

	text, err := s.extractor.Extract(filename, data)
	if err != nil {
		return nil, invalid("could not extract text: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalid("no text found in %s", filename)
	}

	material := model.NewLearningMaterial(userID, filename, fileType, text)
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, fmt.Errorf("failed to save material: %w", err)
	}
	s.logger.Infof("Stored learning material %s (%s, %d chars) for user %s", material.ID, fileType, len(text), userID)

	var summary model.DocumentSummary
	if err := s.llm.Generate(ctx, prompt.Summary(text), &summary); err != nil {
		return nil, err
	}
	if _, err := s.storeArtifact(ctx, material.ID, model.ArtifactSummary, &summary); err != nil {
		return nil, err
	}

	return &UploadResult{MaterialID: material.ID, Summary: &summary}, nil
}

func (s *learningService) Summary(ctx context.Context, userID, materialID string) (*model.DocumentSummary, error) {
	if _, err := s.material(ctx, userID, materialID); err != nil {
		return nil, err
	}

	artifact, err := s.artifacts.FindLatest(ctx, materialID, model.ArtifactSummary)
	if err != nil {
		return nil, err
	}
	var summary model.DocumentSummary
	if err := json.Unmarshal([]byte(artifact.ArtifactJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to decode stored summary: %w", err)
	}
	return &summary, nil
}

func (s *learningService) Graph(ctx context.Context, userID, materialID string) (*model.KnowledgeGraph, error) {
	var graph model.KnowledgeGraph
	if err := s.artifact(ctx, userID, materialID, model.ArtifactGraph, prompt.Graph, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

func (s *learningService) MCQ(ctx context.Context, userID, materialID string) ([]model.QuizQuestion, error) {
	var quiz []model.QuizQuestion
	if err := s.artifact(ctx, userID, materialID, model.ArtifactMCQ, prompt.MCQ, &quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// artifact returns the stored artifact of the given type or generates and stores it.
// Concurrent requests for the same artifact share one generation.
func (s *learningService) artifact(ctx context.Context, userID, materialID, artifactType string, build func(string) string, out interface{}) error {
	material, err := s.material(ctx, userID, materialID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(material.ExtractedText) == "" {
		return repository.ErrNotFound
	}

	raw, err, _ := s.group.Do(materialID+"/"+artifactType, func() (interface{}, error) {
		cached, err := s.artifacts.FindLatest(ctx, materialID, artifactType)
		if err == nil {
			return cached.ArtifactJSON, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		if err := s.llm.Generate(ctx, build(material.ExtractedText), out); err != nil {
			return nil, err
		}
		stored, err := s.storeArtifact(ctx, materialID, artifactType, out)
		if err != nil {
			return nil, err
		}
		s.logger.Infof("Generated %s for material %s", artifactType, materialID)
		return stored, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(raw.(string)), out); err != nil {
		return fmt.Errorf("failed to decode stored %s: %w", artifactType, err)
	}
	return nil
}

func (s *learningService) storeArtifact(ctx context.Context, materialID, artifactType string, value interface{}) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", artifactType, err)
	}
	if err := s.artifacts.Create(ctx, model.NewLearningArtifact(materialID, artifactType, string(data))); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", artifactType, err)
	}
	return string(data), nil
}

// material loads a material owned by userID. Other users' materials read as missing.
func (s *learningService) material(ctx context.Context, userID, materialID string) (*model.LearningMaterial, error) {
	material, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return material, nil
}
