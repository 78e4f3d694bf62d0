package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shahtaz/medusa/internal/events"
	"github.com/shahtaz/medusa/internal/utils"
)

// SyncService keeps the vector index aligned with portfolio entities. It is
// the only writer of VectorizedContent rows. Handlers are idempotent by
// (collection, title) so at-least-once delivery from the worker pool is safe.
type SyncService interface {
	Handle(ctx context.Context, ev events.ContentEvent) error
}

type syncService struct {
	vectors VectorService
	log     *logrus.Logger
}

func NewSyncService(vectors VectorService, log *logrus.Logger) SyncService {
	return &syncService{vectors: vectors, log: log}
}

func (s *syncService) Handle(ctx context.Context, ev events.ContentEvent) error {
	const op = "SyncService.Handle"

	if ev.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "event id is required", nil)
	}

	collection := ev.Collection()

	if ev.Action == events.ActionDelete {
		if err := s.vectors.DeleteByMetadataID(ctx, collection, ev.ID); err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"collection": collection,
			"entity_id":  ev.ID,
		}).Info("vector entry deleted")
		return nil
	}

	if ev.Name == "" {
		return utils.E(utils.CodeInvalidArgument, op, "event name is required for upsert", nil)
	}

	content, metadata := renderContent(ev)
	if _, err := s.vectors.Upsert(ctx, collection, ev.Name, content, metadata); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"collection": collection,
		"title":      ev.Name,
	}).Info("vector entry upserted")
	return nil
}

// renderContent derives the canonical text and metadata for one entity,
// mirroring the per-type templates of the admin content model.
func renderContent(ev events.ContentEvent) (string, map[string]any) {
	content := ev.Description
	metadata := map[string]any{
		"id":         ev.ID,
		"model_type": string(ev.EntityType),
	}

	switch ev.EntityType {
	case events.EntitySkill:
		if ev.ProficiencyLevel != "" {
			content += " Proficiency: " + ev.ProficiencyLevel
			metadata["proficiency_level"] = ev.ProficiencyLevel
		}

	case events.EntityProject:
		if len(ev.TechStacks) > 0 {
			content += " Technologies: " + strings.Join(ev.TechStacks, ", ")
			metadata["technologies"] = ev.TechStacks
		}
		var links []string
		if ev.GithubURL != "" {
			links = append(links, "GitHub: "+ev.GithubURL)
			metadata["github_url"] = ev.GithubURL
		}
		if ev.LiveURL != "" {
			links = append(links, "Live Link: "+ev.LiveURL)
			metadata["live_url"] = ev.LiveURL
		}
		if len(links) > 0 {
			content += fmt.Sprintf(" Links: %s", strings.Join(links, ", "))
		}
	}

	return content, metadata
}
