package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shahtaz/medusa/internal/events"
	"github.com/shahtaz/medusa/internal/models"
	pgrepo "github.com/shahtaz/medusa/internal/repositories/postgres"
	"github.com/shahtaz/medusa/internal/utils"
	"github.com/shahtaz/medusa/internal/worker"
)

type SkillInput struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	ProficiencyLevel string `json:"proficiency_level"`
}

type ServiceInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ProjectInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	TechStacks  []string `json:"tech_stacks"`
	GithubURL   string   `json:"github_url"`
	LiveURL     string   `json:"live_url"`
}

// PortfolioService owns the source entities and publishes content events
// to the sync pipeline after each successful write. Indexing is a deferred
// side effect: a failed vector write never rolls back the entity.
type PortfolioService interface {
	CreateSkill(ctx context.Context, in SkillInput) (*models.Skill, error)
	UpdateSkill(ctx context.Context, id string, in SkillInput) (*models.Skill, error)
	DeleteSkill(ctx context.Context, id string) error

	CreateService(ctx context.Context, in ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, id string, in ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error

	CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, in ProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Resync re-indexes every entity; the manual corrective for vector drift.
	Resync(ctx context.Context) (int, error)
}

type portfolioService struct {
	repo pgrepo.PortfolioRepo
	sync SyncService
	pool *worker.Pool
	log  *logrus.Logger
}

func NewPortfolioService(repo pgrepo.PortfolioRepo, sync SyncService, pool *worker.Pool, log *logrus.Logger) PortfolioService {
	return &portfolioService{repo: repo, sync: sync, pool: pool, log: log}
}

func (s *portfolioService) CreateSkill(ctx context.Context, in SkillInput) (*models.Skill, error) {
	const op = "PortfolioService.CreateSkill"

	if in.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}

	now := time.Now().UTC()
	skill := &models.Skill{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Description:      in.Description,
		ProficiencyLevel: in.ProficiencyLevel,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.SaveSkill(ctx, skill); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save skill", err)
	}
	s.publish(skillEvent(skill))
	return skill, nil
}

func (s *portfolioService) UpdateSkill(ctx context.Context, id string, in SkillInput) (*models.Skill, error) {
	const op = "PortfolioService.UpdateSkill"

	skill, err := s.repo.GetSkill(ctx, id)
	if err != nil {
		return nil, wrapGet(op, "skill", err)
	}

	skill.Name = in.Name
	skill.Description = in.Description
	skill.ProficiencyLevel = in.ProficiencyLevel
	skill.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveSkill(ctx, skill); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update skill", err)
	}
	s.publish(skillEvent(skill))
	return skill, nil
}

func (s *portfolioService) DeleteSkill(ctx context.Context, id string) error {
	const op = "PortfolioService.DeleteSkill"

	if err := s.repo.DeleteSkill(ctx, id); err != nil {
		return wrapGet(op, "skill", err)
	}
	s.publish(events.ContentEvent{Action: events.ActionDelete, EntityType: events.EntitySkill, ID: id})
	return nil
}

func (s *portfolioService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	const op = "PortfolioService.CreateService"

	if in.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}

	now := time.Now().UTC()
	svc := &models.Service{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveService(ctx, svc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save service", err)
	}
	s.publish(serviceEvent(svc))
	return svc, nil
}

func (s *portfolioService) UpdateService(ctx context.Context, id string, in ServiceInput) (*models.Service, error) {
	const op = "PortfolioService.UpdateService"

	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, wrapGet(op, "service", err)
	}

	svc.Name = in.Name
	svc.Description = in.Description
	svc.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveService(ctx, svc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update service", err)
	}
	s.publish(serviceEvent(svc))
	return svc, nil
}

func (s *portfolioService) DeleteService(ctx context.Context, id string) error {
	const op = "PortfolioService.DeleteService"

	if err := s.repo.DeleteService(ctx, id); err != nil {
		return wrapGet(op, "service", err)
	}
	s.publish(events.ContentEvent{Action: events.ActionDelete, EntityType: events.EntityService, ID: id})
	return nil
}

func (s *portfolioService) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	const op = "PortfolioService.CreateProject"

	if in.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}

	now := time.Now().UTC()
	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		TechStacks:  in.TechStacks,
		GithubURL:   in.GithubURL,
		LiveURL:     in.LiveURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveProject(ctx, project); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save project", err)
	}
	s.publish(projectEvent(project))
	return project, nil
}

func (s *portfolioService) UpdateProject(ctx context.Context, id string, in ProjectInput) (*models.Project, error) {
	const op = "PortfolioService.UpdateProject"

	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, wrapGet(op, "project", err)
	}

	project.Name = in.Name
	project.Description = in.Description
	project.TechStacks = in.TechStacks
	project.GithubURL = in.GithubURL
	project.LiveURL = in.LiveURL
	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveProject(ctx, project); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update project", err)
	}
	s.publish(projectEvent(project))
	return project, nil
}

func (s *portfolioService) DeleteProject(ctx context.Context, id string) error {
	const op = "PortfolioService.DeleteProject"

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return wrapGet(op, "project", err)
	}
	s.publish(events.ContentEvent{Action: events.ActionDelete, EntityType: events.EntityProject, ID: id})
	return nil
}

func (s *portfolioService) Resync(ctx context.Context) (int, error) {
	const op = "PortfolioService.Resync"

	indexed := 0

	skills, err := s.repo.ListSkills(ctx)
	if err != nil {
		return indexed, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	for i := range skills {
		indexed += s.reindex(ctx, skillEvent(&skills[i]))
	}

	svcs, err := s.repo.ListServices(ctx)
	if err != nil {
		return indexed, utils.E(utils.CodeInternal, op, "failed to list services", err)
	}
	for i := range svcs {
		indexed += s.reindex(ctx, serviceEvent(&svcs[i]))
	}

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return indexed, utils.E(utils.CodeInternal, op, "failed to list projects", err)
	}
	for i := range projects {
		indexed += s.reindex(ctx, projectEvent(&projects[i]))
	}

	s.log.WithField("indexed", indexed).Info("portfolio resync finished")
	return indexed, nil
}

func (s *portfolioService) reindex(ctx context.Context, ev events.ContentEvent) int {
	if err := s.sync.Handle(ctx, ev); err != nil {
		s.log.WithError(err).WithField("entity_id", ev.ID).Warn("resync: entity skipped")
		return 0
	}
	return 1
}

// publish hands the event to the worker pool after the entity write has
// already succeeded, so indexing runs post-commit and never blocks or
// fails the primary write.
func (s *portfolioService) publish(ev events.ContentEvent) {
	s.pool.Submit("vector-sync", func(ctx context.Context) error {
		return s.sync.Handle(ctx, ev)
	})
}

func skillEvent(sk *models.Skill) events.ContentEvent {
	return events.ContentEvent{
		Action:           events.ActionUpsert,
		EntityType:       events.EntitySkill,
		ID:               sk.ID,
		Name:             sk.Name,
		Description:      sk.Description,
		ProficiencyLevel: sk.ProficiencyLevel,
	}
}

func serviceEvent(sv *models.Service) events.ContentEvent {
	return events.ContentEvent{
		Action:      events.ActionUpsert,
		EntityType:  events.EntityService,
		ID:          sv.ID,
		Name:        sv.Name,
		Description: sv.Description,
	}
}

func projectEvent(p *models.Project) events.ContentEvent {
	return events.ContentEvent{
		Action:      events.ActionUpsert,
		EntityType:  events.EntityProject,
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TechStacks:  p.TechStacks,
		GithubURL:   p.GithubURL,
		LiveURL:     p.LiveURL,
	}
}

func wrapGet(op, what string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, what+" not found", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to access "+what, err)
}
