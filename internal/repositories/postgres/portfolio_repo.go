package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/utils"
)

// PortfolioRepo persists the source entities the vector index is built from.
type PortfolioRepo interface {
	SaveSkill(ctx context.Context, s *models.Skill) error
	GetSkill(ctx context.Context, id string) (*models.Skill, error)
	DeleteSkill(ctx context.Context, id string) error
	ListSkills(ctx context.Context) ([]models.Skill, error)

	SaveService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, id string) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error
	ListServices(ctx context.Context) ([]models.Service, error)

	SaveProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]models.Project, error)
}

type portfolioRepo struct {
	db *gorm.DB
}

func NewPortfolioRepo(db *gorm.DB) PortfolioRepo {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) SaveSkill(ctx context.Context, s *models.Skill) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *portfolioRepo) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	var s models.Skill
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *portfolioRepo) DeleteSkill(ctx context.Context, id string) error {
	return deleteByID[models.Skill](ctx, r.db, id)
}

func (r *portfolioRepo) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var rows []models.Skill
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *portfolioRepo) SaveService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *portfolioRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	var s models.Service
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *portfolioRepo) DeleteService(ctx context.Context, id string) error {
	return deleteByID[models.Service](ctx, r.db, id)
}

func (r *portfolioRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	var rows []models.Service
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *portfolioRepo) SaveProject(ctx context.Context, p *models.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *portfolioRepo) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *portfolioRepo) DeleteProject(ctx context.Context, id string) error {
	return deleteByID[models.Project](ctx, r.db, id)
}

func (r *portfolioRepo) ListProjects(ctx context.Context) ([]models.Project, error) {
	var rows []models.Project
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id string) error {
	var zero T
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
