package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/shahtaz/medusa/internal/models"
	mongorepo "github.com/shahtaz/medusa/internal/repositories/mongo"
	"github.com/shahtaz/medusa/internal/utils"
)

// VisitorService mints and refreshes the stable visitor identity that owns
// conversations.
type VisitorService interface {
	Track(ctx context.Context, v *models.Visitor) (*models.Visitor, error)
}

type visitorService struct {
	visitors mongorepo.VisitorRepository
}

func NewVisitorService(visitors mongorepo.VisitorRepository) VisitorService {
	return &visitorService{visitors: visitors}
}

func (s *visitorService) Track(ctx context.Context, v *models.Visitor) (*models.Visitor, error) {
	const op = "VisitorService.Track"

	if v == nil {
		v = &models.Visitor{}
	}
	if v.VisitorID == "" {
		v.VisitorID = uuid.NewString()
	}

	if err := s.visitors.Track(ctx, v); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to track visitor", err)
	}

	out, err := s.visitors.GetByVisitorID(ctx, v.VisitorID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load visitor", err)
	}
	return out, nil
}
