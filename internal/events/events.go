package events

import "github.com/shahtaz/medusa/internal/models"

type Action string

const (
	ActionUpsert Action = "upsert"
	ActionDelete Action = "delete"
)

type EntityType string

const (
	EntitySkill   EntityType = "skill"
	EntityService EntityType = "service"
	EntityProject EntityType = "project"
)

// ContentEvent is published after a portfolio write commits and consumed by
// the vector sync pipeline. Delivery is at-least-once; handlers must be
// idempotent by (collection, title).
type ContentEvent struct {
	Action     Action
	EntityType EntityType
	ID         string

	// upsert payload (empty on delete)
	Name             string
	Description      string
	ProficiencyLevel string
	TechStacks       []string
	GithubURL        string
	LiveURL          string
}

// Collection maps the entity type to its vector collection.
func (e ContentEvent) Collection() models.CollectionType {
	switch e.EntityType {
	case EntitySkill:
		return models.CollectionSkills
	case EntityService:
		return models.CollectionServices
	default:
		return models.CollectionProject
	}
}
