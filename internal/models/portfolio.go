package models

import (
	"time"

	"github.com/lib/pq"
)

// Portfolio entities are the source records the vector index is derived from.
// The sync pipeline owns the derived VectorizedContent rows; these tables are
// owned by the admin CRUD surface.

type Skill struct {
	ID               string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"column:name;type:text" json:"name"`
	Description      string    `gorm:"column:description;type:text" json:"description"`
	ProficiencyLevel string    `gorm:"column:proficiency_level;type:text" json:"proficiency_level"`
	CreatedAt        time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Skill) TableName() string { return "skills" }

type Service struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:text" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Service) TableName() string { return "services" }

type Project struct {
	ID          string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;type:text" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	TechStacks  pq.StringArray `gorm:"column:tech_stacks;type:text[]" json:"tech_stacks"`
	GithubURL   string         `gorm:"column:github_url;type:text" json:"github_url"`
	LiveURL     string         `gorm:"column:live_url;type:text" json:"live_url"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
