package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visitor is the anonymous owner of conversations, tracked in MongoDB.
// VisitorID is the stable uuid handed to the frontend cookie.
type Visitor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VisitorID string             `bson:"visitor_id" json:"visitor_id"`

	IPAddress  string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	DeviceName string `bson:"device_name,omitempty" json:"device_name,omitempty"`
	DeviceType string `bson:"device_type,omitempty" json:"device_type,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`

	FirstVisit time.Time `bson:"first_visit" json:"first_visit"`
	LastVisit  time.Time `bson:"last_visit" json:"last_visit"`
	VisitCount int64     `bson:"visit_count" json:"visit_count"`
}
