package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/utils"
)

type VisitorRepository interface {
	Track(ctx context.Context, v *models.Visitor) error
	GetByVisitorID(ctx context.Context, visitorID string) (*models.Visitor, error)
}

type visitorRepo struct {
	col *mongo.Collection
}

func NewVisitorRepo(db *mongo.Database) VisitorRepository {
	return &visitorRepo{col: db.Collection("visitors")}
}

// Track upserts by visitor_id: first sighting creates the document,
// subsequent sightings bump visit_count and last_visit.
func (r *visitorRepo) Track(ctx context.Context, v *models.Visitor) error {
	now := time.Now().UTC()

	set := bson.M{"last_visit": now}
	if v.IPAddress != "" {
		set["ip_address"] = v.IPAddress
	}
	if v.DeviceName != "" {
		set["device_name"] = v.DeviceName
	}
	if v.DeviceType != "" {
		set["device_type"] = v.DeviceType
	}
	if v.Country != "" {
		set["country"] = v.Country
	}
	if v.City != "" {
		set["city"] = v.City
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"visitor_id": v.VisitorID},
		bson.M{
			"$set":         set,
			"$inc":         bson.M{"visit_count": 1},
			"$setOnInsert": bson.M{"first_visit": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *visitorRepo) GetByVisitorID(ctx context.Context, visitorID string) (*models.Visitor, error) {
	var v models.Visitor
	err := r.col.FindOne(ctx, bson.M{"visitor_id": visitorID}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &v, err
}
