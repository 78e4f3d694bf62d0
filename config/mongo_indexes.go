package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	visitors := db.Collection("visitors")
	_, err := visitors.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// one document per visitor uuid
		{
			Keys: bson.D{{Key: "visitor_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_visitor_id").
				SetUnique(true),
		},
		// recency queries from the admin dashboard
		{
			Keys:    bson.D{{Key: "last_visit", Value: -1}},
			Options: options.Index().SetName("by_last_visit"),
		},
	})
	return err
}
