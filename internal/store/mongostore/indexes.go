package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexes = map[string][]mongo.IndexModel{
	usersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "isApproved", Value: 1}}},
		{Keys: bson.D{{Key: "specialization", Value: 1}}},
	},
	appointmentsCollection: {
		{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "appointmentDate", Value: -1}}},
		{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "appointmentDate", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	healthLogsCollection: {
		{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "date", Value: -1}}},
	},
	questionsCollection: {
		{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	},
	adviceCollection: {
		{Keys: bson.D{{Key: "patient", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	},
}

// EnsureIndexes creates the collection indexes. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
