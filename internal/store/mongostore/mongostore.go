// Package mongostore implements the store contracts on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

const (
	usersCollection        = "users"
	appointmentsCollection = "appointments"
	healthLogsCollection   = "healthlogs"
	questionsCollection    = "questions"
	adviceCollection       = "advices"
)

// Connect opens a client and pings the primary so an unreachable database
// fails at startup rather than on the first request.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// New wires every collection store against db.
func New(db *mongo.Database) *store.Store {
	return &store.Store{
		Users:        &UserStore{coll: db.Collection(usersCollection)},
		Appointments: &AppointmentStore{coll: db.Collection(appointmentsCollection)},
		HealthLogs:   &HealthLogStore{coll: db.Collection(healthLogsCollection)},
		Questions:    &QuestionStore{coll: db.Collection(questionsCollection)},
		Advice:       &AdviceStore{coll: db.Collection(adviceCollection)},
	}
}

func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.NotFound(what)
	case mongo.IsDuplicateKeyError(err):
		return apperr.Conflict(what + " already exists")
	}
	return apperr.Internal("mongodb "+what, err)
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, p pagination.Params, what string) ([]T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err, what)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(p.Skip())).
		SetLimit(int64(p.Limit))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err, what)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, translate(err, what)
	}
	return items, total, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, what string, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		return nil, translate(err, what)
	}
	return &out, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc any, what string) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err, what)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(what)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, what string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, what)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(what)
	}
	return nil
}

func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func equalFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// dateRange adds a [from, to) bound on field.
func dateRange(q bson.M, field string, from, to *time.Time) {
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lt"] = *to
	}
	if len(r) > 0 {
		q[field] = r
	}
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
