package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type HealthLogStore struct {
	coll *mongo.Collection
}

var latestDate = bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}

func (s *HealthLogStore) Create(ctx context.Context, h *models.HealthLog) error {
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	stamp(&h.CreatedAt, &h.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, h)
	return translate(err, "health log")
}

func (s *HealthLogStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.HealthLog, error) {
	return findOne[models.HealthLog](ctx, s.coll, bson.M{"_id": id}, "health log")
}

func (s *HealthLogStore) Latest(ctx context.Context, patientID primitive.ObjectID) (*models.HealthLog, error) {
	return findOne[models.HealthLog](ctx, s.coll, bson.M{"patient": patientID}, "health log",
		options.FindOne().SetSort(latestDate))
}

func (s *HealthLogStore) Update(ctx context.Context, h *models.HealthLog) error {
	h.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, s.coll, h.ID, h, "health log")
}

func (s *HealthLogStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "health log")
}

func (s *HealthLogStore) List(ctx context.Context, f store.HealthLogFilter, p pagination.Params) ([]models.HealthLog, int64, error) {
	return findPage[models.HealthLog](ctx, s.coll, healthLogQuery(f), latestDate, p, "health logs")
}

func (s *HealthLogStore) Count(ctx context.Context, f store.HealthLogFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, healthLogQuery(f))
	return n, translate(err, "health logs")
}

func (s *HealthLogStore) Summary(ctx context.Context, f store.HealthLogFilter) (store.HealthSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: healthLogQuery(f)}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"count":        bson.M{"$sum": 1},
			"avgHeartRate": bson.M{"$avg": "$heartRate.value"},
			"avgWeight":    bson.M{"$avg": "$weight.value"},
			"avgSystolic":  bson.M{"$avg": "$bloodPressure.systolic"},
			"avgDiastolic": bson.M{"$avg": "$bloodPressure.diastolic"},
			"latestDate":   bson.M{"$max": "$date"},
		}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return store.HealthSummary{}, translate(err, "health logs")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count        int64      `bson:"count"`
		AvgHeartRate *float64   `bson:"avgHeartRate"`
		AvgWeight    *float64   `bson:"avgWeight"`
		AvgSystolic  *float64   `bson:"avgSystolic"`
		AvgDiastolic *float64   `bson:"avgDiastolic"`
		LatestDate   *time.Time `bson:"latestDate"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return store.HealthSummary{}, translate(err, "health logs")
	}
	if len(rows) == 0 {
		return store.HealthSummary{}, nil
	}
	r := rows[0]
	return store.HealthSummary{
		Count:        r.Count,
		AvgHeartRate: deref(r.AvgHeartRate),
		AvgWeight:    deref(r.AvgWeight),
		AvgSystolic:  deref(r.AvgSystolic),
		AvgDiastolic: deref(r.AvgDiastolic),
		LatestDate:   r.LatestDate,
	}, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func healthLogQuery(f store.HealthLogFilter) bson.M {
	q := bson.M{}
	if !f.PatientID.IsZero() {
		q["patient"] = f.PatientID
	}
	dateRange(q, "date", f.From, f.To)
	return q
}
