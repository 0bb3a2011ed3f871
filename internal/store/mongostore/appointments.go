package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type AppointmentStore struct {
	coll *mongo.Collection
}

func (s *AppointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, a)
	return translate(err, "appointment")
}

func (s *AppointmentStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return findOne[models.Appointment](ctx, s.coll, bson.M{"_id": id}, "appointment")
}

func (s *AppointmentStore) Update(ctx context.Context, a *models.Appointment) error {
	a.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, s.coll, a.ID, a, "appointment")
}

func (s *AppointmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "appointment")
}

func (s *AppointmentStore) List(ctx context.Context, f store.AppointmentFilter, p pagination.Params) ([]models.Appointment, int64, error) {
	sort := newestFirst
	if f.Chronological {
		sort = bson.D{{Key: "appointmentDate", Value: 1}, {Key: "timeSlot.startTime", Value: 1}}
	}
	return findPage[models.Appointment](ctx, s.coll, appointmentQuery(f), sort, p, "appointments")
}

func (s *AppointmentStore) Count(ctx context.Context, f store.AppointmentFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, appointmentQuery(f))
	return n, translate(err, "appointments")
}

func (s *AppointmentStore) CountByStatus(ctx context.Context, f store.AppointmentFilter) (map[models.AppointmentStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: appointmentQuery(f)}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "appointments")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.AppointmentStatus `bson:"_id"`
		Count  int64                    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translate(err, "appointments")
	}
	out := make(map[models.AppointmentStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

func (s *AppointmentStore) DistinctPatients(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	values, err := s.coll.Distinct(ctx, "patient", bson.M{"doctor": doctorID})
	if err != nil {
		return nil, translate(err, "appointments")
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func appointmentQuery(f store.AppointmentFilter) bson.M {
	q := bson.M{}
	if !f.PatientID.IsZero() {
		q["patient"] = f.PatientID
	}
	if !f.DoctorID.IsZero() {
		q["doctor"] = f.DoctorID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	dateRange(q, "appointmentDate", f.From, f.To)
	return q
}
