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

type AdviceStore struct {
	coll *mongo.Collection
}

func (s *AdviceStore) Create(ctx context.Context, a *models.Advice) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, a)
	return translate(err, "advice")
}

func (s *AdviceStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Advice, error) {
	return findOne[models.Advice](ctx, s.coll, bson.M{"_id": id}, "advice")
}

func (s *AdviceStore) Update(ctx context.Context, a *models.Advice) error {
	a.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, s.coll, a.ID, a, "advice")
}

func (s *AdviceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "advice")
}

func (s *AdviceStore) List(ctx context.Context, f store.AdviceFilter, p pagination.Params) ([]models.Advice, int64, error) {
	return findPage[models.Advice](ctx, s.coll, adviceQuery(f), newestFirst, p, "advice")
}

func (s *AdviceStore) Count(ctx context.Context, f store.AdviceFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, adviceQuery(f))
	return n, translate(err, "advice")
}

func adviceQuery(f store.AdviceFilter) bson.M {
	q := bson.M{}
	if !f.PatientID.IsZero() {
		q["patient"] = f.PatientID
	}
	if !f.DoctorID.IsZero() {
		q["doctor"] = f.DoctorID
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.ActiveOnly {
		q["isActive"] = true
	}
	if f.Unread {
		q["isRead"] = false
	}
	return q
}
