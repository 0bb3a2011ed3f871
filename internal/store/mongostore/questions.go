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

type QuestionStore struct {
	coll *mongo.Collection
}

func (s *QuestionStore) Create(ctx context.Context, q *models.Question) error {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	stamp(&q.CreatedAt, &q.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, q)
	return translate(err, "question")
}

func (s *QuestionStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	return findOne[models.Question](ctx, s.coll, bson.M{"_id": id}, "question")
}

func (s *QuestionStore) Update(ctx context.Context, q *models.Question) error {
	q.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, s.coll, q.ID, q, "question")
}

func (s *QuestionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "question")
}

func (s *QuestionStore) List(ctx context.Context, f store.QuestionFilter, p pagination.Params) ([]models.Question, int64, error) {
	return findPage[models.Question](ctx, s.coll, questionQuery(f), newestFirst, p, "questions")
}

func (s *QuestionStore) Count(ctx context.Context, f store.QuestionFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, questionQuery(f))
	return n, translate(err, "questions")
}

func questionQuery(f store.QuestionFilter) bson.M {
	q := bson.M{}
	and := bson.A{}
	if !f.PatientID.IsZero() {
		q["patient"] = f.PatientID
	}
	if !f.DoctorID.IsZero() {
		if f.AssignedOrOpen {
			and = append(and, bson.M{"$or": bson.A{
				bson.M{"doctor": f.DoctorID},
				bson.M{"doctor": bson.M{"$exists": false}},
				bson.M{"doctor": nil},
			}})
		} else {
			q["doctor"] = f.DoctorID
		}
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Search != "" {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": contains(f.Search)},
			bson.M{"content": contains(f.Search)},
		}})
	}
	if len(and) > 0 {
		q["$and"] = and
	}
	return q
}
