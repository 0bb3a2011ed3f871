package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type UserStore struct {
	coll *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	stamp(&u.CreatedAt, &u.UpdatedAt)

	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("An account with this email already exists")
		}
		return translate(err, "user")
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.M{"_id": id}, "user")
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}, "user")
}

func (s *UserStore) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err, "users")
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, translate(err, "users")
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.UpdatedAt = time.Now().UTC()
	err := replaceByID(ctx, s.coll, u.ID, u, "user")
	if apperr.KindOf(err) == apperr.KindConflict {
		return apperr.Conflict("An account with this email already exists")
	}
	return err
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.coll, id, "user")
}

func (s *UserStore) List(ctx context.Context, f store.UserFilter, p pagination.Params) ([]models.User, int64, error) {
	return findPage[models.User](ctx, s.coll, userQuery(f), newestFirst, p, "users")
}

func (s *UserStore) Count(ctx context.Context, f store.UserFilter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, userQuery(f))
	return n, translate(err, "users")
}

func userQuery(f store.UserFilter) bson.M {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Specialization != "" {
		q["specialization"] = equalFold(f.Specialization)
	}
	if f.Approved != nil {
		q["isApproved"] = *f.Approved
	}
	if f.Active != nil {
		q["isActive"] = *f.Active
	}
	if f.Search != "" {
		q["$or"] = bson.A{
			bson.M{"fullName": contains(f.Search)},
			bson.M{"email": contains(f.Search)},
		}
	}
	return q
}
