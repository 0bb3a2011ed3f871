// Package store declares the persistence contracts used by the services.
// mongostore implements them on MongoDB and memstore in process memory.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
)

type UserFilter struct {
	Role           models.Role
	Search         string // case-insensitive substring of fullName or email
	Specialization string
	Approved       *bool
	Active         *bool
}

type AppointmentFilter struct {
	PatientID primitive.ObjectID
	DoctorID  primitive.ObjectID
	Status    models.AppointmentStatus
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	// Chronological sorts by appointment date ascending instead of newest first.
	Chronological bool
}

type HealthLogFilter struct {
	PatientID primitive.ObjectID
	From      *time.Time
	To        *time.Time
}

type QuestionFilter struct {
	PatientID primitive.ObjectID
	DoctorID  primitive.ObjectID
	// AssignedOrOpen widens DoctorID to also match questions with no doctor.
	AssignedOrOpen bool
	Status         models.QuestionStatus
	Category       string
	Search         string // title or content
}

type AdviceFilter struct {
	PatientID  primitive.ObjectID
	DoctorID   primitive.ObjectID
	Category   string
	Type       string
	ActiveOnly bool
	Unread     bool
}

// HealthSummary aggregates the vitals of the matching health logs.
type HealthSummary struct {
	Count        int64      `json:"count"`
	AvgHeartRate float64    `json:"avgHeartRate"`
	AvgWeight    float64    `json:"avgWeight"`
	AvgSystolic  float64    `json:"avgSystolic"`
	AvgDiastolic float64    `json:"avgDiastolic"`
	LatestDate   *time.Time `json:"latestDate,omitempty"`
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetMany returns the users found among ids, keyed by id. Missing ids are skipped.
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f UserFilter, p pagination.Params) ([]models.User, int64, error)
	Count(ctx context.Context, f UserFilter) (int64, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	Update(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f AppointmentFilter, p pagination.Params) ([]models.Appointment, int64, error)
	Count(ctx context.Context, f AppointmentFilter) (int64, error)
	CountByStatus(ctx context.Context, f AppointmentFilter) (map[models.AppointmentStatus]int64, error)
	DistinctPatients(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type HealthLogStore interface {
	Create(ctx context.Context, h *models.HealthLog) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.HealthLog, error)
	// Latest returns the most recent log of a patient by date.
	Latest(ctx context.Context, patientID primitive.ObjectID) (*models.HealthLog, error)
	Update(ctx context.Context, h *models.HealthLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f HealthLogFilter, p pagination.Params) ([]models.HealthLog, int64, error)
	Count(ctx context.Context, f HealthLogFilter) (int64, error)
	Summary(ctx context.Context, f HealthLogFilter) (HealthSummary, error)
}

type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	Update(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f QuestionFilter, p pagination.Params) ([]models.Question, int64, error)
	Count(ctx context.Context, f QuestionFilter) (int64, error)
}

type AdviceStore interface {
	Create(ctx context.Context, a *models.Advice) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Advice, error)
	Update(ctx context.Context, a *models.Advice) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f AdviceFilter, p pagination.Params) ([]models.Advice, int64, error)
	Count(ctx context.Context, f AdviceFilter) (int64, error)
}

// Store bundles the collections.
type Store struct {
	Users        UserStore
	Appointments AppointmentStore
	HealthLogs   HealthLogStore
	Questions    QuestionStore
	Advice       AdviceStore
}

func BoolPtr(b bool) *bool { return &b }
