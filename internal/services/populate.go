package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

// The view types replace the raw patient and doctor ids of a document with
// user summaries. They are built after authorization and never feed it.

type AppointmentView struct {
	models.Appointment
	Patient *models.UserSummary `json:"patient"`
	Doctor  *models.UserSummary `json:"doctor"`
}

type HealthLogView struct {
	models.HealthLog
	Patient *models.UserSummary `json:"patient"`
}

type QuestionView struct {
	models.Question
	Patient *models.UserSummary `json:"patient,omitempty"`
	Doctor  *models.UserSummary `json:"doctor,omitempty"`
}

type AdviceView struct {
	models.Advice
	Patient *models.UserSummary `json:"patient,omitempty"`
	Doctor  *models.UserSummary `json:"doctor"`
}

// populator batch-loads the users referenced by a page of documents.
type populator struct {
	users store.UserStore
}

func (p *populator) load(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	wanted := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		wanted = append(wanted, id)
	}
	return p.users.GetMany(ctx, wanted)
}

// summary falls back to a bare id when the user no longer exists.
func summary(users map[primitive.ObjectID]*models.User, id primitive.ObjectID, withEmail bool) *models.UserSummary {
	if id.IsZero() {
		return nil
	}
	if u, ok := users[id]; ok {
		return u.Summary(withEmail)
	}
	return &models.UserSummary{ID: id}
}

func (p *populator) Appointments(ctx context.Context, items []models.Appointment) ([]AppointmentView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(items))
	for _, a := range items {
		ids = append(ids, a.PatientID, a.DoctorID)
	}
	users, err := p.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]AppointmentView, len(items))
	for i, a := range items {
		out[i] = AppointmentView{
			Appointment: a,
			Patient:     summary(users, a.PatientID, true),
			Doctor:      summary(users, a.DoctorID, true),
		}
	}
	return out, nil
}

func (p *populator) Appointment(ctx context.Context, a *models.Appointment) (*AppointmentView, error) {
	views, err := p.Appointments(ctx, []models.Appointment{*a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (p *populator) HealthLogs(ctx context.Context, items []models.HealthLog) ([]HealthLogView, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, h := range items {
		ids = append(ids, h.PatientID)
	}
	users, err := p.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]HealthLogView, len(items))
	for i, h := range items {
		out[i] = HealthLogView{HealthLog: h, Patient: summary(users, h.PatientID, true)}
	}
	return out, nil
}

func (p *populator) HealthLog(ctx context.Context, h *models.HealthLog) (*HealthLogView, error) {
	views, err := p.HealthLogs(ctx, []models.HealthLog{*h})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Questions populates a page of questions. Patient emails are only included
// for private listings.
func (p *populator) Questions(ctx context.Context, items []models.Question, private bool) ([]QuestionView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(items))
	for _, q := range items {
		ids = append(ids, q.PatientID, q.AssignedDoctor())
	}
	users, err := p.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]QuestionView, len(items))
	for i, q := range items {
		out[i] = QuestionView{
			Question: q,
			Patient:  summary(users, q.PatientID, private),
			Doctor:   summary(users, q.AssignedDoctor(), false),
		}
	}
	return out, nil
}

func (p *populator) Question(ctx context.Context, q *models.Question) (*QuestionView, error) {
	views, err := p.Questions(ctx, []models.Question{*q}, true)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Advice populates a page of advice. Public listings withhold the patient.
func (p *populator) Advice(ctx context.Context, items []models.Advice, withPatient bool) ([]AdviceView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(items))
	for _, a := range items {
		ids = append(ids, a.DoctorID)
		if withPatient {
			ids = append(ids, a.PatientID)
		}
	}
	users, err := p.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]AdviceView, len(items))
	for i, a := range items {
		v := AdviceView{Advice: a, Doctor: summary(users, a.DoctorID, withPatient)}
		if withPatient {
			v.Patient = summary(users, a.PatientID, true)
		} else {
			v.PatientFeedback = nil
		}
		out[i] = v
	}
	return out, nil
}

func (p *populator) OneAdvice(ctx context.Context, a *models.Advice) (*AdviceView, error) {
	views, err := p.Advice(ctx, []models.Advice{*a}, true)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
