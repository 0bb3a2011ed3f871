package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type QuestionService struct {
	base
}

type CreateQuestionInput struct {
	Title    string   `json:"title" binding:"required,max=200"`
	Content  string   `json:"content" binding:"required,max=2000"`
	DoctorID string   `json:"doctor" binding:"omitempty,objectid"`
	Category string   `json:"category" binding:"omitempty,oneof=general cardiology dermatology endocrinology gastroenterology neurology orthopedics pediatrics psychiatry pulmonology urology gynecology other"`
	Priority string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Symptoms []string `json:"symptoms"`
	Duration string   `json:"duration" binding:"max=100"`
	Tags     []string `json:"tags"`
}

type QuestionQuery struct {
	Status   string
	Category string
	Search   string
}

type AnswerInput struct {
	Content          string   `json:"content" binding:"required,max=3000"`
	Recommendations  []string `json:"recommendations"`
	FollowUpRequired bool     `json:"followUpRequired"`
	FollowUpDate     *Date    `json:"followUpDate"`
}

type questionPatch struct {
	Title    *string   `json:"title" binding:"omitempty,max=200"`
	Content  *string   `json:"content" binding:"omitempty,max=2000"`
	Category *string   `json:"category" binding:"omitempty,oneof=general cardiology dermatology endocrinology gastroenterology neurology orthopedics pediatrics psychiatry pulmonology urology gynecology other"`
	Priority *string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Symptoms *[]string `json:"symptoms"`
	Duration *string   `json:"duration" binding:"omitempty,max=100"`
	Tags     *[]string `json:"tags"`
}

func (p *questionPatch) apply(q *models.Question) error {
	if blank(p.Title) || blank(p.Content) {
		return apperr.Validation("title and content cannot be empty")
	}
	if p.Title != nil {
		q.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		q.Content = strings.TrimSpace(*p.Content)
	}
	if p.Category != nil {
		q.Category = *p.Category
	}
	if p.Priority != nil {
		q.Priority = *p.Priority
	}
	if p.Symptoms != nil {
		q.Symptoms = *p.Symptoms
	}
	if p.Duration != nil {
		q.Duration = *p.Duration
	}
	if p.Tags != nil {
		q.Tags = *p.Tags
	}
	return nil
}

// Create posts a question for the acting patient. A question may be directed
// at an approved doctor; otherwise it is open to every doctor.
func (s *QuestionService) Create(ctx context.Context, actor authz.Actor, in CreateQuestionInput) (*QuestionView, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("title and content are required")
	}
	if err := authz.Authorize(actor, authz.ActionCreate, authz.NewQuestion()); err != nil {
		return nil, err
	}

	q := &models.Question{
		PatientID: actor.ID,
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		Category:  in.Category,
		Priority:  in.Priority,
		Status:    models.QuestionPending,
		Symptoms:  in.Symptoms,
		Duration:  in.Duration,
		Tags:      in.Tags,
	}
	if q.Category == "" {
		q.Category = "general"
	}
	if q.Priority == "" {
		q.Priority = "medium"
	}
	if in.DoctorID != "" {
		id, err := ParseID(in.DoctorID, "doctor")
		if err != nil {
			return nil, err
		}
		doc, err := s.store.Users.GetByID(ctx, id)
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Validation("doctor not found")
		}
		if err != nil {
			return nil, err
		}
		if doc.Role != models.RoleDoctor || !doc.IsApproved || !doc.IsActive {
			return nil, apperr.Validation("doctor is not available")
		}
		q.DoctorID = &id
	}

	if err := s.store.Questions.Create(ctx, q); err != nil {
		return nil, err
	}
	return s.populate.Question(ctx, q)
}

func questionFilter(q QuestionQuery) (store.QuestionFilter, error) {
	f := store.QuestionFilter{Category: q.Category, Search: strings.TrimSpace(q.Search)}
	if q.Status != "" {
		switch st := models.QuestionStatus(q.Status); st {
		case models.QuestionPending, models.QuestionAnswered, models.QuestionClosed:
			f.Status = st
		default:
			return f, apperr.Validation("invalid status %q", q.Status)
		}
	}
	return f, nil
}

// PublicList is the open question board. It needs no authentication and
// withholds patient contact details.
func (s *QuestionService) PublicList(ctx context.Context, q QuestionQuery, p pagination.Params) ([]QuestionView, int64, error) {
	f, err := questionFilter(q)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, f, p, false)
}

// Mine lists the acting patient's questions.
func (s *QuestionService) Mine(ctx context.Context, actor authz.Actor, q QuestionQuery, p pagination.Params) ([]QuestionView, int64, error) {
	if err := authz.RequireRole(actor, models.RolePatient); err != nil {
		return nil, 0, err
	}
	f, err := questionFilter(q)
	if err != nil {
		return nil, 0, err
	}
	if actor.Is(models.RolePatient) {
		f.PatientID = actor.ID
	}
	return s.list(ctx, f, p, true)
}

// DoctorInbox lists the questions directed at the acting doctor together
// with the open ones.
func (s *QuestionService) DoctorInbox(ctx context.Context, actor authz.Actor, q QuestionQuery, p pagination.Params) ([]QuestionView, int64, error) {
	if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
		return nil, 0, err
	}
	f, err := questionFilter(q)
	if err != nil {
		return nil, 0, err
	}
	if actor.Is(models.RoleDoctor) {
		f.DoctorID = actor.ID
		f.AssignedOrOpen = true
	}
	return s.list(ctx, f, p, true)
}

func (s *QuestionService) list(ctx context.Context, f store.QuestionFilter, p pagination.Params, private bool) ([]QuestionView, int64, error) {
	items, total, err := s.store.Questions.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.populate.Questions(ctx, items, private)
	return views, total, err
}

func (s *QuestionService) load(ctx context.Context, actor authz.Actor, id primitive.ObjectID, action authz.Action) (*models.Question, error) {
	q, err := s.store.Questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, action, authz.Question(q)); err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns one question. Approved doctors may also read open questions,
// since those show up in their inbox.
func (s *QuestionService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*QuestionView, error) {
	q, err := s.store.Questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(models.RoleDoctor) && q.DoctorID == nil {
		err = authz.RequireRole(actor, models.RoleDoctor)
	} else {
		err = authz.Authorize(actor, authz.ActionRead, authz.Question(q))
	}
	if err != nil {
		return nil, err
	}
	return s.populate.Question(ctx, q)
}

func (s *QuestionService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, body Patch) (*QuestionView, error) {
	var p questionPatch
	if err := decodeUpdate(actor, authz.KindQuestion, body, &p); err != nil {
		return nil, err
	}
	q, err := s.load(ctx, actor, id, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := p.apply(q); err != nil {
		return nil, err
	}
	if err := s.store.Questions.Update(ctx, q); err != nil {
		return nil, err
	}
	return s.populate.Question(ctx, q)
}

// Answer records the acting doctor's answer. A question directed at another
// doctor cannot be answered, and closed questions accept no answers.
func (s *QuestionService) Answer(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in AnswerInput) (*QuestionView, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("answer content is required")
	}
	q, err := s.load(ctx, actor, id, authz.ActionAnswer)
	if err != nil {
		return nil, err
	}
	if actor.Is(models.RoleDoctor) && q.DoctorID != nil && *q.DoctorID != actor.ID {
		return nil, apperr.Forbidden("question is directed at another doctor")
	}
	if q.Status == models.QuestionClosed {
		return nil, apperr.Conflict("question is closed")
	}

	q.Answer = &models.Answer{
		Content:          strings.TrimSpace(in.Content),
		AnsweredAt:       s.now(),
		Recommendations:  in.Recommendations,
		FollowUpRequired: in.FollowUpRequired,
		FollowUpDate:     datePtr(in.FollowUpDate),
	}
	if actor.Is(models.RoleDoctor) {
		doctor := actor.ID
		q.DoctorID = &doctor
	}
	q.Status = models.QuestionAnswered
	if err := s.store.Questions.Update(ctx, q); err != nil {
		return nil, err
	}
	s.log.Info().Str("question_id", q.ID.Hex()).Str("user_id", actor.ID.Hex()).Msg("question answered")
	return s.populate.Question(ctx, q)
}

// Close marks the question closed. Only its patient or an admin may do so.
func (s *QuestionService) Close(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*QuestionView, error) {
	q, err := s.load(ctx, actor, id, authz.ActionClose)
	if err != nil {
		return nil, err
	}
	if q.Status != models.QuestionClosed {
		q.Status = models.QuestionClosed
		if err := s.store.Questions.Update(ctx, q); err != nil {
			return nil, err
		}
	}
	return s.populate.Question(ctx, q)
}

func (s *QuestionService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if _, err := s.load(ctx, actor, id, authz.ActionDelete); err != nil {
		return err
	}
	return s.store.Questions.Delete(ctx, id)
}
