// Package services holds the application logic. Every operation receives the
// acting user explicitly and checks, in order: input, existence of the
// target, permission, then mutates and populates the response.
package services

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/store"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
	"github.com/harentsoaR/healthcare-portal/internal/validation"
)

type Deps struct {
	Store    *store.Store
	Tokens   *utils.TokenManager
	Hasher   *utils.PasswordHasher
	Notifier Notifier
	Log      zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Services struct {
	Auth         *AuthService
	Users        *UserService
	Appointments *AppointmentService
	HealthLogs   *HealthLogService
	Questions    *QuestionService
	Advice       *AdviceService
	Stats        *StatsService
}

func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Notifier == nil {
		d.Notifier = NopNotifier{}
	}
	b := base{
		store:    d.Store,
		notifier: d.Notifier,
		log:      d.Log,
		now:      func() time.Time { return d.Now().UTC() },
		populate: &populator{users: d.Store.Users},
	}
	return &Services{
		Auth:         &AuthService{base: b, tokens: d.Tokens, hasher: d.Hasher},
		Users:        &UserService{base: b},
		Appointments: &AppointmentService{base: b},
		HealthLogs:   &HealthLogService{base: b},
		Questions:    &QuestionService{base: b},
		Advice:       &AdviceService{base: b},
		Stats:        &StatsService{base: b},
	}
}

type base struct {
	store    *store.Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
	populate *populator
}

// Patch is a raw JSON update body keyed by field name.
type Patch map[string]json.RawMessage

// decodeUpdate decodes an update body of kind for the actor's role. A role
// with no updatable fields on kind is refused before any lookup.
func decodeUpdate(actor authz.Actor, kind authz.Kind, body Patch, dst any) error {
	allowed := authz.AllowedFields(kind, actor.Role)
	if len(allowed) == 0 {
		return apperr.Forbidden("you cannot update this resource")
	}
	return decodePatch(body, allowed, dst)
}

// decodePatch keeps the allowed keys of body and decodes them into dst,
// which should be a struct of pointer fields.
func decodePatch(body Patch, allowed []string, dst any) error {
	fields := authz.FilterFields(body, allowed)
	if len(fields) == 0 {
		return apperr.Validation("no updatable fields")
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return apperr.Internal("encode patch", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			return err
		}
		return apperr.Validation("invalid request body")
	}
	return validate(dst)
}

// validate runs the struct validator and turns failures into validation errors.
func validate(v any) error {
	if err := validation.Struct(v); err != nil {
		return apperr.Validation("%s", validation.Describe(err))
	}
	return nil
}

// ParseID decodes a path or body id. what names the resource in the error.
func ParseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid %s id", what)
	}
	return id, nil
}

func blank(p *string) bool {
	return p != nil && strings.TrimSpace(*p) == ""
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// percent returns part/total as a rounded percentage, 0 when total is 0.
func percent(part, total int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(part) / float64(total) * 100))
}

// Date accepts either an RFC 3339 timestamp or a plain YYYY-MM-DD day.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD day in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q, use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

func datePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// dayBounds returns [start of day, start of next day) around t in UTC.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
