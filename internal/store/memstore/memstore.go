// Package memstore keeps every collection in process memory. It backs the
// service and handler tests and the STORE_DRIVER=memory demo mode.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

// New returns an empty store.
func New() *store.Store {
	return &store.Store{
		Users:        &UserStore{t: newTable[models.User]("user")},
		Appointments: &AppointmentStore{t: newTable[models.Appointment]("appointment")},
		HealthLogs:   &HealthLogStore{t: newTable[models.HealthLog]("health log")},
		Questions:    &QuestionStore{t: newTable[models.Question]("question")},
		Advice:       &AdviceStore{t: newTable[models.Advice]("advice")},
	}
}

// table is a map of documents guarded by a RWMutex. Documents are deep
// copied through their bson encoding on the way in and out, so callers never
// share memory with the store and see the same field round-trip as MongoDB.
type table[T any] struct {
	mu   sync.RWMutex
	what string
	rows map[primitive.ObjectID][]byte
}

func newTable[T any](what string) *table[T] {
	return &table[T]{what: what, rows: make(map[primitive.ObjectID][]byte)}
}

func (t *table[T]) encode(v *T) ([]byte, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, apperr.Internal("encode "+t.what, err)
	}
	return raw, nil
}

func (t *table[T]) decode(raw []byte) (*T, error) {
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		return nil, apperr.Internal("decode "+t.what, err)
	}
	return out, nil
}

func (t *table[T]) insert(id primitive.ObjectID, v *T) error {
	raw, err := t.encode(v)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; ok {
		return apperr.Conflict(t.what + " already exists")
	}
	t.rows[id] = raw
	return nil
}

func (t *table[T]) get(id primitive.ObjectID) (*T, error) {
	t.mu.RLock()
	raw, ok := t.rows[id]
	t.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound(t.what)
	}
	return t.decode(raw)
}

func (t *table[T]) replace(id primitive.ObjectID, v *T) error {
	raw, err := t.encode(v)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return apperr.NotFound(t.what)
	}
	t.rows[id] = raw
	return nil
}

func (t *table[T]) remove(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return apperr.NotFound(t.what)
	}
	delete(t.rows, id)
	return nil
}

// all returns a decoded copy of every row accepted by match.
func (t *table[T]) all(match func(*T) bool) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for _, raw := range t.rows {
		v, err := t.decode(raw)
		if err != nil {
			return nil, err
		}
		if match(v) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (t *table[T]) count(match func(*T) bool) (int64, error) {
	rows, err := t.all(match)
	return int64(len(rows)), err
}

// page sorts rows with less and slices out the requested page.
func page[T any](rows []T, less func(a, b *T) bool, p pagination.Params) ([]T, int64) {
	sort.SliceStable(rows, func(i, j int) bool { return less(&rows[i], &rows[j]) })
	total := int64(len(rows))
	start := p.Skip()
	if start < 0 || start >= len(rows) {
		return make([]T, 0), total
	}
	end := start + p.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], total
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func inRange(v time.Time, from, to *time.Time) bool {
	if from != nil && v.Before(*from) {
		return false
	}
	if to != nil && !v.Before(*to) {
		return false
	}
	return true
}

// now is truncated to the millisecond precision MongoDB stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func stamp(created, updated *time.Time) {
	n := now()
	if created.IsZero() {
		*created = n
	}
	*updated = n
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func listed[T any](t *table[T], match func(*T) bool, less func(a, b *T) bool, p pagination.Params) ([]T, int64, error) {
	rows, err := t.all(match)
	if err != nil {
		return nil, 0, err
	}
	items, total := page(rows, less, p)
	return items, total, nil
}

// newestFirst orders by creation time descending. Ids break ties, since
// object ids created by one process increase monotonically.
func newestFirst(aCreated, bCreated time.Time, aID, bID primitive.ObjectID) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID.Hex() > bID.Hex()
}
