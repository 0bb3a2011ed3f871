package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

type textbeltStub struct {
	mu       sync.Mutex
	messages []map[string]string
	fail     bool
}

func (s *textbeltStub) handler(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	s.messages = append(s.messages, body)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if s.fail {
		_, _ = w.Write([]byte(`{"success":false,"error":"Out of quota"}`))
		return
	}
	_, _ = w.Write([]byte(`{"success":true}`))
}

func newTextbelt(t *testing.T) (*textbeltStub, *httptest.Server) {
	t.Helper()
	stub := &textbeltStub{}
	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	t.Cleanup(srv.Close)
	return stub, srv
}

func sampleAppointment(status models.AppointmentStatus) *models.Appointment {
	return &models.Appointment{
		ID:              primitive.NewObjectID(),
		AppointmentDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:        models.TimeSlot{StartTime: "09:00", EndTime: "09:30"},
		Type:            "checkup",
		Status:          status,
	}
}

func TestNotificationService_AppointmentStatus(t *testing.T) {
	stub, srv := newTextbelt(t)
	n := NewNotificationService("key-123", srv.URL, zerolog.Nop())
	patient := &models.User{ID: primitive.NewObjectID(), PhoneNumber: "+15550100"}

	n.AppointmentStatusChanged(patient, sampleAppointment(models.StatusConfirmed))
	n.AppointmentStatusChanged(patient, sampleAppointment(models.StatusCompleted))
	n.AppointmentStatusChanged(patient, sampleAppointment(models.StatusCancelled))
	n.Wait()

	require.Len(t, stub.messages, 2)
	var texts []string
	for _, m := range stub.messages {
		assert.Equal(t, "+15550100", m["phone"])
		assert.Equal(t, "key-123", m["key"])
		texts = append(texts, m["message"])
	}
	assert.ElementsMatch(t, []string{
		"Appointment confirmed: checkup on Mar 12 at 09:00.",
		"Appointment cancelled: checkup on Mar 12 at 09:00.",
	}, texts)
}

func TestNotificationService_Advice(t *testing.T) {
	stub, srv := newTextbelt(t)
	n := NewNotificationService("key-123", srv.URL, zerolog.Nop())
	patient := &models.User{ID: primitive.NewObjectID(), PhoneNumber: "+15550100"}

	n.AdviceIssued(patient, &models.User{FullName: "Dr. Grey"}, &models.Advice{Title: "Low salt diet"})
	n.AdviceIssued(patient, nil, &models.Advice{Title: "Walk"})
	n.Wait()

	require.Len(t, stub.messages, 2)
	var texts []string
	for _, m := range stub.messages {
		texts = append(texts, m["message"])
	}
	assert.ElementsMatch(t, []string{
		"New advice from Dr. Grey: Low salt diet",
		"New advice from your doctor: Walk",
	}, texts)
}

func TestNotificationService_Skips(t *testing.T) {
	stub, srv := newTextbelt(t)

	disabled := NewNotificationService("", srv.URL, zerolog.Nop())
	assert.False(t, disabled.Enabled())
	disabled.AppointmentStatusChanged(&models.User{PhoneNumber: "+15550100"}, sampleAppointment(models.StatusConfirmed))
	disabled.Wait()

	n := NewNotificationService("key-123", srv.URL, zerolog.Nop())
	n.AppointmentStatusChanged(&models.User{}, sampleAppointment(models.StatusConfirmed))
	n.AppointmentStatusChanged(nil, sampleAppointment(models.StatusConfirmed))
	n.Wait()

	assert.Empty(t, stub.messages)
}

func TestNotificationService_ProviderError(t *testing.T) {
	stub, srv := newTextbelt(t)
	stub.fail = true
	n := NewNotificationService("key-123", srv.URL, zerolog.Nop())

	err := n.sendTextbelt(context.Background(), "+15550100", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Out of quota")
}
