package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

// Notifier is told about events a patient should hear about. Implementations
// must not block the caller.
type Notifier interface {
	AppointmentStatusChanged(patient *models.User, apt *models.Appointment)
	AdviceIssued(patient, doctor *models.User, advice *models.Advice)
}

type NopNotifier struct{}

func (NopNotifier) AppointmentStatusChanged(*models.User, *models.Appointment) {}
func (NopNotifier) AdviceIssued(*models.User, *models.User, *models.Advice)    {}

// NotificationService sends SMS through the Textbelt API.
type NotificationService struct {
	apiKey string
	url    string
	client *http.Client
	log    zerolog.Logger
	wg     sync.WaitGroup
}

func NewNotificationService(apiKey, url string, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With().Str("component", "sms").Logger(),
	}
}

// Enabled reports whether an API key is configured.
func (s *NotificationService) Enabled() bool {
	return s.apiKey != ""
}

func (s *NotificationService) AppointmentStatusChanged(patient *models.User, apt *models.Appointment) {
	var body string
	switch apt.Status {
	case models.StatusConfirmed:
		body = fmt.Sprintf("Appointment confirmed: %s on %s at %s.",
			apt.Type, apt.AppointmentDate.Format("Jan 2"), apt.TimeSlot.StartTime)
	case models.StatusCancelled:
		body = fmt.Sprintf("Appointment cancelled: %s on %s at %s.",
			apt.Type, apt.AppointmentDate.Format("Jan 2"), apt.TimeSlot.StartTime)
	default:
		return
	}
	s.send(patient, body)
}

func (s *NotificationService) AdviceIssued(patient, doctor *models.User, advice *models.Advice) {
	from := "your doctor"
	if doctor != nil {
		from = doctor.FullName
	}
	s.send(patient, fmt.Sprintf("New advice from %s: %s", from, advice.Title))
}

// Wait blocks until in-flight messages are done. Used on shutdown and in tests.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) send(patient *models.User, message string) {
	if !s.Enabled() {
		return
	}
	if patient == nil || patient.PhoneNumber == "" {
		s.log.Debug().Msg("SMS not sent: patient has no phone number")
		return
	}

	// Send in a goroutine so it doesn't block the API response.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.sendTextbelt(context.Background(), patient.PhoneNumber, message); err != nil {
			s.log.Warn().Err(err).Str("user_id", patient.ID.Hex()).Msg("SMS delivery failed")
			return
		}
		s.log.Info().Str("user_id", patient.ID.Hex()).Msg("SMS sent")
	}()
}

type textbeltResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *NotificationService) sendTextbelt(ctx context.Context, phone, message string) error {
	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(postBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode textbelt response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt: %s", result.Error)
	}
	return nil
}
