package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/grading"
	"github.com/stemsi/unirecords-backend/internal/mailer"
)

// Template identifies which grade notification wording was used.
type Template string

const (
	TemplateWarning         Template = "warning"
	TemplateCongratulations Template = "congratulations"
	TemplateNeutral         Template = "neutral"
)

// Score thresholds selecting the notification template.
const (
	warningBelow          = 5.0
	congratulationsFromAt = 8.0
)

const (
	defaultPlainSubject = "Pemberitahuan dari Sistem Informasi Akademik"
	defaultPlainBody    = "Pesan dari Sistem Informasi Akademik."
	unknownCourseName   = "Tidak diketahui"
)

// GradeMessage is a formatted grade notification.
type GradeMessage struct {
	Template Template `json:"template"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
}

// FormatGradeMessage picks the template for score and renders subject and body.
func FormatGradeMessage(courseName string, score float64) GradeMessage {
	g := grading.Format(score)
	switch {
	case score < warningBelow:
		return GradeMessage{
			Template: TemplateWarning,
			Subject:  fmt.Sprintf("[PERINGATAN] Hasil studi mata kuliah %s", courseName),
			Body: fmt.Sprintf("Nilai Anda pada mata kuliah %s adalah %s. "+
				"Silakan hubungi dosen pembimbing akademik untuk mendapatkan bantuan memperbaiki hasil studi.", courseName, g),
		}
	case score >= congratulationsFromAt:
		return GradeMessage{
			Template: TemplateCongratulations,
			Subject:  fmt.Sprintf("[SELAMAT] Hasil studi mata kuliah %s", courseName),
			Body: fmt.Sprintf("Selamat! Anda memperoleh nilai %s pada mata kuliah %s. "+
				"Terus pertahankan semangat belajar Anda!", g, courseName),
		}
	default:
		return GradeMessage{
			Template: TemplateNeutral,
			Subject:  fmt.Sprintf("Hasil studi mata kuliah %s", courseName),
			Body:     fmt.Sprintf("Nilai Anda pada mata kuliah %s adalah %s.", courseName, g),
		}
	}
}

// GradeNotifier tells a student about a newly entered grade.
type GradeNotifier interface {
	NotifyGrade(ctx context.Context, email, courseName string, score float64) error
}

// NotificationService formats notifications and hands them to a mail transport.
type NotificationService struct {
	mailer mailer.Mailer
	log    zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(m mailer.Mailer, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		mailer: m,
		log:    log.With().Str("component", "notification_service").Logger(),
	}
}

// NotifyGrade sends the grade notification. An empty email is a no-op.
func (s *NotificationService) NotifyGrade(ctx context.Context, email, courseName string, score float64) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	msg := FormatGradeMessage(courseName, score)
	if err := s.mailer.Send(ctx, mailer.Message{To: email, Subject: msg.Subject, Body: msg.Body}); err != nil {
		return fmt.Errorf("send %s notification: %w", msg.Template, err)
	}

	s.log.Debug().
		Str("to", email).
		Str("template", string(msg.Template)).
		Msg("Grade notification sent")
	return nil
}

// SendPlain sends a free-form message, filling in the default subject and body.
func (s *NotificationService) SendPlain(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(subject) == "" {
		subject = defaultPlainSubject
	}
	if strings.TrimSpace(body) == "" {
		body = defaultPlainBody
	}
	return s.mailer.Send(ctx, mailer.Message{To: to, Subject: subject, Body: body})
}

// SendManual delivers a staff-composed message: the grade template when a
// score is given, otherwise a plain message.
func (s *NotificationService) SendManual(ctx context.Context, to, subject, body, courseName string, score *float64) error {
	if score != nil {
		if strings.TrimSpace(courseName) == "" {
			courseName = unknownCourseName
		}
		return s.NotifyGrade(ctx, to, courseName, *score)
	}
	return s.SendPlain(ctx, to, subject, body)
}
