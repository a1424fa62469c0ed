package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
	"github.com/oksasatya/go-appointment-scheduler/pkg/mailer"
	mailtpl "github.com/oksasatya/go-appointment-scheduler/pkg/mailer/templates"
)

// NotificationEmitter stores a notification for the provider of a new appointment
// and enqueues the matching email job.
type NotificationEmitter struct {
	Users         repo.UserRepository
	Notifications repo.NotificationRepository
	Publisher     JobPublisher
	Formatter     helpers.DateFormatter
	Locale        string
	AppName       string
	CompanyName   string
	MailEnabled   bool
	Logger        *logrus.Logger
}

func NewNotificationEmitter(users repo.UserRepository, notifications repo.NotificationRepository, pub JobPublisher, formatter helpers.DateFormatter, locale, appName string, mailEnabled bool, logger *logrus.Logger) *NotificationEmitter {
	return &NotificationEmitter{
		Users:         users,
		Notifications: notifications,
		Publisher:     pub,
		Formatter:     formatter,
		Locale:        locale,
		AppName:       appName,
		MailEnabled:   mailEnabled,
		Logger:        logger,
	}
}

// AppointmentCreated persists the notification. The email job is best-effort:
// a publish failure is logged and does not fail the notification.
func (e *NotificationEmitter) AppointmentCreated(ctx context.Context, appt *entity.Appointment, provider *entity.User) error {
	requester, err := e.Users.GetByID(ctx, appt.UserID)
	if err != nil {
		return fmt.Errorf("load requester %d: %w", appt.UserID, err)
	}

	when := e.Formatter.Format(appt.Date)
	n := &entity.Notification{
		ID:      uuid.New(),
		Content: ComposeNotification(e.Locale, requester.Name, when),
		UserID:  appt.ProviderID,
	}
	if err := e.Notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if e.Publisher == nil || !e.MailEnabled || provider == nil || provider.Email == "" {
		return nil
	}
	job := mailer.EmailJob{
		To:       provider.Email,
		Template: mailtpl.AppointmentCreated,
		Data: mailtpl.NewAppointmentCreatedData(provider.Name, provider.Email, requester.Name, n.Content, appt.Date, when,
			mailtpl.WithAppName(e.AppName),
			mailtpl.WithCompanyName(e.CompanyName),
			mailtpl.WithNotificationID(n.ID.String()),
		),
	}
	if pErr := e.Publisher.PublishJSON(ctx, job); pErr != nil && e.Logger != nil {
		e.Logger.WithError(pErr).WithField("notification_id", n.ID.String()).Warn("publish notification email failed")
	}
	return nil
}

// ComposeNotification builds the provider-facing message in locale.
func ComposeNotification(locale, requesterName, when string) string {
	if strings.EqualFold(strings.TrimSpace(locale), "en") {
		return fmt.Sprintf("New appointment from %s for %s", requesterName, when)
	}
	return fmt.Sprintf("Novo agendamento de %s para %s", requesterName, when)
}
