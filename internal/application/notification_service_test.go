package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
	"github.com/oksasatya/go-appointment-scheduler/pkg/mailer"
	mailtpl "github.com/oksasatya/go-appointment-scheduler/pkg/mailer/templates"
)

func TestComposeNotification(t *testing.T) {
	if got := ComposeNotification("pt", "Carla", "dia 10 de março, às 14:00h"); got != "Novo agendamento de Carla para dia 10 de março, às 14:00h" {
		t.Fatalf("pt = %q", got)
	}
	if got := ComposeNotification("EN", "Carla", "March 10 at 14:00"); got != "New appointment from Carla for March 10 at 14:00" {
		t.Fatalf("en = %q", got)
	}
}

func newEmitterFixture() (*NotificationEmitter, *fakeNotifications, *fakePublisher) {
	users := newFakeUserRepo(&entity.User{ID: 1, Name: "Carla"})
	store := &fakeNotifications{}
	pub := &fakePublisher{}
	e := NewNotificationEmitter(users, store, pub, fixedFormatter("dia 10 de março, às 14:00h"), "pt", "Scheduler", true, nil)
	return e, store, pub
}

func TestAppointmentCreated_StoresAndPublishes(t *testing.T) {
	e, store, pub := newEmitterFixture()
	e.CompanyName = "Clínica Central"
	provider := &entity.User{ID: 5, Name: "Dr. Paulo", Email: "paulo@example.com", Provider: true}
	appt := &entity.Appointment{ID: 9, UserID: 1, ProviderID: 5, Date: time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC)}

	if err := e.AppointmentCreated(context.Background(), appt, provider); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(store.created))
	}
	n := store.created[0]
	if n.UserID != 5 || n.Read || n.Content != "Novo agendamento de Carla para dia 10 de março, às 14:00h" {
		t.Fatalf("notification = %+v", n)
	}

	if len(pub.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(pub.jobs))
	}
	job, ok := pub.jobs[0].(mailer.EmailJob)
	if !ok {
		t.Fatalf("job type = %T", pub.jobs[0])
	}
	if job.To != "paulo@example.com" || job.Template != mailtpl.AppointmentCreated {
		t.Fatalf("job = %+v", job)
	}
	if job.Data["AppName"] != "Scheduler" || job.Data["CompanyName"] != "Clínica Central" {
		t.Fatalf("job data = %v", job.Data)
	}
}

func TestAppointmentCreated_PublishFailureIsIgnored(t *testing.T) {
	e, store, pub := newEmitterFixture()
	pub.err = errors.New("channel closed")
	provider := &entity.User{ID: 5, Email: "paulo@example.com", Provider: true}

	if err := e.AppointmentCreated(context.Background(), &entity.Appointment{UserID: 1, ProviderID: 5}, provider); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("notification not stored")
	}
}

func TestAppointmentCreated_MailDisabled(t *testing.T) {
	e, _, pub := newEmitterFixture()
	e.MailEnabled = false

	if err := e.AppointmentCreated(context.Background(), &entity.Appointment{UserID: 1, ProviderID: 5}, &entity.User{ID: 5, Email: "p@example.com"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(pub.jobs) != 0 {
		t.Fatalf("published %d jobs with mail disabled", len(pub.jobs))
	}
}

func TestAppointmentCreated_Failures(t *testing.T) {
	e, store, _ := newEmitterFixture()

	if err := e.AppointmentCreated(context.Background(), &entity.Appointment{UserID: 42, ProviderID: 5}, nil); err == nil {
		t.Fatalf("expected error for unknown requester")
	}

	store.err = errors.New("insert failed")
	if err := e.AppointmentCreated(context.Background(), &entity.Appointment{UserID: 1, ProviderID: 5}, nil); err == nil {
		t.Fatalf("expected error when the store fails")
	}
}

func TestAppointmentCreated_LocaleFormatter(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: 1, Name: "Carla"})
	store := &fakeNotifications{}
	sp := time.FixedZone("BRT", -3*60*60)
	e := NewNotificationEmitter(users, store, nil, helpers.NewDateFormatter("pt", sp), "pt", "", false, nil)

	appt := &entity.Appointment{UserID: 1, ProviderID: 5, Date: time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC)}
	if err := e.AppointmentCreated(context.Background(), appt, nil); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if got := store.created[0].Content; got != "Novo agendamento de Carla para dia 10 de março, às 14:00h" {
		t.Fatalf("content = %q", got)
	}
}
