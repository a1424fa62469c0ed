package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

var bookingNow = time.Date(2024, 3, 10, 10, 15, 0, 0, time.UTC)

type bookingFixture struct {
	svc      *AppointmentService
	appts    *memAppointments
	users    *fakeUserRepo
	notifier *fakeNotifier
	locker   *fakeLocker
}

func newBookingFixture() *bookingFixture {
	users := newFakeUserRepo(
		&entity.User{ID: 1, Name: "Carla", Email: "carla@example.com"},
		&entity.User{ID: 5, Name: "Dr. Paulo", Email: "paulo@example.com", Provider: true},
		&entity.User{ID: 6, Name: "Bruno", Email: "bruno@example.com"},
	)
	appts := &memAppointments{}
	notifier := &fakeNotifier{}
	locker := &fakeLocker{}
	svc := NewAppointmentService(appts, users, notifier, locker, time.Second, func(p string) string { return "https://cdn/" + p }, nil)
	svc.Now = func() time.Time { return bookingNow }
	return &bookingFixture{svc: svc, appts: appts, users: users, notifier: notifier, locker: locker}
}

func TestBook_StoresStartOfHour(t *testing.T) {
	f := newBookingFixture()

	appt, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:35:00Z"})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	want := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	if !appt.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", appt.Date, want)
	}
	if appt.UserID != 1 || appt.ProviderID != 5 || appt.CanceledAt != nil {
		t.Fatalf("unexpected appointment %+v", appt)
	}
	if f.notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", f.notifier.calls)
	}
	if len(f.locker.keys) != 1 || f.locker.keys[0] != SlotLockKey(5, want) || f.locker.released != 1 {
		t.Fatalf("lock keys=%v released=%d", f.locker.keys, f.locker.released)
	}
}

func TestBook_SameHourTwiceIsUnavailable(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	if _, err := f.svc.Book(ctx, Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:35:00Z"}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := f.svc.Book(ctx, Identity{UserID: 6}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:10:00Z"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("second booking err = %v, want ErrSlotUnavailable", err)
	}
	if len(f.appts.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(f.appts.rows))
	}

	if _, err := f.svc.Book(ctx, Identity{UserID: 6}, BookingRequest{ProviderID: 5, Date: "2024-03-10T15:00:00Z"}); err != nil {
		t.Fatalf("next hour should be free: %v", err)
	}
}

func TestBook_PastBoundary(t *testing.T) {
	hour := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

	f := newBookingFixture()
	f.svc.Now = func() time.Time { return hour }
	appt, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T10:00:00Z"})
	if err != nil {
		t.Fatalf("slot equal to now: %v", err)
	}
	if !appt.Date.Equal(hour) {
		t.Fatalf("date = %v, want %v", appt.Date, hour)
	}

	f = newBookingFixture()
	f.svc.Now = func() time.Time { return hour.Add(time.Millisecond) }
	if _, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T10:00:00Z"}); !errors.Is(err, ErrPastDate) {
		t.Fatalf("err = %v, want ErrPastDate", err)
	}
	if len(f.locker.keys) != 0 || f.appts.existsCalls != 0 {
		t.Fatalf("past slot reached lock=%v exists=%d", f.locker.keys, f.appts.existsCalls)
	}
}

func TestBook_CanceledAppointmentDoesNotBlock(t *testing.T) {
	f := newBookingFixture()
	slot := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	canceled := bookingNow
	f.appts.rows = append(f.appts.rows, entity.Appointment{ID: 1, UserID: 6, ProviderID: 5, Date: slot, CanceledAt: &canceled})

	if _, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:20:00Z"}); err != nil {
		t.Fatalf("book over canceled appointment: %v", err)
	}
}

func TestBook_Rejections(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		req  BookingRequest
		want error
	}{
		{"unauthenticated", Identity{}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:00:00Z"}, ErrUnauthenticated},
		{"target is not a provider", Identity{UserID: 1}, BookingRequest{ProviderID: 6, Date: "2024-03-10T14:00:00Z"}, ErrInvalidProvider},
		{"target does not exist", Identity{UserID: 1}, BookingRequest{ProviderID: 999, Date: "2024-03-10T14:00:00Z"}, ErrInvalidProvider},
		{"past date", Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-09T14:00:00Z"}, ErrPastDate},
		{"current hour is already past", Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T10:30:00Z"}, ErrPastDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture()
			_, err := f.svc.Book(context.Background(), tt.id, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(f.appts.rows) != 0 || f.notifier.calls != 0 {
				t.Fatalf("rejected booking had side effects: rows=%d notified=%d", len(f.appts.rows), f.notifier.calls)
			}
		})
	}
}

func TestBook_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   BookingRequest
		field string
	}{
		{"missing provider", BookingRequest{Date: "2024-03-10T14:00:00Z"}, "provider_id"},
		{"missing date", BookingRequest{ProviderID: 5}, "date"},
		{"malformed date", BookingRequest{ProviderID: 5, Date: "10/03/2024"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture()
			_, err := f.svc.Book(context.Background(), Identity{UserID: 1}, tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Fatalf("fields = %v, want %s", verr.Fields, tt.field)
			}
		})
	}
}

func TestBook_LockBusyIsUnavailable(t *testing.T) {
	f := newBookingFixture()
	f.locker.busy = true

	_, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:00:00Z"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
	if len(f.appts.rows) != 0 {
		t.Fatalf("booking written while lock was busy")
	}
}

func TestBook_LockErrorFallsBackToDatabase(t *testing.T) {
	f := newBookingFixture()
	f.locker.err = errors.New("redis down")

	if _, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:00:00Z"}); err != nil {
		t.Fatalf("book with lock error: %v", err)
	}
}

func TestBook_ConflictOnWriteIsUnavailable(t *testing.T) {
	f := newBookingFixture()
	f.appts.createErr = repo.ErrConflict

	_, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:00:00Z"})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
	if f.notifier.calls != 0 {
		t.Fatalf("notified for a failed booking")
	}
}

func TestBook_NotificationFailureStillBooks(t *testing.T) {
	f := newBookingFixture()
	f.notifier.err = errors.New("mongo down")

	appt, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:00:00Z"})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appt.ID == 0 || len(f.appts.rows) != 1 {
		t.Fatalf("booking not persisted: %+v", appt)
	}
}

func TestBook_StorageErrorPropagates(t *testing.T) {
	f := newBookingFixture()
	boom := errors.New("connection reset")
	f.appts.existsErr = boom

	_, err := f.svc.Book(context.Background(), Identity{UserID: 1}, BookingRequest{ProviderID: 5, Date: "2024-03-10T14:00:00Z"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestList_Pagination(t *testing.T) {
	f := newBookingFixture()
	avatar := &entity.File{ID: 3, Path: "avatars/5/a.png"}
	f.appts.views = []entity.AppointmentView{{
		ID:       1,
		Date:     time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC),
		Provider: entity.ProviderSummary{ID: 5, Name: "Dr. Paulo", Avatar: avatar},
	}}

	views, err := f.svc.List(context.Background(), Identity{UserID: 1}, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if f.appts.gotLimit != PageSize || f.appts.gotOffset != 20 {
		t.Fatalf("limit/offset = %d/%d, want 20/20", f.appts.gotLimit, f.appts.gotOffset)
	}
	if len(views) != 1 || views[0].Provider.Avatar.URL != "https://cdn/avatars/5/a.png" {
		t.Fatalf("views = %+v", views)
	}

	if _, err := f.svc.List(context.Background(), Identity{UserID: 1}, 1); err != nil || f.appts.gotOffset != 0 {
		t.Fatalf("page 1 offset = %d err = %v", f.appts.gotOffset, err)
	}

	var verr *ValidationError
	if _, err := f.svc.List(context.Background(), Identity{UserID: 1}, 0); !errors.As(err, &verr) {
		t.Fatalf("page 0 err = %v, want *ValidationError", err)
	}
	if _, err := f.svc.List(context.Background(), Identity{}, 1); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous list err = %v", err)
	}
}

func TestSlotLockKey(t *testing.T) {
	slot := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	if got := SlotLockKey(5, slot); got != "lock:appointment:5:1710079200" {
		t.Fatalf("key = %s", got)
	}
}
