package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

const PageSize = 20

// BookingRequest is the body of POST /appointments.
type BookingRequest struct {
	ProviderID int64  `json:"provider_id" binding:"required,gt=0"`
	Date       string `json:"date" binding:"required,iso8601"`
}

// Notifier records the provider-facing side effects of a new booking.
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt *entity.Appointment, provider *entity.User) error
}

type AppointmentService struct {
	Appointments repo.AppointmentRepository
	Users        repo.UserRepository
	Notifier     Notifier
	Locker       SlotLocker
	LockTTL      time.Duration
	FileURL      func(path string) string
	Logger       *logrus.Logger
	Now          func() time.Time
}

func NewAppointmentService(appointments repo.AppointmentRepository, users repo.UserRepository, notifier Notifier, locker SlotLocker, lockTTL time.Duration, fileURL func(string) string, logger *logrus.Logger) *AppointmentService {
	return &AppointmentService{
		Appointments: appointments,
		Users:        users,
		Notifier:     notifier,
		Locker:       locker,
		LockTTL:      lockTTL,
		FileURL:      fileURL,
		Logger:       logger,
		Now:          time.Now,
	}
}

// Book runs the booking pipeline: validation, provider eligibility, availability,
// write, then a best-effort notification to the provider.
func (s *AppointmentService) Book(ctx context.Context, id Identity, req BookingRequest) (*entity.Appointment, error) {
	if !id.valid() {
		return nil, ErrUnauthenticated
	}
	requested, err := ValidateBooking(req)
	if err != nil {
		return nil, err
	}
	provider, err := s.CheckProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}

	slot := helpers.StartOfHour(requested)
	if err := s.checkNotPast(slot); err != nil {
		return nil, err
	}

	release, err := s.lockSlot(ctx, provider.ID, slot)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkFree(ctx, provider.ID, slot); err != nil {
		return nil, err
	}

	appt := &entity.Appointment{UserID: id.UserID, ProviderID: provider.ID, Date: slot}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	if s.Notifier != nil {
		if nErr := s.Notifier.AppointmentCreated(ctx, appt, provider); nErr != nil && s.Logger != nil {
			s.Logger.WithError(nErr).WithFields(logrus.Fields{
				"appointment_id": appt.ID,
				"provider_id":    provider.ID,
			}).Warn("appointment notification failed")
		}
	}
	return appt, nil
}

// ValidateBooking checks the request shape and returns the requested instant.
func ValidateBooking(req BookingRequest) (time.Time, error) {
	if err := validate(req); err != nil {
		return time.Time{}, err
	}
	t, err := helpers.ParseISO8601(req.Date)
	if err != nil {
		return time.Time{}, invalid("date", "must be an ISO-8601 date")
	}
	return t, nil
}

// CheckProvider returns the provider user or ErrInvalidProvider.
func (s *AppointmentService) CheckProvider(ctx context.Context, providerID int64) (*entity.User, error) {
	p, err := s.Users.FindProvider(ctx, providerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidProvider
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CheckAvailability fails with ErrPastDate when slot is before now and with
// ErrSlotUnavailable when providerID already has an active appointment at slot.
// slot must already be on the hour.
func (s *AppointmentService) CheckAvailability(ctx context.Context, providerID int64, slot time.Time) error {
	if err := s.checkNotPast(slot); err != nil {
		return err
	}
	return s.checkFree(ctx, providerID, slot)
}

// a slot equal to now is still bookable
func (s *AppointmentService) checkNotPast(slot time.Time) error {
	if slot.Before(s.now()) {
		return ErrPastDate
	}
	return nil
}

func (s *AppointmentService) checkFree(ctx context.Context, providerID int64, slot time.Time) error {
	taken, err := s.Appointments.ExistsActive(ctx, providerID, slot)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotUnavailable
	}
	return nil
}

// List returns one page of the caller's active appointments ordered by date.
func (s *AppointmentService) List(ctx context.Context, id Identity, page int) ([]entity.AppointmentView, error) {
	if !id.valid() {
		return nil, ErrUnauthenticated
	}
	if page < 1 {
		return nil, invalid("page", "must be at least 1")
	}
	views, err := s.Appointments.ListActiveByUser(ctx, id.UserID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}
	for i := range views {
		withURL(views[i].Provider.Avatar, s.FileURL)
	}
	return views, nil
}

func SlotLockKey(providerID int64, slot time.Time) string {
	return "lock:appointment:" + strconv.FormatInt(providerID, 10) + ":" + strconv.FormatInt(slot.Unix(), 10)
}

// lockSlot serialises bookings of one provider slot. A Redis outage degrades to the
// database uniqueness constraint instead of failing the booking.
func (s *AppointmentService) lockSlot(ctx context.Context, providerID int64, slot time.Time) (func(), error) {
	noop := func() {}
	if s.Locker == nil {
		return noop, nil
	}
	key := SlotLockKey(providerID, slot)
	unlock, ok, err := s.Locker.TryLock(ctx, key, s.LockTTL)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("slot lock unavailable")
		}
		return noop, nil
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}
	return func() {
		if rErr := unlock(context.WithoutCancel(ctx)); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("slot lock release failed")
		}
	}, nil
}

func (s *AppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func withURL(f *entity.File, fileURL func(string) string) {
	if f == nil || fileURL == nil || f.Path == "" {
		return
	}
	f.URL = fileURL(f.Path)
}
