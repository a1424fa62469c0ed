package entity

import "time"

// Appointment books one slot of a provider. Date is always on the hour.
// A nil CanceledAt means the appointment is active.
type Appointment struct {
	ID         int64
	UserID     int64
	ProviderID int64
	Date       time.Time
	CanceledAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a Appointment) Active() bool { return a.CanceledAt == nil }

// AppointmentView is an active appointment of a customer with the provider's display data.
type AppointmentView struct {
	ID       int64
	Date     time.Time
	Provider ProviderSummary
}

type ProviderSummary struct {
	ID     int64
	Name   string
	Avatar *File
}
