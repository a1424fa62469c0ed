package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithAppName(name string) Option     { return func(d *EmailData) { d.AppName = name } }
func WithCompanyName(name string) Option { return func(d *EmailData) { d.CompanyName = name } }
func WithNotificationID(id string) Option {
	return func(d *EmailData) { d.NotificationID = id }
}

// NewAppointmentCreatedData builds the payload for the provider's new-appointment email.
func NewAppointmentCreatedData(providerName, providerEmail, customerName, message string, slot time.Time, slotText string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           strings.TrimSpace(providerName),
		Email:          providerEmail,
		RecipientEmail: providerEmail,
		Type:           AppointmentCreated,
		Message:        message,
		CustomerName:   customerName,
		Slot:           slot.UTC(),
		SlotText:       slotText,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
