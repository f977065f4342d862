package reminder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindMedicine Kind = "medicine"
	KindRoutine  Kind = "routine"
)

// Medicine is an active medicine joined with its owner's contact details.
type Medicine struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	MobileNumber string    `json:"mobileNumber" db:"mobile_number"`
	Name         string    `json:"name" db:"name"`
	Dosage       string    `json:"dosage" db:"dosage"`
	Time         string    `json:"time" db:"time"` // HH:MM
	Frequency    string    `json:"frequency" db:"frequency"`
}

// Routine is an active routine joined with its owner's contact details.
type Routine struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	MobileNumber string    `json:"mobileNumber" db:"mobile_number"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Time         string    `json:"time" db:"time"`
	Frequency    string    `json:"frequency" db:"frequency"`
}

// Key identifies one reminder on one calendar day.
func Key(kind Kind, id uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s_%s_%s", kind, id, day.Format("2006-01-02"))
}

func MedicineMessage(m Medicine) string {
	return "🏥 MediLingo Reminder\n\n" +
		"It's time to take your medicine:\n" +
		"💊 " + m.Name + "\n" +
		"📏 Dosage: " + m.Dosage + "\n" +
		"⏰ Time: " + m.Time + "\n" +
		"📅 Frequency: " + m.Frequency + "\n\n" +
		"Please take your medicine as prescribed. If you have any questions, consult your doctor.\n\n" +
		"- MediLingo Team"
}

func RoutineMessage(r Routine) string {
	return "🏥 MediLingo Reminder\n\n" +
		"It's time for your routine:\n" +
		"🏃 " + r.Name + "\n" +
		"⏰ Time: " + r.Time + "\n" +
		"📝 Description: " + r.Description + "\n" +
		"📅 Frequency: " + r.Frequency + "\n\n" +
		"Stay healthy and consistent with your routine!\n\n" +
		"- MediLingo Team"
}

// clock normalizes "8:05" and "08:05" to "08:05". Values that do not parse
// are returned unchanged so they simply never match.
func clock(s string) string {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return s
	}
	return t.Format("15:04")
}
