package booking

import "context"

// Slot identifies one appointment field. The declaration order is the
// collection order, one slot per turn.
type Slot int

const (
	SlotName Slot = iota
	SlotSpecialty
	SlotDate
	SlotTime
	SlotEmail
	SlotPhone
	SlotLocation
	SlotCondition
	SlotNotes

	slotCount
)

// prompt sent after the slot has been filled, asking for the next one;
// SlotNotes has no follow-up, filling it completes the booking
var slotPrompts = [slotCount]string{
	SlotName:      "Please provide the specialty (e.g., Psychologist, Psychiatrist, etc.).",
	SlotSpecialty: "Please provide the appointment date (e.g., 2023-10-20).",
	SlotDate:      "Please provide the appointment time (e.g., 10:00 AM).",
	SlotTime:      "Please provide your email address.",
	SlotEmail:     "Please provide your phone number.",
	SlotPhone:     "Please provide your location.",
	SlotLocation:  "Please describe your condition (e.g., Anxiety, Stress).",
	SlotCondition: "Please provide any additional notes you may have.",
}

// Fields holds the values collected so far, indexed by slot.
// The zero value is an empty, inactive collection.
type Fields struct {
	values [slotCount]string
}

func (f *Fields) set(slot Slot, value string) {
	f.values[slot] = value
}

// nextUnfilled returns the first empty slot in collection order.
func (f *Fields) nextUnfilled() (Slot, bool) {
	for slot := SlotName; slot < slotCount; slot++ {
		if f.values[slot] == "" {
			return slot, true
		}
	}

	return 0, false
}

func (f *Fields) IsEmpty() bool {
	// slots fill in order, so an empty first slot means nothing is collected
	return f.values[SlotName] == ""
}

func (f *Fields) record() Record {
	return Record{
		Name:      f.values[SlotName],
		Specialty: f.values[SlotSpecialty],
		Date:      f.values[SlotDate],
		Time:      f.values[SlotTime],
		Email:     f.values[SlotEmail],
		Phone:     f.values[SlotPhone],
		Location:  f.values[SlotLocation],
		Condition: f.values[SlotCondition],
		Notes:     f.values[SlotNotes],
	}
}

// Record is a completed booking. It is only ever assembled once all nine
// slots hold non-empty values.
type Record struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Condition string `json:"condition"`
	Notes     string `json:"notes"`
}

// Ledger persists completed bookings, append-only.
type Ledger interface {
	Append(ctx context.Context, record Record) error
}

// Notifier dispatches the booking confirmation, best-effort.
type Notifier interface {
	EnqueueConfirmation(record Record)
}

type Status int

const (
	// StatusPrompt means one slot was filled and the next one is requested
	StatusPrompt Status = iota
	// StatusCancelled means the user declined and the flow was reset
	StatusCancelled
	// StatusCompleted means the record was persisted and the flow was reset
	StatusCompleted
	// StatusStale means the filler was invoked with no slot left to fill
	StatusStale
)

type Outcome struct {
	Status Status
	Reply  string

	// set only when Status is StatusCompleted
	Record *Record
}
