package router

import "mindline/app/service/booking"

// State is the per-conversation routing state. It is owned by the caller
// (one value per conversation) and mutated by at most one handler per turn;
// the router holds no hidden conversation state of its own.
type State struct {
	AwaitingLocation bool
	BookingActive    bool
	Fields           booking.Fields
}

// Kind tags which of the four handlers produced the reply.
type Kind int

const (
	KindSafety Kind = iota
	KindSpecialist
	KindBooking
	KindBookingComplete
	KindGenerative
)

func (k Kind) String() string {
	switch k {
	case KindSafety:
		return "safety"
	case KindSpecialist:
		return "specialist"
	case KindBooking:
		return "booking"
	case KindBookingComplete:
		return "booking_complete"
	case KindGenerative:
		return "generative"
	default:
		return "unknown"
	}
}

// Decision is the result of one turn. Produced fresh each turn, never
// persisted.
type Decision struct {
	Kind  Kind
	Reply string

	// set on KindSpecialist
	LocationFound bool

	// set on KindBookingComplete
	Record *booking.Record
}
