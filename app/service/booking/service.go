package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/do"
)

const appendTimeout = 5 * time.Second

var intentKeywords = []string{
	"booking",
	"appointment",
	"schedule an appointment",
	"i need an appointment",
	"time",
}

const cancelReply = "I understand that you may not want to provide your information right now, and we completely respect that.\n" +
	"Providing these details helps us schedule an appointment with the specialist more accurately.\n" +
	"If you need more time or would prefer to cancel the booking, we are here to assist you at any time.\n" +
	"If you'd like any further assistance, we can direct you to support lines or additional help."

const completedReply = "Your appointment has been successfully booked. A confirmation email has been sent."

const staleReply = "Sorry, something went wrong. Please try again."

type Service struct {
	ledger   Ledger
	notifier Notifier
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		ledger:   do.MustInvoke[Ledger](di),
		notifier: do.MustInvoke[Notifier](di),
	}, nil
}

// DetectIntent reports whether the utterance asks to book an appointment.
func (s *Service) DetectIntent(utterance string) bool {
	lowered := strings.ToLower(utterance)

	for _, keyword := range intentKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}

	return false
}

// Advance consumes one utterance of an active booking flow. It operates on a
// copy of fields and returns the updated copy; on error the caller must keep
// its previous state so the turn fails atomically.
//
// A cancellation check runs before the utterance is treated as slot data: any
// utterance containing "no" resets the flow.
func (s *Service) Advance(ctx context.Context, fields Fields, utterance string) (Outcome, Fields, error) {
	if strings.Contains(strings.ToLower(utterance), "no") {
		return Outcome{Status: StatusCancelled, Reply: cancelReply}, Fields{}, nil
	}

	slot, ok := fields.nextUnfilled()
	if !ok {
		// nothing left to fill means the caller drove the machine past
		// completion, reset so the flag cannot wedge the conversation
		return Outcome{Status: StatusStale, Reply: staleReply}, Fields{}, nil
	}

	fields.set(slot, strings.TrimSpace(utterance))

	if slot != SlotNotes {
		return Outcome{Status: StatusPrompt, Reply: slotPrompts[slot]}, fields, nil
	}

	record := fields.record()

	appendCtx, cancel := context.WithTimeout(ctx, appendTimeout)
	defer cancel()

	if err := s.ledger.Append(appendCtx, record); err != nil {
		return Outcome{}, Fields{}, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.notifier.EnqueueConfirmation(record)

	slog.Info("Booking completed",
		"email", record.Email,
		"location", record.Location,
		"date", record.Date,
	)

	return Outcome{Status: StatusCompleted, Reply: completedReply, Record: &record}, Fields{}, nil
}
