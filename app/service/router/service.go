package router

import (
	"context"
	"log/slog"
	"strings"

	"mindline/app/service/booking"
	"mindline/app/service/directory"
	"mindline/app/service/prompt"
	"mindline/app/service/safety"

	"github.com/samber/do"
)

// ApologyReply is returned when a collaborator fails mid-turn. The failure is
// logged; the conversation always gets a reply and keeps its state.
const ApologyReply = "I'm here to support you. Could you please rephrase your question?"

// Generator is the generation collaborator consulted on the fallback branch.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	safetySvc    *safety.Detector
	directorySvc *directory.Service
	bookingSvc   *booking.Service
	composer     *prompt.Composer
	generator    Generator
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		safetySvc:    do.MustInvoke[*safety.Detector](di),
		directorySvc: do.MustInvoke[*directory.Service](di),
		bookingSvc:   do.MustInvoke[*booking.Service](di),
		composer:     do.MustInvoke[*prompt.Composer](di),
		generator:    do.MustInvoke[Generator](di),
	}, nil
}

// ProcessTurn routes one utterance to exactly one handler, in strict
// precedence order: safety intercept, specialist lookup, booking flow,
// generative fallback. No handler past the first match is consulted.
// Every turn produces a reply; a failed turn leaves st untouched.
func (s *Service) ProcessTurn(ctx context.Context, st *State, utterance string) Decision {
	if s.safetySvc.Detect(utterance) {
		st.AwaitingLocation = true

		return Decision{Kind: KindSafety, Reply: s.safetyReply()}
	}

	if st.AwaitingLocation {
		found, location := s.directorySvc.ExtractLocation(utterance)
		reply := s.directorySvc.ListSpecialists(found, location)

		st.AwaitingLocation = false
		if found {
			st.BookingActive = true
		}

		return Decision{Kind: KindSpecialist, Reply: reply, LocationFound: found}
	}

	if s.bookingSvc.DetectIntent(utterance) || st.BookingActive {
		return s.bookingTurn(ctx, st, utterance)
	}

	return s.generativeTurn(ctx, utterance)
}

func (s *Service) bookingTurn(ctx context.Context, st *State, utterance string) Decision {
	outcome, fields, err := s.bookingSvc.Advance(ctx, st.Fields, utterance)
	if err != nil {
		slog.Error("Booking turn failed",
			"error", err,
			"telegram", true,
		)

		return Decision{Kind: KindBooking, Reply: ApologyReply}
	}

	st.Fields = fields

	switch outcome.Status {
	case booking.StatusPrompt:
		st.BookingActive = true

		return Decision{Kind: KindBooking, Reply: outcome.Reply}
	case booking.StatusCompleted:
		st.BookingActive = false

		return Decision{Kind: KindBookingComplete, Reply: outcome.Reply, Record: outcome.Record}
	default:
		// cancelled or stale, either way the flow is over
		st.BookingActive = false

		return Decision{Kind: KindBooking, Reply: outcome.Reply}
	}
}

func (s *Service) generativeTurn(ctx context.Context, utterance string) Decision {
	var composed string
	if found, location := s.directorySvc.ExtractLocation(utterance); found {
		composed = s.composer.BuildWithSpecialists(utterance, s.directorySvc.ListSpecialists(true, location))
	} else {
		composed = s.composer.Build(utterance)
	}

	raw, err := s.generator.Complete(ctx, composed)
	if err != nil {
		slog.Error("Generation failed", "error", err)

		return Decision{Kind: KindGenerative, Reply: ApologyReply}
	}

	return Decision{Kind: KindGenerative, Reply: s.composer.Clean(raw)}
}

func (s *Service) safetyReply() string {
	var builder strings.Builder

	builder.WriteString("I'm really sorry you're feeling this way. Your safety is important.\n")
	builder.WriteString("I'm here to provide information, but I can't offer therapy.\n")
	builder.WriteString("I can help you get specialists who can help you.\n")
	builder.WriteString("What is your location within the following locations:\n")

	for _, location := range s.directorySvc.Locations() {
		builder.WriteString("- " + location + "\n")
	}

	return builder.String()
}
