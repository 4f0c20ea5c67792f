package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mindline/app/config"
	"mindline/app/service/booking"
	"mindline/app/service/directory"
	"mindline/app/service/prompt"
	"mindline/app/service/safety"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	records []booking.Record
	err     error
}

func (f *fakeLedger) Append(_ context.Context, record booking.Record) error {
	if f.err != nil {
		return f.err
	}

	f.records = append(f.records, record)
	return nil
}

type fakeNotifier struct {
	enqueued []booking.Record
}

func (f *fakeNotifier) EnqueueConfirmation(record booking.Record) {
	f.enqueued = append(f.enqueued, record)
}

type fakeGenerator struct {
	lastPrompt string
	output     string
	err        error
}

func (f *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt

	if f.err != nil {
		return "", f.err
	}

	return f.output, nil
}

type fixture struct {
	svc       *Service
	ledger    *fakeLedger
	notifier  *fakeNotifier
	generator *fakeGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	di := do.New()
	t.Cleanup(func() { _ = di.Shutdown() })

	do.ProvideValue(di, &config.Config{})
	do.Provide(di, safety.New)
	do.Provide(di, directory.New)
	do.Provide(di, booking.New)
	do.Provide(di, prompt.New)

	ledger := &fakeLedger{}
	notifier := &fakeNotifier{}
	generator := &fakeGenerator{output: "That sounds really hard. What usually helps you feel grounded?"}

	do.ProvideValue[booking.Ledger](di, ledger)
	do.ProvideValue[booking.Notifier](di, notifier)
	do.ProvideValue[Generator](di, generator)

	svc, err := New(di)
	require.NoError(t, err)

	return &fixture{svc: svc, ledger: ledger, notifier: notifier, generator: generator}
}

func TestSafetyBranchWinsOverBooking(t *testing.T) {
	f := newFixture(t)
	var st State

	decision := f.svc.ProcessTurn(context.Background(), &st, "I need an appointment because I want to kill myself")

	assert.Equal(t, KindSafety, decision.Kind)
	assert.Contains(t, decision.Reply, "Your safety is important")
	assert.Contains(t, decision.Reply, "- New York")
	assert.True(t, st.AwaitingLocation)
	assert.False(t, st.BookingActive)
	assert.True(t, st.Fields.IsEmpty())
}

func TestAwaitingLocationFound(t *testing.T) {
	f := newFixture(t)
	st := State{AwaitingLocation: true}

	decision := f.svc.ProcessTurn(context.Background(), &st, "i live in new york")

	assert.Equal(t, KindSpecialist, decision.Kind)
	assert.True(t, decision.LocationFound)
	assert.Contains(t, decision.Reply, "Dr. John Doe")
	assert.False(t, st.AwaitingLocation)
	assert.True(t, st.BookingActive)
}

func TestAwaitingLocationNotFound(t *testing.T) {
	f := newFixture(t)
	st := State{AwaitingLocation: true}

	decision := f.svc.ProcessTurn(context.Background(), &st, "I live on Mars")

	assert.Equal(t, KindSpecialist, decision.Kind)
	assert.False(t, decision.LocationFound)
	assert.Equal(t, "Sorry, we couldn't find any specialists in your location (I live on Mars).", decision.Reply)
	assert.False(t, st.AwaitingLocation)
	assert.False(t, st.BookingActive)
}

func TestBookingIntentStartsFlow(t *testing.T) {
	f := newFixture(t)
	var st State

	decision := f.svc.ProcessTurn(context.Background(), &st, "I need an appointment")

	assert.Equal(t, KindBooking, decision.Kind)
	assert.Equal(t, "Please provide the specialty (e.g., Psychologist, Psychiatrist, etc.).", decision.Reply)
	assert.True(t, st.BookingActive)
	assert.False(t, st.Fields.IsEmpty())
}

func TestBookingFlowToCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := State{BookingActive: true}

	inputs := []string{
		"Jane Roe",
		"Psychologist",
		"2023-10-20",
		"10:00 AM",
		"jane@example.com",
		"+15550001111",
		"Chicago",
		"Anxiety",
		"prefers mornings",
	}

	var decision Decision
	for _, input := range inputs {
		decision = f.svc.ProcessTurn(ctx, &st, input)
	}

	assert.Equal(t, KindBookingComplete, decision.Kind)
	require.NotNil(t, decision.Record)
	assert.Equal(t, "jane@example.com", decision.Record.Email)

	require.Len(t, f.ledger.records, 1)
	require.Len(t, f.notifier.enqueued, 1)

	assert.False(t, st.BookingActive)
	assert.True(t, st.Fields.IsEmpty())
}

func TestBookingCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := State{BookingActive: true}

	f.svc.ProcessTurn(ctx, &st, "Jane Roe")
	decision := f.svc.ProcessTurn(ctx, &st, "NO thanks")

	assert.Equal(t, KindBooking, decision.Kind)
	assert.Contains(t, decision.Reply, "we completely respect that")
	assert.False(t, st.BookingActive)
	assert.True(t, st.Fields.IsEmpty())
	assert.Empty(t, f.ledger.records)
}

func TestBookingPersistenceFailureIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := State{BookingActive: true}

	inputs := []string{
		"Jane Roe", "Psychologist", "2023-10-20", "10:00 AM",
		"jane@example.com", "+15550001111", "Chicago", "Anxiety",
	}
	for _, input := range inputs {
		f.svc.ProcessTurn(ctx, &st, input)
	}

	f.ledger.err = errors.New("sheet unavailable")
	before := st

	decision := f.svc.ProcessTurn(ctx, &st, "prefers mornings")

	assert.Equal(t, KindBooking, decision.Kind)
	assert.Equal(t, ApologyReply, decision.Reply)

	// the failed turn must not corrupt state, the user can resend
	assert.Equal(t, before, st)
	assert.Empty(t, f.notifier.enqueued)

	f.ledger.err = nil
	decision = f.svc.ProcessTurn(ctx, &st, "prefers mornings")
	assert.Equal(t, KindBookingComplete, decision.Kind)
}

func TestGenerativeFallback(t *testing.T) {
	f := newFixture(t)
	var st State

	decision := f.svc.ProcessTurn(context.Background(), &st, "I feel sad today")

	assert.Equal(t, KindGenerative, decision.Kind)
	assert.Equal(t, "That sounds really hard. What usually helps you feel grounded?", decision.Reply)
	assert.True(t, strings.HasSuffix(f.generator.lastPrompt, "\nAssistant:"))
	assert.Contains(t, f.generator.lastPrompt, "[ROLE]")

	// step 4 never mutates conversation state
	assert.Equal(t, State{}, st)
}

func TestGenerativeWithSpecialistContext(t *testing.T) {
	f := newFixture(t)
	var st State

	f.svc.ProcessTurn(context.Background(), &st, "are there doctors near chicago?")

	assert.Contains(t, f.generator.lastPrompt, "Experts Info:")
	assert.Contains(t, f.generator.lastPrompt, "Dr. Alice Brown")
	assert.NotContains(t, f.generator.lastPrompt, "[ROLE]")
}

func TestGeneratorFailureYieldsApology(t *testing.T) {
	f := newFixture(t)
	f.generator.err = errors.New("upstream timeout")
	var st State

	decision := f.svc.ProcessTurn(context.Background(), &st, "I feel sad today")

	assert.Equal(t, KindGenerative, decision.Kind)
	assert.Equal(t, ApologyReply, decision.Reply)
	assert.Equal(t, State{}, st)
}

func TestGenerativeShortOutputFallsBack(t *testing.T) {
	f := newFixture(t)
	f.generator.output = "ok"
	var st State

	decision := f.svc.ProcessTurn(context.Background(), &st, "I feel sad today")

	assert.Equal(t, prompt.FallbackReply, decision.Reply)
}
