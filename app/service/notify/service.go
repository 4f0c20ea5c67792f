package notify

import (
	"context"
	"log/slog"

	"mindline/app/client/mailer"
	"mindline/app/service/booking"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

// Service dispatches booking confirmations off the turn path. Delivery is
// best-effort: a failed send is logged to the operator channel, the ledger
// row remains the source of truth.
type Service struct {
	mailerClient *mailer.Client
	queue        chan booking.Record
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		mailerClient: do.MustInvoke[*mailer.Client](di),
		queue:        make(chan booking.Record, bufferSize),
	}, nil
}

// EnqueueConfirmation hands a completed booking to the dispatch worker.
// Never blocks a turn; a full queue drops with a warning.
func (s *Service) EnqueueConfirmation(record booking.Record) {
	defer func() {
		if r := recover(); r != nil {

		}
	}()

	select {
	case s.queue <- record:
	default:
		slog.Warn("confirmation queue is full", "email", record.Email)
	}
}

func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-s.queue:
			if !ok {
				return
			}

			s.dispatch(record)
		}
	}
}

func (s *Service) dispatch(record booking.Record) {
	if err := s.mailerClient.SendConfirmation(record); err != nil {
		slog.Error("Failed to send booking confirmation",
			"email", record.Email,
			"date", record.Date,
			"error", err,
			"telegram", true,
		)
		return
	}

	slog.Info("Booking confirmation sent",
		"email", record.Email,
		"date", record.Date,
		"telegram", true,
	)
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
