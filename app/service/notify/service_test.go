package notify

import (
	"context"
	"testing"
	"time"

	"mindline/app/client/mailer"
	"mindline/app/config"
	"mindline/app/service/booking"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	di := do.New()
	t.Cleanup(func() { _ = di.Shutdown() })

	do.ProvideValue(di, &config.Config{Mail: config.Mail{Disabled: true}})
	do.Provide(di, mailer.NewClient)

	svc, err := New(di)
	require.NoError(t, err)

	return svc
}

func TestEnqueueNeverBlocks(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < bufferSize*2; i++ {
		svc.EnqueueConfirmation(booking.Record{Email: "jane@example.com"})
	}

	assert.Len(t, svc.queue, bufferSize)
}

func TestRunDrainsQueue(t *testing.T) {
	svc := newTestService(t)

	svc.EnqueueConfirmation(booking.Record{Email: "jane@example.com"})
	svc.EnqueueConfirmation(booking.Record{Email: "john@example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		svc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return len(svc.queue) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestEnqueueAfterShutdownDoesNotPanic(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Shutdown())

	assert.NotPanics(t, func() {
		svc.EnqueueConfirmation(booking.Record{Email: "jane@example.com"})
	})
}
