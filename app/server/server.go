package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mindline/app/config"
	"mindline/app/service/ledger"
	"mindline/app/service/prompt"
	"mindline/app/service/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	cfg       *config.Config
	routerSvc *router.Service
	ledgerSvc *ledger.Service

	app      *fiber.App
	registry *sessionRegistry
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Kind           string `json:"kind"`
	Reply          string `json:"reply"`
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:       do.MustInvoke[*config.Config](di),
		routerSvc: do.MustInvoke[*router.Service](di),
		ledgerSvc: do.MustInvoke[*ledger.Service](di),
		registry:  newSessionRegistry(),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	app.Post("/api/chat", s.handleChat)
	app.Get("/api/chat/:id/history", s.handleHistory)
	app.Get("/api/bookings", s.handleBookings)
	app.Get("/api/health", s.handleHealth)

	s.app = app

	return s, nil
}

func (s *Service) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := s.app.Listen(s.cfg.Server.Addr); err != nil {
			return oops.Errorf("server listen failed: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-ctx.Done()

		return s.app.ShutdownWithTimeout(10 * time.Second)
	})

	group.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if removed := s.registry.sweep(); removed > 0 {
					slog.Debug("Evicted idle conversations", "count", removed)
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (s *Service) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	sess := s.registry.getOrCreate(conversationID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastActive = time.Now()

	// an empty utterance falls through to the clarifying fallback without
	// touching routing state
	if req.Message == "" {
		sess.window.Add("assistant", prompt.FallbackReply)

		return c.JSON(chatResponse{
			ConversationID: conversationID,
			Kind:           router.KindGenerative.String(),
			Reply:          prompt.FallbackReply,
		})
	}

	start := time.Now()
	decision := s.routerSvc.ProcessTurn(c.UserContext(), &sess.state, req.Message)

	sess.window.Add("user", req.Message)
	sess.window.Add("assistant", decision.Reply)

	slog.Info("Processed turn",
		"conversation_id", conversationID,
		"kind", decision.Kind.String(),
		"duration", time.Since(start),
	)

	return c.JSON(chatResponse{
		ConversationID: conversationID,
		Kind:           decision.Kind.String(),
		Reply:          decision.Reply,
	})
}

func (s *Service) handleHistory(c *fiber.Ctx) error {
	sess, ok := s.registry.get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown conversation",
		})
	}

	sess.mu.Lock()
	entries := sess.window.Entries()
	sess.mu.Unlock()

	return c.JSON(fiber.Map{
		"entries": entries,
	})
}

func (s *Service) handleBookings(c *fiber.Ctx) error {
	records, err := s.ledgerSvc.Records()
	if err != nil {
		slog.Error("Failed to read booking ledger", "error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read bookings",
		})
	}

	return c.JSON(fiber.Map{
		"bookings": records,
	})
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
