package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"greencart-backend/internal/infrastructure/email"
	"greencart-backend/internal/shared"
)

// ============================================
// Welcome Email Handler
// ============================================

type WelcomeEmailHandler struct {
	emailService email.EmailService
}

func NewWelcomeEmailHandler(emailService email.EmailService) *WelcomeEmailHandler {
	return &WelcomeEmailHandler{emailService: emailService}
}

func (h *WelcomeEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal WelcomeEmail payload")
		// A malformed payload never fixes itself on retry.
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Processing welcome email")

	if err := h.emailService.SendWelcomeEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send welcome email")
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

// ============================================
// Email Verification Handler
// ============================================

type VerificationEmailHandler struct {
	emailService email.EmailService
}

func NewVerificationEmailHandler(emailService email.EmailService) *VerificationEmailHandler {
	return &VerificationEmailHandler{emailService: emailService}
}

func (h *VerificationEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.VerificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal VerificationEmail payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Processing email verification")

	if err := h.emailService.SendVerificationEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send verification email")
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// ============================================
// Promotion Announcement Handler
// ============================================

type PromotionAnnounceHandler struct {
	emailService email.EmailService
}

func NewPromotionAnnounceHandler(emailService email.EmailService) *PromotionAnnounceHandler {
	return &PromotionAnnounceHandler{emailService: emailService}
}

func (h *PromotionAnnounceHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PromotionAnnouncePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PromotionAnnounce payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("promotion", payload.Name).
		Msg("Processing promotion announcement")

	if err := h.emailService.SendPromotionAnnouncement(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send promotion announcement")
		return fmt.Errorf("send promotion announcement: %w", err)
	}
	return nil
}
