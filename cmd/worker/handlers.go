package main

import (
	"github.com/hibiken/asynq"

	orderJob "greencart-backend/internal/domains/order/job"
	promotionJob "greencart-backend/internal/domains/promotion/job"
	wishlistJob "greencart-backend/internal/domains/wishlist/job"
	emailjob "greencart-backend/internal/infrastructure/email/job"
	"greencart-backend/internal/shared"
	"greencart-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	welcomeEmail      *emailjob.WelcomeEmailHandler
	emailVerification *emailjob.VerificationEmailHandler
	promotionAnnounce *emailjob.PromotionAnnounceHandler

	// Order handlers
	orderConfirmation *orderJob.SendOrderConfirmationHandler
	orderCancellation *orderJob.SendOrderCancellationHandler
	pendingReminder   *orderJob.SendPendingReminderHandler
	scanPendingOrders *orderJob.ScanPendingOrdersHandler

	// Promotion handlers
	deactivateExpired *promotionJob.DeactivateExpiredHandler

	// Wishlist handlers
	priceDropAlert *wishlistJob.PriceDropAlertHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := c.EmailService

	return &HandlerRegistry{
		// Email handlers
		welcomeEmail:      emailjob.NewWelcomeEmailHandler(emailSvc),
		emailVerification: emailjob.NewVerificationEmailHandler(emailSvc),
		promotionAnnounce: emailjob.NewPromotionAnnounceHandler(emailSvc),

		// Order handlers
		orderConfirmation: orderJob.NewSendOrderConfirmationHandler(emailSvc),
		orderCancellation: orderJob.NewSendOrderCancellationHandler(emailSvc),
		pendingReminder:   orderJob.NewSendPendingReminderHandler(emailSvc),
		scanPendingOrders: orderJob.NewScanPendingOrdersHandler(c.OrderService),

		// Promotion handlers
		deactivateExpired: promotionJob.NewDeactivateExpiredHandler(c.PromotionService),

		// Wishlist handlers
		priceDropAlert: wishlistJob.NewPriceDropAlertHandler(c.WishlistRepo, emailSvc),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendWelcomeEmail, h.welcomeEmail.ProcessTask)
	mux.HandleFunc(shared.TypeSendVerificationEmail, h.emailVerification.ProcessTask)
	mux.HandleFunc(shared.TypeSendPromotionAnnounce, h.promotionAnnounce.ProcessTask)

	// Order tasks
	mux.HandleFunc(shared.TypeSendOrderConfirmation, h.orderConfirmation.ProcessTask)
	mux.HandleFunc(shared.TypeSendOrderCancellation, h.orderCancellation.ProcessTask)
	mux.HandleFunc(shared.TypeSendPendingReminder, h.pendingReminder.ProcessTask)
	mux.HandleFunc(shared.TypeScanPendingOrders, h.scanPendingOrders.ProcessTask)

	// Promotion tasks
	mux.HandleFunc(shared.TypeDeactivateExpiredPromo, h.deactivateExpired.ProcessTask)

	// Wishlist tasks
	mux.HandleFunc(shared.TypeSendPriceDropAlert, h.priceDropAlert.ProcessTask)
}
