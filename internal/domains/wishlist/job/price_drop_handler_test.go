package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greencart-backend/internal/domains/wishlist/model"
	"greencart-backend/internal/shared"
)

type stubHolderRepo struct {
	holders []*model.Holder
}

func (s *stubHolderRepo) GetOrCreateByUser(context.Context, uuid.UUID) (*model.Wishlist, error) {
	return nil, nil
}
func (s *stubHolderRepo) FindByUser(context.Context, uuid.UUID) (*model.Wishlist, error) {
	return nil, nil
}
func (s *stubHolderRepo) SetVisibility(context.Context, uuid.UUID, bool) error { return nil }
func (s *stubHolderRepo) AddItem(context.Context, uuid.UUID, uuid.UUID) (*model.WishlistItem, error) {
	return nil, nil
}
func (s *stubHolderRepo) FindItem(context.Context, uuid.UUID) (*model.WishlistItem, error) {
	return nil, nil
}
func (s *stubHolderRepo) RemoveItem(context.Context, uuid.UUID) error { return nil }
func (s *stubHolderRepo) ListHoldersByProduct(context.Context, uuid.UUID) ([]*model.Holder, error) {
	return s.holders, nil
}

type recordingMailer struct {
	recipients []string
}

func (r *recordingMailer) SendWelcomeEmail(context.Context, shared.WelcomeEmailPayload) error {
	return nil
}
func (r *recordingMailer) SendVerificationEmail(context.Context, shared.VerificationEmailPayload) error {
	return nil
}
func (r *recordingMailer) SendOrderConfirmation(context.Context, shared.OrderEmailPayload) error {
	return nil
}
func (r *recordingMailer) SendOrderCancellation(context.Context, shared.OrderEmailPayload) error {
	return nil
}
func (r *recordingMailer) SendPendingReminder(context.Context, shared.OrderEmailPayload) error {
	return nil
}
func (r *recordingMailer) SendPromotionAnnouncement(context.Context, shared.PromotionAnnouncePayload) error {
	return nil
}
func (r *recordingMailer) SendPriceDropAlert(_ context.Context, to, _ string, _ shared.PriceDropPayload) error {
	r.recipients = append(r.recipients, to)
	return nil
}

func priceDropTask(t *testing.T, productID uuid.UUID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(shared.PriceDropPayload{
		ProductID:   productID,
		ProductName: "Oat Milk 1L",
		OldPrice:    decimal.RequireFromString("3.00"),
		NewPrice:    decimal.RequireFromString("2.40"),
	})
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeSendPriceDropAlert, payload)
}

func TestPriceDropAlertFansOutToHolders(t *testing.T) {
	productID := uuid.New()
	repo := &stubHolderRepo{holders: []*model.Holder{
		{UserID: uuid.New(), Email: "ada@example.com", FirstName: "Ada"},
		{UserID: uuid.New(), Email: ""},
		{UserID: uuid.New(), Email: "lin@example.com", FirstName: "Lin"},
	}}
	mailer := &recordingMailer{}
	h := NewPriceDropAlertHandler(repo, mailer)

	err := h.ProcessTask(context.Background(), priceDropTask(t, productID))
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@example.com", "lin@example.com"}, mailer.recipients)
}

func TestPriceDropAlertSkipsMalformedPayload(t *testing.T) {
	h := NewPriceDropAlertHandler(&stubHolderRepo{}, &recordingMailer{})

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeSendPriceDropAlert, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
