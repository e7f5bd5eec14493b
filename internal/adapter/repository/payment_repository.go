package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, tx *model.PaymentTransaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create payment transaction: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	if err := r.db.WithContext(ctx).First(&tx, "transaction_id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return &tx, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.PaymentTransaction, error) {
	var txs []*model.PaymentTransaction
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}
	return txs, nil
}

func (r *paymentRepository) MarkCompleted(ctx context.Context, transactionID, paymentID, method string, paidAt time.Time, response []byte) error {
	updates := map[string]interface{}{
		"status":     entity.PaymentStatusCompleted,
		"payment_id": paymentID,
		"paid_at":    paidAt,
		"updated_at": gorm.Expr("now()"),
	}
	if method != "" {
		updates["payment_method"] = method
	}
	if len(response) > 0 {
		updates["gateway_response"] = datatypes.JSON(response)
	}
	return r.update(ctx, transactionID, updates, entity.PaymentStatusPending, entity.PaymentStatusFailed)
}

func (r *paymentRepository) MarkFailed(ctx context.Context, transactionID string, response []byte) error {
	updates := map[string]interface{}{
		"status":     entity.PaymentStatusFailed,
		"updated_at": gorm.Expr("now()"),
	}
	if len(response) > 0 {
		updates["gateway_response"] = datatypes.JSON(response)
	}
	return r.update(ctx, transactionID, updates, entity.PaymentStatusPending)
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, transactionID string, response []byte) error {
	updates := map[string]interface{}{
		"status":     entity.PaymentStatusRefunded,
		"updated_at": gorm.Expr("now()"),
	}
	if len(response) > 0 {
		updates["gateway_response"] = datatypes.JSON(response)
	}
	return r.update(ctx, transactionID, updates, entity.PaymentStatusCompleted)
}

// update applies updates only while the transaction is in one of the from statuses. A
// transaction that has already moved on is left untouched without an error.
func (r *paymentRepository) update(ctx context.Context, transactionID string, updates map[string]interface{}, from ...entity.PaymentStatus) error {
	result := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("transaction_id = ? AND status IN ?", transactionID, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment transaction: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check payment transaction: %w", err)
	}
	if count == 0 {
		return domainErrors.ErrTransactionNotFound
	}
	r.logger.Debug("Payment transaction already settled", zap.String("transaction_id", transactionID))
	return nil
}
