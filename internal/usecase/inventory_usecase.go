package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
)

// InventoryUseCase is the stock ledger: every quantity change goes through here or through
// order placement and cancellation.
type InventoryUseCase struct {
	logger        *zap.Logger
	inventory     repository.InventoryRepository
	products      repository.ProductRepository
	users         repository.UserRepository
	notifications *NotificationUseCase
	activity      *ActivityUseCase
}

func NewInventoryUseCase(
	logger *zap.Logger,
	inventory repository.InventoryRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	notifications *NotificationUseCase,
	activity *ActivityUseCase,
) *InventoryUseCase {
	return &InventoryUseCase{
		logger:        logger,
		inventory:     inventory,
		products:      products,
		users:         users,
		notifications: notifications,
		activity:      activity,
	}
}

// CheckStock is a pure read.
func (uc *InventoryUseCase) CheckStock(ctx context.Context, productID uuid.UUID, requested int) (*entity.StockCheck, error) {
	product, err := uc.inventory.GetStock(ctx, productID)
	if err != nil {
		return nil, err
	}

	check := &entity.StockCheck{
		Available:    product.StockQuantity >= requested,
		CurrentStock: product.StockQuantity,
	}
	if !check.Available {
		check.Message = fmt.Sprintf("Only %d units available", product.StockQuantity)
	}
	return check, nil
}

// UpdateStockParams is a manual stock adjustment.
type UpdateStockParams struct {
	ProductID uuid.UUID
	Quantity  int
	Operation entity.StockOperation
	Notes     string
	ActorID   *uuid.UUID
}

// UpdateStock applies one ledger change and then re-checks the low-stock threshold.
func (uc *InventoryUseCase) UpdateStock(ctx context.Context, params UpdateStockParams) (*model.InventoryMovement, error) {
	if params.Quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	if !params.Operation.Valid() {
		return nil, domainErrors.ErrInvalidOperation
	}

	movement, err := uc.inventory.ApplyChange(ctx, repository.StockChange{
		ProductID:     params.ProductID,
		Quantity:      params.Quantity,
		Operation:     params.Operation,
		ReferenceType: entity.ReferenceManual,
		Notes:         params.Notes,
		CreatedBy:     params.ActorID,
	})
	if err != nil {
		return nil, err
	}

	uc.activity.Record(ctx, ActivityEntry{
		UserID:     params.ActorID,
		ActionType: entity.ActivityStockUpdate,
		EntityType: "product",
		EntityID:   params.ProductID.String(),
		Details: map[string]interface{}{
			"operation":       params.Operation,
			"quantity":        params.Quantity,
			"quantity_before": movement.QuantityBefore,
			"quantity_after":  movement.QuantityAfter,
		},
	})

	if params.Operation == entity.StockDecrease {
		uc.CheckAndNotifyLowStock(ctx, params.ProductID)
	}
	return movement, nil
}

// CheckAndNotifyLowStock queues an alert to every active inventory admin when the product is
// LOW or OUT_OF_STOCK. Failures are logged; the caller's operation already succeeded.
func (uc *InventoryUseCase) CheckAndNotifyLowStock(ctx context.Context, productID uuid.UUID) {
	status, err := uc.inventory.GetStockStatus(ctx, productID)
	if err != nil {
		uc.logger.Warn("Failed to read stock status", zap.String("product_id", productID.String()), zap.Error(err))
		return
	}
	if !status.StockStatus.NeedsAlert() {
		return
	}

	admins, err := uc.users.ListActiveByRole(ctx, entity.RoleInventoryAdmin)
	if err != nil {
		uc.logger.Error("Failed to load inventory admins", zap.Error(err))
		return
	}
	if len(admins) == 0 {
		admins, err = uc.users.ListActiveByRole(ctx, entity.RoleSuperAdmin)
		if err != nil || len(admins) == 0 {
			uc.logger.Warn("No recipients for low stock alert", zap.String("product_id", productID.String()))
			return
		}
	}

	to := make([]string, 0, len(admins))
	for _, a := range admins {
		to = append(to, a.Email)
	}

	uc.notifications.Send(ctx, Notification{
		Kind:    entity.NotifyLowStock,
		To:      to,
		Subject: fmt.Sprintf("Low Stock Alert: %s", status.Name),
		Data: map[string]interface{}{
			"productId":       status.ID.String(),
			"productName":     status.Name,
			"sku":             status.SKU,
			"currentStock":    status.StockQuantity,
			"minThreshold":    status.MinStockThreshold,
			"reorderQuantity": status.ReorderQuantity,
			"status":          status.StockStatus,
		},
	})

	uc.logger.Info("Low stock alert queued",
		zap.String("product_id", productID.String()),
		zap.String("stock_status", string(status.StockStatus)),
		zap.Int("recipients", len(to)))
}

// ThresholdParams are the reorder settings of a product.
type ThresholdParams struct {
	MinStockThreshold int
	MaxStockThreshold int
	ReorderQuantity   int
}

func (uc *InventoryUseCase) UpdateThresholds(ctx context.Context, productID uuid.UUID, params ThresholdParams) error {
	if params.MinStockThreshold < 0 || params.MaxStockThreshold < 0 || params.ReorderQuantity < 0 {
		return domainErrors.ErrInvalidThreshold
	}
	if params.MinStockThreshold > params.MaxStockThreshold {
		return domainErrors.ErrInvalidThreshold
	}
	return uc.products.UpdateThresholds(ctx, productID, params.MinStockThreshold, params.MaxStockThreshold, params.ReorderQuantity)
}

func (uc *InventoryUseCase) ListStatus(ctx context.Context, filter repository.StockStatusFilter) ([]*model.ProductStockStatus, entity.PaginationMeta, error) {
	filter.Validate()
	rows, total, err := uc.inventory.ListStockStatus(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return rows, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

func (uc *InventoryUseCase) ListLowStock(ctx context.Context) ([]*model.ProductStockStatus, error) {
	return uc.inventory.ListLowStock(ctx)
}

func (uc *InventoryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*model.InventoryMovement, entity.PaginationMeta, error) {
	filter.Validate()
	rows, total, err := uc.inventory.ListMovements(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return rows, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}
