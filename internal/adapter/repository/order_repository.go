package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const initialHistoryNote = "Order placed successfully"

type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) domainRepo.OrderRepository {
	return &orderRepository{db: db, logger: logger}
}

// Create places an order. Any failure, including insufficient stock on any line, rolls back
// every write so no stock is decremented.
func (r *orderRepository) Create(ctx context.Context, params domainRepo.CreateOrderParams) (*model.Order, error) {
	if len(params.Lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	lines := mergeLines(params.Lines)
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	var order *model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := lockProducts(tx, ids)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok || !p.IsActive {
				return domainErrors.ErrProductNotFound
			}
			if p.StockQuantity < l.Quantity {
				return domainErrors.NewInsufficientStockError(p.ID, p.Name, l.Quantity, p.StockQuantity)
			}
			lineTotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    l.Quantity,
				Price:       p.Price,
				Subtotal:    lineTotal,
			})
		}

		totals := params.Pricing.Apply(subtotal)
		order = &model.Order{
			UserID:          params.UserID,
			OrderNumber:     params.OrderNumber,
			OrderType:       params.OrderType,
			Subtotal:        totals.Subtotal,
			TaxAmount:       totals.Tax,
			ShippingAmount:  totals.Shipping,
			DiscountAmount:  totals.Discount,
			TotalAmount:     totals.Total,
			Status:          entity.OrderStatusPending,
			PaymentStatus:   entity.PaymentStatusPending,
			TrackingNumber:  params.TrackingNumber,
			ShippingAddress: datatypes.NewJSONType(params.ShippingAddress),
			PlacedAt:        time.Now(),
		}
		if params.PaymentMethod != "" {
			order.PaymentMethod = &params.PaymentMethod
		}
		if params.Notes != "" {
			order.Notes = &params.Notes
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		for _, item := range items {
			if _, err := applyStockChange(tx, domainRepo.StockChange{
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				Operation:     entity.StockDecrease,
				ReferenceType: entity.ReferenceOrder,
				ReferenceID:   &order.ID,
				CreatedBy:     &params.UserID,
			}); err != nil {
				return err
			}
		}

		note := initialHistoryNote
		if err := tx.Create(&model.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    entity.OrderStatusPending,
			Notes:     &note,
			UpdatedBy: &params.UserID,
		}).Error; err != nil {
			return fmt.Errorf("failed to create order history: %w", err)
		}

		if params.ClearCart {
			if err := clearCart(tx, params.UserID); err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", params.UserID.String()),
		zap.String("total", order.TotalAmount.String()))
	return order, nil
}

// mergeLines folds duplicate products together and sorts by id to match lock order.
func mergeLines(lines []domainRepo.OrderLine) []domainRepo.OrderLine {
	qty := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		qty[l.ProductID] += l.Quantity
	}
	out := make([]domainRepo.OrderLine, 0, len(qty))
	for id, q := range qty {
		out = append(out, domainRepo.OrderLine{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID.String() < out[j].ProductID.String() })
	return out
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "slug", "image_url") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "email", "role") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order detail: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, "gateway_order_id = ?", gatewayOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by gateway id: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter domainRepo.OrderFilter) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []*model.Order
	if err := paginate(query, filter.PaginationParams).Preload("Items").Order("placed_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// Transition is the only writer of orders.status after creation. It locks the order row,
// checks the transition table, stamps the status timestamp, and appends history.
func (r *orderRepository) Transition(ctx context.Context, change domainRepo.StatusChange) (*model.Order, bool, error) {
	at := change.At
	if at.IsZero() {
		at = time.Now()
	}

	var order model.Order
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", change.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		if change.OwnerID != nil && order.UserID != *change.OwnerID {
			return domainErrors.ErrOrderAccessDenied
		}

		if order.Status == change.To {
			return r.applyPaymentOnly(tx, &order, change)
		}

		if len(change.AllowedFrom) > 0 && !containsStatus(change.AllowedFrom, order.Status) {
			return domainErrors.NewInvalidTransitionError(order.Status, change.To)
		}
		if !entity.CanTransition(order.Status, change.To) {
			return domainErrors.NewInvalidTransitionError(order.Status, change.To)
		}

		updates := map[string]interface{}{
			"status":     change.To,
			"updated_at": at,
		}
		if col := model.StatusTimestampColumn(change.To); col != "" {
			updates[col] = at
		}
		if change.TrackingNumber != "" {
			updates["tracking_number"] = change.TrackingNumber
		}
		if change.ShippingPartner != "" {
			updates["shipping_partner"] = change.ShippingPartner
		}
		if change.CancellationReason != "" {
			updates["cancellation_reason"] = change.CancellationReason
		}
		if change.CancellationComments != "" {
			updates["cancellation_comments"] = change.CancellationComments
		}
		if change.PaymentStatus != "" {
			updates["payment_status"] = change.PaymentStatus
		}
		if change.PaymentID != "" {
			updates["payment_id"] = change.PaymentID
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := model.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    change.To,
			UpdatedBy: change.UpdatedBy,
			CreatedAt: at,
		}
		if change.Notes != "" {
			history.Notes = &change.Notes
		}
		if change.TrackingNumber != "" {
			history.TrackingNumber = &change.TrackingNumber
		}
		if change.ShippingPartner != "" {
			history.ShippingPartner = &change.ShippingPartner
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to append order history: %w", err)
		}

		if change.RestoreStock {
			var items []model.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
				return fmt.Errorf("failed to load order items: %w", err)
			}
			for _, item := range items {
				if _, err := applyStockChange(tx, domainRepo.StockChange{
					ProductID:     item.ProductID,
					Quantity:      item.Quantity,
					Operation:     entity.StockIncrease,
					ReferenceType: entity.ReferenceCancelation,
					ReferenceID:   &order.ID,
					CreatedBy:     change.UpdatedBy,
				}); err != nil {
					return err
				}
			}
		}

		changed = true
		return tx.Preload("Items").First(&order, "id = ?", order.ID).Error
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		r.logger.Info("Order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(change.To)))
	}
	return &order, changed, nil
}

// applyPaymentOnly handles a repeated transition: status stays, but a late payment status
// from the gateway is still recorded.
func (r *orderRepository) applyPaymentOnly(tx *gorm.DB, order *model.Order, change domainRepo.StatusChange) error {
	if change.PaymentStatus == "" || order.PaymentStatus == change.PaymentStatus {
		return nil
	}
	updates := map[string]interface{}{"payment_status": change.PaymentStatus}
	if change.PaymentID != "" {
		updates["payment_id"] = change.PaymentID
	}
	if err := tx.Model(order).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

func containsStatus(list []entity.OrderStatus, s entity.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *orderRepository) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"gateway_order_id": gatewayOrderID,
		"updated_at":       gorm.Expr("now()"),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to set gateway order id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) History(ctx context.Context, orderID uuid.UUID) ([]*model.OrderStatusHistory, error) {
	var rows []*model.OrderStatusHistory
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}
	return rows, nil
}
