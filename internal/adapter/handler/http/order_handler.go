package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// OrderHandler serves customer order endpoints and the order admin endpoints.
type OrderHandler struct {
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
	logger   *zap.Logger
}

func NewOrderHandler(orders *usecase.OrderUseCase, payments *usecase.PaymentUseCase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		payments: payments,
		logger:   logger,
	}
}

type createOrderRequest struct {
	Type            string        `json:"type" validate:"required,oneof=cart direct"`
	ProductID       string        `json:"productId" validate:"required_if=Type direct,omitempty,uuid"`
	Quantity        int           `json:"quantity" validate:"required_if=Type direct,omitempty,gt=0"`
	ShippingAddress model.Address `json:"shippingAddress" validate:"required"`
	PaymentMethod   string        `json:"paymentMethod"`
	Notes           string        `json:"notes" validate:"max=500"`
}

// CreateOrder handles POST /api/orders/create
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	params := usecase.CreateOrderParams{
		UserID:          claims.UserID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}
	if req.Type == usecase.OrderTypeDirect {
		productID, err := optionalUUID(req.ProductID, "productId")
		if err != nil {
			return err
		}
		params.ProductID = *productID
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), params)
	if err != nil {
		return err
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", claims.UserID.String()),
		zap.String("type", req.Type))

	return respond(c, http.StatusCreated, order)
}

type confirmPaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// ConfirmPayment handles POST /api/orders/:orderId/payment
func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	var req confirmPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.payments.ConfirmOrderPayment(c.Request().Context(), claims.UserID, orderID, req.PaymentID, req.Signature)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// PaymentOptions handles GET /api/orders/:orderId/payment-options
func (h *OrderHandler) PaymentOptions(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	options, err := h.payments.PaymentOptions(c.Request().Context(), claims.UserID, orderID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, options)
}

type cancelOrderRequest struct {
	Reason   string `json:"reason" validate:"required"`
	Comments string `json:"comments" validate:"max=500"`
}

// CancelOrder handles POST /api/orders/:orderId/cancel
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	var req cancelOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.orders.CancelOrder(c.Request().Context(), claims.UserID, orderID, entity.CancellationReason(req.Reason), req.Comments)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// ListUserOrders handles GET /api/orders/orders/user
func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	orders, meta, err := h.orders.ListUserOrders(c.Request().Context(), claims.UserID, pagination(c))
	if err != nil {
		return err
	}
	return respondPage(c, orders, meta)
}

// GetUserOrder handles GET /api/orders/orders/user/:orderId
func (h *OrderHandler) GetUserOrder(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	order, err := h.orders.GetUserOrder(c.Request().Context(), claims.UserID, orderID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

type updateOrderStatusRequest struct {
	Status          string `json:"status" validate:"required"`
	TrackingNumber  string `json:"trackingNumber"`
	ShippingPartner string `json:"shippingPartner"`
	Notes           string `json:"notes" validate:"max=500"`
}

// UpdateStatus handles PATCH /api/admin/orders/:orderId/status
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	var req updateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.orders.UpdateOrderStatus(c.Request().Context(), claims.UserID, orderID, usecase.UpdateStatusParams{
		Status:          req.Status,
		TrackingNumber:  req.TrackingNumber,
		ShippingPartner: req.ShippingPartner,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// History handles GET /api/admin/orders/:orderId/history
func (h *OrderHandler) History(c echo.Context) error {
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	history, err := h.orders.History(c.Request().Context(), orderID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, history)
}

// ListOrders handles GET /api/admin/orders and GET /api/admin/superadmin/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	filter := repository.OrderFilter{PaginationParams: pagination(c)}
	if s := c.QueryParam("status"); s != "" {
		status, ok := entity.ParseOrderStatus(s)
		if !ok {
			return apperrors.Validation(map[string]string{"status": "Invalid order status"})
		}
		filter.Status = &status
	}
	var err error
	if filter.UserID, err = optionalUUID(c.QueryParam("userId"), "userId"); err != nil {
		return err
	}

	orders, meta, err := h.orders.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, orders, meta)
}

// GetOrder handles GET /api/admin/orders/:orderId and GET /api/admin/superadmin/orders/:orderId
func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, newAdminOrderView(order))
}

// adminOrderView adds the statuses an admin may move the order to next.
type adminOrderView struct {
	*model.Order
	NextStatuses []entity.OrderStatus `json:"next_statuses"`
}

func newAdminOrderView(order *model.Order) adminOrderView {
	return adminOrderView{Order: order, NextStatuses: entity.NextStatuses(order.Status)}
}
