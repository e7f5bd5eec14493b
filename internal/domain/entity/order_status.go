package entity

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"
	OrderStatusPaymentFailed  OrderStatus = "payment_failed"
)

// transitions is the only place that defines which status changes are legal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusPaymentFailed},
	OrderStatusConfirmed:      {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing:     {OrderStatusPacked, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusPacked:         {OrderStatusShipped, OrderStatusRefunded},
	OrderStatusShipped:        {OrderStatusOutForDelivery, OrderStatusRefunded},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:      {OrderStatusRefunded},
	OrderStatusCancelled:      {OrderStatusRefunded},
	OrderStatusPaymentFailed:  {OrderStatusConfirmed},
	OrderStatusRefunded:       {},
}

// ParseOrderStatus returns the status named s and whether it exists.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	_, ok := transitions[st]
	return st, ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s.
func NextStatuses(s OrderStatus) []OrderStatus {
	out := make([]OrderStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// Cancellable reports whether a customer may still cancel.
func (s OrderStatus) Cancellable() bool {
	return CanTransition(s, OrderStatusCancelled)
}

// RequiresShipment reports whether the status needs tracking number and shipping partner.
func (s OrderStatus) RequiresShipment() bool {
	return s == OrderStatusShipped || s == OrderStatusOutForDelivery
}

// NonRevenueStatuses are excluded from sales figures.
var NonRevenueStatuses = []OrderStatus{OrderStatusCancelled, OrderStatusRefunded, OrderStatusPaymentFailed}

// PaymentStatus tracks money movement for an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// CancellationReason is the closed list of reasons a customer can give.
type CancellationReason string

const (
	ReasonChangedMind          CancellationReason = "changed_mind"
	ReasonDeliveryDelayed      CancellationReason = "delivery_delayed"
	ReasonWrongItemOrdered     CancellationReason = "wrong_item_ordered"
	ReasonBetterPriceElsewhere CancellationReason = "better_price_elsewhere"
	ReasonAddressChangeNeeded  CancellationReason = "address_change_needed"
	ReasonPaymentIssue         CancellationReason = "payment_issue"
	ReasonOther                CancellationReason = "other"
)

func (r CancellationReason) Valid() bool {
	switch r {
	case ReasonChangedMind, ReasonDeliveryDelayed, ReasonWrongItemOrdered, ReasonBetterPriceElsewhere,
		ReasonAddressChangeNeeded, ReasonPaymentIssue, ReasonOther:
		return true
	}
	return false
}
