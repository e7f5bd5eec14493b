package entity

// NotificationKind selects the template used by the dispatcher.
type NotificationKind string

const (
	NotifySignupOTP         NotificationKind = "signup_otp"
	NotifyWelcome           NotificationKind = "welcome"
	NotifyPasswordReset     NotificationKind = "password_reset"
	NotifyEmailChangeOTP    NotificationKind = "email_change_otp"
	NotifyOrderConfirmation NotificationKind = "order_confirmation"
	NotifyOrderStatus       NotificationKind = "order_status_update"
	NotifyOrderCancellation NotificationKind = "order_cancellation"
	NotifyLowStock          NotificationKind = "low_stock_alert"
	NotifyTicketCreated     NotificationKind = "ticket_created"
	NotifyTicketUpdated     NotificationKind = "ticket_updated"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Activity action types recorded in the activity log.
const (
	ActivityLogin         = "login"
	ActivityLogout        = "logout"
	ActivitySignup        = "signup"
	ActivityOrderStatus   = "order_status_change"
	ActivityOrderCancel   = "order_cancelled"
	ActivityStockUpdate   = "stock_update"
	ActivityProductCreate = "product_created"
	ActivityUserStatus    = "user_status_change"
	ActivityUserRole      = "user_role_change"
	ActivityAdminCreate   = "admin_created"
	ActivityTicketUpdate  = "ticket_updated"
)

// SalesPeriod buckets the sales analytics.
type SalesPeriod string

const (
	PeriodDay   SalesPeriod = "day"
	PeriodWeek  SalesPeriod = "week"
	PeriodMonth SalesPeriod = "month"
	PeriodYear  SalesPeriod = "year"
)

func ParseSalesPeriod(s string) (SalesPeriod, bool) {
	switch SalesPeriod(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return SalesPeriod(s), true
	case "":
		return PeriodDay, true
	}
	return "", false
}
