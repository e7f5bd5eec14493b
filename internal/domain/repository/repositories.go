package repository

// Repositories holds all repository instances
type Repositories struct {
	User          UserRepository
	Profile       ProfileRepository
	PasswordReset PasswordResetRepository
	Category      CategoryRepository
	Product       ProductRepository
	Inventory     InventoryRepository
	Cart          CartRepository
	Order         OrderRepository
	Payment       PaymentRepository
	Ticket        SupportTicketRepository
	Review        ReviewRepository
	Content       ContentRepository
	Activity      ActivityLogRepository
	Notification  NotificationRepository
	Analytics     AnalyticsRepository
	Sessions      SessionStore
	OTPs          OTPStore
}
