package constants

import "time"

// Redis key prefixes
const (
	// SignupOTPPrefix is followed by the lowercased email.
	SignupOTPPrefix = "otp_code:signup:"

	// EmailChangeOTPPrefix is followed by the user id.
	EmailChangeOTPPrefix = "otp_code:email_change:"
)

const (
	SignupOTPExpiry      = 5 * time.Minute
	EmailChangeOTPExpiry = 10 * time.Minute
	PasswordResetExpiry  = 10 * time.Minute
	OTPLength            = 6
	MinPasswordLength    = 8
	BcryptCost           = 10
)

// Storefront display values
const (
	DefaultCurrency     = "INR"
	DefaultMerchantName = "Plant Nursery"
)
