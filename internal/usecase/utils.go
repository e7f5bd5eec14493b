package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/constants"
	"golang.org/x/crypto/bcrypt"
)

const (
	digits       = "0123456789"
	upperAlnum   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingTail = 6
)

// GenerateOTP returns a numeric one-time code.
func GenerateOTP() (string, error) {
	code, err := gonanoid.Generate(digits, constants.OTPLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return code, nil
}

// GenerateOrderNumber returns ORD followed by the unix millis of now.
func GenerateOrderNumber(now time.Time) string {
	return "ORD" + strconv.FormatInt(now.UnixMilli(), 10)
}

// GenerateTrackingNumber returns TRK + the last 6 digits of the unix millis + 4 random characters.
func GenerateTrackingNumber(now time.Time) (string, error) {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > trackingTail {
		ms = ms[len(ms)-trackingTail:]
	}
	suffix, err := gonanoid.Generate(upperAlnum, 4)
	if err != nil {
		return "", fmt.Errorf("failed to generate tracking number: %w", err)
	}
	return "TRK" + ms + suffix, nil
}

// GenerateTicketNumber returns TCKT-<unix millis>-<4 uppercase alnum>.
func GenerateTicketNumber(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(upperAlnum, 4)
	if err != nil {
		return "", fmt.Errorf("failed to generate ticket number: %w", err)
	}
	return fmt.Sprintf("TCKT-%d-%s", now.UnixMilli(), suffix), nil
}

// GenerateResetToken returns 32 random bytes hex encoded.
func GenerateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Slugify lowercases s, turns whitespace into dashes and drops everything outside [a-z0-9-].
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugInvalid.ReplaceAllString(s, "")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rawJSON encodes v for gateway_response columns; an encoding failure stores nothing.
func rawJSON(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
