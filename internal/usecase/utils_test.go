package usecase_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "snake-plant", usecase.Slugify("Snake Plant"))
	assert.Equal(t, "peace-lily-xl", usecase.Slugify("  Peace   Lily (XL)! "))
	assert.Equal(t, "zz-plant", usecase.Slugify("ZZ\tPlant"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "fern@example.com", usecase.NormalizeEmail("  Fern@Example.COM "))
	assert.True(t, usecase.IsValidEmail("fern@example.com"))
	assert.False(t, usecase.IsValidEmail("fern@example"))
	assert.False(t, usecase.IsValidEmail("fern example.com"))
}

func TestGenerateOTP(t *testing.T) {
	code, err := usecase.GenerateOTP()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), code)
}

func TestGenerateNumbers(t *testing.T) {
	now := time.UnixMilli(1700000123456)

	assert.Equal(t, "ORD1700000123456", usecase.GenerateOrderNumber(now))

	tracking, err := usecase.GenerateTrackingNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TRK123456[A-Z0-9]{4}$`), tracking)

	ticket, err := usecase.GenerateTicketNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TCKT-1700000123456-[A-Z0-9]{4}$`), ticket)
}

func TestHashPassword(t *testing.T) {
	hash, err := usecase.HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, usecase.VerifyPassword(hash, "password123"))
	assert.False(t, usecase.VerifyPassword(hash, "password124"))
}
