package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/transify-app/transify-api/internal/models"
)

// Expired codes are kept around for a grace window so verification can report
// "expired" instead of "not found".
const otpRetention = time.Hour

// ErrOtpRecordNotFound indicates no code record exists for the email.
var ErrOtpRecordNotFound = errors.New("otp record not found")

// OtpRepository stores one-time login codes keyed by lowercased email. A Put
// overwrites any previous code for the same email.
type OtpRepository interface {
	Put(ctx context.Context, code models.OneTimeCode) error
	Get(ctx context.Context, email string) (models.OneTimeCode, error)
	MarkUsed(ctx context.Context, email string) error
}

type otpRepository struct {
	client *redis.Client
}

// NewOtpRepository constructs the Redis-backed OTP repository.
func NewOtpRepository(client *redis.Client) OtpRepository {
	return &otpRepository{client: client}
}

func otpKey(email string) string {
	return "otp:" + strings.ToLower(strings.TrimSpace(email))
}

func (r *otpRepository) Put(ctx context.Context, code models.OneTimeCode) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}

	ttl := time.Until(code.ExpiresAt) + otpRetention
	if err := r.client.Set(ctx, otpKey(code.Email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store otp record: %w", err)
	}
	return nil
}

func (r *otpRepository) Get(ctx context.Context, email string) (models.OneTimeCode, error) {
	payload, err := r.client.Get(ctx, otpKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.OneTimeCode{}, ErrOtpRecordNotFound
	}
	if err != nil {
		return models.OneTimeCode{}, fmt.Errorf("load otp record: %w", err)
	}

	var code models.OneTimeCode
	if err := json.Unmarshal(payload, &code); err != nil {
		return models.OneTimeCode{}, fmt.Errorf("decode otp record: %w", err)
	}
	return code, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, email string) error {
	code, err := r.Get(ctx, email)
	if err != nil {
		return err
	}

	code.Used = true
	payload, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}

	if err := r.client.Set(ctx, otpKey(email), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("mark otp used: %w", err)
	}
	return nil
}
