package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/app/models/other"
	"storefront/app/repositories"
)

const sendOTPMutation = `
mutation SendOTP($mobile: String!) {
  otp: sendOTP(mobile: $mobile) {
    success
    request_id
    message
  }
}`

const verifyOTPMutation = `
mutation VerifyOTP($mobile: String!, $requestId: String!, $otp: String!) {
  verifyOTP(mobile: $mobile, requestId: $requestId, otp: $otp) {
    success
    user_id
    token
    message
  }
}`

// ErrResendCooldown is returned while an OTP resend is still on cooldown.
var ErrResendCooldown = errors.New("otp resend on cooldown")

var ErrOTPRejected = errors.New("otp rejected")

type OTPSession struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message,omitempty"`
}

type AuthResult struct {
	UserID        string `json:"user_id"`
	PlatformToken string `json:"-"`
	RememberToken string `json:"remember_token,omitempty"`
}

// AuthService drives the platform's OTP login and the local "remember me"
// tokens. OTP delivery itself is platform-owned; this service only enforces
// the resend cooldown and keeps remember-me tokens hashed in the KV store.
type AuthService struct {
	gateway  Gateway
	kv       repositories.KVRepository
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewAuthService(gateway Gateway, kv repositories.KVRepository, cooldown time.Duration) *AuthService {
	return &AuthService{
		gateway:  gateway,
		kv:       kv,
		cooldown: cooldown,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
}

// ResendAvailableIn reports how long until another OTP may be sent to the
// destination; zero when sending is allowed now.
func (s *AuthService) ResendAvailableIn(mobile string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastSent[mobile]
	if !ok {
		return 0
	}
	remaining := s.cooldown - s.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *AuthService) SendOTP(ctx context.Context, mobile string) (*OTPSession, error) {
	if remaining := s.ResendAvailableIn(mobile); remaining > 0 {
		return nil, fmt.Errorf("%w: retry in %s", ErrResendCooldown, remaining.Round(time.Second))
	}

	data, err := s.gateway.Execute(ctx, sendOTPMutation, map[string]any{"mobile": mobile})
	if err != nil {
		return nil, fmt.Errorf("failed to send otp: %w", err)
	}

	var decoded other.OTPData
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fetchErr(ErrKindTransport, "failed to decode otp response: %w", err)
	}
	if decoded.OTP == nil || !decoded.OTP.Success {
		msg := "unknown"
		if decoded.OTP != nil {
			msg = decoded.OTP.Message
		}
		return nil, fetchErr(ErrKindPlatform, "otp send rejected: %s", msg)
	}

	s.mu.Lock()
	s.lastSent[mobile] = s.now()
	s.mu.Unlock()

	return &OTPSession{RequestID: decoded.OTP.RequestID, Message: decoded.OTP.Message}, nil
}

// VerifyOTP checks the code with the platform. When remember is set, a
// remember-me token is issued and stored bcrypt-hashed so a leaked KV dump
// cannot be replayed.
func (s *AuthService) VerifyOTP(ctx context.Context, mobile, requestID, otp string, remember bool) (*AuthResult, error) {
	data, err := s.gateway.Execute(ctx, verifyOTPMutation, map[string]any{
		"mobile":    mobile,
		"requestId": requestID,
		"otp":       otp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify otp: %w", err)
	}

	var decoded other.VerifyOTPData
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fetchErr(ErrKindTransport, "failed to decode verify response: %w", err)
	}
	if decoded.VerifyOTP == nil || !decoded.VerifyOTP.Success {
		return nil, ErrOTPRejected
	}

	result := &AuthResult{
		UserID:        decoded.VerifyOTP.UserID,
		PlatformToken: decoded.VerifyOTP.Token,
	}

	if remember {
		token := uuid.New().String()
		hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash remember token: %w", err)
		}
		if err := s.kv.Set(ctx, rememberTokenKey(result.UserID), string(hash)); err != nil {
			log.Printf("AuthService: failed to persist remember token for user %s: %v", result.UserID, err)
		} else {
			result.RememberToken = token
		}
	}

	return result, nil
}

// VerifyRememberToken reports whether the presented token matches the
// stored hash for the user.
func (s *AuthService) VerifyRememberToken(ctx context.Context, userID, token string) (bool, error) {
	hash, err := s.kv.Get(ctx, rememberTokenKey(userID))
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil, nil
}

func (s *AuthService) ClearRememberToken(ctx context.Context, userID string) error {
	return s.kv.Remove(ctx, rememberTokenKey(userID))
}

func rememberTokenKey(userID string) string {
	return "remember_token:" + userID
}
