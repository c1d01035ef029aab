package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/app/repositories"
	"storefront/app/services"
)

const otpSentPayload = `{"otp":{"success":true,"request_id":"req-1","message":"sent"}}`

func TestSendOTPEnforcesResendCooldown(t *testing.T) {
	gw := &cannedGateway{data: otpSentPayload}
	svc := services.NewAuthService(gw, repositories.NewMemoryKVRepository(), time.Minute)
	ctx := context.Background()

	sess, err := svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
	require.Equal(t, "req-1", sess.RequestID)

	_, err = svc.SendOTP(ctx, "9876543210")
	require.ErrorIs(t, err, services.ErrResendCooldown)
	require.Greater(t, svc.ResendAvailableIn("9876543210"), time.Duration(0))

	// A different destination is not throttled.
	_, err = svc.SendOTP(ctx, "9876500000")
	require.NoError(t, err)
}

func TestSendOTPCooldownExpires(t *testing.T) {
	gw := &cannedGateway{data: otpSentPayload}
	svc := services.NewAuthService(gw, repositories.NewMemoryKVRepository(), 30*time.Millisecond)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
}

func TestVerifyOTPRememberTokenRoundTrip(t *testing.T) {
	gw := &cannedGateway{data: `{"verifyOTP":{"success":true,"user_id":"user-7","token":"platform-token"}}`}
	kv := repositories.NewMemoryKVRepository()
	svc := services.NewAuthService(gw, kv, time.Minute)
	ctx := context.Background()

	result, err := svc.VerifyOTP(ctx, "9876543210", "req-1", "123456", true)
	require.NoError(t, err)
	require.Equal(t, "user-7", result.UserID)
	require.NotEmpty(t, result.RememberToken)

	ok, err := svc.VerifyRememberToken(ctx, "user-7", result.RememberToken)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.VerifyRememberToken(ctx, "user-7", "forged-token")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, svc.ClearRememberToken(ctx, "user-7"))
	ok, err = svc.VerifyRememberToken(ctx, "user-7", result.RememberToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyOTPRejected(t *testing.T) {
	gw := &cannedGateway{data: `{"verifyOTP":{"success":false,"message":"wrong otp"}}`}
	svc := services.NewAuthService(gw, repositories.NewMemoryKVRepository(), time.Minute)

	_, err := svc.VerifyOTP(context.Background(), "9876543210", "req-1", "000000", false)
	require.ErrorIs(t, err, services.ErrOTPRejected)
}
