package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const applyCouponMutation = `
mutation ApplyCoupon($cartId: String!, $code: String!) {
  cart: applyCoupon(cartId: $cartId, code: $code) {
    id
    item_count
    success
    message
  }
}`

const removeCouponMutation = `
mutation RemoveCoupon($cartId: String!) {
  cart: removeCoupon(cartId: $cartId) {
    id
    item_count
    success
    message
  }
}`

// CartService wraps the platform's coupon mutations. The cart itself lives
// on the platform; this service only relays the operations and normalizes
// rejection messages.
type CartService struct {
	gateway Gateway
}

func NewCartService(gateway Gateway) *CartService {
	return &CartService{gateway: gateway}
}

func (s *CartService) ApplyCoupon(ctx context.Context, cartID, code string) (*CartResult, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if cartID == "" || code == "" {
		return nil, fetchErr(ErrKindValidation, "cart id and coupon code are required")
	}
	return s.runCartMutation(ctx, applyCouponMutation, map[string]any{"cartId": cartID, "code": code})
}

func (s *CartService) RemoveCoupon(ctx context.Context, cartID string) (*CartResult, error) {
	if cartID == "" {
		return nil, fetchErr(ErrKindValidation, "cart id is required")
	}
	return s.runCartMutation(ctx, removeCouponMutation, map[string]any{"cartId": cartID})
}

func (s *CartService) runCartMutation(ctx context.Context, mutation string, vars map[string]any) (*CartResult, error) {
	data, err := s.gateway.Execute(ctx, mutation, vars)
	if err != nil {
		return nil, fmt.Errorf("cart mutation failed: %w", err)
	}

	var decoded struct {
		Cart *struct {
			ID        string `json:"id"`
			ItemCount int    `json:"item_count"`
			Success   bool   `json:"success"`
			Message   string `json:"message"`
		} `json:"cart"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fetchErr(ErrKindTransport, "failed to decode cart response: %w", err)
	}
	if decoded.Cart == nil {
		return nil, fetchErr(ErrKindPlatform, "cart mutation returned no payload")
	}
	if !decoded.Cart.Success {
		return nil, fetchErr(ErrKindPlatform, "%s", decoded.Cart.Message)
	}

	return &CartResult{
		CartID:    decoded.Cart.ID,
		ItemCount: decoded.Cart.ItemCount,
		Message:   decoded.Cart.Message,
	}, nil
}
