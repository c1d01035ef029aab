package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/app/models"
	"storefront/app/models/other"
)

const addCartItemMutation = `
mutation AddCartItem($slug: String!, $size: String!, $quantity: Int!, $buyNow: Boolean!, $storeId: Int, $articleId: String) {
  cart: addCartItem(slug: $slug, size: $size, quantity: $quantity, buyNow: $buyNow, storeId: $storeId, articleId: $articleId) {
    id
    item_count
    success
    message
  }
}`

// AddToCartRequest carries everything the platform cart mutation needs. The
// fulfillment snapshot pins the seller article the price panel was showing
// when the user clicked.
type AddToCartRequest struct {
	Slug        string
	Size        string
	Quantity    int
	BuyNow      bool
	Fulfillment *models.FulfillmentOption
}

type CartResult struct {
	CartID    string `json:"cart_id"`
	ItemCount int    `json:"item_count"`
	Message   string `json:"message,omitempty"`
}

// CheckoutClient performs the platform cart mutation. The side-details
// view-model decides when to call it and which fulfillment snapshot to pass.
type CheckoutClient interface {
	AddToCart(ctx context.Context, req AddToCartRequest) (*CartResult, error)
}

type CheckoutService struct {
	gateway Gateway
}

func NewCheckoutService(gateway Gateway) *CheckoutService {
	return &CheckoutService{gateway: gateway}
}

func (s *CheckoutService) AddToCart(ctx context.Context, req AddToCartRequest) (*CartResult, error) {
	if req.Slug == "" || req.Size == "" {
		return nil, fetchErr(ErrKindValidation, "slug and size are required for add to cart")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	vars := map[string]any{
		"slug":     req.Slug,
		"size":     req.Size,
		"quantity": req.Quantity,
		"buyNow":   req.BuyNow,
	}
	if req.Fulfillment != nil {
		vars["storeId"] = req.Fulfillment.StoreUID
		vars["articleId"] = req.Fulfillment.ArticleID
	}

	data, err := s.gateway.Execute(ctx, addCartItemMutation, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s/%s to cart: %w", req.Slug, req.Size, err)
	}

	var decoded other.CartOperationData
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("CheckoutService: failed to decode cart response for %s/%s: %v", req.Slug, req.Size, err)
		return nil, fetchErr(ErrKindTransport, "failed to decode cart response: %w", err)
	}
	if decoded.Cart == nil {
		return nil, fetchErr(ErrKindPlatform, "cart mutation returned no payload")
	}
	if !decoded.Cart.Success {
		return nil, fetchErr(ErrKindPlatform, "cart mutation rejected: %s", decoded.Cart.Message)
	}

	return &CartResult{
		CartID:    decoded.Cart.ID,
		ItemCount: decoded.Cart.ItemCount,
		Message:   decoded.Cart.Message,
	}, nil
}
