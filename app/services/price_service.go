package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/app/models"
	"storefront/app/models/other"
)

const productPriceQuery = `
query ProductPrice($slug: String!, $size: String!, $pincode: String) {
  productPrice(slug: $slug, size: $size, pincode: $pincode) {
    price { effective marked currency_code currency_symbol }
    return_config { returnable time unit }
    seller { uid name count }
    store { uid name city count }
  }
}`

const returnConfigQuery = `
query ReturnConfig($slug: String!, $size: String!) {
  returnConfig(slug: $slug, size: $size) {
    returnable
    time
    unit
  }
}`

// PriceClient resolves the per-size price snapshot for a (slug, size,
// pincode) triple, one remote call per invocation, no retries and no
// caching. Callers own staleness handling and silent-degrade policy.
type PriceClient interface {
	ProductPrice(ctx context.Context, slug, size, pincode string) (*models.SizeBasedPrice, error)
	ReturnConfig(ctx context.Context, slug, size string) (*models.ReturnConfig, error)
}

type PriceService struct {
	gateway Gateway
}

func NewPriceService(gateway Gateway) *PriceService {
	return &PriceService{gateway: gateway}
}

// ProductPrice expects a non-empty slug and size; the empty pincode means
// "no pincode provided". A nil result with nil error means the platform has
// no size-level price and the default product price applies.
func (s *PriceService) ProductPrice(ctx context.Context, slug, size, pincode string) (*models.SizeBasedPrice, error) {
	vars := map[string]any{"slug": slug, "size": size}
	if pincode != "" {
		vars["pincode"] = pincode
	}

	data, err := s.gateway.Execute(ctx, productPriceQuery, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch size price for %s/%s: %w", slug, size, err)
	}

	var decoded other.ProductPriceData
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("PriceService: failed to decode price response for %s/%s: %v", slug, size, err)
		return nil, fetchErr(ErrKindTransport, "failed to decode price response: %w", err)
	}
	if decoded.ProductPrice == nil {
		return nil, nil
	}

	return &models.SizeBasedPrice{
		Price:        decoded.ProductPrice.Price,
		ReturnConfig: decoded.ProductPrice.ReturnConfig,
		Seller:       decoded.ProductPrice.Seller,
		Store:        decoded.ProductPrice.Store,
	}, nil
}

func (s *PriceService) ReturnConfig(ctx context.Context, slug, size string) (*models.ReturnConfig, error) {
	data, err := s.gateway.Execute(ctx, returnConfigQuery, map[string]any{"slug": slug, "size": size})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch return config for %s/%s: %w", slug, size, err)
	}

	var decoded other.ReturnConfigData
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("PriceService: failed to decode return config for %s/%s: %v", slug, size, err)
		return nil, fetchErr(ErrKindTransport, "failed to decode return config response: %w", err)
	}

	return decoded.ReturnConfig, nil
}
