package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/app/models"
	"storefront/app/models/other"
)

const productDetailQuery = `
query ProductDetail($slug: String!) {
  product(slug: $slug) {
    slug
    name
    item_code
    sellable
    sizes { value display is_available quantity }
    moq { minimum increment_unit maximum }
    custom_order { is_custom_order manufacturing_time manufacturing_time_unit }
  }
}`

// CatalogClient fetches product snapshots from the platform.
type CatalogClient interface {
	Product(ctx context.Context, slug string) (*models.Product, error)
}

type CatalogService struct {
	gateway Gateway
}

func NewCatalogService(gateway Gateway) *CatalogService {
	return &CatalogService{gateway: gateway}
}

func (s *CatalogService) Product(ctx context.Context, slug string) (*models.Product, error) {
	if slug == "" {
		return nil, fetchErr(ErrKindValidation, "product slug is required")
	}

	data, err := s.gateway.Execute(ctx, productDetailQuery, map[string]any{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", slug, err)
	}

	var decoded other.ProductDetailData
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("CatalogService: failed to decode product %s: %v", slug, err)
		return nil, fetchErr(ErrKindTransport, "failed to decode product response: %w", err)
	}
	if decoded.Product == nil {
		return nil, fetchErr(ErrKindPlatform, "product %s not found", slug)
	}

	return decoded.Product, nil
}
