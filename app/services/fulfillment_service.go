package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/app/models"
	"storefront/app/models/other"
)

const fulfillmentOptionsQuery = `
query FulfillmentOptions($slug: String!, $size: String!, $pincode: String) {
  fulfillmentOptions(slug: $slug, size: $size, pincode: $pincode) {
    store_id
    article_id
    pincode
    quantity
    delivery_promise { min max }
  }
}`

// FulfillmentClient resolves the delivery/fulfillment methods available for
// a (slug, size, pincode) triple. An empty pincode asks for availability
// without a delivery-date commitment. An empty list for a well-formed
// pincode means the pincode is not serviceable; that distinction is the
// caller's to make.
type FulfillmentClient interface {
	Options(ctx context.Context, slug, size, pincode string) ([]models.FulfillmentOption, error)
}

type FulfillmentService struct {
	gateway Gateway
}

func NewFulfillmentService(gateway Gateway) *FulfillmentService {
	return &FulfillmentService{gateway: gateway}
}

func (s *FulfillmentService) Options(ctx context.Context, slug, size, pincode string) ([]models.FulfillmentOption, error) {
	vars := map[string]any{"slug": slug, "size": size}
	if pincode != "" {
		vars["pincode"] = pincode
	}

	data, err := s.gateway.Execute(ctx, fulfillmentOptionsQuery, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fulfillment options for %s/%s: %w", slug, size, err)
	}

	var decoded other.FulfillmentOptionsData
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("FulfillmentService: failed to decode options for %s/%s: %v", slug, size, err)
		return nil, fetchErr(ErrKindTransport, "failed to decode fulfillment response: %w", err)
	}

	return decoded.FulfillmentOptions, nil
}
