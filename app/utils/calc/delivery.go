package calc

import (
	"time"

	"storefront/app/models"
)

// deliveryDateLayout is the label format shown next to the pincode field,
// e.g. "Mon, 02 Jan".
const deliveryDateLayout = "Mon, 02 Jan"

// EstimateDeliveryDate combines product metadata with the authoritative
// (first) fulfillment option into a human-readable promised delivery date.
// It is pure: same inputs always give the same label. ok is false when the
// options list is empty or carries no usable promise.
func EstimateDeliveryDate(product *models.Product, options []models.FulfillmentOption, now time.Time) (string, bool) {
	if len(options) == 0 {
		return "", false
	}

	promise := options[0].DeliveryPromise
	if promise == nil || promise.Max.IsZero() {
		return "", false
	}

	estimate := promise.Max
	if lead := manufacturingLead(product); lead > 0 {
		estimate = estimate.Add(lead)
	}

	// A promise already in the past is malformed platform data.
	if estimate.Before(now) {
		return "", false
	}

	return estimate.Format(deliveryDateLayout), true
}

func manufacturingLead(product *models.Product) time.Duration {
	if product == nil || product.CustomOrder == nil || !product.CustomOrder.IsCustomOrder {
		return 0
	}
	mt := product.CustomOrder.ManufacturingTime
	if mt <= 0 {
		return 0
	}
	switch product.CustomOrder.ManufacturingTimeUnit {
	case "hours":
		return time.Duration(mt) * time.Hour
	case "days", "":
		return time.Duration(mt) * 24 * time.Hour
	default:
		return time.Duration(mt) * 24 * time.Hour
	}
}
