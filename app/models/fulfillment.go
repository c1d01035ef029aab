package models

import "time"

// DeliveryPromise is the promised delivery window attached to a fulfillment
// option. Timestamps are platform-provided and may be zero when no pincode
// was supplied to the options fetch.
type DeliveryPromise struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// FulfillmentOption is one way the platform can fulfil a (slug, size,
// pincode) request. The first option in the list returned by the platform is
// authoritative for add-to-cart and for the delivery estimate.
type FulfillmentOption struct {
	StoreUID        int              `json:"store_id"`
	ArticleID       string           `json:"article_id"`
	Pincode         string           `json:"pincode"`
	Quantity        int              `json:"quantity"`
	DeliveryPromise *DeliveryPromise `json:"delivery_promise,omitempty"`
}
