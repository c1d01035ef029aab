package models

// Product is the platform-owned product snapshot consumed by the side-details
// flow. It is fetched per slug and never persisted locally.
type Product struct {
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	ItemCode    string       `json:"item_code"`
	Sizes       []SizeOption `json:"sizes"`
	Sellable    bool         `json:"sellable"`
	Moq         *Moq         `json:"moq,omitempty"`
	CustomOrder *CustomOrder `json:"custom_order,omitempty"`
}

type SizeOption struct {
	Value       string `json:"value"`
	Display     string `json:"display"`
	IsAvailable bool   `json:"is_available"`
	Quantity    int    `json:"quantity"`
}

// Moq carries the platform's minimum-order-quantity constraints.
type Moq struct {
	Minimum       int `json:"minimum"`
	IncrementUnit int `json:"increment_unit"`
	Maximum       int `json:"maximum"`
}

// CustomOrder describes made-to-order lead time. ManufacturingTimeUnit is
// "days" or "hours" as reported by the platform.
type CustomOrder struct {
	IsCustomOrder         bool   `json:"is_custom_order"`
	ManufacturingTime     int    `json:"manufacturing_time"`
	ManufacturingTimeUnit string `json:"manufacturing_time_unit"`
}

// FirstAvailableSize returns the size auto-selected for background pricing
// when the user has not picked one yet. Prefers an in-stock size, falls back
// to the first listed size.
func (p *Product) FirstAvailableSize() *SizeOption {
	if p == nil || len(p.Sizes) == 0 {
		return nil
	}
	for i := range p.Sizes {
		if p.Sizes[i].IsAvailable {
			return &p.Sizes[i]
		}
	}
	return &p.Sizes[0]
}

// SizeByValue looks up a size option by its value, or nil when absent.
func (p *Product) SizeByValue(value string) *SizeOption {
	if p == nil {
		return nil
	}
	for i := range p.Sizes {
		if p.Sizes[i].Value == value {
			return &p.Sizes[i]
		}
	}
	return nil
}
