package other

import "storefront/app/models"

// Decoded `data` payloads for the three query descriptors and the cart
// mutations consumed by this storefront. Shapes are dictated by the
// platform's GraphQL schema.

type ProductPriceData struct {
	ProductPrice *struct {
		Price        models.PriceInfo     `json:"price"`
		ReturnConfig *models.ReturnConfig `json:"return_config"`
		Seller       *models.Seller       `json:"seller"`
		Store        *models.Store        `json:"store"`
	} `json:"productPrice"`
}

type FulfillmentOptionsData struct {
	FulfillmentOptions []models.FulfillmentOption `json:"fulfillmentOptions"`
}

type ReturnConfigData struct {
	ReturnConfig *models.ReturnConfig `json:"returnConfig"`
}

type ProductDetailData struct {
	Product *models.Product `json:"product"`
}

type CartOperationData struct {
	Cart *struct {
		ID        string `json:"id"`
		ItemCount int    `json:"item_count"`
		Success   bool   `json:"success"`
		Message   string `json:"message"`
	} `json:"cart"`
}

type SearchSuggestionsData struct {
	Suggestions []SearchSuggestion `json:"searchSuggestions"`
}

type SearchSuggestion struct {
	Display string `json:"display"`
	Slug    string `json:"slug"`
	Type    string `json:"type"`
}

type OTPData struct {
	OTP *struct {
		Success   bool   `json:"success"`
		RequestID string `json:"request_id"`
		Message   string `json:"message"`
	} `json:"otp"`
}

type VerifyOTPData struct {
	VerifyOTP *struct {
		Success bool   `json:"success"`
		UserID  string `json:"user_id"`
		Token   string `json:"token"`
		Message string `json:"message"`
	} `json:"verifyOTP"`
}
