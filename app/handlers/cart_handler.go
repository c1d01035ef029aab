package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"

	"storefront/app/helpers"
	"storefront/app/services"
)

type CartHandler struct {
	cart      *services.CartService
	validator *validator.Validate
	render    *render.Render
}

func NewCartHandler(cart *services.CartService, v *validator.Validate, r *render.Render) *CartHandler {
	return &CartHandler{cart: cart, validator: v, render: r}
}

type couponForm struct {
	CartID string `json:"cart_id" validate:"required"`
	Code   string `json:"code" validate:"required,min=3,max=32"`
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var form couponForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]any{"errors": helpers.FormatValidationErrors(err.(validator.ValidationErrors))})
		return
	}

	result, err := h.cart.ApplyCoupon(r.Context(), form.CartID, form.Code)
	if err != nil {
		if services.KindOf(err) == services.ErrKindPlatform {
			h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "Coupon could not be applied"})
			return
		}
		log.Printf("CartHandler: apply coupon failed: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Cart is unavailable right now"})
		return
	}

	h.render.JSON(w, http.StatusOK, result)
}

func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	cartID := r.URL.Query().Get("cart_id")
	if cartID == "" {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "cart_id is required"})
		return
	}

	result, err := h.cart.RemoveCoupon(r.Context(), cartID)
	if err != nil {
		log.Printf("CartHandler: remove coupon failed: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Cart is unavailable right now"})
		return
	}

	h.render.JSON(w, http.StatusOK, result)
}
