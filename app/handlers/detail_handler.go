package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"storefront/app/helpers"
	"storefront/app/services"
	"storefront/app/utils/format"
	"storefront/app/utils/sessions"
)

// DetailHandler exposes the product side-details flow over JSON: page init,
// size selection, pincode entry and add-to-cart. Each session gets its own
// view-model; the handler only decodes the event and reports the resulting
// state back.
type DetailHandler struct {
	registry  *services.SideDetailsRegistry
	prices    services.PriceClient
	sessions  sessions.SessionStore
	validator *validator.Validate
	render    *render.Render
}

func NewDetailHandler(registry *services.SideDetailsRegistry, prices services.PriceClient, s sessions.SessionStore, v *validator.Validate, r *render.Render) *DetailHandler {
	return &DetailHandler{registry: registry, prices: prices, sessions: s, validator: v, render: r}
}

type sideDetailsResponse struct {
	services.SideDetailsState
	EffectivePriceDisplay string `json:"effective_price_display,omitempty"`
	MarkedPriceDisplay    string `json:"marked_price_display,omitempty"`
	DiscountPercent       string `json:"discount_percent,omitempty"`
}

func (h *DetailHandler) stateResponse(vm *services.SideDetails) sideDetailsResponse {
	state := vm.State()
	resp := sideDetailsResponse{SideDetailsState: state}
	if sbp := state.SizeBasedPrice; sbp != nil {
		resp.EffectivePriceDisplay = format.Money(sbp.Price.Effective, sbp.Price.CurrencySymbol)
		resp.MarkedPriceDisplay = format.MoneyWhole(sbp.Price.Marked, sbp.Price.CurrencySymbol)
		if pct := sbp.Price.DiscountPercent(); !pct.IsZero() {
			resp.DiscountPercent = pct.String() + "%"
		}
	}
	return resp
}

// vmFor returns the session's view-model, navigating it to slug first when
// the session was looking at a different product.
func (h *DetailHandler) vmFor(w http.ResponseWriter, r *http.Request, slug string) (*services.SideDetails, error) {
	sessionID := h.sessions.GetSessionID(w, r)
	vm := h.registry.Get(sessionID)
	if vm.State().Slug != slug {
		if err := vm.Navigate(r.Context(), slug, r.URL.Query().Get("selected_size")); err != nil {
			return nil, err
		}
	}
	return vm, nil
}

func (h *DetailHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	sessionID := h.sessions.GetSessionID(w, r)
	vm := h.registry.Get(sessionID)
	if err := vm.Navigate(r.Context(), slug, r.URL.Query().Get("selected_size")); err != nil {
		log.Printf("DetailHandler: navigate to %s failed: %v", slug, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to load product"})
		return
	}

	h.render.JSON(w, http.StatusOK, h.stateResponse(vm))
}

type selectSizeForm struct {
	Size string `json:"size" validate:"required"`
}

func (h *DetailHandler) SelectSize(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var form selectSizeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]any{"errors": helpers.FormatValidationErrors(err.(validator.ValidationErrors))})
		return
	}

	vm, err := h.vmFor(w, r, slug)
	if err != nil {
		log.Printf("DetailHandler: navigate to %s failed: %v", slug, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to load product"})
		return
	}

	if err := vm.SelectSize(r.Context(), form.Size); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.render.JSON(w, http.StatusOK, h.stateResponse(vm))
}

type pincodeForm struct {
	Pincode string `json:"pincode"`
}

func (h *DetailHandler) SetPincode(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var form pincodeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	vm, err := h.vmFor(w, r, slug)
	if err != nil {
		log.Printf("DetailHandler: navigate to %s failed: %v", slug, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to load product"})
		return
	}

	// Partial entries are allowed here; the view-model filters the input
	// and decides whether a fetch is warranted.
	vm.SetPincode(r.Context(), form.Pincode)

	h.render.JSON(w, http.StatusOK, h.stateResponse(vm))
}

// ReturnConfig serves the return policy applicable to a (slug, size) pair,
// shown under the price panel.
func (h *DetailHandler) ReturnConfig(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	size := r.URL.Query().Get("size")
	if size == "" {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "size is required"})
		return
	}

	cfg, err := h.prices.ReturnConfig(r.Context(), slug, size)
	if err != nil {
		log.Printf("DetailHandler: return config for %s/%s failed: %v", slug, size, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to load return policy"})
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{"return_config": cfg})
}

type addToCartForm struct {
	Quantity int  `json:"quantity" validate:"min=0,max=100"`
	BuyNow   bool `json:"buy_now"`
}

func (h *DetailHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var form addToCartForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]any{"errors": helpers.FormatValidationErrors(err.(validator.ValidationErrors))})
		return
	}

	vm, err := h.vmFor(w, r, slug)
	if err != nil {
		log.Printf("DetailHandler: navigate to %s failed: %v", slug, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to load product"})
		return
	}

	outcome := vm.AddToCart(r.Context(), form.Quantity, form.BuyNow)

	status := http.StatusOK
	if outcome.Status == services.AddStatusError {
		status = http.StatusUnprocessableEntity
	}
	h.render.JSON(w, status, map[string]any{
		"outcome": outcome,
		"state":   h.stateResponse(vm),
	})
}
