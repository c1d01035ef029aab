package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront/app/models"
	"storefront/app/utils/calc"
	"storefront/app/utils/validate"
)

// User-facing messages owned by the side-details flow. Handlers return them
// verbatim; how they render is the client's problem.
const (
	MsgSelectSizeFirst  = "Please select a size first"
	MsgSelectSize       = "Please select a size"
	MsgNotServiceable   = "Delivery not available for this pincode"
	MsgDeliveryFailed   = "Invalid pincode or delivery not available"
	MsgCannotCalculate  = "Unable to calculate delivery date"
	MsgAddInProgress    = "Add to cart already in progress"
	MsgProductNotLoaded = "Product not loaded"
)

// deliveryErrorMessages maps resolver failure kinds to the message shown
// next to the pincode field when a 6-digit pincode was in play.
var deliveryErrorMessages = map[ErrorKind]string{
	ErrKindTransport:      MsgDeliveryFailed,
	ErrKindPlatform:       MsgDeliveryFailed,
	ErrKindNotServiceable: MsgNotServiceable,
}

// AddToCartStatus is the outcome signal of an add-to-cart attempt.
type AddToCartStatus string

const (
	AddStatusOK       AddToCartStatus = "ok"
	AddStatusNotifyMe AddToCartStatus = "notify_me"
	AddStatusError    AddToCartStatus = "error"
)

type AddToCartOutcome struct {
	Status  AddToCartStatus `json:"status"`
	Message string          `json:"message,omitempty"`
	Cart    *CartResult     `json:"cart,omitempty"`
}

// SideDetailsState is a read-only snapshot of the view-model. Empty strings
// stand in for the nulls of the state contract.
type SideDetailsState struct {
	Slug                  string                    `json:"slug"`
	SelectedSize          *models.SizeOption        `json:"selected_size,omitempty"`
	Pincode               string                    `json:"pincode"`
	PincodeError          string                    `json:"pincode_error,omitempty"`
	EstimatedDeliveryDate string                    `json:"estimated_delivery_date,omitempty"`
	IsFetchingDelivery    bool                      `json:"is_fetching_delivery"`
	SizeBasedPrice        *models.SizeBasedPrice    `json:"size_based_price,omitempty"`
	Fulfillment           *models.FulfillmentOption `json:"fulfillment,omitempty"`
}

// SideDetailsDeps are the collaborators of the view-model. Now is injected
// so delivery estimates stay deterministic under test.
type SideDetailsDeps struct {
	Catalog     CatalogClient
	Price       PriceClient
	Fulfillment FulfillmentClient
	Checkout    CheckoutClient
	Now         func() time.Time
}

// SideDetails orchestrates selected size, pincode input, delivery estimate
// and size-based price for one product page. Remote calls run outside the
// lock; a monotonic generation per fetch family discards responses that
// arrive for an outdated (slug, size, pincode) combination, so the last
// request always wins. Nothing in here is fatal to the page: every remote
// failure degrades to cleared state and, at most, a field message.
type SideDetails struct {
	deps SideDetailsDeps

	mu           sync.Mutex
	slug         string
	product      *models.Product
	selectedSize *models.SizeOption
	// autoSize feeds background pricing when the user has not chosen a
	// size; it is never reported as a UI selection.
	autoSize              *models.SizeOption
	pincode               string
	pincodeError          string
	estimatedDeliveryDate string
	isFetchingDelivery    bool
	sizeBasedPrice        *models.SizeBasedPrice
	fulfillment           *models.FulfillmentOption

	// addingToCart suppresses the "select a size first" validation while
	// the post-submit size reset re-runs the delivery evaluation.
	addingToCart bool
	isAdding     bool

	deliveryGen uint64
	priceGen    uint64
}

func NewSideDetails(deps SideDetailsDeps) *SideDetails {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &SideDetails{deps: deps}
}

// State returns a copy of the current view-model state.
func (vm *SideDetails) State() SideDetailsState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return SideDetailsState{
		Slug:                  vm.slug,
		SelectedSize:          vm.selectedSize,
		Pincode:               vm.pincode,
		PincodeError:          vm.pincodeError,
		EstimatedDeliveryDate: vm.estimatedDeliveryDate,
		IsFetchingDelivery:    vm.isFetchingDelivery,
		SizeBasedPrice:        vm.sizeBasedPrice,
		Fulfillment:           vm.fulfillment,
	}
}

// Navigate loads a product page. A slug change hard-resets every field so
// no state leaks across products, and bumps both generations so in-flight
// responses for the previous product are ignored when they land.
// selectedSizeParam preselects a size when the page was opened with an
// explicit selected_size query parameter; otherwise the first available
// size is auto-picked for background pricing only.
func (vm *SideDetails) Navigate(ctx context.Context, slug, selectedSizeParam string) error {
	if slug == "" {
		return fmt.Errorf("navigate: slug is required")
	}

	vm.mu.Lock()
	if vm.slug != slug {
		vm.resetLocked()
		vm.slug = slug
	}
	vm.mu.Unlock()

	product, err := vm.deps.Catalog.Product(ctx, slug)
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}

	vm.mu.Lock()
	if vm.slug != slug {
		// User already navigated somewhere else.
		vm.mu.Unlock()
		return nil
	}
	vm.product = product
	if selectedSizeParam != "" {
		if size := product.SizeByValue(selectedSizeParam); size != nil {
			vm.selectedSize = size
			vm.autoSize = nil
		}
	}
	if vm.selectedSize == nil {
		vm.autoSize = product.FirstAvailableSize()
	}
	vm.mu.Unlock()

	vm.evaluateDelivery(ctx)
	vm.evaluatePrice(ctx)
	return nil
}

// SelectSize records the user's size choice and re-evaluates both the
// delivery fetch and the size-price fetch.
func (vm *SideDetails) SelectSize(ctx context.Context, sizeValue string) error {
	vm.mu.Lock()
	if vm.product == nil {
		vm.mu.Unlock()
		return fmt.Errorf("select size: %s", MsgProductNotLoaded)
	}
	size := vm.product.SizeByValue(sizeValue)
	if size == nil {
		vm.mu.Unlock()
		return fmt.Errorf("select size: unknown size %q for product %s", sizeValue, vm.slug)
	}
	vm.selectedSize = size
	vm.autoSize = nil
	vm.pincodeError = ""
	vm.mu.Unlock()

	vm.evaluateDelivery(ctx)
	vm.evaluatePrice(ctx)
	return nil
}

// SetPincode applies the numeric-only filter to raw input, stores the
// result and re-evaluates dependent fetches.
func (vm *SideDetails) SetPincode(ctx context.Context, raw string) {
	pincode := validate.DigitsOnly(raw)
	if len(pincode) > validate.PincodeLength {
		pincode = pincode[:validate.PincodeLength]
	}

	vm.mu.Lock()
	vm.pincode = pincode
	vm.pincodeError = ""
	vm.mu.Unlock()

	vm.evaluateDelivery(ctx)
	vm.evaluatePrice(ctx)
}

// evaluateDelivery runs the delivery-fetch evaluation whenever pincode or
// selected size changes. Partial pincodes (1-5 digits) never hit the
// network; a 6-digit pincode with no selected size only produces the
// "select a size first" nudge.
func (vm *SideDetails) evaluateDelivery(ctx context.Context) {
	vm.mu.Lock()

	pincode := vm.pincode
	size := vm.selectedSize

	if size == nil {
		if len(pincode) == validate.PincodeLength && !vm.addingToCart {
			vm.pincodeError = MsgSelectSizeFirst
		}
		vm.clearDeliveryLocked()
		vm.mu.Unlock()
		return
	}

	if len(pincode) > 0 && len(pincode) < validate.PincodeLength {
		// Incomplete entry, wait for the remaining digits.
		vm.clearDeliveryLocked()
		vm.mu.Unlock()
		return
	}

	if res := validate.Pincode(pincode); !res.Valid {
		vm.pincodeError = res.Reason
		vm.clearDeliveryLocked()
		vm.mu.Unlock()
		return
	}

	usePincode := ""
	if len(pincode) == validate.PincodeLength {
		usePincode = pincode
	}

	vm.deliveryGen++
	gen := vm.deliveryGen
	if usePincode != "" {
		vm.isFetchingDelivery = true
	}
	slug := vm.slug
	sizeValue := size.Value
	product := vm.product
	vm.mu.Unlock()

	options, err := vm.deps.Fulfillment.Options(ctx, slug, sizeValue, usePincode)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.deliveryGen {
		// A newer (size, pincode) combination superseded this fetch.
		return
	}
	vm.isFetchingDelivery = false

	if err != nil {
		log.Printf("SideDetails: fulfillment fetch failed for %s/%s pincode=%q: %v", slug, sizeValue, usePincode, err)
		if usePincode != "" {
			vm.pincodeError = deliveryErrorMessages[KindOf(err)]
		}
		vm.estimatedDeliveryDate = ""
		vm.fulfillment = nil
		return
	}

	if usePincode != "" && len(options) == 0 {
		vm.pincodeError = MsgNotServiceable
		vm.estimatedDeliveryDate = ""
		vm.fulfillment = nil
		return
	}

	if len(options) > 0 {
		vm.fulfillment = &options[0]
	} else {
		vm.fulfillment = nil
	}

	if usePincode != "" {
		if label, ok := calc.EstimateDeliveryDate(product, options, vm.deps.Now()); ok {
			vm.estimatedDeliveryDate = label
			vm.pincodeError = ""
		} else {
			vm.estimatedDeliveryDate = ""
			vm.pincodeError = MsgCannotCalculate
		}
	}
}

// evaluatePrice refreshes the size-based price for the selected size, or
// for the auto-picked fallback size when nothing is selected yet. Failures
// degrade silently to the default product-level price.
func (vm *SideDetails) evaluatePrice(ctx context.Context) {
	vm.mu.Lock()

	size := vm.selectedSize
	if size == nil {
		size = vm.autoSize
	}
	if size == nil || vm.slug == "" {
		vm.sizeBasedPrice = nil
		vm.mu.Unlock()
		return
	}

	usePincode := ""
	if res := validate.Pincode(vm.pincode); res.Valid && len(vm.pincode) == validate.PincodeLength {
		usePincode = vm.pincode
	}

	vm.priceGen++
	gen := vm.priceGen
	slug := vm.slug
	sizeValue := size.Value
	vm.mu.Unlock()

	price, err := vm.deps.Price.ProductPrice(ctx, slug, sizeValue, usePincode)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.priceGen {
		return
	}
	if err != nil {
		log.Printf("SideDetails: size price fetch failed for %s/%s pincode=%q: %v", slug, sizeValue, usePincode, err)
		vm.sizeBasedPrice = nil
		return
	}
	vm.sizeBasedPrice = price
}

// AddToCart validates the selection and hands the current fulfillment
// snapshot to the checkout collaborator. Out-of-stock sizes short-circuit
// into a notify-me signal without touching checkout. The selection is
// cleared after a successful submit; the addingToCart guard keeps that
// reset from surfacing a spurious "select a size first" error.
func (vm *SideDetails) AddToCart(ctx context.Context, quantity int, buyNow bool) AddToCartOutcome {
	vm.mu.Lock()
	if vm.isAdding {
		vm.mu.Unlock()
		return AddToCartOutcome{Status: AddStatusError, Message: MsgAddInProgress}
	}
	size := vm.selectedSize
	if size == nil {
		vm.mu.Unlock()
		return AddToCartOutcome{Status: AddStatusError, Message: MsgSelectSize}
	}
	if !size.IsAvailable || size.Quantity <= 0 {
		vm.mu.Unlock()
		return AddToCartOutcome{Status: AddStatusNotifyMe}
	}

	vm.isAdding = true
	req := AddToCartRequest{
		Slug:        vm.slug,
		Size:        size.Value,
		Quantity:    quantity,
		BuyNow:      buyNow,
		Fulfillment: vm.fulfillment,
	}
	vm.mu.Unlock()

	result, err := vm.deps.Checkout.AddToCart(ctx, req)

	vm.mu.Lock()
	vm.isAdding = false
	if err != nil {
		vm.mu.Unlock()
		log.Printf("SideDetails: add to cart failed for %s/%s: %v", req.Slug, req.Size, err)
		return AddToCartOutcome{Status: AddStatusError, Message: "Could not add to cart, please try again"}
	}
	vm.addingToCart = true
	vm.selectedSize = nil
	if vm.product != nil {
		vm.autoSize = vm.product.FirstAvailableSize()
	}
	vm.mu.Unlock()

	vm.evaluateDelivery(ctx)

	vm.mu.Lock()
	vm.addingToCart = false
	vm.mu.Unlock()

	return AddToCartOutcome{Status: AddStatusOK, Cart: result}
}

// resetLocked wipes every field the page owns. Called on slug change so no
// price, estimate or error survives navigation.
func (vm *SideDetails) resetLocked() {
	vm.deliveryGen++
	vm.priceGen++
	vm.product = nil
	vm.selectedSize = nil
	vm.autoSize = nil
	vm.pincode = ""
	vm.pincodeError = ""
	vm.estimatedDeliveryDate = ""
	vm.isFetchingDelivery = false
	vm.sizeBasedPrice = nil
	vm.fulfillment = nil
}

func (vm *SideDetails) clearDeliveryLocked() {
	vm.estimatedDeliveryDate = ""
	vm.fulfillment = nil
	vm.isFetchingDelivery = false
}
