package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/app/models"
	"storefront/app/services"
)

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func testProduct() models.Product {
	return models.Product{
		Name:     "Crew Neck Tee",
		ItemCode: "TEE-01",
		Sellable: true,
		Sizes: []models.SizeOption{
			{Value: "M", Display: "Medium", IsAvailable: true, Quantity: 5},
			{Value: "L", Display: "Large", IsAvailable: true, Quantity: 2},
			{Value: "XS", Display: "Extra Small", IsAvailable: false, Quantity: 0},
		},
	}
}

func promiseOption(max time.Time) models.FulfillmentOption {
	return models.FulfillmentOption{
		StoreUID:  42,
		ArticleID: "art-42",
		Quantity:  3,
		DeliveryPromise: &models.DeliveryPromise{
			Min: max.Add(-48 * time.Hour),
			Max: max,
		},
	}
}

type fakeCatalog struct {
	product models.Product
}

func (f *fakeCatalog) Product(_ context.Context, slug string) (*models.Product, error) {
	p := f.product
	p.Slug = slug
	return &p, nil
}

type priceCall struct {
	slug, size, pincode string
}

type fakePrice struct {
	mu     sync.Mutex
	calls  []priceCall
	result *models.SizeBasedPrice
	err    error
}

func (f *fakePrice) ProductPrice(_ context.Context, slug, size, pincode string) (*models.SizeBasedPrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, priceCall{slug, size, pincode})
	return f.result, f.err
}

func (f *fakePrice) ReturnConfig(context.Context, string, string) (*models.ReturnConfig, error) {
	return nil, nil
}

// gatedFulfillment can hold responses for chosen pincodes until the test
// releases them, to drive overlapping fetches deterministically.
type gatedFulfillment struct {
	mu      sync.Mutex
	calls   []string
	gates   map[string]chan struct{}
	results map[string][]models.FulfillmentOption
	err     error
}

func newGatedFulfillment() *gatedFulfillment {
	return &gatedFulfillment{
		gates:   make(map[string]chan struct{}),
		results: make(map[string][]models.FulfillmentOption),
	}
}

func (f *gatedFulfillment) Options(_ context.Context, _, _, pincode string) ([]models.FulfillmentOption, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pincode)
	gate := f.gates[pincode]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[pincode], nil
}

func (f *gatedFulfillment) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeCheckout struct {
	mu     sync.Mutex
	calls  []services.AddToCartRequest
	result *services.CartResult
	err    error
}

func (f *fakeCheckout) AddToCart(_ context.Context, req services.AddToCartRequest) (*services.CartResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.result, f.err
}

type vmFixture struct {
	vm          *services.SideDetails
	fulfillment *gatedFulfillment
	price       *fakePrice
	checkout    *fakeCheckout
}

func newFixture(t *testing.T) *vmFixture {
	t.Helper()
	fulfillment := newGatedFulfillment()
	price := &fakePrice{}
	checkout := &fakeCheckout{result: &services.CartResult{CartID: "cart-1", ItemCount: 1}}
	vm := services.NewSideDetails(services.SideDetailsDeps{
		Catalog:     &fakeCatalog{product: testProduct()},
		Price:       price,
		Fulfillment: fulfillment,
		Checkout:    checkout,
		Now:         func() time.Time { return testNow },
	})
	return &vmFixture{vm: vm, fulfillment: fulfillment, price: price, checkout: checkout}
}

func TestValidFlowProducesDeliveryDate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.fulfillment.results["400001"] = []models.FulfillmentOption{
		promiseOption(time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))

	// Gate the fetch so the in-flight flag is observable.
	gate := make(chan struct{})
	fx.fulfillment.mu.Lock()
	fx.fulfillment.gates["400001"] = gate
	fx.fulfillment.mu.Unlock()

	done := make(chan struct{})
	go func() {
		fx.vm.SetPincode(ctx, "400001")
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fx.vm.State().IsFetchingDelivery
	}, time.Second, time.Millisecond, "expected fetching flag while the request is in flight")

	close(gate)
	<-done

	state := fx.vm.State()
	require.False(t, state.IsFetchingDelivery)
	require.Empty(t, state.PincodeError)
	require.Equal(t, "Sat, 05 Sep", state.EstimatedDeliveryDate)
	require.NotNil(t, state.Fulfillment)
	require.Equal(t, "art-42", state.Fulfillment.ArticleID)
}

func TestUnserviceablePincode(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// No result registered for 110000: valid format, zero options.
	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	fx.vm.SetPincode(ctx, "110000")

	state := fx.vm.State()
	require.Equal(t, services.MsgNotServiceable, state.PincodeError)
	require.Empty(t, state.EstimatedDeliveryDate)
	require.Nil(t, state.Fulfillment)
}

func TestPincodeBeforeSizeDoesNotFetch(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	before := fx.fulfillment.callCount()

	fx.vm.SetPincode(ctx, "400001")

	state := fx.vm.State()
	require.Equal(t, services.MsgSelectSizeFirst, state.PincodeError)
	require.Empty(t, state.EstimatedDeliveryDate)
	require.Equal(t, before, fx.fulfillment.callCount(), "no delivery fetch without a selected size")
}

func TestPartialPincodeDoesNotFetch(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	before := fx.fulfillment.callCount()

	for _, partial := range []string{"4", "40", "400", "4000", "40000"} {
		fx.vm.SetPincode(ctx, partial)

		state := fx.vm.State()
		require.Empty(t, state.PincodeError, "no error while typing %q", partial)
		require.Empty(t, state.EstimatedDeliveryDate)
	}
	require.Equal(t, before, fx.fulfillment.callCount(), "partial entry must not fetch")
}

func TestMalformedPincodeSurfacesValidationError(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	before := fx.fulfillment.callCount()

	fx.vm.SetPincode(ctx, "012345")

	state := fx.vm.State()
	require.Equal(t, "invalid pincode format", state.PincodeError)
	require.Empty(t, state.EstimatedDeliveryDate)
	require.Equal(t, before, fx.fulfillment.callCount())
}

func TestNumericFilterOnPincodeInput(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.fulfillment.results["400001"] = []models.FulfillmentOption{
		promiseOption(time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	fx.vm.SetPincode(ctx, "400 001")

	state := fx.vm.State()
	require.Equal(t, "400001", state.Pincode)
	require.Equal(t, "Sat, 05 Sep", state.EstimatedDeliveryDate)

	// Over-length input is cut at the field width, like a bounded input box.
	fx.vm.SetPincode(ctx, "4000019")

	state = fx.vm.State()
	require.Equal(t, "400001", state.Pincode)
	require.Empty(t, state.PincodeError)
}

func TestLastRequestWinsWhenFetchesRace(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	gateA := make(chan struct{})
	gateB := make(chan struct{})
	fx.fulfillment.gates["400001"] = gateA
	fx.fulfillment.gates["560001"] = gateB
	fx.fulfillment.results["400001"] = []models.FulfillmentOption{
		promiseOption(time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)),
	}
	fx.fulfillment.results["560001"] = []models.FulfillmentOption{
		promiseOption(time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	base := fx.fulfillment.callCount()

	doneA := make(chan struct{})
	go func() {
		fx.vm.SetPincode(ctx, "400001")
		close(doneA)
	}()
	require.Eventually(t, func() bool { return fx.fulfillment.callCount() == base+1 }, time.Second, time.Millisecond)

	doneB := make(chan struct{})
	go func() {
		fx.vm.SetPincode(ctx, "560001")
		close(doneB)
	}()
	require.Eventually(t, func() bool { return fx.fulfillment.callCount() == base+2 }, time.Second, time.Millisecond)

	// B resolves first, then the stale A response lands.
	close(gateB)
	<-doneB
	close(gateA)
	<-doneA

	state := fx.vm.State()
	require.Equal(t, "560001", state.Pincode)
	require.Equal(t, "Wed, 09 Sep", state.EstimatedDeliveryDate, "stale response must not overwrite the newer one")
	require.Empty(t, state.PincodeError)
}

func TestTransportFailureDegradesToMessage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.fulfillment.err = context.DeadlineExceeded

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	fx.vm.SetPincode(ctx, "400001")

	state := fx.vm.State()
	require.Equal(t, services.MsgDeliveryFailed, state.PincodeError)
	require.Empty(t, state.EstimatedDeliveryDate)
	require.Nil(t, state.Fulfillment)
}

func TestNavigationResetsAllState(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.fulfillment.results["400001"] = []models.FulfillmentOption{
		promiseOption(time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	fx.vm.SetPincode(ctx, "400001")
	require.NotEmpty(t, fx.vm.State().EstimatedDeliveryDate)

	require.NoError(t, fx.vm.Navigate(ctx, "denim-jacket", ""))

	state := fx.vm.State()
	require.Equal(t, "denim-jacket", state.Slug)
	require.Nil(t, state.SelectedSize)
	require.Empty(t, state.Pincode)
	require.Empty(t, state.PincodeError)
	require.Empty(t, state.EstimatedDeliveryDate)
	require.Nil(t, state.SizeBasedPrice)
	require.Nil(t, state.Fulfillment)
}

func TestNavigateWithSelectedSizeParam(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", "L"))

	state := fx.vm.State()
	require.NotNil(t, state.SelectedSize)
	require.Equal(t, "L", state.SelectedSize.Value)
}

func TestAutoSelectedSizeDrivesBackgroundPricingOnly(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))

	state := fx.vm.State()
	require.Nil(t, state.SelectedSize, "auto-selection must not show as a UI selection")

	fx.price.mu.Lock()
	defer fx.price.mu.Unlock()
	require.NotEmpty(t, fx.price.calls)
	require.Equal(t, "M", fx.price.calls[len(fx.price.calls)-1].size)
}

func TestSizePriceFailureIsSilent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.price.err = context.DeadlineExceeded

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))

	state := fx.vm.State()
	require.Nil(t, state.SizeBasedPrice)
	require.Empty(t, state.PincodeError, "price failures never surface a message")
}

func TestAddToCartWithoutSize(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))

	outcome := fx.vm.AddToCart(ctx, 1, false)
	require.Equal(t, services.AddStatusError, outcome.Status)
	require.Equal(t, services.MsgSelectSize, outcome.Message)
	require.Empty(t, fx.checkout.calls)
}

func TestAddToCartOutOfStockSignalsNotifyMe(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "XS"))

	outcome := fx.vm.AddToCart(ctx, 1, false)
	require.Equal(t, services.AddStatusNotifyMe, outcome.Status)
	require.Empty(t, fx.checkout.calls, "out-of-stock must not reach checkout")
}

func TestAddToCartPassesFulfillmentSnapshotAndResetsSelection(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.fulfillment.results["400001"] = []models.FulfillmentOption{
		promiseOption(time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, fx.vm.Navigate(ctx, "crew-neck-tee", ""))
	require.NoError(t, fx.vm.SelectSize(ctx, "M"))
	fx.vm.SetPincode(ctx, "400001")

	outcome := fx.vm.AddToCart(ctx, 2, false)
	require.Equal(t, services.AddStatusOK, outcome.Status)
	require.NotNil(t, outcome.Cart)

	require.Len(t, fx.checkout.calls, 1)
	call := fx.checkout.calls[0]
	require.Equal(t, "crew-neck-tee", call.Slug)
	require.Equal(t, "M", call.Size)
	require.Equal(t, 2, call.Quantity)
	require.NotNil(t, call.Fulfillment)
	require.Equal(t, "art-42", call.Fulfillment.ArticleID)

	state := fx.vm.State()
	require.Nil(t, state.SelectedSize, "selection is cleared after submit")
	require.Empty(t, state.PincodeError, "post-submit reset must not trigger the select-a-size nudge")
}
