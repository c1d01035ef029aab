package routes

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"

	"storefront/app/configs"
	"storefront/app/handlers"
	"storefront/app/middlewares"
	"storefront/app/repositories"
	"storefront/app/services"
	"storefront/app/utils/sessions"
)

// NewRouter wires the storefront: one platform gateway shared by every
// service, a per-session side-details registry, and the JSON handlers on
// top. db may be nil, in which case the in-memory KV store is used.
func NewRouter(db *gorm.DB, keys *configs.SessionKeys) *mux.Router {
	env := configs.LoadENV

	gateway := services.NewPlatformGateway(env.PLATFORM_API_URL, env.PLATFORM_APP_ID, env.PLATFORM_APP_TOKEN)

	var kv repositories.KVRepository
	if db != nil {
		kv = repositories.NewGormKVRepository(db)
	} else {
		kv = repositories.NewMemoryKVRepository()
	}

	priceSvc := services.NewPriceService(gateway)
	registry := services.NewSideDetailsRegistry(services.SideDetailsDeps{
		Catalog:     services.NewCatalogService(gateway),
		Price:       priceSvc,
		Fulfillment: services.NewFulfillmentService(gateway),
		Checkout:    services.NewCheckoutService(gateway),
	})
	searchSvc := services.NewSearchService(gateway, kv)
	authSvc := services.NewAuthService(gateway, kv, env.OTPResendCooldown())
	cartSvc := services.NewCartService(gateway)

	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)
	validate := validator.New()
	renderer := render.New()

	detailHandler := handlers.NewDetailHandler(registry, priceSvc, sessionStore, validate, renderer)
	searchHandler := handlers.NewSearchHandler(searchSvc, sessionStore, renderer)
	authHandler := handlers.NewAuthHandler(authSvc, sessionStore, validate, renderer)
	cartHandler := handlers.NewCartHandler(cartSvc, validate, renderer)

	router := mux.NewRouter()
	router.Use(middlewares.RecoverMiddleware)
	router.Use(middlewares.RequestLogMiddleware)

	api := router.PathPrefix("/api").Subrouter()

	csrfMiddleware := csrf.Protect(keys.AuthKey,
		csrf.Secure(env.APP_ENV == "production"),
		csrf.Path("/"),
	)
	api.Use(csrfMiddleware)

	api.HandleFunc("/products/{slug}", detailHandler.ProductDetail).Methods(http.MethodGet)
	api.HandleFunc("/products/{slug}/return-config", detailHandler.ReturnConfig).Methods(http.MethodGet)
	api.HandleFunc("/products/{slug}/size", detailHandler.SelectSize).Methods(http.MethodPost)
	api.HandleFunc("/products/{slug}/pincode", detailHandler.SetPincode).Methods(http.MethodPost)
	api.HandleFunc("/products/{slug}/cart", detailHandler.AddToCart).Methods(http.MethodPost)

	api.HandleFunc("/search/suggestions", searchHandler.Suggestions).Methods(http.MethodGet)
	api.HandleFunc("/search/recent", searchHandler.Recent).Methods(http.MethodGet)
	api.HandleFunc("/search/recent", searchHandler.ClearRecent).Methods(http.MethodDelete)

	api.HandleFunc("/auth/otp/send", authHandler.SendOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/otp/verify", authHandler.VerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	api.HandleFunc("/cart/coupon", cartHandler.ApplyCoupon).Methods(http.MethodPost)
	api.HandleFunc("/cart/coupon", cartHandler.RemoveCoupon).Methods(http.MethodDelete)

	return router
}
