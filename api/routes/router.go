package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mazraaty/backend/api/controllers"
	"github.com/mazraaty/backend/api/middleware"
	"github.com/mazraaty/backend/internal/addresses"
	"github.com/mazraaty/backend/internal/auth"
	"github.com/mazraaty/backend/internal/cart"
	"github.com/mazraaty/backend/internal/catalog"
	checkoutsvc "github.com/mazraaty/backend/internal/checkout"
	"github.com/mazraaty/backend/internal/customers"
	"github.com/mazraaty/backend/internal/inventory"
	"github.com/mazraaty/backend/internal/invoices"
	"github.com/mazraaty/backend/internal/orders"
	"github.com/mazraaty/backend/internal/stocknotify"
	"github.com/mazraaty/backend/pkg/auth/session"
	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	addressService addresses.Service,
	orderService orders.Service,
	invoiceService invoices.Service,
	stockNotifyService stocknotify.Service,
	customerService customers.Service,
	inventoryService inventory.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Locale(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/health", controllers.Health(dbP, redisClient, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg), middleware.Idempotency(redisClient, logg)).
				Post("/register", controllers.Register(authService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.Login(authService, logg))
			r.Post("/refresh", controllers.Refresh(authService, logg))
		})

		// Storefront catalog is public.
		r.Get("/categories", controllers.ListCategories(catalogService, logg))
		r.Get("/categories/{slug}", controllers.GetCategory(catalogService, logg))
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{slug}", controllers.GetProduct(catalogService, logg))
		r.With(middleware.Idempotency(redisClient, logg)).
			Post("/products/{productID}/notify", controllers.SubscribeStockNotification(stockNotifyService, logg))

		r.With(middleware.Idempotency(redisClient, logg)).
			Post("/checkout/guest", controllers.GuestCheckout(checkoutService, logg))

		// Guest invoice lookup: order number plus checkout email.
		r.Get("/invoices/{orderNumber}", controllers.GuestOrderInvoice(invoiceService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", controllers.Logout(authService, logg))
				r.Get("/me", controllers.Me(authService, logg))
				r.Put("/me", controllers.UpdateProfile(authService, logg))
				r.Post("/me/password", controllers.ChangePassword(authService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(cartService, logg))
				r.Post("/items", controllers.AddCartItem(cartService, logg))
				r.Post("/merge", controllers.MergeCart(cartService, logg))
				r.Put("/items/{itemID}", controllers.UpdateCartItem(cartService, logg))
				r.Delete("/items/{itemID}", controllers.RemoveCartItem(cartService, logg))
				r.Delete("/", controllers.ClearCart(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.ListAddresses(addressService, logg))
				r.Post("/", controllers.CreateAddress(addressService, logg))
				r.Put("/{addressID}", controllers.UpdateAddress(addressService, logg))
				r.Delete("/{addressID}", controllers.DeleteAddress(addressService, logg))
				r.Post("/{addressID}/default", controllers.SetDefaultAddress(addressService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListMyOrders(orderService, logg))
				r.Get("/{orderID}", controllers.GetMyOrder(orderService, logg))
				r.Post("/{orderID}/cancel", controllers.CancelMyOrder(orderService, logg))
				r.Get("/{orderID}/invoice", controllers.MyOrderInvoice(invoiceService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(catalogService, logg))
				r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
				r.Get("/{productID}", controllers.AdminGetProduct(catalogService, logg))
				r.Put("/{productID}", controllers.AdminUpdateProduct(catalogService, logg))
				r.Delete("/{productID}", controllers.AdminDeleteProduct(catalogService, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.AdminListCategories(catalogService, logg))
				r.Post("/", controllers.AdminCreateCategory(catalogService, logg))
				r.Put("/{categoryID}", controllers.AdminUpdateCategory(catalogService, logg))
				r.Delete("/{categoryID}", controllers.AdminDeleteCategory(catalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(orderService, logg))
				r.Get("/{orderID}", controllers.AdminGetOrder(orderService, logg))
				r.Post("/{orderID}/status", controllers.AdminUpdateOrderStatus(orderService, logg))
				r.Post("/{orderID}/payment-status", controllers.AdminUpdatePaymentStatus(orderService, logg))
				r.Post("/{orderID}/notes", controllers.AdminUpdateOrderNotes(orderService, logg))
				r.Get("/{orderID}/invoice", controllers.AdminOrderInvoice(invoiceService, logg))
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.AdminListCustomers(customerService, logg))
				r.Get("/{customerID}", controllers.AdminGetCustomer(customerService, logg))
				r.Post("/{customerID}/active", controllers.AdminSetCustomerActive(customerService, logg))
				r.Route("/{customerID}/addresses", func(r chi.Router) {
					r.Get("/", controllers.AdminListCustomerAddresses(addressService, logg))
					r.Post("/", controllers.AdminCreateCustomerAddress(addressService, logg))
					r.Put("/{addressID}", controllers.AdminUpdateCustomerAddress(addressService, logg))
					r.Delete("/{addressID}", controllers.AdminDeleteCustomerAddress(addressService, logg))
				})
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/{productID}", controllers.AdminGetInventoryLevel(inventoryService, logg))
				r.Get("/{productID}/transactions", controllers.AdminListInventoryTransactions(inventoryService, logg))
				r.Post("/{productID}/restock", controllers.AdminRestockProduct(inventoryService, logg))
				r.Post("/{productID}/adjust", controllers.AdminAdjustInventory(inventoryService, logg))
				r.Post("/{productID}/reconcile", controllers.AdminReconcileInventory(inventoryService, logg))
			})

			r.Get("/stock-notifications", controllers.AdminListStockNotifications(stockNotifyService, logg))
		})
	})

	return r
}
