package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesaeats/mesa-client/api/controllers"
	"github.com/mesaeats/mesa-client/api/middleware"
	"github.com/mesaeats/mesa-client/internal/auth"
	"github.com/mesaeats/mesa-client/internal/cart"
	"github.com/mesaeats/mesa-client/internal/orders"
	"github.com/mesaeats/mesa-client/internal/vendors"
	"github.com/mesaeats/mesa-client/pkg/config"
	"github.com/mesaeats/mesa-client/pkg/logger"
)

// NewRouter wires the local HTTP API the UI talks to. Everything is served on
// loopback; there is no auth middleware because the daemon and the UI share a
// trust boundary, the session gates live inside the stores.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	authService auth.Service,
	cartStore cart.Store,
	vendorStore vendors.Store,
	orderStore orders.Store,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.Healthz(cfg))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.Login(authService, logg))
			r.Post("/register", controllers.Register(authService, logg))
			r.Post("/logout", controllers.Logout(authService, logg))
		})
		r.Get("/session", controllers.SessionView(authService, logg))
		r.Put("/profile", controllers.ProfileUpdate(authService, logg))

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.VendorsList(vendorStore, logg))
			r.Get("/{vendorID}", controllers.VendorDetails(vendorStore, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(cartStore, logg))
			r.Delete("/", controllers.CartClear(cartStore, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(cartStore, logg))
			r.Put("/items/{itemID}/quantity", controllers.CartSetQuantity(cartStore, logg))
			r.Put("/address", controllers.CartSetAddress(cartStore, logg))
		})

		r.Post("/checkout", controllers.Checkout(cartStore, vendorStore, orderStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(orderStore, logg))
			r.Get("/current", controllers.OrdersCurrent(orderStore, logg))
			r.Post("/{orderID}/cancel", controllers.OrderCancel(orderStore, logg))
		})
	})

	return r
}
