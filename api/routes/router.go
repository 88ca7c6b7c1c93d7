package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/karaoke-backend/api/controllers"
	"github.com/angelmondragon/karaoke-backend/api/middleware"
	"github.com/angelmondragon/karaoke-backend/internal/booking"
	"github.com/angelmondragon/karaoke-backend/internal/catalog"
	"github.com/angelmondragon/karaoke-backend/internal/dashboard"
	"github.com/angelmondragon/karaoke-backend/internal/rooms"
	"github.com/angelmondragon/karaoke-backend/pkg/config"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/karaoke-backend/pkg/redis"
)

// Deps carries everything the router hands to controllers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     *pkgredis.Client
	Gatherer  prometheus.Gatherer
	Engine    booking.Engine
	Rooms     rooms.Service
	Catalog   catalog.Service
	Dashboard dashboard.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	// typed nil clients must not reach the middleware as non-nil interfaces
	var idemStore pkgredis.IdempotencyStore
	readiness := map[string]controllers.Pinger{"database": deps.DB, "redis": nil}
	if deps.Redis != nil {
		idemStore = deps.Redis
		readiness["redis"] = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", controllers.ListRooms(deps.Rooms, logg))
			r.Get("/available", controllers.ListAvailableRooms(deps.Rooms, logg))
			r.Get("/{roomId}/current-bill", controllers.RoomCurrentBill(deps.Engine, logg))
		})

		r.With(middleware.RequireRole(logg, enums.StaffRoleManager, enums.StaffRoleReceptionist)).
			Get("/dashboard", controllers.Dashboard(deps.Dashboard, logg))

		r.Get("/services", controllers.ListServices(deps.Catalog, logg))

		r.With(middleware.RequireRole(logg, enums.StaffRoleManager, enums.StaffRoleReceptionist)).
			Post("/bookings", controllers.CreateBooking(deps.Engine, logg))

		r.Route("/bills", func(r chi.Router) {
			r.Get("/active", controllers.ListActiveBills(deps.Engine, logg))
			r.Get("/recent", controllers.RecentBookings(deps.Dashboard, logg))
			r.Delete("/items/{itemId}", controllers.RemoveBillItem(deps.Engine, logg))
			r.Get("/{billId}/preview", controllers.PreviewBill(deps.Engine, logg))
			r.Get("/{billId}/items", controllers.ListBillItems(deps.Engine, logg))
			r.Post("/{billId}/items", controllers.AddBillItem(deps.Engine, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleManager, enums.StaffRoleReceptionist)).
				Post("/{billId}/settle", controllers.SettleBill(deps.Engine, logg))
		})
	})

	return r
}
