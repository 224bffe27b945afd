package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"book-your-show/internal/adaptor"
	"book-your-show/internal/data/repository"
	"book-your-show/internal/inventory"
	"book-your-show/internal/usecase"
	"book-your-show/pkg/cache"
	"book-your-show/pkg/middleware"
	"book-your-show/pkg/queue"
	"book-your-show/pkg/utils"
)

// App holds the wired application
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers and routes
func Wiring(
	repo *repository.Repository,
	store *inventory.Store,
	seatCache *cache.SeatCache,
	publisher queue.Publisher,
	provider usecase.PaymentProvider,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, store, seatCache, publisher, provider, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireEvent(r, handler.Event)
	wireReservation(r, handler.Reservation, handler.Payment)
	wirePayment(r, handler.Payment)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
