// Package httpapi exposes the branch engine over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/ersonp/lingo-core/internal/domain/ports"
	"github.com/ersonp/lingo-core/internal/domain/services"
	"github.com/ersonp/lingo-core/internal/infrastructure/config"
)

// ActorHeader carries the id of the authenticated user. It is set by the
// auth layer in front of this API.
const ActorHeader = "X-User-ID"

const shutdownTimeout = 10 * time.Second

// Services are the use cases served by the API.
type Services struct {
	Spaces       *services.SpaceService
	Branches     *services.BranchService
	Diffs        *services.DiffService
	Merges       *services.MergeService
	Translations *services.TranslationService
	// Activity is optional. Without it the activity route is not registered.
	Activity ports.ActivityLog
}

// API holds the HTTP handlers.
type API struct {
	svc    Services
	logger *slog.Logger
}

// NewHandler builds the router and wraps it with JSON headers, panic
// recovery and, when accessLog is non-nil, a combined access log.
func NewHandler(svc Services, logger *slog.Logger, accessLog io.Writer) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	api := &API{svc: svc, logger: logger}

	r := mux.NewRouter().StrictSlash(true)
	api.routes(r)

	var h http.Handler = setJSONHeaders(r)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)(h)
	if accessLog != nil {
		h = handlers.CombinedLoggingHandler(accessLog, h)
	}
	return h
}

func (a *API) routes(r *mux.Router) {
	r.HandleFunc("/spaces", a.createSpace).Methods(http.MethodPost)
	r.HandleFunc("/spaces/{spaceId}", a.getSpace).Methods(http.MethodGet)
	r.HandleFunc("/spaces/{spaceId}/branches", a.listBranches).Methods(http.MethodGet)
	r.HandleFunc("/spaces/{spaceId}/branches", a.createBranch).Methods(http.MethodPost)
	if a.svc.Activity != nil {
		r.HandleFunc("/spaces/{spaceId}/activity", a.listActivity).Methods(http.MethodGet)
	}

	r.HandleFunc("/branches/{branchId}", a.getBranch).Methods(http.MethodGet)
	r.HandleFunc("/branches/{branchId}", a.deleteBranch).Methods(http.MethodDelete)
	r.HandleFunc("/branches/{branchId}/diff/{targetId}", a.diffBranches).Methods(http.MethodGet)
	r.HandleFunc("/branches/{branchId}/merge", a.mergeBranches).Methods(http.MethodPost)
	r.HandleFunc("/branches/{branchId}/keys", a.listKeys).Methods(http.MethodGet)
	r.HandleFunc("/branches/{branchId}/keys/{key}", a.deleteKey).Methods(http.MethodDelete)
	r.HandleFunc("/branches/{branchId}/keys/{key}/translations/{language}", a.setTranslation).Methods(http.MethodPut)
}

func setJSONHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})
}

// NewServer creates an http.Server with the configured address and timeouts.
func NewServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// ListenAndServe serves until ctx is cancelled and then shuts the server
// down, waiting for in-flight requests.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	}
}
