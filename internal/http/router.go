package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/prediction-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. The admin route is only
// mounted when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/games", handler.Games)
	mux.HandleFunc("/games/", handler.GameByID)
	mux.HandleFunc("/user", handler.User)
	mux.HandleFunc("/predict", handler.Predict)
	if admin != nil {
		mux.HandleFunc("/admin/snapshots/refresh", admin.RefreshSnapshots)
	}
	return mux
}
