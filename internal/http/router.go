package http

import nethttp "net/http"

// NewRouter registers HTTP routes on a ServeMux. The admin route is only
// mounted when an admin token is configured.
func NewRouter(handler *Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/watch", handler.Watch)
	if handler.adminToken != "" {
		mux.HandleFunc("/admin/cache/clear", handler.ClearCache)
	}
	return mux
}
