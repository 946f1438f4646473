package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
)

// NewRouter mounts the REST surface under basePath/api and serves staticDir for
// everything else under basePath.
func NewRouter(h *Handler, basePath, staticDir string) http.Handler {
	router := mux.NewRouter()
	router.Use(h.ErrorHandleMiddleware)

	base := router
	if basePath != "" {
		router.Handle(basePath, http.RedirectHandler(basePath+"/", http.StatusMovedPermanently))
		base = router.PathPrefix(basePath + "/").Subrouter()
	}
	api := base.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.GetProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/checkout", h.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", h.GetOrderById).Methods(http.MethodGet)

	base.PathPrefix("/").Handler(http.StripPrefix(basePath, StaticHandler(staticDir))).Methods(http.MethodGet, http.MethodHead)
	return RequestIdMiddleware(LogMiddleware(router))
}

// StaticHandler serves files from dir. Paths that do not name a file get
// index.html so client routes like /catalog/1 load the app.
func StaticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(name, "/api/") {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
