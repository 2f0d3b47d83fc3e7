package server

import (
	"log"
	"net/http"
	"time"

	"github.com/empresadev/gestao-api/internal/handlers"
	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/services"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, uploadDir string) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	ah := handlers.NewAuthHandler(db)
	mux.HandleFunc("POST /register", ah.RegisterUser)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /usuarios", ah.ListUsers)

	// Supplier endpoints
	sh := handlers.NewSupplierHandler(db)
	mux.HandleFunc("GET /fornecedores", sh.List)
	mux.HandleFunc("POST /fornecedores", sh.Create)
	mux.HandleFunc("GET /fornecedores/{id}", sh.Get)
	mux.HandleFunc("PUT /fornecedores/{id}", sh.Update)
	mux.HandleFunc("DELETE /fornecedores/{id}", sh.Delete)

	// Product endpoints
	ph := handlers.NewProductHandler(db, uploadDir)
	mux.HandleFunc("GET /produtos", ph.List)
	mux.HandleFunc("POST /produtos", ph.Create)
	mux.HandleFunc("GET /produtos/{id}", ph.Get)
	mux.HandleFunc("PUT /produtos/{id}", ph.Update)
	mux.HandleFunc("DELETE /produtos/{id}", ph.Delete)

	// Client endpoints (delete goes through the referential guard)
	ch := handlers.NewClientHandler(db, services.NewClientService(db))
	mux.HandleFunc("GET /clientes", ch.List)
	mux.HandleFunc("POST /clientes", ch.Create)
	mux.HandleFunc("GET /clientes/{id}", ch.Get)
	mux.HandleFunc("PUT /clientes/{id}", ch.Update)
	mux.HandleFunc("DELETE /clientes/{id}", ch.Delete)

	// Order endpoints
	oh := handlers.NewOrderHandler(db, services.NewOrderService(db))
	mux.HandleFunc("GET /pedidos", oh.List)
	mux.HandleFunc("POST /pedidos", oh.Create)
	mux.HandleFunc("GET /pedidos/{id}", oh.Get)
	mux.HandleFunc("PUT /pedidos/{id}", oh.Update)
	mux.HandleFunc("DELETE /pedidos/{id}", oh.Delete)

	// Transaction endpoints
	th := handlers.NewTransactionHandler(db)
	mux.HandleFunc("GET /transacoes", th.List)
	mux.HandleFunc("POST /transacoes", th.Create)
	mux.HandleFunc("GET /transacoes/{id}", th.Get)
	mux.HandleFunc("PUT /transacoes/{id}", th.Update)
	mux.HandleFunc("DELETE /transacoes/{id}", th.Delete)

	// Product images
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return withCORS(withRecover(withLogging(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withCORS mirrors the permissive policy the SPA dev server needs.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
