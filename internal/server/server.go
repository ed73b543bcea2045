// Package server exposes the product catalog over HTTP as a small JSON API.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/mkoller/restock/internal/database"
)

// Server is the HTTP server for the products API.
type Server struct {
	db  *database.DB
	mux *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB) *Server {
	s := &Server{db: db, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/products", s.handleProducts)
	s.mux.HandleFunc("/api/health", s.handleHealth)
}

// handleProducts returns the whole catalog as a JSON array. No pagination or
// filtering: clients get everything in one response.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := s.db.GetAllProducts()
	if err != nil {
		log.Printf("error loading products: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []database.Product{}
	}

	s.writeJSON(w, products)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.db.CountProducts()
	if err != nil {
		log.Printf("error counting products: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]any{
		"status":   "ok",
		"products": count,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, port int) error {
	srv := New(db)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("products API listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
