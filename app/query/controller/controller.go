package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/app/query/types"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{App: app}
}

// NewRouter returns a router with all API routes.
func (c *Controller) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", c.HandleHealth).Methods("GET")

	r.HandleFunc("/v1/info", c.GetInfo).Methods("GET")
	r.HandleFunc("/v1/info/snapshots", c.InfoSnapshots).Methods("GET")

	r.HandleFunc("/v1/funds", c.ListFunds).Methods("GET")
	r.HandleFunc("/v1/funds/{id}", c.GetFund).Methods("GET")
	r.HandleFunc("/v1/funds/{id}/investors", c.FundInvestors).Methods("GET")
	r.HandleFunc("/v1/funds/{id}/snapshots", c.FundSnapshots).Methods("GET")
	r.HandleFunc("/v1/funds/{id}/events", c.FundEvents).Methods("GET")

	r.HandleFunc("/v1/investors/{id}", c.GetInvestor).Methods("GET")
	r.HandleFunc("/v1/investors/{id}/snapshots", c.InvestorSnapshots).Methods("GET")

	r.HandleFunc("/v1/proposals", c.ListProposals).Methods("GET")
	r.HandleFunc("/v1/proposals/{id}/result", c.GetVoteResult).Methods("GET")
	r.HandleFunc("/v1/proposals/{id}/votes", c.ProposalVotes).Methods("GET")

	r.HandleFunc("/v1/events", c.RecentEvents).Methods("GET")

	r.HandleFunc("/ws", c.HandleWebSocket)

	return r
}

// WithCORS wraps a handler with permissive CORS headers.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *Controller) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		c.App.Logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (c *Controller) respondError(w http.ResponseWriter, status int, msg string) {
	c.respondJSON(w, status, map[string]string{"error": msg})
}

func (c *Controller) respondInternalError(w http.ResponseWriter, err error) {
	c.App.Logger.Error("Query failed", zap.Error(err))
	c.respondError(w, http.StatusInternalServerError, "internal error")
}
