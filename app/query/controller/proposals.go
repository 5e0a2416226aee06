package controller

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (c *Controller) ListProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := c.App.DB.ListProposals(r.Context())
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, proposals)
}

func (c *Controller) GetVoteResult(w http.ResponseWriter, r *http.Request) {
	result, err := c.App.DB.GetVoteResult(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	if result == nil {
		c.respondError(w, http.StatusNotFound, "proposal not found")
		return
	}
	c.respondJSON(w, http.StatusOK, result)
}

func (c *Controller) ProposalVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := c.App.DB.ListProposalVotes(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, votes)
}
