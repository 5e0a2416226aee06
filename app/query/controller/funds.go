package controller

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stelelabs/fundx/pkg/entity"
)

// GetInfo serves the protocol-wide aggregate.
func (c *Controller) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := c.App.DB.GetInfo(r.Context())
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	if info == nil {
		c.respondError(w, http.StatusNotFound, "no protocol state indexed yet")
		return
	}
	c.respondJSON(w, http.StatusOK, info)
}

func (c *Controller) InfoSnapshots(w http.ResponseWriter, r *http.Request) {
	period, ok := snapshotPeriod(r)
	if !ok {
		c.respondError(w, http.StatusBadRequest, "invalid period, want daily|weekly|monthly")
		return
	}
	rows, err := c.App.DB.ListInfoSnapshots(r.Context(), period, queryLimit(r))
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, rows)
}

func (c *Controller) ListFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := c.App.DB.ListFunds(r.Context())
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, funds)
}

func (c *Controller) GetFund(w http.ResponseWriter, r *http.Request) {
	fund, err := c.App.DB.GetFund(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	if fund == nil {
		c.respondError(w, http.StatusNotFound, "fund not found")
		return
	}
	c.respondJSON(w, http.StatusOK, fund)
}

func (c *Controller) FundInvestors(w http.ResponseWriter, r *http.Request) {
	investors, err := c.App.DB.ListFundInvestors(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, investors)
}

func (c *Controller) FundSnapshots(w http.ResponseWriter, r *http.Request) {
	period, ok := snapshotPeriod(r)
	if !ok {
		c.respondError(w, http.StatusBadRequest, "invalid period, want daily|weekly|monthly")
		return
	}
	rows, err := c.App.DB.ListFundSnapshots(r.Context(), mux.Vars(r)["id"], period, queryLimit(r))
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, rows)
}

func (c *Controller) FundEvents(w http.ResponseWriter, r *http.Request) {
	rows, err := c.App.DB.FundEvents(r.Context(), mux.Vars(r)["id"], queryLimit(r))
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, rows)
}

func (c *Controller) GetInvestor(w http.ResponseWriter, r *http.Request) {
	investor, err := c.App.DB.GetInvestor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	if investor == nil {
		c.respondError(w, http.StatusNotFound, "investor not found")
		return
	}
	c.respondJSON(w, http.StatusOK, investor)
}

func (c *Controller) InvestorSnapshots(w http.ResponseWriter, r *http.Request) {
	period, ok := snapshotPeriod(r)
	if !ok {
		c.respondError(w, http.StatusBadRequest, "invalid period, want daily|weekly|monthly")
		return
	}
	rows, err := c.App.DB.ListInvestorSnapshots(r.Context(), mux.Vars(r)["id"], period, queryLimit(r))
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, rows)
}

func (c *Controller) RecentEvents(w http.ResponseWriter, r *http.Request) {
	rows, err := c.App.DB.RecentEvents(r.Context(), queryLimit(r))
	if err != nil {
		c.respondInternalError(w, err)
		return
	}
	c.respondJSON(w, http.StatusOK, rows)
}

// snapshotPeriod parses the period query parameter, defaulting to daily.
func snapshotPeriod(r *http.Request) (string, bool) {
	period := r.URL.Query().Get("period")
	switch entity.SnapshotPeriod(period) {
	case entity.PeriodDaily, entity.PeriodWeekly, entity.PeriodMonthly:
		return period, true
	case "":
		return string(entity.PeriodDaily), true
	default:
		return "", false
	}
}

// queryLimit parses the limit query parameter, capped at 1000.
func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 100
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 100
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
