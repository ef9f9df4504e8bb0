package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

// queryAssociation reads ?association=, defaulting to the configured one.
func (h *Handler) queryAssociation(r *http.Request) (tennis.Association, error) {
	v := r.URL.Query().Get("association")
	if v == "" {
		return h.cfg.ImportAssociation, nil
	}
	return tennis.ParseAssociation(v)
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

type importParams struct {
	association tennis.Association
	maxPages    int
	delay       time.Duration
	startYear   int
	endYear     int
}

// parseImportParams reads the shared import query parameters and validates
// their ranges.
func (h *Handler) parseImportParams(r *http.Request) (importParams, error) {
	var p importParams
	var err error

	if p.association, err = h.queryAssociation(r); err != nil {
		return p, err
	}
	if p.maxPages, err = queryInt(r, "maxPages", h.cfg.ImportMaxPages); err != nil {
		return p, err
	}
	delayMs, err := queryInt(r, "delayMs", int(h.cfg.ImportDelay/time.Millisecond))
	if err != nil {
		return p, err
	}
	p.delay = time.Duration(delayMs) * time.Millisecond
	if p.startYear, err = queryInt(r, "startYear", h.cfg.ImportStartYear); err != nil {
		return p, err
	}
	if p.endYear, err = queryInt(r, "endYear", h.now().Year()); err != nil {
		return p, err
	}

	switch {
	case p.maxPages < 1:
		return p, fmt.Errorf("maxPages must be at least 1")
	case delayMs < 0:
		return p, fmt.Errorf("delayMs must not be negative")
	case p.startYear > p.endYear:
		return p, fmt.Errorf("startYear must not be after endYear")
	}
	return p, nil
}
