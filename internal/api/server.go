// Package api serves the matcher, catalog and stock register over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/piwi3910/BeamCut/internal/engine"
	"github.com/piwi3910/BeamCut/internal/model"
	"github.com/piwi3910/BeamCut/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// Config wires the server's dependencies. A nil Catalog uses the built-in
// tables and a nil Inventory disables the stock and demand endpoints. Logger
// and Registry may also be left nil.
type Config struct {
	Catalog   *model.Catalog
	Settings  model.Settings
	Inventory *store.Inventory
	Logger    *zap.Logger
	Registry  *prometheus.Registry
}

// Server holds the handlers' shared state.
type Server struct {
	catalog   *model.Catalog
	settings  model.Settings
	inventory *store.Inventory
	logger    *zap.Logger
	metrics   *Metrics
}

// NewRouter builds the HTTP handler.
func NewRouter(cfg Config) http.Handler {
	if cfg.Catalog == nil {
		cfg.Catalog = model.BuiltInCatalog()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	s := &Server{
		catalog:   cfg.Catalog,
		settings:  cfg.Settings,
		inventory: cfg.Inventory,
		logger:    cfg.Logger,
		metrics:   NewMetrics(cfg.Registry),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	r.Get("/catalog", s.handleCatalog)
	r.Get("/catalog/{name}", s.handleCatalogProfile)
	r.Post("/match", s.handleMatch)
	r.Post("/segments", s.handleSegments)

	r.Route("/stock", func(r chi.Router) {
		r.Use(s.requireInventory)
		r.Get("/", s.handleListStock)
		r.Post("/", s.handleAddStock)
		r.Get("/totals", s.handleStockTotals)
		r.Get("/{id}", s.handleGetStock)
		r.Delete("/{id}", s.handleRemoveStock)
		r.Put("/{id}/status", s.handleSetStockStatus)
	})
	r.With(s.requireInventory).Post("/demand/optimize", s.handleOptimizeDemand)
	r.With(s.requireInventory).Post("/demand/match", s.handleMatchDemand)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) requireInventory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.inventory == nil {
			writeError(w, http.StatusServiceUnavailable, "stock register is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.inventory != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.inventory.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "inventory": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /catalog?type=HEA&min_wy=500000
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t := model.ProfileType(strings.ToUpper(q.Get("type")))

	if raw := q.Get("min_wy"); raw != "" {
		minWy, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_wy must be a number")
			return
		}
		writeJSON(w, http.StatusOK, s.catalog.ByMinSectionModulus(minWy, t))
		return
	}
	if t != "" {
		writeJSON(w, http.StatusOK, s.catalog.ByType(t))
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Profiles())
}

func (s *Server) handleCatalogProfile(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile name")
		return
	}
	p, ok := s.catalog.Find(name)
	if !ok {
		writeError(w, http.StatusNotFound, "profile "+name+" not in catalog")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SettingsOverride changes per-request estimator settings.
type SettingsOverride struct {
	SafetyMargin   *int             `json:"safety_margin,omitempty"`
	UnitPricePerKg *decimal.Decimal `json:"unit_price_per_kg,omitempty"`
	KerfWidth      *int             `json:"kerf_width,omitempty"`
	MinRemnant     *int             `json:"min_remnant,omitempty"`
}

// Apply returns s with the set fields replaced. A nil override leaves s unchanged.
func (o *SettingsOverride) Apply(s model.Settings) model.Settings {
	if o == nil {
		return s
	}
	if o.SafetyMargin != nil {
		s.SafetyMargin = *o.SafetyMargin
	}
	if o.UnitPricePerKg != nil {
		s.UnitPricePerKg = *o.UnitPricePerKg
	}
	if o.KerfWidth != nil {
		s.KerfWidth = *o.KerfWidth
	}
	if o.MinRemnant != nil {
		s.MinRemnant = *o.MinRemnant
	}
	return s
}

// normaliseElement fills in a missing ID and canonical condition. It returns
// a message when the element cannot be evaluated.
func normaliseElement(e *model.HarvestedElement) string {
	if e.Length <= 0 {
		return "length_mm must be positive"
	}
	if e.ID == "" {
		e.ID = model.NewElement(e.ProfileName, e.Length, e.Condition).ID
	}
	c, ok := model.ParseCondition(string(e.Condition))
	if !ok && e.Condition != "" {
		return "unknown condition " + string(e.Condition)
	}
	e.Condition = c
	return ""
}

// MatchRequest is the body of POST /match.
type MatchRequest struct {
	Elements []model.HarvestedElement `json:"elements"`
	Settings *SettingsOverride        `json:"settings,omitempty"`
}

// MatchResponse is the answer of POST /match.
type MatchResponse struct {
	Report  engine.MatchReport  `json:"report"`
	Summary engine.MatchSummary `json:"summary"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Elements) == 0 {
		writeError(w, http.StatusBadRequest, "no elements")
		return
	}
	for i := range req.Elements {
		if msg := normaliseElement(&req.Elements[i]); msg != "" {
			writeError(w, http.StatusBadRequest, "element "+strconv.Itoa(i+1)+": "+msg)
			return
		}
	}
	settings := req.Settings.Apply(s.settings)
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "settings: "+err.Error())
		return
	}

	report := engine.New(s.catalog, settings, s.logger).MatchAll(req.Elements)
	s.metrics.MatchedElements.WithLabelValues("matched").Add(float64(len(report.Results)))
	s.metrics.MatchedElements.WithLabelValues("unmatched").Add(float64(len(report.Unmatched)))
	for _, res := range report.Results {
		s.metrics.MatchScore.Observe(float64(res.MatchScore))
	}

	writeJSON(w, http.StatusOK, MatchResponse{Report: report, Summary: report.Summary()})
}

// GET /stock?profile=HEA+300&available=true&min_length=4000&max_length=8000
func (s *Server) handleListStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()
	profile := q.Get("profile")
	available := q.Get("available") == "true"

	var (
		items []model.StockItem
		err   error
	)
	switch {
	case q.Get("min_length") != "" || q.Get("max_length") != "":
		minLen, err1 := atoiDefault(q.Get("min_length"))
		maxLen, err2 := atoiDefault(q.Get("max_length"))
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "min_length and max_length must be integers")
			return
		}
		items, err = s.inventory.FindByLength(ctx, minLen, maxLen, profile)
	case profile != "":
		items, err = s.inventory.FindByProfile(ctx, profile, available)
	default:
		items, err = s.inventory.All(ctx)
		if err == nil && available {
			items = onlyAvailable(items)
		}
	}
	if err != nil {
		s.internalError(w, "list stock", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddStock(w http.ResponseWriter, r *http.Request) {
	var item model.StockItem
	if !decodeBody(w, r, &item) {
		return
	}
	if item.Length <= 0 || strings.TrimSpace(item.ProfileName) == "" {
		writeError(w, http.StatusBadRequest, "profile_name and a positive length_mm are required")
		return
	}
	if item.Status != "" {
		if _, ok := model.ParseStockStatus(string(item.Status)); !ok {
			writeError(w, http.StatusBadRequest, "unknown status "+string(item.Status))
			return
		}
	}
	stored, err := s.inventory.Add(r.Context(), item)
	if err != nil {
		s.internalError(w, "add stock", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	item, err := s.inventory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, "get stock", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleRemoveStock(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, "remove stock", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status model.StockStatus `json:"status"`
}

func (s *Server) handleSetStockStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	status, ok := model.ParseStockStatus(string(req.Status))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown status "+string(req.Status))
		return
	}
	if err := s.inventory.SetStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		s.storeError(w, "set stock status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStockTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.inventory.Totals(r.Context())
	if err != nil {
		s.internalError(w, "stock totals", err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// DemandRequest is the body of POST /demand/optimize.
type DemandRequest struct {
	Demands []model.DemandItem `json:"demands"`
}

// DemandResponse is the answer of POST /demand/optimize.
type DemandResponse struct {
	Results []engine.DemandResult  `json:"results"`
	Plans   []engine.CuttingPlan   `json:"plans"`
	Stats   engine.EfficiencyStats `json:"stats"`
}

func (s *Server) handleOptimizeDemand(w http.ResponseWriter, r *http.Request) {
	var req DemandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Demands) == 0 {
		writeError(w, http.StatusBadRequest, "no demands")
		return
	}
	for i := range req.Demands {
		d := &req.Demands[i]
		if d.Length <= 0 {
			writeError(w, http.StatusBadRequest, "demand "+strconv.Itoa(i+1)+": length_mm must be positive")
			return
		}
		if d.ID == "" {
			d.ID = model.NewDemandItem(d.ProfileName, d.Length, 1).ID
		}
		if d.Quantity <= 0 {
			d.Quantity = 1
		}
		if d.Quantity > model.MaxDemandQuantity {
			writeError(w, http.StatusBadRequest, "demand "+strconv.Itoa(i+1)+": quantity exceeds "+strconv.Itoa(model.MaxDemandQuantity))
			return
		}
	}

	stock, err := s.inventory.All(r.Context())
	if err != nil {
		s.internalError(w, "load stock", err)
		return
	}
	results, plans := engine.NewDemandMatcher(s.settings).OptimizeCutting(req.Demands, stock)
	for _, res := range results {
		s.metrics.DemandLines.WithLabelValues(string(res.Status)).Inc()
	}
	if plans == nil {
		plans = []engine.CuttingPlan{}
	}
	writeJSON(w, http.StatusOK, DemandResponse{Results: results, Plans: plans, Stats: engine.Efficiency(results)})
}

// SegmentRequest is the body of POST /segments. Empty targets use the
// default resale lengths.
type SegmentRequest struct {
	Element  model.HarvestedElement `json:"element"`
	Targets  []int                  `json:"targets_mm,omitempty"`
	Settings *SettingsOverride      `json:"settings,omitempty"`
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	var req SegmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := normaliseElement(&req.Element); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	for _, t := range req.Targets {
		if t <= 0 {
			writeError(w, http.StatusBadRequest, "targets_mm must be positive")
			return
		}
	}
	settings := req.Settings.Apply(s.settings)
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "settings: "+err.Error())
		return
	}
	profile, ok := s.catalog.Match(req.Element.ProfileName)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "profile not in catalog: "+req.Element.ProfileName)
		return
	}
	writeJSON(w, http.StatusOK, engine.PlanSegments(req.Element, profile, settings, req.Targets))
}

// DemandMatchRequest is the body of POST /demand/match.
type DemandMatchRequest struct {
	Demand          model.DemandItem `json:"demand"`
	PreferHarvested bool             `json:"prefer_harvested"`
}

func (s *Server) handleMatchDemand(w http.ResponseWriter, r *http.Request) {
	var req DemandMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d := req.Demand
	if d.Length <= 0 {
		writeError(w, http.StatusBadRequest, "length_mm must be positive")
		return
	}
	if d.ID == "" {
		d.ID = model.NewDemandItem(d.ProfileName, d.Length, 1).ID
	}

	stock, err := s.inventory.All(r.Context())
	if err != nil {
		s.internalError(w, "load stock", err)
		return
	}
	res := engine.NewDemandMatcher(s.settings).FindBestMatch(d, stock, req.PreferHarvested)
	s.metrics.DemandLines.WithLabelValues(string(res.Status)).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.internalError(w, op, err)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func atoiDefault(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func onlyAvailable(items []model.StockItem) []model.StockItem {
	out := items[:0]
	for _, it := range items {
		if it.Status == model.StockAvailable {
			out = append(out, it)
		}
	}
	return out
}
