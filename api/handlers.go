package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/etnz/harvest"
	"github.com/etnz/harvest/date"
	"github.com/etnz/harvest/docs"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// maxSnapshotBytes bounds the size of a posted snapshot.
const maxSnapshotBytes = 16 << 20

// Handler serves the harvest workflows.
type Handler struct {
	Config  harvest.Config
	Version string
}

// Routes registers the handlers on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/system/health", h.SystemHealth)
		r.Get("/topics", h.Topics)
		r.Get("/topics/{topic}", h.Topic)

		r.Post("/health", h.Health)
		r.Post("/harvest", h.Harvest)
		r.Post("/withdrawal", h.Withdrawal)
		r.Post("/transition", h.Transition)
		r.Post("/basket", h.Basket)
		r.Post("/drift", h.Drift)
		r.Post("/replacements/{symbol}", h.Replacements)
	})
}

// SystemHealth reports that the server is up.
func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.Version})
}

// Topics lists the documentation topics.
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := docs.GetAllTopics()
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "cannot list topics", err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, topics)
}

// Topic returns a documentation topic as markdown.
func (h *Handler) Topic(w http.ResponseWriter, r *http.Request) {
	content, err := docs.GetTopic(chi.URLParam(r, "topic"))
	if err != nil {
		RespondError(w, http.StatusNotFound, "topic not found", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// HealthResponse is the data health of a snapshot.
type HealthResponse struct {
	Report  harvest.HealthReport  `json:"report"`
	Pending []harvest.HealthIssue `json:"pending"`
	Blocked bool                  `json:"blocked"`
}

// Health validates the posted snapshot.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	a, ok := h.analysis(w, r)
	if !ok {
		return
	}
	pending := a.Health().Pending(a.Acknowledged())
	RespondJSON(w, http.StatusOK, HealthResponse{
		Report:  a.Health(),
		Pending: pending,
		Blocked: len(pending) > 0,
	})
}

// HarvestResponse holds the candidates and the proposal built from them.
type HarvestResponse struct {
	Result   harvest.TLHResult       `json:"result"`
	Proposal harvest.HarvestProposal `json:"proposal"`
}

// Harvest ranks the tax-loss harvesting candidates.
func (h *Handler) Harvest(w http.ResponseWriter, r *http.Request) {
	a, ok := h.analysis(w, r)
	if !ok {
		return
	}
	res, err := a.Harvest()
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, HarvestResponse{Result: res, Proposal: a.Propose(res)})
}

// Withdrawal plans the withdrawal of ?amount=.
func (h *Handler) Withdrawal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := requiredAmount(q.Get("amount"), "amount")
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid parameters", err.Error())
		return
	}
	manual, err := optionalAmount(q.Get("manual_cash"), "manual_cash")
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid parameters", err.Error())
		return
	}
	a, ok := h.analysis(w, r)
	if !ok {
		return
	}
	plan, err := a.Withdraw(amount, manual, q["exclude"])
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, plan)
}

// Transition plans funding ?allocation= into the target basket.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	allocation, err := requiredAmount(q.Get("allocation"), "allocation")
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid parameters", err.Error())
		return
	}
	manual, err := optionalAmount(q.Get("manual_cash"), "manual_cash")
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid parameters", err.Error())
		return
	}
	a, ok := h.analysis(w, r)
	if !ok {
		return
	}
	plan, err := a.Transition(allocation, manual, q["exclude"])
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, plan)
}

// Basket builds the target basket from the snapshot universe.
func (h *Handler) Basket(w http.ResponseWriter, r *http.Request) {
	a, ok := h.analysis(w, r)
	if !ok {
		return
	}
	b, err := a.Basket()
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, b)
}

// DriftResponse holds the drift and the basket it was measured against.
type DriftResponse struct {
	Drift  harvest.DriftReport `json:"drift"`
	Basket harvest.Basket      `json:"basket"`
}

// Drift compares the holdings with the target basket.
func (h *Handler) Drift(w http.ResponseWriter, r *http.Request) {
	a, ok := h.analysis(w, r)
	if !ok {
		return
	}
	report, basket, err := a.Drift()
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, DriftResponse{Drift: report, Basket: basket})
}

// Replacements suggests replacement symbols using the snapshot sectors.
func (h *Handler) Replacements(w http.ResponseWriter, r *http.Request) {
	symbol := harvest.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if !harvest.ValidSymbol(symbol) {
		RespondError(w, http.StatusBadRequest, "invalid symbol", symbol)
		return
	}
	a, ok := h.analysis(w, r)
	if !ok {
		return
	}
	RespondJSON(w, http.StatusOK, harvest.SuggestReplacements(symbol, a.Sectors()))
}

// analysis decodes the posted snapshot into an analysis. The query may carry
// ?as_of= and ?ack= (repeated, "SYMBOL:kind" or "*"). On failure the error
// response is already written.
func (h *Handler) analysis(w http.ResponseWriter, r *http.Request) (*harvest.Analysis, bool) {
	q := r.URL.Query()
	var asOf date.Date
	if s := q.Get("as_of"); s != "" {
		d, err := date.Parse(s)
		if err != nil {
			RespondError(w, http.StatusBadRequest, "invalid parameters", err.Error())
			return nil, false
		}
		asOf = d
	}

	s, err := harvest.DecodeSnapshot(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid snapshot", err.Error())
		return nil, false
	}
	a, err := harvest.NewAnalysis(s, h.Config, asOf)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid configuration", err.Error())
		return nil, false
	}
	if err := a.AcknowledgeSpecs(q["ack"]...); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid parameters", err.Error())
		return nil, false
	}
	return a, true
}

func respondWorkflowError(w http.ResponseWriter, err error) {
	var blocked *harvest.BlockedError
	switch {
	case errors.As(err, &blocked):
		RespondError(w, http.StatusConflict, "blocking data issues must be acknowledged", blocked.Issues)
	case errors.Is(err, harvest.ErrInvalidConfig):
		RespondError(w, http.StatusBadRequest, "invalid configuration", err.Error())
	default:
		RespondError(w, http.StatusUnprocessableEntity, "cannot compute the plan", err.Error())
	}
}

func requiredAmount(s, name string) (harvest.Money, error) {
	if strings.TrimSpace(s) == "" {
		return harvest.Money{}, fmt.Errorf("%s is required", name)
	}
	m, err := optionalAmount(s, name)
	if err == nil && !m.IsPositive() {
		err = fmt.Errorf("%s must be positive, got %s", name, s)
	}
	return m, err
}

func optionalAmount(s, name string) (harvest.Money, error) {
	if strings.TrimSpace(s) == "" {
		return harvest.Money{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return harvest.Money{}, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if d.IsNegative() {
		return harvest.Money{}, fmt.Errorf("%s must not be negative, got %s", name, s)
	}
	return harvest.USD(d), nil
}
