package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"jobs-portal/internal/domain"
	"jobs-portal/internal/portal"
)

type JobsHandler struct {
	Portal          *portal.Service
	MaxVisiblePages func() int
}

// viewFromQuery reads ?category=&page=&tab=. A malformed page means page 1.
func viewFromQuery(r *http.Request) portal.View {
	q := r.URL.Query()
	page, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil || page < 1 {
		page = 1
	}
	return portal.View{
		Category: q.Get("category"),
		Page:     page,
		Tab:      domain.ParseTab(q.Get("tab")),
	}
}

func (h JobsHandler) maxVisible() int {
	if h.MaxVisiblePages == nil {
		return 0
	}
	return h.MaxVisiblePages()
}

// open runs the view and writes the error response itself when it fails.
func (h JobsHandler) open(w http.ResponseWriter, r *http.Request, v portal.View) (*portal.Session, bool) {
	sess, err := h.Portal.Open(r.Context(), v)
	if err != nil {
		writeServiceError(w, r, err, "backend_unavailable")
		return nil, false
	}
	return sess, true
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r, viewFromQuery(r))
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newListing(sess, h.maxVisible()))
}

// ByStatus serves /api/jobs/status/{tab} for the applied and
// expired-rejected tabs.
func (h JobsHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "tab")
	tab := domain.ParseTab(raw)
	if tab == domain.TabAvailable {
		WriteError(w, r, http.StatusBadRequest, "bad_tab", "tab must be applied or expired-rejected")
		return
	}
	v := viewFromQuery(r)
	v.Tab = tab
	sess, ok := h.open(w, r, v)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newListing(sess, h.maxVisible()))
}

func (h JobsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid job id")
		return
	}

	var req setStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "bad_status", "status must be applied, rejected or expired")
		return
	}

	if err := h.Portal.MarkJob(r.Context(), nil, id, status); err != nil {
		writeServiceError(w, r, err, "update_failed")
		return
	}
	pending, _ := h.Portal.PendingCount(r.Context())
	WriteJSON(w, http.StatusOK, setStatusResp{ID: id, Status: status, Pending: pending})
}

func (h JobsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	active, err := h.Portal.ResolveCategory(r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "unknown_category", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"active":     active,
		"categories": portal.CategoryTabs(h.Portal.Categories(), active),
	})
}

// Counts returns the reconciled and backend totals for one category.
func (h JobsHandler) Counts(w http.ResponseWriter, r *http.Request) {
	v := viewFromQuery(r)
	v.Page = 1
	v.Tab = domain.TabAvailable
	sess, ok := h.open(w, r, v)
	if !ok {
		return
	}
	if !sess.CountsCalculated() {
		sess.CalculateTotals(r.Context())
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"category":  sess.Category,
		"totalJobs": sess.TotalJobs,
		"totals":    sess.Totals,
		"apiTotals": sess.APITotals,
	})
}
