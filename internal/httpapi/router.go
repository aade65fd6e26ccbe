package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobs-portal/internal/logging"
)

// NewRouter mounts every route except /shutdown, which main adds because it
// needs the server and its token.
func NewRouter(d Deps) chi.Router {
	if d.Log == nil {
		d.Log = logging.Discard()
	}

	r := chi.NewRouter()
	r.Use(RequestID, Recover(d.Log), AccessLog(d.Log), Cors(func() []string { return d.config().App.AllowedOrigins }))

	pages := mustPages(d)
	r.Get("/", pages.Index)
	r.Post("/jobs/{id}/mark", pages.Mark)

	jh := JobsHandler{Portal: d.Portal, MaxVisiblePages: func() int { return d.config().Portal.MaxVisiblePages }}
	r.Route("/api", func(r chi.Router) {
		r.Get("/jobs", jh.List)
		r.Get("/jobs/status/{tab}", jh.ByStatus)
		r.Put("/jobs/{id}/status", jh.SetStatus)
		r.Get("/categories", jh.Categories)
		r.Get("/counts", jh.Counts)
	})

	// config and secrets decide where the bearer token goes: loopback only
	r.Group(func(r chi.Router) {
		r.Use(LocalOnly)

		sh := SecretsHandler{CfgVal: d.CfgVal}
		r.Post("/api/secrets/backend-token", sh.SetBackendToken)
		r.Delete("/api/secrets/backend-token", sh.DeleteBackendToken)

		ch := ConfigHandler{
			CfgVal:      d.CfgVal,
			UserCfgPath: d.UserCfgPath,
			LoadCfg:     d.LoadCfg,
			Portal:      d.Portal,
		}
		r.Get("/config", ch.Get)
		r.Put("/config", ch.Put)
		r.Get("/config/path", ch.Path)
		r.Get("/config/validate", ch.Validate)
	})

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	hh := HealthHandler{Portal: d.Portal, Hub: d.Hub, PollStatus: d.PollStatus}
	r.Get("/health", hh.Health)

	dh := DBHandler{Store: d.Store}
	r.With(LocalOnly).Post("/db/checkpoint", dh.Checkpoint)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such route")
	})
	return r
}
