package httpapi

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"jobs-portal/internal/domain"
	"jobs-portal/internal/portal"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"jobTypeClass": portal.JobTypeClass,
	"applyLink": func(j domain.Job) string {
		link, _ := portal.ApplyLink(j)
		return link
	},
	"comma":    func(n int) string { return humanize.Comma(int64(n)) },
	"verified": func(f domain.Flag) bool { return f.Set() },
}

// Pages renders the portal as server-side HTML.
type Pages struct {
	portal     *portal.Service
	tmpl       *template.Template
	maxVisible func() int
	log        *logrus.Logger
}

func mustPages(d Deps) Pages {
	t := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return Pages{
		portal:     d.Portal,
		tmpl:       t,
		maxVisible: func() int { return d.config().Portal.MaxVisiblePages },
		log:        d.Log,
	}
}

type link struct {
	Label  string
	Href   string
	Active bool
	Count  string
}

type pageData struct {
	Category   string
	Tab        domain.Tab
	Categories []link
	Tabs       []link
	Jobs       []domain.Job
	Loading    bool
	Banner     string
	Error      string
	Notice     string
	ShowPager  bool
	Range      string
	Pages      []link
	First      *link
	Prev       *link
	Next       *link
	Last       *link
	ReturnTo   string
	Statuses   []domain.Status
}

func pageHref(category string, page int, tab domain.Tab) string {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if tab != "" && tab != domain.TabAvailable {
		q.Set("tab", string(tab))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func (p Pages) Index(w http.ResponseWriter, r *http.Request) {
	v := viewFromQuery(r)
	sess, err := p.portal.Open(r.Context(), v)
	if errors.Is(err, portal.ErrUnknownCategory) {
		p.render(w, r, http.StatusBadRequest, pageData{Error: "Unknown category " + strconv.Quote(v.Category)})
		return
	}

	data := p.buildData(sess)
	data.Notice = noticeFor(r.URL.Query().Get("marked"))
	p.render(w, r, http.StatusOK, data)
}

func noticeFor(marked string) string {
	if st, ok := domain.ParseStatus(marked); ok {
		return "Job marked as " + string(st) + "."
	}
	return ""
}

func (p Pages) buildData(s *portal.Session) pageData {
	data := pageData{
		Category: s.Category,
		Tab:      s.Tab,
		Jobs:     s.Displayed,
		Loading:  s.Loading,
		ReturnTo: pageHref(s.Category, s.CurrentPage, s.Tab),
		Statuses: []domain.Status{domain.StatusApplied, domain.StatusRejected, domain.StatusExpired},
	}

	for _, c := range portal.CategoryTabs(p.portal.Categories(), s.Category) {
		data.Categories = append(data.Categories, link{
			Label:  c.Label,
			Href:   pageHref(c.Key, 1, s.Tab),
			Active: c.Active,
		})
	}
	for _, t := range domain.Tabs {
		data.Tabs = append(data.Tabs, link{
			Label:  t.Label(),
			Href:   pageHref(s.Category, s.CurrentPage, t),
			Active: t == s.Tab,
			Count:  humanize.Comma(int64(s.TabCount(t))),
		})
	}

	switch {
	case s.LoadErr != nil:
		data.Error = "Could not load jobs from the server. Try again later."
	case s.StatusErr != nil:
		data.Error = "The " + s.Tab.Label() + " list is unavailable; showing jobs from this page only."
	}

	if n := s.BannerCount(); n > 0 && s.Tab != domain.TabAvailable {
		data.Banner = humanize.Comma(int64(n)) + " jobs in " + s.Tab.Label()
	}

	// status tabs show a single backend page, so paging applies to available only
	if s.Tab == domain.TabAvailable && s.TotalPages > 1 {
		p.addPager(&data, s)
	}
	return data
}

func (p Pages) addPager(data *pageData, s *portal.Session) {
	pg := s.Pager()
	data.ShowPager = true
	data.Range = "Showing " + humanize.Comma(int64(pg.StartItem())) + "-" +
		humanize.Comma(int64(pg.EndItem())) + " of " + humanize.Comma(int64(pg.TotalItems))

	for _, n := range pg.VisiblePages(p.maxVisible()) {
		data.Pages = append(data.Pages, link{
			Label:  strconv.Itoa(n),
			Href:   pageHref(s.Category, n, s.Tab),
			Active: n == pg.CurrentPage,
		})
	}
	nav := func(label string, f func() (int, bool)) *link {
		n, ok := f()
		if !ok {
			return nil
		}
		return &link{Label: label, Href: pageHref(s.Category, n, s.Tab)}
	}
	data.First = nav("First", pg.First)
	data.Prev = nav("Previous", pg.Previous)
	data.Next = nav("Next", pg.Next)
	data.Last = nav("Last", pg.Last)
}

// Mark handles the mark form and redirects back to the page it came from.
func (p Pages) Mark(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	status, ok := domain.ParseStatus(r.PostForm.Get("status"))
	if !ok {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := p.portal.MarkJob(r.Context(), nil, id, status); err != nil {
		status, _ := serviceStatus(err, "")
		http.Error(w, "could not update job: "+err.Error(), status)
		return
	}

	http.Redirect(w, r, withMarked(safeReturn(r.PostForm.Get("return")), status), http.StatusSeeOther)
}

// safeReturn only allows local absolute paths.
func safeReturn(s string) string {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.Contains(s, `\`) {
		return "/"
	}
	return s
}

func withMarked(target string, st domain.Status) string {
	u, err := url.Parse(target)
	if err != nil {
		return "/"
	}
	q := u.Query()
	q.Set("marked", string(st))
	u.RawQuery = q.Encode()
	return u.String()
}

func (p Pages) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		p.log.WithError(err).WithField("request_id", RequestIDFrom(r.Context())).Error("render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
