// Command portalctl shows and updates portal jobs from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	flag "github.com/spf13/pflag"

	"jobs-portal/internal/backend"
	"jobs-portal/internal/config"
	"jobs-portal/internal/domain"
	"jobs-portal/internal/logging"
	"jobs-portal/internal/portal"
	"jobs-portal/internal/store"
)

const syncBatch = 25

const usage = `usage: portalctl [--data-dir DIR] <command> [flags]

commands:
  list        show jobs (--category, --page, --tab)
  mark        mark a job: mark <id> <applied|rejected|expired>
  categories  list categories
  sync        push status changes the backend has not accepted yet
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

type app struct {
	svc   *portal.Service
	close func()
	out   io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("portalctl", flag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(out)
	dataDir := global.String("data-dir", envOr("PORTAL_DATA_DIR", "."), "portal data directory")
	noColor := global.Bool("no-color", false, "disable colored output")
	verbose := global.BoolP("verbose", "v", false, "log backend calls")
	global.Usage = func() { fmt.Fprint(out, usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if *noColor {
		pterm.DisableColor()
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	a, err := open(*dataDir, level, out)
	if err != nil {
		return err
	}
	defer a.close()

	switch rest[0] {
	case "list":
		return a.list(ctx, rest[1:])
	case "mark":
		return a.mark(ctx, rest[1:])
	case "categories":
		return a.categories()
	case "sync":
		return a.sync(ctx)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func open(dataDir, level string, out io.Writer) (*app, error) {
	cfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := config.OverlayCategories(&cfg, filepath.Join(dataDir, "categories.yml")); err != nil {
		return nil, err
	}
	cfg, _ = config.NormalizeAndValidate(cfg)

	log := logging.NewWithOutput(level, os.Stderr)
	db, err := store.Open(filepath.Join(dataDir, "portal.db"))
	if err != nil {
		return nil, err
	}

	client := backend.NewFromConfig(cfg.Backend, log)
	svc := portal.NewService(client, db.Pool, nil, portal.OptionsFromConfig(cfg), log)
	return &app{svc: svc, close: func() { _ = db.Close() }, out: out}, nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	category := fs.StringP("category", "c", "", "category key (default from config, 'all' for no filter)")
	page := fs.IntP("page", "p", 1, "page number")
	tab := fs.StringP("tab", "t", string(domain.TabAvailable), "available, applied or expired-rejected")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.svc.Open(ctx, portal.View{Category: *category, Page: *page, Tab: domain.ParseTab(*tab)})
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, pterm.DefaultSection.Sprintfln("%s (%s)", sess.Category, sess.Tab.Label()))

	counts := ""
	for i, t := range domain.Tabs {
		if i > 0 {
			counts += "   "
		}
		counts += fmt.Sprintf("%s: %s", t.Label(), humanize.Comma(int64(sess.TabCount(t))))
	}
	fmt.Fprintln(a.out, counts)

	if sess.StatusErr != nil {
		fmt.Fprint(a.out, pterm.Warning.Sprintln("status list unavailable, showing jobs from this page only"))
	}
	if len(sess.Displayed) == 0 {
		fmt.Fprint(a.out, pterm.Info.Sprintln("No jobs found."))
		return nil
	}

	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Type", "Link"}}
	for _, j := range sess.Displayed {
		link, _ := portal.ApplyLink(j)
		data = append(data, []string{
			strconv.FormatInt(j.ID, 10), j.Title, j.Company, j.Location, colorType(j.Type), link,
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, table)

	if sess.Tab == domain.TabAvailable {
		pg := sess.Pager()
		fmt.Fprintf(a.out, "Showing %s-%s of %s (page %d of %d)\n",
			humanize.Comma(int64(pg.StartItem())), humanize.Comma(int64(pg.EndItem())),
			humanize.Comma(int64(pg.TotalItems)), pg.CurrentPage, pg.TotalPages)
	} else if n := sess.BannerCount(); n > 0 {
		fmt.Fprintf(a.out, "%s jobs in %s\n", humanize.Comma(int64(n)), sess.Tab.Label())
	}
	return nil
}

func colorType(t string) string {
	switch portal.JobTypeClass(t) {
	case "job-type-remote":
		return pterm.Green(t)
	case "job-type-onsite":
		return pterm.Red(t)
	case "job-type-hybrid":
		return pterm.Yellow(t)
	case "job-type-recommended":
		return pterm.Cyan(t)
	}
	return t
}

func (a *app) mark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mark", flag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: portalctl mark <id> <applied|rejected|expired>")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid job id %q", fs.Arg(0))
	}
	status, ok := domain.ParseStatus(fs.Arg(1))
	if !ok {
		return fmt.Errorf("invalid status %q", fs.Arg(1))
	}

	if err := a.svc.MarkJob(ctx, nil, id, status); err != nil {
		return err
	}
	pending, _ := a.svc.PendingCount(ctx)
	if pending > 0 {
		fmt.Fprint(a.out, pterm.Warning.Sprintfln("job %d marked %s locally; %d change(s) waiting for the backend", id, status, pending))
		return nil
	}
	fmt.Fprint(a.out, pterm.Success.Sprintfln("job %d marked %s", id, status))
	return nil
}

func (a *app) categories() error {
	data := pterm.TableData{{"Key", "Label"}}
	def := a.svc.Options().DefaultCategory
	for _, c := range a.svc.Categories() {
		key := c.Key
		if portal.IsActive(c.Key, def) {
			key += " *"
		}
		data = append(data, []string{key, c.Label})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, table)
	return nil
}

// sync tries every pending override once, in small batches so the bar
// moves. Failed overrides rotate to the back of the queue, so batches never
// repeat one within a run.
func (a *app) sync(ctx context.Context) error {
	total, err := a.svc.PendingCount(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprint(a.out, pterm.Info.Sprintln("nothing to sync"))
		return nil
	}

	bar := pb.New(total).SetWriter(a.out)
	bar.Start()
	synced, tried := 0, 0
	for tried < total {
		s, f, err := a.svc.SyncPending(ctx, min(syncBatch, total-tried))
		if err != nil {
			bar.Finish()
			return err
		}
		if s+f == 0 {
			break
		}
		bar.Add(s + f)
		synced += s
		tried += s + f
	}
	bar.Finish()

	pending, err := a.svc.PendingCount(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "synced %s, still pending %s\n", humanize.Comma(int64(synced)), humanize.Comma(int64(pending)))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
