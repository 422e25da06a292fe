// internal/pages/status.go
//
// Status-page rendering.  One small self-contained HTML template covers
// all four per-site lifecycle pages plus the global domain-not-found
// page; the copy differs, the frame does not.  The coming-soon page shows
// the live build-progress snapshot so owners can watch generation move.
package pages

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/siloserve/siloserve/internal/edge"
	"github.com/siloserve/siloserve/internal/site"
)

type statusView struct {
	Title    string
	Body     string
	Progress string // "3 of 12: generating service pages", empty to hide
}

var statusTmpl = template.Must(template.New("status").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>{{.Body}}</p>
{{if .Progress}}<p><progress></progress> {{.Progress}}</p>{{end}}
</main>
</body>
</html>
`))

// statusPage reports whether the internal path segment names one of the
// per-site status pages.
func statusPage(rest string) (string, bool) {
	switch rest {
	case edge.PageComingSoon, edge.PageMaintenance, edge.PageBuildError, edge.PageSuspended:
		return rest, true
	}
	return "", false
}

// renderStatus writes the status page for one site.  Always HTTP 200:
// the point is to explain, not to error.
func renderStatus(w http.ResponseWriter, rec *site.Record, page string) {
	view := statusView{}
	switch page {
	case edge.PageComingSoon:
		view.Title = "We’re building this site"
		view.Body = "Content generation is in progress.  Check back shortly."
		if rec.BuildTasksTotal > 0 {
			view.Progress = progressLine(rec)
		}
	case edge.PageMaintenance:
		view.Title = "Temporarily paused"
		view.Body = "The owner has paused this site."
		if rec.StatusMessage != nil && *rec.StatusMessage != "" {
			view.Body = *rec.StatusMessage
		}
	case edge.PageBuildError:
		view.Title = "Something went wrong"
		view.Body = "Site generation hit an error.  The owner can retry the " +
			"build from the dashboard."
	case edge.PageSuspended:
		view.Title = "Site suspended"
		view.Body = "This site has been suspended.  Contact support for details."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = statusTmpl.Execute(w, view)
}

func progressLine(rec *site.Record) string {
	line := strconv.Itoa(rec.BuildTasksDone) + " of " + strconv.Itoa(rec.BuildTasksTotal)
	if rec.BuildCurrentTask != "" {
		line += ": " + rec.BuildCurrentTask
	}
	return line
}
