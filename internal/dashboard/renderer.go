package dashboard

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes dashboard pages as HTML
type Renderer struct {
	tmpl     *template.Template
	currency string
}

// NewRenderer parses the embedded templates. currency prefixes money values.
func NewRenderer(currency string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, currency: currency}, nil
}

// OrganizationPage writes the page shell that shows a loading indicator
// and then loads the dashboard content for the organization.
func (r *Renderer) OrganizationPage(w io.Writer, organization, contentURL string) error {
	return r.tmpl.ExecuteTemplate(w, "organization_page.html", map[string]string{
		"Organization": organization,
		"ContentURL":   contentURL,
	})
}

// OrganizationContent writes the dashboard body. A nil payload renders the
// no data notice.
func (r *Renderer) OrganizationContent(w io.Writer, p *OrganizationDashboard) error {
	var view *OrganizationView
	if p != nil {
		view = r.organizationView(p)
	}
	return r.tmpl.ExecuteTemplate(w, "organization_content.html", view)
}

// OrganizationError writes the notice shown when the payload could not be loaded
func (r *Renderer) OrganizationError(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "organization_error.html", nil)
}

// Workspace writes the workspace dashboard
func (r *Renderer) Workspace(w io.Writer, v *WorkspaceView) error {
	return r.tmpl.ExecuteTemplate(w, "workspace.html", v)
}

// LoadWorkspace reads the KPIs and every section in parallel. A failing
// part carries its own error message; the others still render.
func LoadWorkspace(ctx context.Context, src Source, logger Logger) *WorkspaceView {
	var (
		mu       sync.Mutex
		kpis     *WorkspaceKPIs
		kpiErr   error
		sections = make([]SectionView, len(Sections))
	)

	var g errgroup.Group
	g.Go(func() error {
		k, err := src.WorkspaceKPIs(ctx)
		mu.Lock()
		kpis, kpiErr = k, err
		mu.Unlock()
		return nil
	})

	for i, key := range Sections {
		i, key := i, key
		g.Go(func() error {
			t, err := src.WorkspaceTable(ctx, key)
			sv := tableView(key, t)
			if err != nil {
				logger.Error("Failed to load workspace section", "section", key, "error", err)
				sv = SectionView{Key: key, Title: sectionTitles[key], Error: fmt.Sprintf("Failed to load %s", sectionTitles[key])}
			}
			sections[i] = sv
			return nil
		})
	}
	_ = g.Wait()

	v := &WorkspaceView{Cards: workspaceCards(kpis), Sections: sections}
	if kpiErr != nil {
		logger.Error("Failed to load workspace KPIs", "error", kpiErr)
		v.KPIError = "Failed to load KPIs"
	}
	return v
}
