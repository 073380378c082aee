package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/dashboard"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// OrganizationDashboardData handles GET /api/method/organization-dashboard
func (h *Handlers) OrganizationDashboardData(c *gin.Context) {
	name := c.Query("organization")
	if name == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "organization is required"})
		return
	}

	payload, err := h.dashboards.Organization(c.Request.Context(), name)
	if err != nil {
		h.fail(c, "failed to load organization dashboard", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: payload})
}

// WorkspaceData handles GET /api/method/workspace/:section
func (h *Handlers) WorkspaceData(c *gin.Context) {
	section := c.Param("section")
	ctx := c.Request.Context()

	var (
		data interface{}
		err  error
	)
	if section == "kpis" {
		data, err = h.dashboards.WorkspaceKPIs(ctx)
	} else {
		data, err = h.dashboards.WorkspaceTable(ctx, section)
	}
	if err != nil {
		h.fail(c, "failed to load workspace data", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// OrganizationDashboardPage handles GET /app/organization-dashboard/:name
func (h *Handlers) OrganizationDashboardPage(c *gin.Context) {
	name := c.Param("name")
	contentURL := fmt.Sprintf("/app/organization-dashboard/%s/content", url.PathEscape(name))

	var buf bytes.Buffer
	if err := h.renderer.OrganizationPage(&buf, name, contentURL); err != nil {
		h.logger.Error("Failed to render organization page", "organization", name, "error", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

// OrganizationDashboardContent handles GET /app/organization-dashboard/:name/content.
// A failed load renders only the error notice.
func (h *Handlers) OrganizationDashboardContent(c *gin.Context) {
	name := c.Param("name")

	var buf bytes.Buffer
	status := http.StatusOK

	payload, err := h.dashboards.Organization(c.Request.Context(), name)
	switch {
	case errors.Is(err, port.ErrRecordNotFound):
		status = http.StatusNotFound
		err = h.renderer.OrganizationContent(&buf, nil)
	case err != nil:
		h.logger.Error("Failed to load organization data", "organization", name, "error", err)
		status = http.StatusBadGateway
		err = h.renderer.OrganizationError(&buf)
	default:
		err = h.renderer.OrganizationContent(&buf, payload)
	}
	if err != nil {
		h.logger.Error("Failed to render organization dashboard", "organization", name, "error", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

// OrganizationDashboardExport handles GET /app/organization-dashboard/:name/export.xlsx
func (h *Handlers) OrganizationDashboardExport(c *gin.Context) {
	name := c.Param("name")

	payload, err := h.dashboards.Organization(c.Request.Context(), name)
	if err != nil {
		h.fail(c, "failed to load organization dashboard", err)
		return
	}
	if payload == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "no data found"})
		return
	}

	var buf bytes.Buffer
	if err := dashboard.WriteOrganizationWorkbook(&buf, payload); err != nil {
		h.fail(c, "failed to export organization dashboard", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// WorkspaceDashboardPage handles GET /app/workspace-dashboard
func (h *Handlers) WorkspaceDashboardPage(c *gin.Context) {
	view := dashboard.LoadWorkspace(c.Request.Context(), h.dashboards, h.logger)

	var buf bytes.Buffer
	if err := h.renderer.Workspace(&buf, view); err != nil {
		h.logger.Error("Failed to render workspace dashboard", "error", err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}
