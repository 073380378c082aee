package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/homieapp/homie/internal/application/formscript"
	"github.com/homieapp/homie/internal/domain/entity"
)

// FormSessions is the form session service used by the form endpoints
type FormSessions interface {
	Open(ctx context.Context, kind entity.Kind, initial json.RawMessage) (*formscript.Snapshot, error)
	Load(ctx context.Context, kind entity.Kind, name string) (*formscript.Snapshot, error)
	Snapshot(ctx context.Context, id string, wait bool) (*formscript.Snapshot, error)
	Change(id, field string, raw json.RawMessage) (*formscript.Snapshot, error)
	AddItem(id string) (*formscript.Snapshot, error)
	RemoveItem(id string, idx int) (*formscript.Snapshot, error)
	Save(ctx context.Context, id string) (string, *formscript.Snapshot, error)
	Close(id string) error
}

// ChangeFieldRequest is the body of a field change. A missing value clears the field.
type ChangeFieldRequest struct {
	Value json.RawMessage `json:"value"`
}

// SaveFormResponse is returned after a form was stored
type SaveFormResponse struct {
	Name     string               `json:"name"`
	Snapshot *formscript.Snapshot `json:"snapshot"`
}

// OpenForm handles POST /api/forms/:kind
func (h *Handlers) OpenForm(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	snap, err := h.forms.Open(c.Request.Context(), kind, body)
	if err != nil {
		h.fail(c, "failed to open form", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: snap})
}

// LoadForm handles POST /api/forms/:kind/:name
func (h *Handlers) LoadForm(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	snap, err := h.forms.Load(c.Request.Context(), kind, c.Param("name"))
	if err != nil {
		h.fail(c, "failed to load form", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: snap})
}

// GetForm handles GET /api/forms/sessions/:id. With ?wait=1 the response
// is delayed until all lookups finished.
func (h *Handlers) GetForm(c *gin.Context) {
	wait, _ := strconv.ParseBool(c.DefaultQuery("wait", "false"))

	snap, err := h.forms.Snapshot(c.Request.Context(), c.Param("id"), wait)
	if err != nil {
		h.fail(c, "failed to read form", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: snap})
}

// CloseForm handles DELETE /api/forms/sessions/:id
func (h *Handlers) CloseForm(c *gin.Context) {
	if err := h.forms.Close(c.Param("id")); err != nil {
		h.fail(c, "failed to close form", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ChangeField handles PATCH /api/forms/sessions/:id/fields/:field
func (h *Handlers) ChangeField(c *gin.Context) {
	var req ChangeFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	snap, err := h.forms.Change(c.Param("id"), c.Param("field"), req.Value)
	if err != nil {
		h.fail(c, "failed to change field", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: snap})
}

// AddItem handles POST /api/forms/sessions/:id/items
func (h *Handlers) AddItem(c *gin.Context) {
	snap, err := h.forms.AddItem(c.Param("id"))
	if err != nil {
		h.fail(c, "failed to add item", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: snap})
}

// RemoveItem handles DELETE /api/forms/sessions/:id/items/:idx
func (h *Handlers) RemoveItem(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid item index"})
		return
	}

	snap, err := h.forms.RemoveItem(c.Param("id"), idx)
	if err != nil {
		h.fail(c, "failed to remove item", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: snap})
}

// SaveForm handles POST /api/forms/sessions/:id/save
func (h *Handlers) SaveForm(c *gin.Context) {
	name, snap, err := h.forms.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to save form", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: SaveFormResponse{Name: name, Snapshot: snap}})
}
