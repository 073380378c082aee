package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homieapp/homie/internal/domain/entity"
)

// writableKinds can be created and updated through the resource endpoints.
// Form records go through form sessions instead.
var writableKinds = map[entity.Kind]bool{
	entity.KindPersonDetails: true,
	entity.KindContactPerson: true,
	entity.KindAnimalShelter: true,
	entity.KindOrganization:  true,
	entity.KindProduct:       true,
	entity.KindAssociation:   true,
}

// GetResource handles GET /api/resource/:kind/:name
func (h *Handlers) GetResource(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	rec, err := h.records.LoadRecord(c.Request.Context(), kind, c.Param("name"))
	if err != nil {
		h.fail(c, "failed to load record", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rec})
}

// CreateResource handles POST /api/resource/:kind
func (h *Handlers) CreateResource(c *gin.Context) {
	kind, ok := h.writableKind(c)
	if !ok {
		return
	}

	rec, _ := entity.New(kind)
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	rec.SetRecordName("")

	name, err := h.records.SaveRecord(c.Request.Context(), rec)
	if err != nil {
		h.fail(c, "failed to create record", err)
		return
	}
	h.logger.Info("Record created", "kind", kind, "name", name)
	c.JSON(http.StatusCreated, Response{Success: true, Data: rec})
}

// UpdateResource handles PUT /api/resource/:kind/:name. Fields missing
// from the body keep their stored values.
func (h *Handlers) UpdateResource(c *gin.Context) {
	kind, ok := h.writableKind(c)
	if !ok {
		return
	}
	name := c.Param("name")

	rec, err := h.records.LoadRecord(c.Request.Context(), kind, name)
	if err != nil {
		h.fail(c, "failed to load record", err)
		return
	}

	body, err := c.GetRawData()
	if err != nil || json.Unmarshal(body, rec) != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	rec.SetRecordName(name)

	if _, err := h.records.SaveRecord(c.Request.Context(), rec); err != nil {
		h.fail(c, "failed to update record", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rec})
}

func (h *Handlers) writableKind(c *gin.Context) (entity.Kind, bool) {
	kind, ok := kindParam(c)
	if !ok {
		return "", false
	}
	if !writableKinds[kind] {
		c.JSON(http.StatusMethodNotAllowed, Response{
			Success: false,
			Error:   "records of this kind are edited through forms",
		})
		return "", false
	}
	return kind, true
}
