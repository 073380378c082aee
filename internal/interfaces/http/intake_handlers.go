package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homieapp/homie/internal/application/service"
)

// payload merges the JSON body over the query parameters
func payload(c *gin.Context) (service.Payload, error) {
	p := service.Payload{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			p[key] = values[0]
		}
	}

	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return p, nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	for key, value := range fields {
		p[key] = value
	}
	return p, nil
}

// CreateDonation handles POST /api/method/create_donation
func (h *Handlers) CreateDonation(c *gin.Context) {
	p, err := payload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.intake.CreateDonation(c.Request.Context(), p)
	if err != nil {
		h.fail(c, "failed to create donation", err)
		return
	}

	status := http.StatusCreated
	if result.Status == service.IntakeStatusExists {
		status = http.StatusOK
	}
	c.JSON(status, Response{Success: true, Data: result})
}

// CreatePayment handles POST /api/method/create_payment
func (h *Handlers) CreatePayment(c *gin.Context) {
	p, err := payload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.intake.CreatePayment(c.Request.Context(), p)
	if err != nil {
		h.fail(c, "failed to create payment", err)
		return
	}

	status := http.StatusCreated
	if result.Status == service.IntakeStatusExists {
		status = http.StatusOK
	}
	c.JSON(status, Response{Success: true, Data: result})
}
