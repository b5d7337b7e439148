package handlers

import (
	"net/http"
	"strings"

	"marketing_site/internal/metrics"
	"marketing_site/internal/models"

	"github.com/gin-gonic/gin"
)

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=200" example:"Ada"`
	LastName  string  `json:"lastName" validate:"required,max=200" example:"Lovelace"`
	Email     string  `json:"email" validate:"required,email,max=254" example:"ada@example.com"`
	Company   *string `json:"company,omitempty" validate:"omitempty,max=200" example:"Analytical Engines Ltd"`
	Service   *string `json:"service,omitempty" validate:"omitempty,max=200" example:"consulting"`
	Message   string  `json:"message" validate:"required,max=5000" example:"We'd like a quote."`
}

func (r *ContactRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
	for _, p := range []*string{r.Company, r.Service} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// ContactResponse acknowledges a stored submission.
type ContactResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
	ID      int64  `json:"id" example:"1"`
}

// ValidationErrorResponse lists the fields that failed validation.
type ValidationErrorResponse struct {
	Success bool         `json:"success" example:"false"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// @Summary      Submit contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      ContactRequest  true  "Contact form"
// @Success      201   {object}  ContactResponse
// @Failure      400   {object}  ValidationErrorResponse
// @Failure      429   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]interface{}
// @Router       /api/contact [post]
func (h *Handler) submitContact(c *gin.Context) {
	limitBody(c)
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectContact(c, bindErrors(err))
		return
	}
	req.normalize()
	if errs := validate.Validate(&req); len(errs) > 0 {
		h.rejectContact(c, errs)
		return
	}

	id, err := h.services.Contact.Submit(c.Request.Context(), models.NewContactSubmission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Company:   req.Company,
		Service:   req.Service,
		Message:   req.Message,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, gin.H{
			"success": false,
			"message": msgContactFailed,
		}, "contact_submit_failed", err)
		return
	}

	h.log.Infow("contact_submitted", "id", id, "request_id", requestIDFrom(c))
	c.JSON(http.StatusCreated, ContactResponse{
		Success: true,
		Message: msgContactThanks,
		ID:      id,
	})
}

func (h *Handler) rejectContact(c *gin.Context, errs []FieldError) {
	metrics.ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	h.log.Infow("contact_invalid", "fields", fields, "request_id", requestIDFrom(c))
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Success: false,
		Message: msgContactInvalid,
		Errors:  errs,
	})
}

// @Summary      List contact submissions
// @Description  Newest first. Requires an admin session.
// @Tags         admin
// @Produce      json
// @Success      200  {array}   models.ContactSubmission
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/admin/contact-submissions [get]
func (h *Handler) listSubmissions(c *gin.Context) {
	submissions, err := h.services.Contact.ListSubmissions(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, gin.H{"message": msgListFailed}, "contact_list_failed", err)
		return
	}
	if submissions == nil {
		submissions = []models.ContactSubmission{}
	}
	c.JSON(http.StatusOK, submissions)
}
