package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"simpleinvoice/internal/format"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/repository"
	"simpleinvoice/pkg/models"
)

type createRequest struct {
	invoice.FormData
	AnonymousToken string `json:"anonymous_token"`
}

type statusRequest struct {
	Status         string `json:"status"`
	AnonymousToken string `json:"anonymous_token"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// actor combines the signed-in user, if any, with the anonymous token the
// client sent.
func actor(c *gin.Context, anonymousToken string) invoice.Actor {
	a := invoice.Actor{AnonymousToken: anonymousToken}
	if user := currentUser(c); user != nil {
		a.UserID = user.ID
	}
	return a
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": format.Currencies})
}

func (s *Server) listInvoices(c *gin.Context) {
	var filter *models.Status
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter = &status
	}

	invoices, err := s.invoices.List(c.Request.Context(), actor(c, c.Query("anonymous_token")), nil)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoice.FilterByStatus(invoices, filter),
		"stats":    invoice.ComputeStats(invoices),
	})
}

func (s *Server) createInvoice(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	a := actor(c, req.AnonymousToken)
	if a.Owner().IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "anonymous_token is required when not signed in"})
		return
	}

	created, err := s.invoices.Create(c.Request.Context(), a, req.FormData)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": created})
}

func (s *Server) getInvoice(c *gin.Context) {
	inv, err := s.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":   inv,
		"is_owner":  invoice.IsOwner(actor(c, c.Query("anonymous_token")), inv),
		"share_url": invoice.ShareURL(s.baseURL, inv.ID),
	})
}

func (s *Server) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	updated, err := s.invoices.SetStatus(c.Request.Context(), actor(c, req.AnonymousToken), c.Param("id"), models.Status(req.Status))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": updated})
}

func (s *Server) invoicePDF(c *gin.Context) {
	inv, err := s.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	doc, err := s.renderer.Render(inv)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, inv.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// fail maps service errors onto status codes. Anything unrecognized is a 500
// carrying the error message.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var fieldErrs invoice.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		fields := make([]fieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fieldError{Field: fe.Field, Message: fe.Message})
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": invoice.ErrInvalidForm.Error(), "fields": fields})
	case errors.Is(err, invoice.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": invoice.ErrInvalidStatus.Error()})
	case errors.Is(err, invoice.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": invoice.ErrNotOwner.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
