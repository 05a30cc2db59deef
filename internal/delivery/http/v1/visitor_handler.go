package v1

import (
	"net/http"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type VisitorHandler struct {
	visitorUC domain.VisitorUsecase
}

// NewVisitorHandler registers the visitor counter routes (public)
func NewVisitorHandler(public *gin.RouterGroup, visitorUC domain.VisitorUsecase) {
	handler := &VisitorHandler{
		visitorUC: visitorUC,
	}

	public.POST("/visitors", handler.RecordVisit)
	public.GET("/visitors", handler.GetVisitCount)
}

// RecordVisit counts one page visit and returns the running total.
func (h *VisitorHandler) RecordVisit(c *gin.Context) {
	count, err := h.visitorUC.RecordVisit(c.Request.Context())
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Visit recorded", gin.H{"count": count})
}

// GetVisitCount returns the running total without counting a visit.
func (h *VisitorHandler) GetVisitCount(c *gin.Context) {
	count, err := h.visitorUC.VisitCount(c.Request.Context())
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Visitor count", gin.H{"count": count})
}
