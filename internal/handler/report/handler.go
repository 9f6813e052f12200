package report

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/middleware"
	"github.com/parishops/parish-api/internal/service/report"
	"github.com/parishops/parish-api/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/daily", h.Daily)
}

func (h *Handler) Daily(c *gin.Context) {
	date := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			httputil.RespondWithBadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	generatedBy := ""
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			generatedBy = id.String()
		}
	}

	r, err := h.service.Daily(c.Request.Context(), date, generatedBy)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, r)
}
