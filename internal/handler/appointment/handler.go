package appointment

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/scheduling"
	"github.com/parishops/parish-api/internal/service/appointment"
	"github.com/parishops/parish-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.Create)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.PATCH("/:id", h.Update)
		appointments.POST("/:id/confirm", h.Confirm)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.POST("/:id/complete", h.Complete)
		appointments.POST("/:id/requirements", h.AddRequirement)
		appointments.GET("/:id/requirements", h.ListRequirements)
		appointments.PATCH("/:id/requirements/:reqID", h.UpdateRequirement)
	}

	availability := rg.Group("/availability")
	{
		availability.GET("/slots", h.AvailableSlots)
		availability.GET("/consecutive-days", h.ConsecutiveDays)
		availability.GET("/validate", h.ValidateTime)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	apt, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if id := c.Query("service_id"); id != "" {
		serviceID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid service ID")
			return
		}
		filters.ServiceID = serviceID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
	}
	if from := c.Query("from"); from != "" {
		d, err := time.Parse("2006-01-02", from)
		if err != nil {
			httputil.RespondWithBadRequest(c, "from must be YYYY-MM-DD")
			return
		}
		filters.StartDate = d
	}
	if to := c.Query("to"); to != "" {
		d, err := time.Parse("2006-01-02", to)
		if err != nil {
			httputil.RespondWithBadRequest(c, "to must be YYYY-MM-DD")
			return
		}
		filters.EndDate = d
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	apt, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, "a cancellation reason is required")
		return
	}

	apt, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) AddRequirement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	var req model.CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}
	req.AppointmentID = id

	requirement, err := h.service.AddRequirement(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, requirement)
}

func (h *Handler) ListRequirements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	requirements, err := h.service.ListRequirements(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, requirements)
}

func (h *Handler) UpdateRequirement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}
	reqID, err := uuid.Parse(c.Param("reqID"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid requirement ID")
		return
	}

	var req struct {
		Received bool   `json:"received"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	requirement, err := h.service.MarkRequirementReceived(c.Request.Context(), id, reqID, req.Received, req.Notes)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, requirement)
}

// AvailableSlots lists open start times for a service on a date.
func (h *Handler) AvailableSlots(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid service ID")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.service.GetAvailableTimeSlots(c.Request.Context(), serviceID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}

// ConsecutiveDays reports per-day availability for a multi-day span.
func (h *Handler) ConsecutiveDays(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid service ID")
		return
	}
	startDate, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}

	days := 0
	if d := c.Query("days"); d != "" {
		days, err = strconv.Atoi(d)
		if err != nil || days < 0 {
			httputil.RespondWithBadRequest(c, "days must be a non-negative integer")
			return
		}
	}

	report, err := h.service.CheckConsecutiveDaysAvailability(c.Request.Context(), serviceID, startDate, days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, report)
}

// ValidateTime dry-runs the conflict check for a proposed time without
// booking anything.
func (h *Handler) ValidateTime(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid service ID")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "date must be YYYY-MM-DD")
		return
	}
	startMinute, err := scheduling.ParseClock(c.Query("time"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "time must be HH:MM")
		return
	}

	excludeID := uuid.Nil
	if id := c.Query("exclude_appointment_id"); id != "" {
		excludeID, err = uuid.Parse(id)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid exclude_appointment_id")
			return
		}
	}

	if err := h.service.ValidateServiceTime(c.Request.Context(), serviceID, date, startMinute, excludeID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"valid": true})
}
