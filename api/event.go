package api

import (
	"strconv"
	"time"

	"cartera/database"
	"cartera/middleware"
	"cartera/models"
	"cartera/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EventHandler serves event CRUD and the active-event listing with per-currency
// balances.
type EventHandler struct {
	balances *service.BalanceService
}

// NewEventHandler creates an event handler.
func NewEventHandler() *EventHandler {
	return &EventHandler{balances: service.NewBalanceService()}
}

// CreateEventRequest is the event creation payload. EndEvent is a date in
// 2006-01-02 form.
type CreateEventRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Trip to Cartagena"`
	EndEvent string `json:"end_event" binding:"required" example:"2026-12-31"`
}

// UpdateEventRequest is the event update payload.
type UpdateEventRequest struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	EndEvent string `json:"end_event"`
}

const eventDateLayout = "2006-01-02"

// List returns all of the caller's events, newest end date first, each with
// its per-currency movement balance.
// @Summary List events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Event}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/events [get]
func (h *EventHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var events []models.Event
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("end_event DESC").
		Find(&events).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "events could not be retrieved"))
		return
	}

	for i := range events {
		rows, err := h.balances.Balances(userID, service.BalanceFilter{EventID: events[i].ID})
		if err != nil {
			RespondError(c, err, "event balances could not be retrieved")
			return
		}
		events[i].Balance = rows
	}

	Success(c, events)
}

// Active returns the caller's events whose end date has not passed, each with
// its per-currency movement balance.
// @Summary List active events with balances
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Event}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/events/active [get]
func (h *EventHandler) Active(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	today := time.Now().Format(eventDateLayout)
	var events []models.Event
	if err := database.DB.
		Where("user_id = ? AND end_event >= ?", userID, today).
		Order("end_event ASC").
		Find(&events).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "events could not be retrieved"))
		return
	}

	for i := range events {
		rows, err := h.balances.Balances(userID, service.BalanceFilter{EventID: events[i].ID})
		if err != nil {
			RespondError(c, err, "event balances could not be retrieved")
			return
		}
		events[i].Balance = rows
	}

	Success(c, events)
}

// Create stores a new event owned by the caller.
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "event data"
// @Success 200 {object} Response{data=models.Event} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	end, err := time.Parse(eventDateLayout, req.EndEvent)
	if err != nil {
		BadRequest(c, "end_event must be a date like 2026-12-31")
		return
	}

	event := models.Event{
		Name:     req.Name,
		UserID:   userID,
		EndEvent: end,
	}

	if err := database.DB.Create(&event).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "event was not saved"))
		return
	}

	SuccessWithMessage(c, "event created", event)
}

// Get returns one event with its movements and per-currency balance.
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "event id"
// @Success 200 {object} Response{data=models.Event}
// @Failure 404 {object} Response "not found"
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var event models.Event
	if err := database.DB.
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_purchase DESC")
		}).
		Preload("Movements.Account").Preload("Movements.Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&event).Error; err != nil {
		NotFound(c, "event not found")
		return
	}

	rows, err := h.balances.Balances(userID, service.BalanceFilter{EventID: event.ID})
	if err != nil {
		RespondError(c, err, "event balances could not be retrieved")
		return
	}
	event.Balance = rows

	Success(c, event)
}

// Update edits one of the caller's events.
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "event id"
// @Param request body UpdateEventRequest true "event data"
// @Success 200 {object} Response{data=models.Event} "updated"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var event models.Event
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&event).Error; err != nil {
		NotFound(c, "event not found")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.EndEvent != "" {
		end, err := time.Parse(eventDateLayout, req.EndEvent)
		if err != nil {
			BadRequest(c, "end_event must be a date like 2026-12-31")
			return
		}
		updates["end_event"] = end
	}

	if len(updates) == 0 {
		SuccessWithMessage(c, "nothing to update", event)
		return
	}

	if err := database.DB.Model(&event).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "event was not saved"))
		return
	}

	database.DB.First(&event, event.ID)
	SuccessWithMessage(c, "event updated", event)
}

// Delete soft-deletes an event. Its movements keep their event_id and remain
// untouched.
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "event id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var event models.Event
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&event).Error; err != nil {
		NotFound(c, "event not found")
		return
	}

	if err := database.DB.Delete(&event).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "event was not deleted"))
		return
	}

	SuccessWithMessage(c, "event deleted", nil)
}
