package api

import (
	"strconv"
	"time"

	"cartera/config"
	"cartera/database"
	"cartera/middleware"
	"cartera/models"
	"cartera/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the period report and its email delivery.
type ReportHandler struct {
	cfg     *config.Config
	reports *service.ReportService
	emails  *service.EmailService
}

// NewReportHandler creates a report handler.
func NewReportHandler(cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		cfg:     cfg,
		reports: service.NewReportService(),
		emails:  service.NewEmailService(&cfg.Email),
	}
}

// EmailReportRequest asks for the period report to be mailed. Email defaults
// to the caller's registered address.
type EmailReportRequest struct {
	Email    string `json:"email" binding:"omitempty,email" example:"maria@example.com"`
	InitDate string `json:"init_date" example:"2026-08-01"`
	EndDate  string `json:"end_date" example:"2026-08-31"`
	BadgeID  uint   `json:"badge_id" example:"1"`
}

const reportDateLayout = "2006-01-02"

// reportWindow resolves the report parameters: both dates default to today,
// the currency defaults to the caller's registered one.
func (h *ReportHandler) reportWindow(c *gin.Context, userID uint, initStr, endStr string, badgeID uint) (time.Time, time.Time, uint, bool) {
	now := time.Now()
	initDate, endDate := now, now

	var err error
	if initStr != "" {
		initDate, err = time.Parse(reportDateLayout, initStr)
		if err != nil {
			BadRequest(c, "init_date must be a date like 2026-08-01")
			return time.Time{}, time.Time{}, 0, false
		}
	}
	if endStr != "" {
		endDate, err = time.Parse(reportDateLayout, endStr)
		if err != nil {
			BadRequest(c, "end_date must be a date like 2026-08-31")
			return time.Time{}, time.Time{}, 0, false
		}
	}
	if endDate.Before(initDate) {
		BadRequest(c, "end_date must not precede init_date")
		return time.Time{}, time.Time{}, 0, false
	}

	if badgeID == 0 {
		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			NotFound(c, "user not found")
			return time.Time{}, time.Time{}, 0, false
		}
		badgeID = user.BadgeID
	}

	return initDate, endDate, badgeID, true
}

// Get returns the period report for the caller.
// @Summary Period report
// @Description Income/expense headline, category and group rollups and the daily running balance for the window.
// @Tags report
// @Produce json
// @Security BearerAuth
// @Param init_date query string false "window start (2006-01-02), defaults to today"
// @Param end_date query string false "window end (2006-01-02), defaults to today"
// @Param badge_id query int false "currency id, defaults to the caller's"
// @Success 200 {object} Response{data=service.Report}
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/report [get]
func (h *ReportHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var badgeID uint
	if raw := c.Query("badge_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			BadRequest(c, "invalid badge_id")
			return
		}
		badgeID = uint(parsed)
	}

	initDate, endDate, badgeID, ok := h.reportWindow(c, userID, c.Query("init_date"), c.Query("end_date"), badgeID)
	if !ok {
		return
	}

	rep, err := h.reports.Generate(userID, badgeID, initDate, endDate)
	if err != nil {
		RespondError(c, err, "report could not be generated")
		return
	}

	Success(c, rep)
}

// Email generates the period report and mails it.
// @Summary Email the period report
// @Tags report
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmailReportRequest true "delivery options"
// @Success 200 {object} Response "sent"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/report/email [post]
func (h *ReportHandler) Email(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	toEmail := req.Email
	if toEmail == "" {
		toEmail = user.Email
	}
	if toEmail == "" {
		BadRequest(c, "no email address on file, provide one")
		return
	}

	initDate, endDate, badgeID, ok := h.reportWindow(c, userID, req.InitDate, req.EndDate, req.BadgeID)
	if !ok {
		return
	}

	var currency models.Currency
	if err := database.DB.First(&currency, badgeID).Error; err != nil {
		BadRequest(c, "unknown currency")
		return
	}

	rep, err := h.reports.Generate(userID, badgeID, initDate, endDate)
	if err != nil {
		RespondError(c, err, "report could not be generated")
		return
	}

	err = h.emails.SendReportEmail(toEmail, user.Username, currency.Code,
		initDate.Format(reportDateLayout), endDate.Format(reportDateLayout), rep)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "report email could not be sent"))
		return
	}

	SuccessWithMessage(c, "report sent to "+toEmail, nil)
}
