// Package api exposes schedules and consent requests over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/internal/config"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/audit"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/overtime"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/services"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	Store    db.Database
	Generate services.GenerateScheduleDeps
	Consent  services.ConsentRecorder
	// AuditFor returns the audit sink of a month. nil disables auditing.
	AuditFor func(month string) audit.Sink
	Cfg      *config.Config
	Logger   *zap.Logger
}

type scheduleResponse struct {
	Month       string                `json:"month"`
	Fingerprint string                `json:"fingerprint"`
	GeneratedAt *time.Time            `json:"generatedAt,omitempty"`
	Finalized   bool                  `json:"finalized"`
	Saved       bool                  `json:"saved"`
	Gaps        int                   `json:"gaps"`
	Pending     int                   `json:"overtimePending"`
	Schedule    *engine.ScheduleMonth `json:"schedule"`
}

type consentRequestResponse struct {
	ID          string    `json:"id"`
	StaffID     string    `json:"staffId"`
	Date        string    `json:"date"`
	ShiftKey    string    `json:"shiftKey"`
	Status      string    `json:"status"`
	Decision    string    `json:"decision,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type recordConsentInput struct {
	Status string `json:"status" binding:"required"`
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSchedule returns the stored schedule of a month
func (h *Handler) GetSchedule(c *gin.Context) {
	stored, err := services.ViewSchedule(c.Request.Context(), h.Store, h.Logger, c.Param("month"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	generatedAt := stored.Record.GeneratedAt
	c.JSON(http.StatusOK, scheduleResponse{
		Month:       stored.Schedule.Month,
		Fingerprint: stored.Record.Fingerprint,
		GeneratedAt: &generatedAt,
		Finalized:   stored.Record.Finalized,
		Saved:       true,
		Gaps:        len(stored.Schedule.Gaps),
		Pending:     countPending(stored.Schedule),
		Schedule:    stored.Schedule,
	})
}

// GenerateSchedule runs a generation for the month. ?dryRun=true skips saving.
func (h *Handler) GenerateSchedule(c *gin.Context) {
	month := c.Param("month")
	opts := services.GenerateOptions{DryRun: c.Query("dryRun") == "true"}

	deps := h.Generate
	if sink := h.auditSink(month); sink != nil {
		deps.Audit = sink
	}

	result, err := services.GenerateSchedule(c.Request.Context(), deps, h.Cfg, h.Logger, month, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := scheduleResponse{
		Month:       result.Schedule.Month,
		Fingerprint: result.Fingerprint,
		Gaps:        len(result.Schedule.Gaps),
		Pending:     len(result.Overtime.Pending),
		Schedule:    result.Schedule,
	}
	status := http.StatusOK
	if result.Record != nil {
		resp.Saved = true
		resp.GeneratedAt = &result.Record.GeneratedAt
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// FinalizeSchedule locks the month against regeneration
func (h *Handler) FinalizeSchedule(c *gin.Context) {
	month := c.Param("month")
	sink := h.auditSink(month)
	if err := services.FinalizeSchedule(c.Request.Context(), h.Store, sink, h.Logger, month); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "finalized": true})
}

// ListConsentRequests returns the current consent requests, optionally for ?month=YYYY-MM
func (h *Handler) ListConsentRequests(c *gin.Context) {
	requests, err := services.ListConsentRequests(c.Request.Context(), h.Store, h.Logger, c.Query("month"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]consentRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toConsentResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

// RecordConsent advances a consent request
func (h *Handler) RecordConsent(c *gin.Context) {
	var input recordConsentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := services.RecordConsent(c.Request.Context(), h.Consent, nil, h.Logger, c.Param("id"), input.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	// Audit entries are grouped by the month of the request date
	if sink := h.auditSink(req.Date[:min(len(req.Date), 7)]); sink != nil {
		message := fmt.Sprintf("consent request %s for %s on %s is now %s", req.ID, req.StaffID, req.Date, req.Status)
		if err := sink.Append(c.Request.Context(), message); err != nil {
			h.Logger.Warn("Failed to append audit entry", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, toConsentResponse(*req))
}

func (h *Handler) auditSink(month string) audit.Sink {
	if h.AuditFor == nil {
		return nil
	}
	return h.AuditFor(month)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrScheduleNotFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrScheduleFinalized), errors.Is(err, overtime.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, overtime.ErrUnknownStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func countPending(sm *engine.ScheduleMonth) int {
	n := 0
	for _, a := range sm.Assignments() {
		if a.Status == engine.StatusConsentPending {
			n++
		}
	}
	return n
}

func toConsentResponse(r db.ConsentRequest) consentRequestResponse {
	return consentRequestResponse{
		ID:          r.ID,
		StaffID:     r.StaffID,
		Date:        r.Date,
		ShiftKey:    r.ShiftKey,
		Status:      r.Status,
		Decision:    r.Decision,
		RequestedAt: r.RequestedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
