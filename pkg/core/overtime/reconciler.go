package overtime

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// precision absorbs float noise when comparing cumulative hours to a threshold
const precision = 0.01

// Gateway is the external overtime consent collaborator
type Gateway interface {
	HasConsent(ctx context.Context, staffID, date string) (bool, error)
	RequestConsent(ctx context.Context, staffID, date, shiftKey string) (string, error)
}

// GatewayError records a failed gateway call for one assignment
type GatewayError struct {
	StaffID string
	Date    string
	Op      string
	Err     error
}

func (e GatewayError) Error() string {
	return fmt.Sprintf("%s for staff %s on %s: %v", e.Op, e.StaffID, e.Date, e.Err)
}

func (e GatewayError) Unwrap() error {
	return e.Err
}

// ReconcileReport summarises a reconciliation pass
type ReconcileReport struct {
	Approved []*engine.Assignment
	Pending  []*engine.Assignment
	// Requests maps consent request ID to the assignment it was raised for
	Requests map[string]*engine.Assignment
	Errors   []GatewayError
	// OvertimeHours per staff ID, only staff with overtime are listed
	OvertimeHours map[string]float64
}

// Reconciler flags assignments beyond a staff member's contracted hours and
// asks the gateway for consent
type Reconciler struct {
	Gateway Gateway
	Logger  *zap.Logger

	// Thresholds is the overtime threshold per role as a ratio of the monthly
	// target. Roles not listed use 1.
	Thresholds map[model.Role]float64
}

// NewReconciler creates a reconciler using the overtime thresholds from cfg
func NewReconciler(gateway Gateway, cfg engine.Config, logger *zap.Logger) *Reconciler {
	thresholds := make(map[model.Role]float64, len(model.Roles))
	for _, role := range model.Roles {
		thresholds[role] = cfg.OvertimeRatio(role)
	}
	return &Reconciler{Gateway: gateway, Logger: logger, Thresholds: thresholds}
}

func (r *Reconciler) ratio(role model.Role) float64 {
	if ratio, ok := r.Thresholds[role]; ok {
		return ratio
	}
	return 1
}

// Reconcile walks each staff member's assignments chronologically. Once the
// cumulative hours pass the role threshold, every further assignment is
// overtime: approved if consent is on file, otherwise pending with exactly one
// consent request per staff and date.
//
// Gateway failures never abort the pass. The assignment stays pending and the
// failure is recorded in the report. Assignments that already carry a consent
// request ID are not requested again.
func (r *Reconciler) Reconcile(ctx context.Context, sm *engine.ScheduleMonth, staff []model.Staff) (*ReconcileReport, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &ReconcileReport{
		Requests:      make(map[string]*engine.Assignment),
		OvertimeHours: make(map[string]float64),
	}

	roles := make(map[string]model.Role, len(staff))
	for _, s := range staff {
		roles[s.ID] = s.Role
	}

	ids := make([]string, 0, len(sm.Summary))
	for id := range sm.Summary {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	requested := make(map[string]bool)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary := sm.Summary[id]
		threshold := summary.TargetHours * r.ratio(roles[id])

		cumulative := 0.0
		overtime := 0.0
		for _, a := range sm.AssignmentsFor(id) {
			cumulative += a.Hours
			if cumulative <= threshold+precision {
				continue
			}
			overtime += min(a.Hours, cumulative-threshold)

			logger.Debug("Overtime assignment",
				zap.String("staff_id", id),
				zap.String("date", a.Date),
				zap.String("shift", a.ShiftKey),
				zap.Float64("cumulative_hours", cumulative),
				zap.Float64("threshold", threshold))

			r.reconcileAssignment(ctx, logger, a, requested, report)
		}

		if overtime > 0 {
			report.OvertimeHours[id] = overtime
		}
		summary.OvertimeHours = overtime
		sm.Summary[id] = summary
	}

	logger.Info("Overtime reconciled",
		zap.String("month", sm.Month),
		zap.Int("approved", len(report.Approved)),
		zap.Int("pending", len(report.Pending)),
		zap.Int("requests", len(report.Requests)),
		zap.Int("errors", len(report.Errors)))

	return report, nil
}

func (r *Reconciler) reconcileAssignment(ctx context.Context, logger *zap.Logger, a *engine.Assignment, requested map[string]bool, report *ReconcileReport) {
	consent, err := r.Gateway.HasConsent(ctx, a.StaffID, a.Date)
	if err != nil {
		logger.Warn("Failed to check overtime consent",
			zap.String("staff_id", a.StaffID),
			zap.String("date", a.Date),
			zap.Error(err))
		report.Errors = append(report.Errors, GatewayError{StaffID: a.StaffID, Date: a.Date, Op: "check consent", Err: err})
		a.Status = engine.StatusConsentPending
		report.Pending = append(report.Pending, a)
		return
	}

	if consent {
		a.Status = engine.StatusOvertimeApproved
		report.Approved = append(report.Approved, a)
		return
	}

	a.Status = engine.StatusConsentPending
	report.Pending = append(report.Pending, a)

	key := a.StaffID + "|" + a.Date
	if a.ConsentRequestID != "" || requested[key] {
		return
	}
	requested[key] = true

	requestID, err := r.Gateway.RequestConsent(ctx, a.StaffID, a.Date, a.ShiftKey)
	if err != nil {
		logger.Warn("Failed to request overtime consent",
			zap.String("staff_id", a.StaffID),
			zap.String("date", a.Date),
			zap.Error(err))
		report.Errors = append(report.Errors, GatewayError{StaffID: a.StaffID, Date: a.Date, Op: "request consent", Err: err})
		return
	}

	a.ConsentRequestID = requestID
	report.Requests[requestID] = a
}
