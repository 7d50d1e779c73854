package gmailclient

import (
	"context"
	"fmt"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// EmailSender sends a plain text email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ConsentMailer emails staff about overtime consent requests
type ConsentMailer struct {
	sender EmailSender
	staff  map[string]model.Staff
}

// NewConsentMailer creates a mailer that looks recipients up in the given roster
func NewConsentMailer(sender EmailSender, staff []model.Staff) *ConsentMailer {
	byID := make(map[string]model.Staff, len(staff))
	for _, s := range staff {
		byID[s.ID] = s
	}
	return &ConsentMailer{sender: sender, staff: byID}
}

// NotifyConsentRequest sends the consent request email to the staff member
func (m *ConsentMailer) NotifyConsentRequest(ctx context.Context, request db.ConsentRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	staff, ok := m.staff[request.StaffID]
	if !ok {
		return fmt.Errorf("staff %s not found", request.StaffID)
	}
	if staff.Email == "" {
		return fmt.Errorf("staff %s has no email address", request.StaffID)
	}

	subject, body, err := consentEmail(staff, request)
	if err != nil {
		return err
	}
	return m.sender.SendEmail(ctx, staff.Email, subject, body)
}

func consentEmail(staff model.Staff, request db.ConsentRequest) (string, string, error) {
	date, err := time.Parse(model.DateLayout, request.Date)
	if err != nil {
		return "", "", fmt.Errorf("invalid consent request date %q: %w", request.Date, err)
	}

	name := staff.Name
	if name == "" {
		name = staff.ID
	}

	subject := fmt.Sprintf("Overtime consent needed for %s", date.Format("Mon 02 Jan 2006"))
	body := fmt.Sprintf(`Hi %s,

the schedule for %s puts you above your contracted hours with the %s shift on %s.

Please let your shift lead know whether you agree to work this shift as overtime.
Reference: %s

Thanks!
`, name, date.Format("January 2006"), request.ShiftKey, date.Format("Monday, 02 January"), request.ID)

	return subject, body, nil
}
