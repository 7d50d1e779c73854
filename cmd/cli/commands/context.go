package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/internal/config"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/audit"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/clients/gmailclient"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/clients/sheetsclient"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/overtime"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/services"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/observability/metrics"
)

// AppContext holds the application dependencies shared across all commands.
// The Google clients are created on first use so commands that never touch
// Sheets or Gmail do not trigger the OAuth flow.
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Metrics  *metrics.ScheduleMetrics
	Logger   *zap.Logger
	Ctx      context.Context

	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// SheetsClient returns the Sheets client, authenticating on first use
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	a.sheetsClient = client
	return client, nil
}

// GmailClient returns the Gmail client. It shares the token of the Sheets client.
func (a *AppContext) GmailClient() (*gmailclient.Client, error) {
	if a.gmailClient != nil {
		return a.gmailClient, nil
	}

	sheets, err := a.SheetsClient()
	if err != nil {
		return nil, err
	}
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(a.Ctx, oauthCfg, sheets.Token(), a.Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	a.gmailClient = client
	return client, nil
}

// AuditSink returns the audit sink of a month, writing to the log and the store
func (a *AppContext) AuditSink(month string) audit.Sink {
	return audit.Multi{
		&audit.LogSink{Logger: a.Logger, Month: month},
		audit.NewStoreSink(a.Database, month),
	}
}

// Gateway returns the consent gateway. Staff are emailed about new requests
// when a Gmail sender is configured.
func (a *AppContext) Gateway() *overtime.StoreGateway {
	var notifier overtime.Notifier
	if a.Cfg.GmailSender != "" {
		notifier = &rosterMailer{app: a}
	}
	return overtime.NewStoreGateway(a.Database, notifier, a.Logger)
}

// GenerateDeps bundles the collaborators of a generation run for a month
func (a *AppContext) GenerateDeps(month string) (services.GenerateScheduleDeps, error) {
	provider, err := a.Cfg.HolidayProvider()
	if err != nil {
		return services.GenerateScheduleDeps{}, fmt.Errorf("failed to build holiday provider: %w", err)
	}

	deps := services.GenerateScheduleDeps{
		Store:    a.Database,
		Holidays: provider,
		Gateway:  a.Gateway(),
		Audit:    a.AuditSink(month),
	}
	// A nil *ScheduleMetrics must not become a non-nil interface
	if a.Metrics != nil {
		deps.Metrics = a.Metrics
	}
	return deps, nil
}

// rosterMailer emails consent requests using the current staff roster
type rosterMailer struct {
	app *AppContext
}

func (m *rosterMailer) NotifyConsentRequest(ctx context.Context, request db.ConsentRequest) error {
	gmail, err := m.app.GmailClient()
	if err != nil {
		return err
	}
	staff, err := m.app.Database.ListStaff(ctx)
	if err != nil {
		return fmt.Errorf("failed to list staff: %w", err)
	}
	return gmailclient.NewConsentMailer(gmail, staff).NotifyConsentRequest(ctx, request)
}
