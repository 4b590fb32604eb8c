// Package servicefactory constructs and owns the upstream service adapters.
// It is the single place that maps configuration onto the routing table and
// the per-service clients, and the target of configuration hot reloads.
package servicefactory

import (
	"log/slog"

	"cnstrct-hq/relay/pkg/config"
	"cnstrct-hq/relay/pkg/route"
	"cnstrct-hq/relay/pkg/services"
	"cnstrct-hq/relay/pkg/services/backend"
	"cnstrct-hq/relay/pkg/services/qbo"
	"cnstrct-hq/relay/pkg/services/stripe"
)

// Manager owns the routing table and the three upstream adapters. Adapters
// are created once at startup; credential changes flow in through Reload.
type Manager struct {
	table   *route.Table
	stripe  *stripe.Client
	qbo     *qbo.Client
	backend *backend.Client
	logger  *slog.Logger
}

// NewManager builds the routing table and adapters from configuration.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	table := route.NewTable(route.Config{
		Environment:          route.Environment(cfg.Environment),
		StripeBaseURL:        cfg.Services.Stripe.BaseURL,
		StripeAPIVersion:     cfg.Services.Stripe.APIVersion,
		QBOSandboxBaseURL:    cfg.Services.QBO.SandboxBaseURL,
		QBOProductionBaseURL: cfg.Services.QBO.ProductionBaseURL,
		QBOOAuthURL:          cfg.Services.QBO.OAuthURL,
		BackendBaseURL:       cfg.Services.Backend.BaseURL,
	})

	m := &Manager{
		table:  table,
		logger: logger,
		stripe: stripe.New(stripe.Config{
			DefaultSecretKey: cfg.Services.Stripe.SecretKey,
			Timeout:          cfg.Services.Stripe.Timeout,
			MaxRetries:       cfg.Services.Stripe.MaxRetries,
		}, table),
		qbo: qbo.New(qbo.Config{
			ClientID:     cfg.Services.QBO.ClientID,
			ClientSecret: cfg.Services.QBO.ClientSecret,
			Timeout:      cfg.Services.QBO.Timeout,
			MaxRetries:   cfg.Services.QBO.MaxRetries,
		}, table),
		backend: backend.New(backend.Config{
			Timeout:    cfg.Services.Backend.Timeout,
			MaxRetries: cfg.Services.Backend.MaxRetries,
		}, table),
	}

	logger.Info("service adapters created",
		"environment", table.Environment(),
		"stripe_default_key", m.stripe.HasDefaultKey(),
		"qbo_default_credentials", m.qbo.HasDefaultClientCredentials(),
		"backend_configured", cfg.Services.Backend.BaseURL != "",
	)

	return m
}

// Stripe returns the Stripe adapter.
func (m *Manager) Stripe() *stripe.Client { return m.stripe }

// QBO returns the QuickBooks adapter.
func (m *Manager) QBO() *qbo.Client { return m.qbo }

// Backend returns the hosted backend adapter.
func (m *Manager) Backend() *backend.Client { return m.backend }

// Table returns the routing table.
func (m *Manager) Table() *route.Table { return m.table }

// Reload applies a freshly loaded configuration. Only credentials are
// hot-swappable; URL and timeout changes require a restart because the
// routing table and transports are immutable.
func (m *Manager) Reload(cfg *config.Config) error {
	m.stripe.SetDefaultKey(cfg.Services.Stripe.SecretKey)
	m.qbo.SetClientCredentials(cfg.Services.QBO.ClientID, cfg.Services.QBO.ClientSecret)
	m.logger.Info("service credentials reloaded",
		"stripe_default_key", m.stripe.HasDefaultKey(),
		"qbo_default_credentials", m.qbo.HasDefaultClientCredentials(),
	)
	return nil
}

// Health reports the reachability snapshot of every adapter, keyed by
// service name.
func (m *Manager) Health() map[string]services.HealthState {
	return map[string]services.HealthState{
		m.stripe.Name():  m.stripe.Health(),
		m.qbo.Name():     m.qbo.Health(),
		m.backend.Name(): m.backend.Health(),
	}
}

// Close releases every adapter's connections.
func (m *Manager) Close() error {
	_ = m.stripe.Close()
	_ = m.qbo.Close()
	_ = m.backend.Close()
	return nil
}
