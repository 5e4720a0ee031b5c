package cmd

import (
	"net/http"

	"github.com/jonesrussell/goseo/internal/audit"
	"github.com/jonesrussell/goseo/internal/config"
	"github.com/jonesrussell/goseo/internal/inspect"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/notify"
	"github.com/jonesrussell/goseo/internal/perf"
)

// newCoordinator assembles the audit pipeline shared by serve, worker and
// the one-shot audit command: page inspector, metric collectors and the
// coordinator driving them.
func newCoordinator(
	cfg *config.Config,
	audits audit.AuditStore,
	projects audit.ProjectStore,
	notifier audit.Notifier,
	log logger.Interface,
) *audit.Coordinator {
	httpClient := &http.Client{Timeout: cfg.Audit.PageTimeout}

	inspector := inspect.NewInspector(
		httpClient,
		inspect.NewProber(cfg.Audit.UserAgent),
		inspect.NewRobotsChecker(httpClient, cfg.Audit.UserAgent),
		inspect.NewSitemapChecker(httpClient, cfg.Audit.UserAgent),
		log,
		inspect.Config{UserAgent: cfg.Audit.UserAgent, PageTimeout: cfg.Audit.PageTimeout},
	)

	collectors := []perf.Collector{
		perf.NewTimingCollector(httpClient, log, cfg.Audit.UserAgent),
		perf.NewLighthouseCollector(nil, log, cfg.Audit.LighthouseEnabled),
	}

	return audit.NewCoordinator(audits, projects, inspector, collectors, notifier, log)
}

// newMailer builds the completion mailer from the SMTP section. An empty
// host yields a disabled mailer.
func newMailer(cfg *config.Config, log logger.Interface) *notify.Mailer {
	return notify.NewMailer(notify.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		Sender:   cfg.SMTP.Sender,
	}, log)
}
