// Package bootstrap wires the lead sync components shared by the api and worker binaries.
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/webtolk/amocrm-radicalmart/internal/leads"
	"github.com/webtolk/amocrm-radicalmart/internal/leadsync"
	"github.com/webtolk/amocrm-radicalmart/internal/relations"
	"github.com/webtolk/amocrm-radicalmart/pkg/amocrm"
	"github.com/webtolk/amocrm-radicalmart/pkg/config"
	"github.com/webtolk/amocrm-radicalmart/pkg/i18n"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/metrics"
)

// Components are the wired lead sync building blocks.
type Components struct {
	CRM        *amocrm.Client
	Relations  *relations.Store
	Translator *i18n.Translator
	Metrics    *metrics.SyncMetrics
	Sync       *leadsync.Service
}

// NewComponents builds the CRM client, relation store and lead sync service.
func NewComponents(cfg *config.Config, logg *logger.Logger, db *gorm.DB, reg prometheus.Registerer) (*Components, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	syncMetrics := metrics.NewSyncMetrics(reg)

	crm, err := amocrm.NewClient(cfg.AmoCRM.Token,
		amocrm.WithBaseURL(cfg.AmoCRM.BaseURL),
		amocrm.WithDomain(cfg.AmoCRM.Domain),
		amocrm.WithTimeout(cfg.AmoCRM.Timeout),
		amocrm.WithRetries(cfg.AmoCRM.MaxRetries, 0),
		amocrm.WithObserver(syncMetrics),
	)
	if err != nil {
		return nil, fmt.Errorf("amocrm client: %w", err)
	}

	tr, err := i18n.New(cfg.Integration.Language)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}

	store, err := relations.NewStore(relations.NewRepository(db), logg)
	if err != nil {
		return nil, err
	}

	svc, err := leadsync.NewService(leadsync.ServiceParams{
		CRM:         crm,
		Relations:   store,
		Mapper:      leads.NewMapper(tr),
		Integration: cfg.Integration,
		Components:  cfg.Components,
		Logger:      logg,
		Metrics:     syncMetrics,
	})
	if err != nil {
		return nil, err
	}

	return &Components{
		CRM:        crm,
		Relations:  store,
		Translator: tr,
		Metrics:    syncMetrics,
		Sync:       svc,
	}, nil
}
