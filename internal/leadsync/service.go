package leadsync

import (
	"context"
	"errors"

	"github.com/webtolk/amocrm-radicalmart/internal/leads"
	"github.com/webtolk/amocrm-radicalmart/pkg/amocrm"
	"github.com/webtolk/amocrm-radicalmart/pkg/config"
	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/metrics"
	"github.com/webtolk/amocrm-radicalmart/pkg/radicalmart"
)

// CRM is the subset of the AmoCRM client used by the sync.
type CRM interface {
	CreateLeadsComplex(ctx context.Context, leads []amocrm.Lead) ([]amocrm.CreatedLead, error)
	AddNotes(ctx context.Context, entityType string, entityID int64, notes []amocrm.Note) error
}

// RelationStore persists the order to lead mapping.
type RelationStore interface {
	Save(ctx context.Context, orderID, leadID int64)
	FindLeadID(ctx context.Context, orderID int64) (int64, error)
}

// EventRecorder counts handled events.
type EventRecorder interface {
	IncEvent(kind, result string)
}

// Handler is implemented by Service and consumed by the transports.
type Handler interface {
	HandleEvent(ctx context.Context, evt radicalmart.Event) (Result, error)
}

type Outcome string

const (
	OutcomeIgnored Outcome = "ignored"
	OutcomeSkipped Outcome = "skipped"
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeFailed  Outcome = "failed"
)

// Result describes what handling an event did.
type Result struct {
	Kind    radicalmart.Kind
	Source  radicalmart.Source
	OrderID int64
	LeadID  int64
	Outcome Outcome
}

// Handled reports whether the event reached the CRM.
func (r Result) Handled() bool {
	return r.Outcome == OutcomeCreated || r.Outcome == OutcomeUpdated
}

// ServiceParams wires the lead sync service.
type ServiceParams struct {
	CRM         CRM
	Relations   RelationStore
	Mapper      *leads.Mapper
	Integration config.IntegrationConfig
	Components  config.ComponentsConfig
	Logger      *logger.Logger
	Metrics     EventRecorder
}

// Service creates AmoCRM leads for new orders and annotates them on status changes.
type Service struct {
	crm         CRM
	relations   RelationStore
	mapper      *leads.Mapper
	integration config.IntegrationConfig
	components  config.ComponentsConfig
	logg        *logger.Logger
	metrics     EventRecorder
}

func NewService(p ServiceParams) (*Service, error) {
	if p.CRM == nil {
		return nil, errors.New("amocrm client required")
	}
	if p.Relations == nil {
		return nil, errors.New("relation store required")
	}
	if p.Mapper == nil {
		return nil, errors.New("lead mapper required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger required")
	}
	return &Service{
		crm:         p.CRM,
		relations:   p.Relations,
		mapper:      p.Mapper,
		integration: p.Integration,
		components:  p.Components,
		logg:        p.Logger,
		metrics:     p.Metrics,
	}, nil
}

// HandleEvent dispatches an order event. Unknown kinds, missing or invalid
// orders, disallowed statuses and orders without a lead are silent no-ops.
func (s *Service) HandleEvent(ctx context.Context, evt radicalmart.Event) (Result, error) {
	kind, source, ok := evt.Classify()
	if !ok {
		s.record("", OutcomeIgnored)
		return Result{Outcome: OutcomeIgnored}, nil
	}
	result := Result{Kind: kind, Source: source, Outcome: OutcomeSkipped}

	order, err := evt.DecodeOrder()
	if err != nil {
		s.record(kind, OutcomeSkipped)
		return result, nil
	}
	result.OrderID = order.ID

	ctx = s.logg.WithEventType(ctx, evt.Type)
	ctx = s.logg.WithOrderID(ctx, order.ID)

	switch kind {
	case radicalmart.KindOrderCreate:
		err = s.createLead(ctx, *order, source, evt.Cookies, &result)
	case radicalmart.KindOrderChangeStatus:
		if !s.integration.StatusAllowed(order.Status.ID) {
			break
		}
		_, err = s.updateLead(ctx, *order, &result)
	}
	if err != nil {
		result.Outcome = OutcomeFailed
	}
	s.record(kind, result.Outcome)
	return result, err
}

func (s *Service) createLead(ctx context.Context, order radicalmart.Order, source radicalmart.Source, cookies map[string]string, result *Result) error {
	params := s.params(source)
	lead := s.mapper.BuildLead(order, params)
	leads.EnrichUTM(&lead, cookies)

	created, err := s.crm.CreateLeadsComplex(ctx, []amocrm.Lead{lead})
	if err != nil {
		s.logg.Error(s.withDump(ctx, err), "lead.create_failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeOf(err, pkgerrors.CodeDependency), err, "create amocrm lead")
	}
	if len(created) == 0 || created[0].ID <= 0 {
		err = pkgerrors.New(pkgerrors.CodeDependency, "amocrm returned no lead id")
		s.logg.Error(s.withDump(ctx, err), "lead.create_failed", err)
		return err
	}
	leadID := created[0].ID
	result.LeadID = leadID
	result.Outcome = OutcomeCreated
	ctx = s.logg.WithLeadID(ctx, leadID)

	s.relations.Save(ctx, order.ID, leadID)

	notes := s.mapper.BuildNotes(order, params)
	if err := s.crm.AddNotes(ctx, amocrm.EntityLeads, leadID, notes); err != nil {
		s.logg.Error(s.withDump(ctx, err), "lead.notes_failed", err)
	}
	return nil
}

// updateLead appends the status note to the linked lead and reports whether it was sent.
func (s *Service) updateLead(ctx context.Context, order radicalmart.Order, result *Result) (bool, error) {
	leadID, err := s.relations.FindLeadID(ctx, order.ID)
	if err != nil {
		s.logg.Error(s.withDump(ctx, err), "lead.lookup_failed", err)
		return false, err
	}
	if leadID == 0 {
		s.logg.Debug(ctx, "lead.update_skipped_no_relation")
		return false, nil
	}
	result.LeadID = leadID
	ctx = s.logg.WithLeadID(ctx, leadID)

	note := s.mapper.BuildStatusNote(order)
	if err := s.crm.AddNotes(ctx, amocrm.EntityLeads, leadID, []amocrm.Note{note}); err != nil {
		s.logg.Error(s.withDump(ctx, err), "lead.update_failed", err)
		return false, pkgerrors.Wrap(pkgerrors.CodeOf(err, pkgerrors.CodeDependency), err, "update amocrm lead")
	}
	result.Outcome = OutcomeUpdated
	return true, nil
}

func (s *Service) params(source radicalmart.Source) leads.Params {
	labels := s.components.RadicalMartFieldLabels
	if source == radicalmart.SourceExpress {
		labels = s.components.ExpressFieldLabels
	}
	return leads.Params{
		PipelineID:     s.integration.PipelineID,
		LeadTagID:      s.integration.LeadTagID,
		NoteOrderItems: s.integration.NoteOrderItems,
		SiteRoot:       s.integration.SiteRoot,
		FieldLabels:    labels,
	}
}

func (s *Service) withDump(ctx context.Context, err error) context.Context {
	return s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
}

func (s *Service) record(kind radicalmart.Kind, outcome Outcome) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultSkipped
	switch outcome {
	case OutcomeCreated, OutcomeUpdated:
		result = metrics.ResultSuccess
	case OutcomeFailed:
		result = metrics.ResultFailure
	}
	s.metrics.IncEvent(string(kind), result)
}
