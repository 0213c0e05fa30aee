package relations

import (
	"context"
	"errors"
	"fmt"

	"github.com/webtolk/amocrm-radicalmart/pkg/db/models"
	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
)

// Store owns the persisted order to lead mapping.
type Store struct {
	repo Repository
	logg *logger.Logger
}

// NewStore wires the relation store.
func NewStore(repo Repository, logg *logger.Logger) (*Store, error) {
	if repo == nil {
		return nil, errors.New("relations repository is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{repo: repo, logg: logg}, nil
}

// Save records that orderID produced leadID. Failures are logged and swallowed:
// the lead already exists in the CRM, only the local link is lost.
func (s *Store) Save(ctx context.Context, orderID, leadID int64) {
	if orderID <= 0 || leadID <= 0 {
		s.logFailure(ctx, orderID, leadID, fmt.Errorf("invalid relation order=%d lead=%d", orderID, leadID))
		return
	}
	relation := &models.LeadRelation{RadicalMartOrderID: orderID, AmoCRMLeadID: leadID}
	if err := s.repo.Upsert(ctx, relation); err != nil {
		s.logFailure(ctx, orderID, leadID, err)
	}
}

// FindLeadID returns the lead linked to orderID, or 0 when there is none.
func (s *Store) FindLeadID(ctx context.Context, orderID int64) (int64, error) {
	if orderID <= 0 {
		return 0, nil
	}
	relation, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find lead relation")
	}
	if relation == nil {
		return 0, nil
	}
	return relation.AmoCRMLeadID, nil
}

func (s *Store) logFailure(ctx context.Context, orderID, leadID int64, err error) {
	ctx = s.logg.WithOrderID(ctx, orderID)
	ctx = s.logg.WithLeadID(ctx, leadID)
	ctx = s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	s.logg.Error(ctx, "relation.save_failed", err)
}
