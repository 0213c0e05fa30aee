package relations

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webtolk/amocrm-radicalmart/pkg/db/models"
)

// Repository exposes persistence helpers for order to lead relations.
type Repository interface {
	Upsert(ctx context.Context, relation *models.LeadRelation) error
	FindByOrderID(ctx context.Context, orderID int64) (*models.LeadRelation, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a relations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// Upsert inserts the relation or repoints an existing order at the new lead.
func (r *repositoryImpl) Upsert(ctx context.Context, relation *models.LeadRelation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "radicalmart_order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amocrm_lead_id", "updated_at"}),
		}).
		Create(relation).Error
}

// FindByOrderID returns nil without error when the order has no relation.
func (r *repositoryImpl) FindByOrderID(ctx context.Context, orderID int64) (*models.LeadRelation, error) {
	var relation models.LeadRelation
	err := r.db.WithContext(ctx).
		Where("radicalmart_order_id = ?", orderID).
		Take(&relation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &relation, nil
}
