package models

import "time"

// LeadRelationTable matches the Joomla plugin table (without the #__ prefix) so existing rows stay readable.
const LeadRelationTable = "plg_radicalmart_wtamocrmradicalmart"

// LeadRelation links a RadicalMart order to the AmoCRM lead created for it.
// One row per order: radicalmart_order_id is the primary key.
type LeadRelation struct {
	RadicalMartOrderID int64     `gorm:"column:radicalmart_order_id;primaryKey;autoIncrement:false"`
	AmoCRMLeadID       int64     `gorm:"column:amocrm_lead_id;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeadRelation) TableName() string {
	return LeadRelationTable
}
