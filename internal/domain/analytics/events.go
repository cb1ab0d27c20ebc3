package analytics

import (
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// EntityAnalyticsUpdatedEvent is published after an entity's analytics
// record has been committed.  Consumers (dashboards, alerting) treat it as a
// notification to re-read the record, so it carries only the headline fields.
type EntityAnalyticsUpdatedEvent struct {
	common.BaseEvent
	EntityID           common.ID        `json:"entity_id"`
	RiskScore          int              `json:"risk_score"`
	RiskLevel          common.RiskLevel `json:"risk_level"`
	FinancialRiskLevel common.RiskLevel `json:"financial_risk_level"`
	CaseCount          int              `json:"case_count"`
}

// NewEntityAnalyticsUpdatedEvent builds the event for a freshly committed
// record.
func NewEntityAnalyticsUpdatedEvent(rec *Record) *EntityAnalyticsUpdatedEvent {
	return &EntityAnalyticsUpdatedEvent{
		BaseEvent:          common.NewBaseEvent(rec.EntityID.String()),
		EntityID:           rec.EntityID,
		RiskScore:          rec.RiskScore,
		RiskLevel:          rec.RiskLevel,
		FinancialRiskLevel: rec.FinancialRiskLevel,
		CaseCount:          rec.CaseCount,
	}
}
