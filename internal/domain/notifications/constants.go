package notifications

const (
	TypeAttritionRiskEscalated = "attrition_risk_escalated"
	TypeAttritionRecalcFailed  = "attrition_recalculation_failed"
)
