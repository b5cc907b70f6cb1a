// Package product provides the product catalog: models, retrieval with
// term expansion and pagination, and harmful substance enrichment.
package product

import (
	"time"
)

// Product statuses as stored in the catalog.
const (
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
)

// Product is a notified cosmetic product joined with its company's
// reliability score. Cancelled products carry the harmful substances that
// triggered cancellation; approved products always report an empty list.
type Product struct {
	NotifNo          string    `json:"notif_no"`
	Product          string    `json:"product"`
	Category         string    `json:"category"`
	Status           string    `json:"status"`
	DateNotif        time.Time `json:"date_notif"`
	Company          string    `json:"company"`
	ReliabilityScore float64   `json:"reliability_score"`

	HarmfulIngredients []string `json:"harmful_ingredients"`
	Manufacturer       string   `json:"manufacturer,omitempty"`
}

// Substance is a harmful substance reference record. Optional columns are
// empty strings when absent.
type Substance struct {
	SubstanceID         int    `json:"substance_id"`
	Substance           string `json:"substance"`
	CommonName          string `json:"common_name"`
	RiskLevel           string `json:"risk_level"`
	HealthEffect        string `json:"health_effect"`
	SimpleExplain       string `json:"simple_explain"`
	ShortRisk           string `json:"short_risk"`
	LongRisk            string `json:"long_risk"`
	RiskLevelDefinition string `json:"risk_level_definition,omitempty"`
	InternationalBan    string `json:"international_ban_status,omitempty"`
	Usage               string `json:"usage,omitempty"`
	Alternative         string `json:"alternative,omitempty"`
	BannedYear          string `json:"banned_year,omitempty"`
}

// riskRank orders substance risk tiers HIGH before MEDIUM before LOW.
func riskRank(level string) int {
	switch level {
	case "HIGH":
		return 1
	case "MEDIUM":
		return 2
	case "LOW":
		return 3
	default:
		return 4
	}
}
