// Package score compiles auditable reliability score breakdowns from
// pre-computed company score components.
package score

import (
	"fmt"
	"math"

	"github.com/Edmund-Gan/mycosmetic2/internal/company"
)

// Component weights. The four weighted components always sum to 1.0.
const (
	WeightCancellation = 0.40
	WeightCategory     = 0.25
	WeightStability    = 0.20
	WeightPresence     = 0.15
)

// Pass thresholds per component. A component "looks good" at or above its
// threshold; thresholds differ because the underlying distributions differ.
const (
	ThresholdCancellation = 70.0
	ThresholdCategory     = 50.0
	ThresholdStability    = 80.0
	ThresholdPresence     = 60.0
)

// EstablishedBrandYears is the tenure required for the established brand
// bonus line item.
const EstablishedBrandYears = 5.0

// reconcileTolerance is the largest acceptable drift between the stored
// final score and the recomputed base plus bonus delta.
const reconcileTolerance = 0.1

// Caps bound the first two bonus line items. The remainder after capping
// is reported as an additional performance bonus.
type Caps struct {
	RecentActivity float64
	BrandTenure    float64
}

// DefaultCaps returns the standard line-item caps.
func DefaultCaps() Caps {
	return Caps{RecentActivity: 3.0, BrandTenure: 3.0}
}

// Component is one weighted slice of the base score.
type Component struct {
	Name          string  `json:"name"`
	Weight        int     `json:"weight"`
	RawScore      float64 `json:"rawScore"`
	WeightedScore float64 `json:"weightedScore"`
	Description   string  `json:"description"`
	Details       string  `json:"details"`
	IsGood        bool    `json:"isGood"`
}

// LineItem is a named bonus or penalty contribution.
type LineItem struct {
	Name        string  `json:"name"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// Breakdown is the full, auditable decomposition of a reliability score.
type Breakdown struct {
	FinalScore          float64     `json:"finalScore"`
	BaseScore           float64     `json:"baseScore"`
	Components          []Component `json:"components"`
	Bonuses             []LineItem  `json:"bonuses"`
	Penalties           []LineItem  `json:"penalties"`
	BonusesAndPenalties float64     `json:"bonusesAndPenalties"`
	BrandAge            float64     `json:"brandAge"`
	HasRecentProducts   bool        `json:"hasRecentProducts"`
	HasOldProducts      bool        `json:"hasOldProducts"`
	Explanation         string      `json:"explanation"`

	// Degraded marks a fallback breakdown built from a product-level
	// score because no company record was found.
	Degraded bool `json:"degraded"`

	// ReconciliationMismatch is set when the recomputed base plus delta
	// drifts from the stored final score by more than the tolerance.
	// The stored value is always reported as-is.
	ReconciliationMismatch bool `json:"reconciliationMismatch,omitempty"`
}

// Round1 rounds to one decimal place. Every value surfaced on a breakdown
// goes through this.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Compile builds a breakdown from a company record. The base score is the
// weighted sum of the four component scores; the stored reliability score
// is reported as the final score even when it disagrees with the
// recomputation (the mismatch is flagged, never corrected).
func Compile(c *company.Company, caps Caps) *Breakdown {
	components := []Component{
		{
			Name:          "Cancellation History",
			Weight:        40,
			RawScore:      Round1(c.CancelScore),
			WeightedScore: Round1(c.CancelScore * WeightCancellation),
			Description:   "Brand cancellation performance",
			Details:       "Score based on historical cancellation patterns",
			IsGood:        c.CancelScore >= ThresholdCancellation,
		},
		{
			Name:          "Category Portfolio",
			Weight:        25,
			RawScore:      Round1(c.CategoryScore),
			WeightedScore: Round1(c.CategoryScore * WeightCategory),
			Description:   "Product category diversity",
			Details:       "Points for operating across multiple categories",
			IsGood:        c.CategoryScore >= ThresholdCategory,
		},
		{
			Name:          "Business Stability",
			Weight:        20,
			RawScore:      Round1(c.PortfolioScore),
			WeightedScore: Round1(c.PortfolioScore * WeightStability),
			Description:   "Operational consistency",
			Details:       "Based on product approval rates and business maturity",
			IsGood:        c.PortfolioScore >= ThresholdStability,
		},
		{
			Name:          "Market Presence",
			Weight:        15,
			RawScore:      Round1(c.MarketScore),
			WeightedScore: Round1(c.MarketScore * WeightPresence),
			Description:   "Market footprint and scale",
			Details:       "Recognition for established market presence",
			IsGood:        c.MarketScore >= ThresholdPresence,
		},
	}

	base := Round1(c.CancelScore*WeightCancellation +
		c.CategoryScore*WeightCategory +
		c.PortfolioScore*WeightStability +
		c.MarketScore*WeightPresence)
	delta := Round1(c.BonusDelta())
	final := Round1(c.ReliabilityScore)

	b := &Breakdown{
		FinalScore:          final,
		BaseScore:           base,
		Components:          components,
		Bonuses:             []LineItem{},
		Penalties:           []LineItem{},
		BonusesAndPenalties: delta,
		BrandAge:            c.BrandAgeYears,
		HasRecentProducts:   c.HasRecentProducts,
		HasOldProducts:      c.HasOldProducts,
		Explanation: fmt.Sprintf(
			"Score calculated using advanced analytics on %s's complete product portfolio and regulatory history.",
			c.CompanyName),
	}

	itemize(b, c, caps)

	if math.Abs(Round1(base+delta)-final) > reconcileTolerance {
		b.ReconciliationMismatch = true
	}

	return b
}

// itemize decomposes the signed bonus delta into ordered line items. The
// arithmetic runs in integer tenths so the items always sum exactly to the
// one-decimal delta.
func itemize(b *Breakdown, c *company.Company, caps Caps) {
	tenths := int(math.Round(b.BonusesAndPenalties * 10))
	if tenths == 0 {
		return
	}

	if tenths < 0 {
		b.Penalties = append(b.Penalties, LineItem{
			Name:        "Risk Adjustments",
			Points:      b.BonusesAndPenalties,
			Description: "Adjustments based on risk factors and compliance issues",
		})
		return
	}

	remaining := tenths

	if c.HasRecentProducts && remaining > 0 {
		points := minInt(int(math.Round(caps.RecentActivity*10)), remaining)
		b.Bonuses = append(b.Bonuses, LineItem{
			Name:        "Recent Product Activity",
			Points:      float64(points) / 10,
			Description: "Active in launching new products recently",
		})
		remaining -= points
	}

	if c.BrandAgeYears >= EstablishedBrandYears && remaining > 0 {
		points := minInt(int(math.Round(caps.BrandTenure*10)), remaining)
		b.Bonuses = append(b.Bonuses, LineItem{
			Name:        "Established Brand",
			Points:      float64(points) / 10,
			Description: fmt.Sprintf("%.1f years of market experience", c.BrandAgeYears),
		})
		remaining -= points
	}

	if remaining > 0 {
		b.Bonuses = append(b.Bonuses, LineItem{
			Name:        "Additional Performance Bonuses",
			Points:      float64(remaining) / 10,
			Description: "Extra points for strong performance indicators",
		})
	}
}

// Fallback builds a degraded single-component breakdown from a product
// level reliability score, for companies with no stored record. A
// non-positive score falls back to a neutral 75.
func Fallback(productScore float64) *Breakdown {
	if productScore <= 0 {
		productScore = 75
	}
	s := Round1(productScore)

	return &Breakdown{
		FinalScore: s,
		BaseScore:  s,
		Components: []Component{
			{
				Name:          "Product Reliability Score",
				Weight:        100,
				RawScore:      s,
				WeightedScore: s,
				Description:   "Based on available product data",
				Details:       fmt.Sprintf("Individual product assessment: %.1f/100", s),
				IsGood:        s >= ThresholdCancellation,
			},
		},
		Bonuses:             []LineItem{},
		Penalties:           []LineItem{},
		BonusesAndPenalties: 0,
		Degraded:            true,
		Explanation: fmt.Sprintf(
			"Detailed brand analysis not available. Showing product-level reliability score of %.1f/100.", s),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
