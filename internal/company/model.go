// Package company provides company records, derived brand statistics, and
// the name-matching lookup used by the reliability score compiler.
package company

import (
	"math"
)

// Company is a registered notification holder with its pre-computed score
// components. Component scores and bonuses are produced by an offline
// pipeline; this service reads them as-is.
type Company struct {
	CompanyName      string  `json:"company_name"`
	NumApproved      int     `json:"num_approved"`
	NumCancelled     int     `json:"num_cancelled"`
	ReliabilityScore float64 `json:"reliability_score"`

	// Component scores on a 0-100 scale.
	CancelScore    float64 `json:"cancel_score"`
	CategoryScore  float64 `json:"category_score"`
	PortfolioScore float64 `json:"portfolio_score"`
	MarketScore    float64 `json:"market_score"`

	// Signed adjustments applied on top of the weighted base.
	TimeBonus  float64 `json:"time_bonus"`
	ExpPenalty float64 `json:"exp_penalty"`

	// Brand maturity flags used to itemize the bonus delta.
	BrandAgeYears     float64 `json:"brand_age_years"`
	HasRecentProducts bool    `json:"has_recent_products"`
	HasOldProducts    bool    `json:"has_old_products"`
}

// BonusDelta returns the total signed bonus/penalty adjustment.
func (c *Company) BonusDelta() float64 {
	return c.TimeBonus + c.ExpPenalty
}

// BrandStats is the consumer-facing statistics view of a company.
type BrandStats struct {
	Brand            string  `json:"brand"`
	ProductApproved  int     `json:"product_approved"`
	ProductCancelled int     `json:"product_cancelled"`
	TotalProducts    int     `json:"total_products"`
	CancellationRate float64 `json:"cancellation_rate"`
	ReliabilityScore float64 `json:"reliability_score"`
	CancelScore      float64 `json:"cancel_score"`
	CategoryScore    float64 `json:"category_score"`
	PortfolioScore   float64 `json:"portfolio_score"`
	MarketScore      float64 `json:"market_score"`
	TimeBonus        float64 `json:"time_bonus"`
	ExpPenalty       float64 `json:"exp_penalty"`
}

// Stats derives the statistics view: total product count and cancellation
// rate as a percentage rounded to two decimals. A company with no products
// has a zero rate.
func (c *Company) Stats() BrandStats {
	total := c.NumApproved + c.NumCancelled

	rate := 0.0
	if total > 0 {
		rate = float64(c.NumCancelled) / float64(total) * 100
		rate = math.Round(rate*100) / 100
	}

	return BrandStats{
		Brand:            c.CompanyName,
		ProductApproved:  c.NumApproved,
		ProductCancelled: c.NumCancelled,
		TotalProducts:    total,
		CancellationRate: rate,
		ReliabilityScore: c.ReliabilityScore,
		CancelScore:      c.CancelScore,
		CategoryScore:    c.CategoryScore,
		PortfolioScore:   c.PortfolioScore,
		MarketScore:      c.MarketScore,
		TimeBonus:        c.TimeBonus,
		ExpPenalty:       c.ExpPenalty,
	}
}
