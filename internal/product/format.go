package product

import (
	"math"
	"time"

	"github.com/Edmund-Gan/mycosmetic2/internal/cache"
)

// Formatted is the display view of a product: the risk score resolved
// through status fallbacks, its risk tier, and presentation fields.
type Formatted struct {
	NotifNo            string   `json:"notifNo"`
	Name               string   `json:"name"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Status             string   `json:"status"`
	RiskScore          float64  `json:"riskScore"`
	RiskLevel          string   `json:"riskLevel"`
	HarmfulIngredients []string `json:"harmfulIngredients"`
	DateNotified       string   `json:"dateNotified"`
	Manufacturer       string   `json:"manufacturer,omitempty"`
}

// Formatter converts products into their display view, memoizing per
// notification code.
type Formatter struct {
	cache *cache.FIFO[*Formatted]
}

// NewFormatter creates a Formatter whose memo holds up to capacity
// entries, evicting the oldest.
func NewFormatter(capacity int) *Formatter {
	return &Formatter{cache: cache.NewFIFO[*Formatted](capacity)}
}

// Format returns the display view of a product. Repeat calls for the
// same notification code return the cached view.
func (f *Formatter) Format(p *Product) *Formatted {
	if v, ok := f.cache.Get(p.NotifNo); ok {
		return v
	}

	score := math.Round(riskScore(p)*10) / 10
	ingredients := p.HarmfulIngredients
	if ingredients == nil {
		ingredients = []string{}
	}

	out := &Formatted{
		NotifNo:            p.NotifNo,
		Name:               p.Product,
		Brand:              p.Company,
		Category:           p.Category,
		Status:             p.Status,
		RiskScore:          score,
		RiskLevel:          RiskLevel(score),
		HarmfulIngredients: ingredients,
		DateNotified:       p.DateNotif.Format(time.DateOnly),
		Manufacturer:       p.Manufacturer,
	}
	f.cache.Put(p.NotifNo, out)
	return out
}

// FormatAll maps a product slice to display views.
func (f *Formatter) FormatAll(products []Product) []*Formatted {
	out := make([]*Formatted, len(products))
	for i := range products {
		out[i] = f.Format(&products[i])
	}
	return out
}
