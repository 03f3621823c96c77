package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// TierPricing is the configured price point for one tier
type TierPricing struct {
	// BasePrice is the monthly price in whole VND
	BasePrice int64
	// MinDurationMonths is the shortest billing period the tier sells in
	MinDurationMonths int
}

// Table maps each tier to its configured pricing
type Table map[domain.Tier]TierPricing

// DefaultTable returns the standard VND price list
func DefaultTable() Table {
	return Table{
		domain.TierFree:    {BasePrice: 0, MinDurationMonths: 1},
		domain.TierPremium: {BasePrice: 250000, MinDurationMonths: 1},
		domain.TierGold:    {BasePrice: 450000, MinDurationMonths: 1},
		domain.TierDiamond: {BasePrice: 750000, MinDurationMonths: domain.DiamondDurationMonths},
	}
}

// discountBrackets maps a minimum commitment length to a percentage off the
// full base*months price. Brackets are cumulative-commitment rewards: a
// duration takes the highest bracket it reaches, so the effective monthly
// price never increases with a longer commitment.
var discountBrackets = []struct {
	months  int
	percent int
}{
	{12, 30},
	{6, 20},
	{3, 10},
	{1, 0},
}

// NationwideMultiplierPercent is applied to the base monthly price when a
// posting targets all regions instead of one locale. 150 = 1.5x.
const NationwideMultiplierPercent = 150

// Calculator computes posting prices from an injected tier table
type Calculator struct {
	table   Table
	printer *message.Printer
}

// NewCalculator creates a calculator over the given table. A nil table uses
// the default VND price list.
func NewCalculator(table Table) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	return &Calculator{
		table:   table,
		printer: message.NewPrinter(language.Vietnamese),
	}
}

// Calculate derives the full price breakdown for one pricing selection.
// Pure: identical options always produce an identical breakdown.
func (c *Calculator) Calculate(opts domain.PricingOptions) domain.CalculatedPrice {
	tier := opts.SelectedTier

	// Free tier is a trial available on the first post only; an ineligible
	// free selection is repriced at the premium base.
	if tier == domain.TierFree {
		if opts.IsFirstPost {
			return domain.CalculatedPrice{
				OriginalPrice:      0,
				FinalPrice:         0,
				DiscountPercent:    0,
				CurrencyCode:       "VND",
				OriginalFormatted:  c.format(0),
				FinalFormatted:     c.format(0),
				IsFreeTrial:        true,
				IsRecurringBilling: false,
			}
		}
		tier = domain.TierPremium
	}

	tp, ok := c.table[tier]
	if !ok {
		tp = c.table[domain.TierPremium]
	}

	months := opts.DurationMonths
	if months < tp.MinDurationMonths {
		months = tp.MinDurationMonths
	}

	monthly := tp.BasePrice
	if opts.IsNationwide {
		monthly = monthly * NationwideMultiplierPercent / 100
	}

	original := monthly * int64(months)
	discount := discountFor(months)
	final := original * int64(100-discount) / 100

	return domain.CalculatedPrice{
		OriginalPrice:      original,
		FinalPrice:         final,
		DiscountPercent:    discount,
		CurrencyCode:       "VND",
		OriginalFormatted:  c.format(original),
		FinalFormatted:     c.format(final),
		IsFreeTrial:        false,
		IsRecurringBilling: opts.AutoRenew,
	}
}

// discountFor returns the percentage off for a commitment length
func discountFor(months int) int {
	for _, b := range discountBrackets {
		if months >= b.months {
			return b.percent
		}
	}
	return 0
}

// format renders an amount as a Vietnamese-locale currency string, e.g.
// "250.000 ₫". VND has no minor unit, so amounts are whole dong.
func (c *Calculator) format(amount int64) string {
	return c.printer.Sprintf("%d ₫", amount)
}
