// pricequote prints the price breakdown for a posting tier selection.
// Useful for checking the configured price list against what the wizard
// will show.
//
// Usage:
//
//	pricequote -tier diamond -months 12 -nationwide
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/project-nvt/posting-engine/internal/domain"
	"github.com/project-nvt/posting-engine/internal/pricing"
)

func main() {
	tier := flag.String("tier", "premium", "pricing tier: free, premium, gold, diamond")
	months := flag.Int("months", 1, "billing duration in months")
	autoRenew := flag.Bool("renew", true, "auto-renew at the end of the period")
	firstPost := flag.Bool("first-post", false, "this is the owner's first posting")
	nationwide := flag.Bool("nationwide", false, "show the posting in all regions")
	flag.Parse()

	opts := domain.PricingOptions{
		SelectedTier:   domain.Tier(*tier),
		DurationMonths: *months,
		AutoRenew:      *autoRenew,
		IsFirstPost:    *firstPost,
		IsNationwide:   *nationwide,
	}

	switch opts.SelectedTier {
	case domain.TierFree, domain.TierPremium, domain.TierGold, domain.TierDiamond:
	default:
		log.Fatalf("unknown tier %q", *tier)
	}
	if opts.SelectedTier == domain.TierDiamond {
		opts.DurationMonths = domain.DiamondDurationMonths
	}

	calc := pricing.NewCalculator(nil)
	price := calc.Calculate(opts)

	fmt.Printf("Tier:       %s\n", opts.SelectedTier)
	fmt.Printf("Duration:   %d month(s)\n", opts.DurationMonths)
	fmt.Printf("Nationwide: %v\n", opts.IsNationwide)
	fmt.Printf("Original:   %s\n", price.OriginalFormatted)
	if price.DiscountPercent > 0 {
		fmt.Printf("Discount:   %d%%\n", price.DiscountPercent)
	}
	fmt.Printf("Final:      %s\n", price.FinalFormatted)
	if price.IsFreeTrial {
		fmt.Println("Free trial posting")
	}
	if price.IsRecurringBilling {
		fmt.Println("Renews automatically")
	}
}
