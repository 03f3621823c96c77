// smoketest drives one full wizard session against live Redis: rehydrate,
// fill a draft, pick a tier, submit, and leave the posting on the creation
// queue for the worker. Run it after deploying infrastructure changes.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-nvt/posting-engine/internal/config"
	"github.com/project-nvt/posting-engine/internal/domain"
	"github.com/project-nvt/posting-engine/internal/persist"
	"github.com/project-nvt/posting-engine/internal/submit"
	"github.com/project-nvt/posting-engine/internal/telemetry"
	"github.com/project-nvt/posting-engine/internal/wizard"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	owner := flag.String("owner", "smoketest-user", "owner user ID for the test posting")
	keep := flag.Bool("keep", false, "leave the draft snapshot in place instead of resetting")
	flag.Parse()

	cfg := config.Load()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	snapshotKey := cfg.Wizard.SnapshotKeyPrefix + ":" + *owner
	store := wizard.NewStore(ctx, wizard.Options{
		Snapshots: persist.NewRedisStore(rdb, snapshotKey, cfg.Wizard.SnapshotTTL),
		Events:    telemetry.NewRedisSink(rdb, cfg.Redis.AnalyticsQueue, 0),
		Errors:    telemetry.LogErrorSink{},
	})
	if err := store.LastRehydrationError(); err != nil {
		log.Printf("rehydration fell back to fresh state: %v", err)
	}

	store.Dispatch(wizard.UpdateJobData{Patch: wizard.JobDraftPatch{
		Title:        ptr("Smoke Test - Nail Tech"),
		Location:     ptr("Garden Grove, CA"),
		ContactEmail: ptr("smoketest@example.com"),
		Description:  ptr("Synthetic posting created by the smoketest tool"),
	}})
	store.Dispatch(wizard.SetStep{Step: domain.StepPricing})
	store.Dispatch(wizard.UpdatePricingOptions{Patch: wizard.PricingPatch{
		SelectedTier: tier(domain.TierGold),
	}})
	store.Dispatch(wizard.SetStep{Step: domain.StepReview})

	state := store.State()
	log.Printf("Quoted price: %s (%d%% off %s)",
		state.Price.FinalFormatted, state.Price.DiscountPercent, state.Price.OriginalFormatted)

	svc := submit.NewService(store, submit.NewPublisher(rdb, cfg.Redis.SubmissionQueue))
	payload, err := svc.Submit(ctx, *owner)
	if err != nil {
		log.Fatalf("Submit failed: %v", err)
	}
	log.Printf("Posting %s queued on %s", payload.ID, cfg.Redis.SubmissionQueue)

	if !*keep {
		store.Dispatch(wizard.ResetForm{})
	}
	store.Flush()
	log.Println("Smoke test complete")
}

func ptr(s string) *string            { return &s }
func tier(t domain.Tier) *domain.Tier { return &t }
