package indexer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// PostgresIndexer persists postings to PostgreSQL
type PostgresIndexer struct {
	db        *sql.DB
	tableName string
}

// NewPostgresIndexer opens a connection and ensures the postings table exists
func NewPostgresIndexer(connStr string, tableName string) (*PostgresIndexer, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	idx := &PostgresIndexer{
		db:        db,
		tableName: tableName,
	}

	if err := idx.ensureTable(); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	return idx, nil
}

func (i *PostgresIndexer) ensureTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			owner_user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			location TEXT NOT NULL,
			description TEXT,
			description_vi TEXT,
			contact_email TEXT,
			contact_phone TEXT,
			owner_name TEXT,
			zalo_handle TEXT,
			salary TEXT,
			employment_type TEXT,
			requirements TEXT[],
			specialties TEXT[],
			weekly_pay BOOLEAN DEFAULT FALSE,
			has_housing BOOLEAN DEFAULT FALSE,
			no_supply_deduction BOOLEAN DEFAULT FALSE,
			owner_will_train BOOLEAN DEFAULT FALSE,
			is_urgent BOOLEAN DEFAULT FALSE,
			is_nationwide BOOLEAN DEFAULT FALSE,
			tier TEXT NOT NULL,
			duration_months INTEGER NOT NULL,
			auto_renew BOOLEAN DEFAULT FALSE,
			final_price BIGINT NOT NULL,
			currency_code TEXT NOT NULL,
			submitted_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, i.tableName)

	_, err := i.db.Exec(query)
	return err
}

// Index upserts a single posting
func (i *PostgresIndexer) Index(ctx context.Context, p *domain.SubmissionPayload) error {
	return i.index(ctx, i.db, p)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (i *PostgresIndexer) index(ctx context.Context, ex execer, p *domain.SubmissionPayload) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, owner_user_id, title, location, description, description_vi,
			contact_email, contact_phone, owner_name, zalo_handle,
			salary, employment_type, requirements, specialties,
			weekly_pay, has_housing, no_supply_deduction, owner_will_train, is_urgent, is_nationwide,
			tier, duration_months, auto_renew, final_price, currency_code, submitted_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			description_vi = EXCLUDED.description_vi,
			contact_email = EXCLUDED.contact_email,
			contact_phone = EXCLUDED.contact_phone,
			owner_name = EXCLUDED.owner_name,
			zalo_handle = EXCLUDED.zalo_handle,
			salary = EXCLUDED.salary,
			employment_type = EXCLUDED.employment_type,
			requirements = EXCLUDED.requirements,
			specialties = EXCLUDED.specialties,
			weekly_pay = EXCLUDED.weekly_pay,
			has_housing = EXCLUDED.has_housing,
			no_supply_deduction = EXCLUDED.no_supply_deduction,
			owner_will_train = EXCLUDED.owner_will_train,
			is_urgent = EXCLUDED.is_urgent,
			is_nationwide = EXCLUDED.is_nationwide,
			tier = EXCLUDED.tier,
			duration_months = EXCLUDED.duration_months,
			auto_renew = EXCLUDED.auto_renew,
			final_price = EXCLUDED.final_price,
			currency_code = EXCLUDED.currency_code,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = NOW()
	`, i.tableName)

	_, err := ex.ExecContext(ctx, query,
		p.ID, p.OwnerUserID, p.Title, p.Location, p.Description, p.DescriptionVI,
		p.ContactEmail, p.ContactPhone, p.OwnerName, p.ZaloHandle,
		p.Salary, p.EmploymentType, pq.Array(p.Requirements), pq.Array(p.Specialties),
		p.WeeklyPay, p.HasHousing, p.NoSupplyDeduction, p.OwnerWillTrain, p.IsUrgent, p.IsNationwide,
		string(p.Tier), p.DurationMonths, p.AutoRenew, p.FinalPrice, p.CurrencyCode, p.SubmittedAt,
	)

	return err
}

// BulkIndex upserts a batch inside one transaction
func (i *PostgresIndexer) BulkIndex(ctx context.Context, payloads []*domain.SubmissionPayload) error {
	if len(payloads) == 0 {
		return nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range payloads {
		if err := i.index(ctx, tx, p); err != nil {
			return fmt.Errorf("index posting %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Close closes the underlying connection pool
func (i *PostgresIndexer) Close() error {
	return i.db.Close()
}
