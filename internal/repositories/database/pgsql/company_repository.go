package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) *PgxCompanyRepository {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanySettingsRepositoryFacade = (*PgxCompanyRepository)(nil)

func (r *PgxCompanyRepository) FindCompanySettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	settings := domain.CompanySettings{CompanyID: companyID}
	err := r.Pool.QueryRow(ctx,
		`SELECT allow_negative_balance FROM company_settings WHERE company_id = $1;`, companyID,
	).Scan(&settings.AllowNegativeBalance)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to read settings of company %s", companyID))
	}
	return &settings, nil
}

func (r *PgxCompanyRepository) SaveCompanySettings(ctx context.Context, settings domain.CompanySettings) error {
	query := `
		INSERT INTO company_settings (company_id, allow_negative_balance)
		VALUES ($1, $2)
		ON CONFLICT (company_id) DO UPDATE SET allow_negative_balance = EXCLUDED.allow_negative_balance;
	`
	_, err := r.Pool.Exec(ctx, query, settings.CompanyID, settings.AllowNegativeBalance)
	return mapPgError(err, fmt.Sprintf("failed to save settings of company %s", settings.CompanyID))
}
