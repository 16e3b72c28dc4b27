package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

const packageColumns = `
	id, name, affiliate_count, video_count_per_affiliate, total_videos,
	original_price, current_price, supplier_cost, commission_rate,
	description, image_path, is_active, created_at, updated_at`

type packageRepository struct {
	pool *pgxpool.Pool
}

// NewPackageRepository returns a Postgres-backed implementation of PackageRepository.
func NewPackageRepository(pool *pgxpool.Pool) repository.PackageRepository {
	return &packageRepository{pool: pool}
}

func (r *packageRepository) Insert(ctx context.Context, pkg *domain.CampaignPackage) error {
	if pkg == nil {
		return domain.ErrInvalidPayload
	}
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO packages (` + packageColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := r.pool.Exec(ctx, query, r.args(pkg)...); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "insert package", err)
	}
	return nil
}

func (r *packageRepository) Update(ctx context.Context, pkg *domain.CampaignPackage) error {
	if pkg == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE packages SET
		name = $2, affiliate_count = $3, video_count_per_affiliate = $4, total_videos = $5,
		original_price = $6, current_price = $7, supplier_cost = $8, commission_rate = $9,
		description = $10, image_path = $11, is_active = $12, updated_at = $14
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, r.args(pkg)...)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "update package", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

func (r *packageRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM packages WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "delete package", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

func (r *packageRepository) FindAll(ctx context.Context) ([]domain.CampaignPackage, error) {
	const query = `SELECT ` + packageColumns + ` FROM packages ORDER BY affiliate_count`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "query packages", err)
	}
	defer rows.Close()

	var packages []domain.CampaignPackage
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "iterate packages", err)
	}
	return packages, nil
}

func (r *packageRepository) FindByID(ctx context.Context, id string) (*domain.CampaignPackage, error) {
	const query = `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	return scanPackage(r.pool.QueryRow(ctx, query, id))
}

func (r *packageRepository) args(pkg *domain.CampaignPackage) []interface{} {
	return []interface{}{
		pkg.ID,
		pkg.Name,
		pkg.AffiliateCount,
		pkg.VideoCountPerAffiliate,
		pkg.TotalVideos,
		pkg.OriginalPrice,
		pkg.CurrentPrice,
		pkg.SupplierCost,
		pkg.CommissionRate,
		pkg.Description,
		pkg.ImagePath,
		pkg.IsActive,
		pkg.CreatedAt,
		pkg.UpdatedAt,
	}
}

func scanPackage(row interface {
	Scan(dest ...interface{}) error
}) (*domain.CampaignPackage, error) {
	var pkg domain.CampaignPackage
	if err := row.Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.AffiliateCount,
		&pkg.VideoCountPerAffiliate,
		&pkg.TotalVideos,
		&pkg.OriginalPrice,
		&pkg.CurrentPrice,
		&pkg.SupplierCost,
		&pkg.CommissionRate,
		&pkg.Description,
		&pkg.ImagePath,
		&pkg.IsActive,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeStorage, "scan package", err)
	}
	return &pkg, nil
}
