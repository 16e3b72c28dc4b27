package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

const supplierColumns = `
	id, name, email, phone, active,
	company_name, address,
	backup_contact_name, backup_contact_email, backup_contact_phone,
	business_registration_number, bank_account_number, bank_name,
	notes, created_at, updated_at`

type supplierRepository struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository returns a Postgres-backed implementation of SupplierRepository.
func NewSupplierRepository(pool *pgxpool.Pool) repository.SupplierRepository {
	return &supplierRepository{pool: pool}
}

func (r *supplierRepository) Insert(ctx context.Context, supplier *domain.Supplier) error {
	if supplier == nil {
		return domain.ErrInvalidPayload
	}
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO suppliers (` + supplierColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	if _, err := r.pool.Exec(ctx, query, r.args(supplier)...); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "insert supplier", err)
	}
	return nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	if supplier == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE suppliers SET
		name = $2, email = $3, phone = $4, active = $5,
		company_name = $6, address = $7,
		backup_contact_name = $8, backup_contact_email = $9, backup_contact_phone = $10,
		business_registration_number = $11, bank_account_number = $12, bank_name = $13,
		notes = $14, updated_at = $16
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, r.args(supplier)...)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "update supplier", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM suppliers WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "delete supplier", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func (r *supplierRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "query suppliers", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "iterate suppliers", err)
	}
	return suppliers, nil
}

func (r *supplierRepository) FindByID(ctx context.Context, id string) (*domain.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	return scanSupplier(r.pool.QueryRow(ctx, query, id))
}

func (r *supplierRepository) FindByEmail(ctx context.Context, email string) (*domain.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers WHERE lower(email) = $1`
	return scanSupplier(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *supplierRepository) args(supplier *domain.Supplier) []interface{} {
	return []interface{}{
		supplier.ID,
		supplier.Name,
		supplier.Email,
		supplier.Phone,
		supplier.Active,
		supplier.CompanyName,
		supplier.Address,
		supplier.BackupContactName,
		supplier.BackupContactEmail,
		supplier.BackupContactPhone,
		supplier.BusinessRegistrationNumber,
		supplier.BankAccountNumber,
		supplier.BankName,
		supplier.Notes,
		supplier.CreatedAt,
		supplier.UpdatedAt,
	}
}

func scanSupplier(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Supplier, error) {
	var supplier domain.Supplier
	if err := row.Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Email,
		&supplier.Phone,
		&supplier.Active,
		&supplier.CompanyName,
		&supplier.Address,
		&supplier.BackupContactName,
		&supplier.BackupContactEmail,
		&supplier.BackupContactPhone,
		&supplier.BusinessRegistrationNumber,
		&supplier.BankAccountNumber,
		&supplier.BankName,
		&supplier.Notes,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSupplierNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeStorage, "scan supplier", err)
	}
	return &supplier, nil
}
