package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

const orderColumns = `
	id, tracking_code, account_manager,
	client_name, client_email, client_phone,
	product_name, product_description, product_tiktok_link,
	payment_receipt_url, payment_receipt_number, special_requests,
	package, supplier_id, supplier_name, compliance,
	status, progress, supplier_progress,
	affiliates, content_guidelines, notes, status_history,
	supplier_payment_status, supplier_payment_date,
	supplier_payment_proof_url, supplier_payment_verified_date,
	client_shipment_proof_url, created_at, updated_at`

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation of OrderRepository.
// The persisted shape is canonical and flat: scalar fields are typed columns,
// the checklists and append-only sequences are dedicated jsonb columns. There
// is no opaque wrapper document.
func NewOrderRepository(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Insert(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return domain.ErrInvalidPayload
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO orders (` + orderColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)
	`

	if _, err := r.pool.Exec(ctx, query, r.args(order)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTrackingCodeTaken
		}
		return domain.WrapError(domain.ErrCodeStorage, "insert order", err)
	}
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE orders SET
		account_manager = $3,
		client_name = $4, client_email = $5, client_phone = $6,
		product_name = $7, product_description = $8, product_tiktok_link = $9,
		payment_receipt_url = $10, payment_receipt_number = $11, special_requests = $12,
		package = $13, supplier_id = $14, supplier_name = $15, compliance = $16,
		status = $17, progress = $18, supplier_progress = $19,
		affiliates = $20, content_guidelines = $21, notes = $22, status_history = $23,
		supplier_payment_status = $24, supplier_payment_date = $25,
		supplier_payment_proof_url = $26, supplier_payment_verified_date = $27,
		client_shipment_proof_url = $28, updated_at = $30
	WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, r.args(order)...)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "update order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM orders WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) FindByTrackingCode(ctx context.Context, code string) (*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE tracking_code = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, code))
}

func (r *orderRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE supplier_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, supplierID)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "query orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "iterate orders", err)
	}
	return orders, nil
}

func (r *orderRepository) args(order *domain.Order) []interface{} {
	return []interface{}{
		order.ID,
		order.TrackingCode,
		order.AccountManager,
		order.ClientName,
		order.ClientEmail,
		order.ClientPhone,
		order.ProductName,
		order.ProductDescription,
		order.ProductTikTokLink,
		order.PaymentReceiptURL,
		order.PaymentReceiptNumber,
		order.SpecialRequests,
		marshalJSON(order.Package),
		nullString(order.SupplierID),
		order.SupplierName,
		marshalJSON(order.Compliance),
		string(order.Status),
		marshalJSON(order.Progress),
		marshalJSON(order.SupplierProgress),
		marshalJSON(order.Affiliates),
		order.ContentGuidelines,
		marshalJSON(order.Notes),
		marshalJSON(order.StatusHistory),
		string(order.SupplierPaymentStatus),
		order.SupplierPaymentDate,
		order.SupplierPaymentProofURL,
		order.SupplierPaymentVerifiedDate,
		order.ClientShipmentProofURL,
		order.CreatedAt,
		order.UpdatedAt,
	}
}

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	var (
		order         domain.Order
		status        string
		paymentStatus string
		supplierID    *string
		paymentDate   *time.Time
		verifiedDate  *time.Time
		pkg           []byte
		compliance    []byte
		progress      []byte
		supplierProg  []byte
		affiliates    []byte
		notes         []byte
		history       []byte
	)

	if err := row.Scan(
		&order.ID,
		&order.TrackingCode,
		&order.AccountManager,
		&order.ClientName,
		&order.ClientEmail,
		&order.ClientPhone,
		&order.ProductName,
		&order.ProductDescription,
		&order.ProductTikTokLink,
		&order.PaymentReceiptURL,
		&order.PaymentReceiptNumber,
		&order.SpecialRequests,
		&pkg,
		&supplierID,
		&order.SupplierName,
		&compliance,
		&status,
		&progress,
		&supplierProg,
		&affiliates,
		&order.ContentGuidelines,
		&notes,
		&history,
		&paymentStatus,
		&paymentDate,
		&order.SupplierPaymentProofURL,
		&verifiedDate,
		&order.ClientShipmentProofURL,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeStorage, "scan order", err)
	}

	order.Status = domain.OrderStatus(status)
	order.SupplierPaymentStatus = domain.PaymentStatus(paymentStatus)
	if supplierID != nil {
		order.SupplierID = *supplierID
	}
	order.SupplierPaymentDate = paymentDate
	order.SupplierPaymentVerifiedDate = verifiedDate

	unmarshalJSON(pkg, &order.Package)
	unmarshalJSON(compliance, &order.Compliance)
	unmarshalJSON(progress, &order.Progress)
	unmarshalJSON(supplierProg, &order.SupplierProgress)
	unmarshalJSON(affiliates, &order.Affiliates)
	unmarshalJSON(notes, &order.Notes)
	unmarshalJSON(history, &order.StatusHistory)
	if order.Affiliates == nil {
		order.Affiliates = []domain.Affiliate{}
	}

	return &order, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func unmarshalJSON(data []byte, out interface{}) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, out)
}
