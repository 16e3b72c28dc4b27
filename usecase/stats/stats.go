package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/repository"
)

// Dashboard holds the headline aggregates shown on the admin landing page.
type Dashboard struct {
	TotalOrders     int     `json:"total_orders"`
	ActiveOrders    int     `json:"active_orders"`
	CompletedOrders int     `json:"completed_orders"`
	PendingPayment  int     `json:"pending_payment"`
	PendingPayments int     `json:"pending_verifications"`
	DisputedCount   int     `json:"disputed_payments"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalProfit     float64 `json:"total_profit"`
}

// UseCase derives read-only aggregates and exports over the order book.
type UseCase struct {
	orders repository.OrderRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(orders repository.OrderRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		orders: orders,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard computes the aggregates in a single pass. Revenue and profit only
// count orders whose client has actually paid.
func (uc *UseCase) Dashboard(ctx context.Context, actor domain.Actor) (*Dashboard, error) {
	if !actor.CanManageAgency() {
		return nil, domain.ErrForbidden
	}
	orders, err := uc.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{TotalOrders: len(orders)}
	for i := range orders {
		order := &orders[i]
		switch order.Status {
		case domain.StatusCompleted:
			out.CompletedOrders++
		case domain.StatusCancelled:
		case domain.StatusPendingPayment:
			out.PendingPayment++
			out.ActiveOrders++
		default:
			out.ActiveOrders++
		}
		switch order.SupplierPaymentStatus {
		case domain.PaymentPendingVerification:
			out.PendingPayments++
		case domain.PaymentDisputed:
			out.DisputedCount++
		}
		if order.Progress.ClientPaid {
			out.TotalRevenue += order.Package.PriceClient
			out.TotalProfit += order.Package.Profit
		}
	}
	return out, nil
}

// csvHeader is the column layout of the order export.
var csvHeader = []string{
	"tracking_code", "client_name", "client_email", "product_name",
	"package_type", "affiliate_count", "total_videos",
	"price_client", "cost_supplier", "profit",
	"status", "friendly_status", "percent_complete",
	"supplier_name", "supplier_payment_status", "created_at",
}

// ExportCSV renders the full order book as CSV rows, header first.
func (uc *UseCase) ExportCSV(ctx context.Context, actor domain.Actor) ([][]string, error) {
	if !actor.CanManageAgency() {
		return nil, domain.ErrForbidden
	}
	orders, err := uc.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(orders)+1)
	rows = append(rows, csvHeader)
	for i := range orders {
		order := &orders[i]
		rows = append(rows, []string{
			order.TrackingCode,
			order.ClientName,
			order.ClientEmail,
			order.ProductName,
			order.Package.PackageType,
			strconv.Itoa(order.Package.AffiliateCount),
			strconv.Itoa(order.Package.TotalVideos),
			fmt.Sprintf("%.2f", order.Package.PriceClient),
			fmt.Sprintf("%.2f", order.Package.CostSupplier),
			fmt.Sprintf("%.2f", order.Package.Profit),
			string(order.Status),
			domain.FriendlyStatus(order),
			strconv.Itoa(order.Progress.PercentComplete()),
			order.SupplierName,
			string(order.SupplierPaymentStatus),
			order.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}
