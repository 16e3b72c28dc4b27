package domain

import (
	"crypto/rand"
	"time"
)

// OrderStatus is the coarse lifecycle state stored on the order.
type OrderStatus string

const (
	StatusPendingPayment      OrderStatus = "PENDING_PAYMENT"
	StatusPaid                OrderStatus = "PAID"
	StatusAffiliatesSubmitted OrderStatus = "AFFILIATES_SUBMITTED"
	StatusSamplesShipped      OrderStatus = "SAMPLES_SHIPPED"
	StatusProductionStarted   OrderStatus = "PRODUCTION_STARTED"
	StatusCompleted           OrderStatus = "COMPLETED"
	StatusCancelled           OrderStatus = "CANCELLED"
)

// PaymentStatus is the supplier payment sub-state machine:
// unpaid -> pending_verification -> {verified, disputed}.
type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "unpaid"
	PaymentPendingVerification PaymentStatus = "pending_verification"
	PaymentVerified            PaymentStatus = "verified"
	PaymentDisputed            PaymentStatus = "disputed"
)

// ComplianceChecklist holds the five pre-conditions confirmed with the client
// before an order may be created.
type ComplianceChecklist struct {
	CommissionSet             bool `json:"commission_set"`
	TermsAcknowledged         bool `json:"terms_acknowledged"`
	VerbalBriefing            bool `json:"verbal_briefing"`
	ShippingAcknowledged      bool `json:"shipping_acknowledged"`
	ContentGuidelinesProvided bool `json:"content_guidelines_provided"`
}

// Missing returns the names of unchecked items, in checklist order.
func (c ComplianceChecklist) Missing() []string {
	var missing []string
	items := []struct {
		name string
		done bool
	}{
		{"commissionSet", c.CommissionSet},
		{"termsAcknowledged", c.TermsAcknowledged},
		{"verbalBriefing", c.VerbalBriefing},
		{"shippingAcknowledged", c.ShippingAcknowledged},
		{"contentGuidelinesProvided", c.ContentGuidelinesProvided},
	}
	for _, item := range items {
		if !item.done {
			missing = append(missing, item.name)
		}
	}
	return missing
}

func (c ComplianceChecklist) Complete() bool {
	return len(c.Missing()) == 0
}

// PackageSnapshot freezes the package economics at order creation time so
// later package edits never change an existing order.
type PackageSnapshot struct {
	PackageID              string  `json:"package_id,omitempty"`
	PackageType            string  `json:"package_type"`
	AffiliateCount         int     `json:"affiliate_count"`
	VideoCountPerAffiliate int     `json:"video_count_per_affiliate"`
	TotalVideos            int     `json:"total_videos"`
	PriceClient            float64 `json:"price_client"`
	PriceDiscount          float64 `json:"price_discount,omitempty"`
	CostSupplier           float64 `json:"cost_supplier"`
	Profit                 float64 `json:"profit"`
	CommissionRate         float64 `json:"commission_rate,omitempty"`
}

// Validate checks the snapshot invariants before it is bound to an order.
func (s PackageSnapshot) Validate() error {
	if s.AffiliateCount <= 0 {
		return NewError(ErrCodeInvalidPackage, "package must include at least one affiliate")
	}
	if s.VideoCountPerAffiliate <= 0 {
		return NewError(ErrCodeInvalidPackage, "package must include at least one video per affiliate")
	}
	if s.TotalVideos != s.AffiliateCount*s.VideoCountPerAffiliate {
		return NewError(ErrCodeInvalidPackage, "total videos must equal affiliate count times videos per affiliate")
	}
	return nil
}

// Affiliate is a roster entry attached to an order.
type Affiliate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TikTokHandle   string `json:"tiktok_handle"`
	ProfileURL     string `json:"profile_url,omitempty"`
	SampleReceived bool   `json:"sample_received"`
	VideoCompleted bool   `json:"video_completed"`
	VideoURL       string `json:"video_url,omitempty"`
}

// Order is the central aggregate tracked by the dashboard.
type Order struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`

	AccountManager string `json:"account_manager,omitempty"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`

	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description,omitempty"`
	ProductTikTokLink  string `json:"product_tiktok_link,omitempty"`

	PaymentReceiptURL    string `json:"payment_receipt_url,omitempty"`
	PaymentReceiptNumber string `json:"payment_receipt_number,omitempty"`
	SpecialRequests      string `json:"special_requests,omitempty"`

	Package PackageSnapshot `json:"package"`

	SupplierID   string `json:"supplier_id,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`

	Compliance ComplianceChecklist `json:"compliance"`

	Status           OrderStatus      `json:"status"`
	Progress         AgencyProgress   `json:"progress"`
	SupplierProgress SupplierProgress `json:"supplier_progress"`

	Affiliates        []Affiliate          `json:"affiliates"`
	ContentGuidelines string               `json:"content_guidelines,omitempty"`
	Notes             []OrderNote          `json:"notes,omitempty"`
	StatusHistory     []StatusHistoryEntry `json:"status_history,omitempty"`

	SupplierPaymentStatus       PaymentStatus `json:"supplier_payment_status"`
	SupplierPaymentDate         *time.Time    `json:"supplier_payment_date,omitempty"`
	SupplierPaymentProofURL     string        `json:"supplier_payment_proof_url,omitempty"`
	SupplierPaymentVerifiedDate *time.Time    `json:"supplier_payment_verified_date,omitempty"`

	ClientShipmentProofURL string `json:"client_shipment_proof_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecomputeProfit keeps the profit invariant: it is always derived from the
// snapshot, never edited independently.
func (o *Order) RecomputeProfit() {
	o.Package.Profit = o.Package.PriceClient - o.Package.CostSupplier
}

// Touch stamps the update time.
func (o *Order) Touch(now time.Time) {
	o.UpdatedAt = now
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
}

// IsCompleted reports whether the campaign reached its terminal state.
func (o *Order) IsCompleted() bool {
	return o != nil && o.Status == StatusCompleted
}

// MarkSupplierPaid records that the agency sent the supplier payment and
// moves the sub-state to pending verification.
func (o *Order) MarkSupplierPaid(proofURL string, now time.Time) error {
	if o.SupplierPaymentStatus != PaymentUnpaid {
		return NewError(ErrCodeInvalidTransition, "supplier payment can only be marked from the unpaid state")
	}
	o.SupplierPaymentStatus = PaymentPendingVerification
	stamped := now
	o.SupplierPaymentDate = &stamped
	if proofURL != "" {
		o.SupplierPaymentProofURL = proofURL
	}
	return nil
}

// VerifySupplierPayment confirms receipt. Only reachable from
// pending_verification.
func (o *Order) VerifySupplierPayment(now time.Time) error {
	if o.SupplierPaymentStatus != PaymentPendingVerification {
		return NewError(ErrCodeInvalidTransition, "supplier payment is not pending verification")
	}
	o.SupplierPaymentStatus = PaymentVerified
	stamped := now
	o.SupplierPaymentVerifiedDate = &stamped
	return nil
}

// DisputeSupplierPayment flags a payment problem. Only reachable from
// pending_verification; resolution happens outside the state machine.
func (o *Order) DisputeSupplierPayment() error {
	if o.SupplierPaymentStatus != PaymentPendingVerification {
		return NewError(ErrCodeInvalidTransition, "supplier payment is not pending verification")
	}
	o.SupplierPaymentStatus = PaymentDisputed
	return nil
}

const trackingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const trackingCodeLength = 8

// NewTrackingCode draws an 8-character public identifier from [A-Z0-9].
// Uniqueness is enforced by the store, not by the generator.
func NewTrackingCode() string {
	buf := make([]byte, trackingCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = trackingCodeAlphabet[int(b)%len(trackingCodeAlphabet)]
	}
	return string(buf)
}
