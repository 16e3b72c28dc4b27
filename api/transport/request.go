package transport

import "github.com/talentsmy/backend/domain"

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Code  string `json:"code"`
}

// CodeValue accepts either body key for the one-time code.
func (r VerifyOTPRequest) CodeValue() string {
	if r.OTP != "" {
		return r.OTP
	}
	return r.Code
}

type OrderCreateRequest struct {
	AccountManager string `json:"account_manager"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`

	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	ProductTikTokLink  string `json:"product_tiktok_link"`

	PackageID string                  `json:"package_id"`
	Package   *domain.PackageSnapshot `json:"package"`

	PaymentReceiptURL    string `json:"payment_receipt_url"`
	PaymentReceiptNumber string `json:"payment_receipt_number"`
	SpecialRequests      string `json:"special_requests"`
	ContentGuidelines    string `json:"content_guidelines"`

	Compliance domain.ComplianceChecklist `json:"compliance"`
}

// OrderUpdateRequest is a sparse patch: nil means "leave unchanged".
type OrderUpdateRequest struct {
	AccountManager *string `json:"account_manager,omitempty"`

	ClientName  *string `json:"client_name,omitempty"`
	ClientEmail *string `json:"client_email,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`

	ProductName        *string `json:"product_name,omitempty"`
	ProductDescription *string `json:"product_description,omitempty"`
	ProductTikTokLink  *string `json:"product_tiktok_link,omitempty"`

	PaymentReceiptURL    *string `json:"payment_receipt_url,omitempty"`
	PaymentReceiptNumber *string `json:"payment_receipt_number,omitempty"`
	SpecialRequests      *string `json:"special_requests,omitempty"`
	ContentGuidelines    *string `json:"content_guidelines,omitempty"`

	Status *string `json:"status,omitempty"`

	PriceClient  *float64 `json:"price_client,omitempty"`
	CostSupplier *float64 `json:"cost_supplier,omitempty"`

	Affiliates []domain.Affiliate `json:"affiliates,omitempty"`
}

type ProgressRequest struct {
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}

type SupplierProgressRequest struct {
	Flag    string                  `json:"flag"`
	Value   bool                    `json:"value"`
	Payload *domain.SupplierPayload `json:"payload,omitempty"`
}

type SupplierPaymentRequest struct {
	ProofURL string `json:"proof_url"`
}

type AssignSupplierRequest struct {
	SupplierID string `json:"supplier_id"`
}

type ShipmentProofRequest struct {
	ProofURL string `json:"proof_url"`
}

type NoteRequest struct {
	Content string `json:"content"`
}

// OrderDeleteRequest must echo the tracking code as a destructive-action guard.
type OrderDeleteRequest struct {
	TrackingCode string `json:"tracking_code"`
}

type SupplierRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Active *bool  `json:"active,omitempty"`

	CompanyName string `json:"company_name"`
	Address     string `json:"address"`

	BackupContactName  string `json:"backup_contact_name"`
	BackupContactEmail string `json:"backup_contact_email"`
	BackupContactPhone string `json:"backup_contact_phone"`

	BusinessRegistrationNumber string `json:"business_registration_number"`
	BankAccountNumber          string `json:"bank_account_number"`
	BankName                   string `json:"bank_name"`

	Notes string `json:"notes"`
}

type PackageRequest struct {
	Name                   string  `json:"name"`
	AffiliateCount         int     `json:"affiliate_count"`
	VideoCountPerAffiliate int     `json:"video_count_per_affiliate"`
	OriginalPrice          float64 `json:"original_price"`
	CurrentPrice           float64 `json:"current_price"`
	SupplierCost           float64 `json:"supplier_cost"`
	CommissionRate         float64 `json:"commission_rate"`
	Description            string  `json:"description"`
	ImagePath              string  `json:"image_path"`
	IsActive               *bool   `json:"is_active,omitempty"`
}
