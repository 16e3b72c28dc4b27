package domain

import "time"

// CampaignPackage is a pricing template. Orders snapshot its fields at
// creation time; edits here never retroactively change existing orders.
type CampaignPackage struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	AffiliateCount         int       `json:"affiliate_count"`
	VideoCountPerAffiliate int       `json:"video_count_per_affiliate"`
	TotalVideos            int       `json:"total_videos"`
	OriginalPrice          float64   `json:"original_price"`
	CurrentPrice           float64   `json:"current_price"`
	SupplierCost           float64   `json:"supplier_cost"`
	CommissionRate         float64   `json:"commission_rate"`
	Description            string    `json:"description,omitempty"`
	ImagePath              string    `json:"image_path,omitempty"`
	IsActive               bool      `json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Normalize recomputes the derived video total from its factors.
func (p *CampaignPackage) Normalize() {
	p.TotalVideos = p.AffiliateCount * p.VideoCountPerAffiliate
}

// Validate checks the package invariants.
func (p *CampaignPackage) Validate() error {
	if p == nil || p.Name == "" {
		return NewError(ErrCodeValidation, "package name is required")
	}
	if p.AffiliateCount <= 0 {
		return NewError(ErrCodeInvalidPackage, "affiliate count must be positive")
	}
	if p.VideoCountPerAffiliate <= 0 {
		return NewError(ErrCodeInvalidPackage, "video count per affiliate must be positive")
	}
	if p.TotalVideos != p.AffiliateCount*p.VideoCountPerAffiliate {
		return NewError(ErrCodeInvalidPackage, "total videos must equal affiliate count times videos per affiliate")
	}
	if p.CommissionRate < 0 || p.CommissionRate > 100 {
		return NewError(ErrCodeValidation, "commission rate must be between 0 and 100")
	}
	return nil
}

// Snapshot freezes the package economics for a new order.
func (p *CampaignPackage) Snapshot() PackageSnapshot {
	return PackageSnapshot{
		PackageID:              p.ID,
		PackageType:            p.Name,
		AffiliateCount:         p.AffiliateCount,
		VideoCountPerAffiliate: p.VideoCountPerAffiliate,
		TotalVideos:            p.TotalVideos,
		PriceClient:            p.CurrentPrice,
		CostSupplier:           p.SupplierCost,
		Profit:                 p.CurrentPrice - p.SupplierCost,
		CommissionRate:         p.CommissionRate,
	}
}
