package domain

import (
	"fmt"
	"strings"
	"time"
)

// AgencyFlag identifies a step of the agency-side checklist.
type AgencyFlag string

const (
	FlagClientPaid         AgencyFlag = "clientPaid"
	FlagSupplierPaid       AgencyFlag = "supplierPaid"
	FlagGuidelinesApproved AgencyFlag = "guidelinesApproved"
	FlagAgreementSigned    AgencyFlag = "agreementSigned"
	FlagCommissionSet      AgencyFlag = "commissionSet"
	FlagAffiliatesSelected AgencyFlag = "affiliatesSelected"
	FlagBriefingCompleted  AgencyFlag = "briefingCompleted"
	FlagSamplesReceived    AgencyFlag = "samplesReceived"
	FlagProductionStarted  AgencyFlag = "productionStarted"
	FlagVideosCompleted    AgencyFlag = "videosCompleted"
	FlagReportSent         AgencyFlag = "reportSent"
)

// AgencyFlags lists the agency checklist in workflow order.
var AgencyFlags = []AgencyFlag{
	FlagClientPaid,
	FlagSupplierPaid,
	FlagGuidelinesApproved,
	FlagAgreementSigned,
	FlagCommissionSet,
	FlagAffiliatesSelected,
	FlagBriefingCompleted,
	FlagSamplesReceived,
	FlagProductionStarted,
	FlagVideosCompleted,
	FlagReportSent,
}

// AgencyProgress is the agency-owned checklist. Flipping a flag true stamps
// its companion date; flipping it back false clears the date.
type AgencyProgress struct {
	ClientPaid             bool       `json:"client_paid"`
	ClientPaidDate         *time.Time `json:"client_paid_date,omitempty"`
	SupplierPaid           bool       `json:"supplier_paid"`
	SupplierPaidDate       *time.Time `json:"supplier_paid_date,omitempty"`
	GuidelinesApproved     bool       `json:"guidelines_approved"`
	GuidelinesApprovedDate *time.Time `json:"guidelines_approved_date,omitempty"`
	AgreementSigned        bool       `json:"agreement_signed"`
	AgreementSignedDate    *time.Time `json:"agreement_signed_date,omitempty"`
	CommissionSet          bool       `json:"commission_set"`
	CommissionSetDate      *time.Time `json:"commission_set_date,omitempty"`
	AffiliatesSelected     bool       `json:"affiliates_selected"`
	AffiliatesSelectedDate *time.Time `json:"affiliates_selected_date,omitempty"`
	BriefingCompleted      bool       `json:"briefing_completed"`
	BriefingCompletedDate  *time.Time `json:"briefing_completed_date,omitempty"`
	SamplesReceived        bool       `json:"samples_received"`
	SamplesReceivedDate    *time.Time `json:"samples_received_date,omitempty"`
	ProductionStarted      bool       `json:"production_started"`
	ProductionStartedDate  *time.Time `json:"production_started_date,omitempty"`
	VideosCompleted        bool       `json:"videos_completed"`
	VideosCompletedDate    *time.Time `json:"videos_completed_date,omitempty"`
	ReportSent             bool       `json:"report_sent"`
	ReportSentDate         *time.Time `json:"report_sent_date,omitempty"`
}

func (p *AgencyProgress) refs(flag AgencyFlag) (*bool, **time.Time) {
	switch flag {
	case FlagClientPaid:
		return &p.ClientPaid, &p.ClientPaidDate
	case FlagSupplierPaid:
		return &p.SupplierPaid, &p.SupplierPaidDate
	case FlagGuidelinesApproved:
		return &p.GuidelinesApproved, &p.GuidelinesApprovedDate
	case FlagAgreementSigned:
		return &p.AgreementSigned, &p.AgreementSignedDate
	case FlagCommissionSet:
		return &p.CommissionSet, &p.CommissionSetDate
	case FlagAffiliatesSelected:
		return &p.AffiliatesSelected, &p.AffiliatesSelectedDate
	case FlagBriefingCompleted:
		return &p.BriefingCompleted, &p.BriefingCompletedDate
	case FlagSamplesReceived:
		return &p.SamplesReceived, &p.SamplesReceivedDate
	case FlagProductionStarted:
		return &p.ProductionStarted, &p.ProductionStartedDate
	case FlagVideosCompleted:
		return &p.VideosCompleted, &p.VideosCompletedDate
	case FlagReportSent:
		return &p.ReportSent, &p.ReportSentDate
	default:
		return nil, nil
	}
}

// Set flips the flag and keeps the companion date in sync.
func (p *AgencyProgress) Set(flag AgencyFlag, value bool, now time.Time) error {
	v, d := p.refs(flag)
	if v == nil {
		return NewError(ErrCodeValidation, fmt.Sprintf("unknown agency progress flag %q", flag))
	}
	*v = value
	if value {
		stamped := now
		*d = &stamped
	} else {
		*d = nil
	}
	return nil
}

// Flag reports the current value and completion date of a checklist step.
func (p *AgencyProgress) Flag(flag AgencyFlag) (bool, *time.Time, error) {
	v, d := p.refs(flag)
	if v == nil {
		return false, nil, NewError(ErrCodeValidation, fmt.Sprintf("unknown agency progress flag %q", flag))
	}
	return *v, *d, nil
}

// PercentComplete derives the display percentage from the fixed eight-step
// subset shown on the dashboard, rounded to the nearest integer.
func (p *AgencyProgress) PercentComplete() int {
	steps := []bool{
		p.ClientPaid,
		p.SupplierPaid,
		p.GuidelinesApproved,
		p.AffiliatesSelected,
		p.SamplesReceived,
		p.ProductionStarted,
		p.VideosCompleted,
		p.ReportSent,
	}
	completed := 0
	for _, done := range steps {
		if done {
			completed++
		}
	}
	return (completed*100 + len(steps)/2) / len(steps)
}

// SupplierFlag identifies a step of the supplier-side checklist.
type SupplierFlag string

const (
	SupplierFlagAffiliatesSubmitted         SupplierFlag = "affiliatesSubmitted"
	SupplierFlagBriefingCompleted           SupplierFlag = "briefingCompleted"
	SupplierFlagSamplesReceivedByAffiliates SupplierFlag = "samplesReceivedByAffiliates"
	SupplierFlagProductionStarted           SupplierFlag = "productionStarted"
	SupplierFlagAllVideosCompleted          SupplierFlag = "allVideosCompleted"
	SupplierFlagReportSubmitted             SupplierFlag = "reportSubmitted"
)

// SupplierFlags lists the supplier checklist in workflow order.
var SupplierFlags = []SupplierFlag{
	SupplierFlagAffiliatesSubmitted,
	SupplierFlagBriefingCompleted,
	SupplierFlagSamplesReceivedByAffiliates,
	SupplierFlagProductionStarted,
	SupplierFlagAllVideosCompleted,
	SupplierFlagReportSubmitted,
}

// rosterHostPattern is the link-sharing host suppliers must use for rosters.
const rosterHostPattern = "docs.google.com/spreadsheets"

// RosterChecklist is the four-point review a supplier confirms before
// submitting the affiliate roster.
type RosterChecklist struct {
	LinkAccessible     bool `json:"link_accessible"`
	CountMatches       bool `json:"count_matches"`
	AllColumnsComplete bool `json:"all_columns_complete"`
	AffiliatesSuitable bool `json:"affiliates_suitable"`
}

func (c RosterChecklist) Complete() bool {
	return c.LinkAccessible && c.CountMatches && c.AllColumnsComplete && c.AffiliatesSuitable
}

// SupplierPayload carries the data required by supplier steps that cannot be
// completed with a bare boolean flip.
type SupplierPayload struct {
	SheetURL  string           `json:"sheet_url,omitempty"`
	Checklist *RosterChecklist `json:"checklist,omitempty"`
	StartDate string           `json:"start_date,omitempty"`
	Deadline  string           `json:"deadline,omitempty"`
	ReportURL string           `json:"report_url,omitempty"`
}

// SupplierProgress is the checklist owned by the assigned supplier.
type SupplierProgress struct {
	AffiliatesSubmitted     bool            `json:"affiliates_submitted"`
	AffiliatesSubmittedDate *time.Time      `json:"affiliates_submitted_date,omitempty"`
	AffiliateSheetURL       string          `json:"affiliate_sheet_url,omitempty"`
	AffiliateSheetChecklist RosterChecklist `json:"affiliate_sheet_checklist"`

	BriefingCompleted     bool       `json:"briefing_completed"`
	BriefingCompletedDate *time.Time `json:"briefing_completed_date,omitempty"`

	SamplesReceivedByAffiliates     bool       `json:"samples_received_by_affiliates"`
	SamplesReceivedByAffiliatesDate *time.Time `json:"samples_received_by_affiliates_date,omitempty"`

	ProductionStarted     bool       `json:"production_started"`
	ProductionStartedDate *time.Time `json:"production_started_date,omitempty"`
	VideoStartDate        string     `json:"video_start_date,omitempty"`
	VideoDeadline         string     `json:"video_deadline,omitempty"`

	AllVideosCompleted     bool       `json:"all_videos_completed"`
	AllVideosCompletedDate *time.Time `json:"all_videos_completed_date,omitempty"`

	ReportSubmitted     bool       `json:"report_submitted"`
	ReportSubmittedDate *time.Time `json:"report_submitted_date,omitempty"`
	ReportURL           string     `json:"report_url,omitempty"`
}

func (p *SupplierProgress) refs(flag SupplierFlag) (*bool, **time.Time) {
	switch flag {
	case SupplierFlagAffiliatesSubmitted:
		return &p.AffiliatesSubmitted, &p.AffiliatesSubmittedDate
	case SupplierFlagBriefingCompleted:
		return &p.BriefingCompleted, &p.BriefingCompletedDate
	case SupplierFlagSamplesReceivedByAffiliates:
		return &p.SamplesReceivedByAffiliates, &p.SamplesReceivedByAffiliatesDate
	case SupplierFlagProductionStarted:
		return &p.ProductionStarted, &p.ProductionStartedDate
	case SupplierFlagAllVideosCompleted:
		return &p.AllVideosCompleted, &p.AllVideosCompletedDate
	case SupplierFlagReportSubmitted:
		return &p.ReportSubmitted, &p.ReportSubmittedDate
	default:
		return nil, nil
	}
}

// Set flips the flag after validating any payload the step requires, and keeps
// the companion date in sync. Undoing a step clears the date but leaves
// previously attached payload data in place for re-submission.
func (p *SupplierProgress) Set(flag SupplierFlag, value bool, payload *SupplierPayload, now time.Time) error {
	v, d := p.refs(flag)
	if v == nil {
		return NewError(ErrCodeValidation, fmt.Sprintf("unknown supplier progress flag %q", flag))
	}

	if value {
		switch flag {
		case SupplierFlagAffiliatesSubmitted:
			if payload == nil || payload.SheetURL == "" {
				return NewError(ErrCodeValidation, "affiliate roster link is required")
			}
			if !strings.Contains(payload.SheetURL, rosterHostPattern) {
				return NewError(ErrCodeValidation, "affiliate roster link must be a Google Sheets URL")
			}
			if payload.Checklist == nil || !payload.Checklist.Complete() {
				return NewError(ErrCodeValidation, "all roster checklist items must be confirmed")
			}
			p.AffiliateSheetURL = payload.SheetURL
			p.AffiliateSheetChecklist = *payload.Checklist
		case SupplierFlagProductionStarted:
			if payload == nil || payload.StartDate == "" || payload.Deadline == "" {
				return NewError(ErrCodeValidation, "production start date and deadline are required")
			}
			p.VideoStartDate = payload.StartDate
			p.VideoDeadline = payload.Deadline
		case SupplierFlagReportSubmitted:
			if payload == nil || payload.ReportURL == "" {
				return NewError(ErrCodeValidation, "report link is required")
			}
			p.ReportURL = payload.ReportURL
		}
	}

	*v = value
	if value {
		stamped := now
		*d = &stamped
	} else {
		*d = nil
	}
	return nil
}

// Flag reports the current value and completion date of a checklist step.
func (p *SupplierProgress) Flag(flag SupplierFlag) (bool, *time.Time, error) {
	v, d := p.refs(flag)
	if v == nil {
		return false, nil, NewError(ErrCodeValidation, fmt.Sprintf("unknown supplier progress flag %q", flag))
	}
	return *v, *d, nil
}
