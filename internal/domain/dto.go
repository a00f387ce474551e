package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type QuotationDTO struct {
	ID              uuid.UUID             `json:"id"`
	Status          QuotationStatus       `json:"status"`
	PurchaseType    PurchaseType          `json:"purchaseType"`
	EmergencyReason string                `json:"emergencyReason,omitempty"`
	DeliveryPlace   string                `json:"deliveryPlace,omitempty"`
	BuyerID         string                `json:"buyerId"`
	BuyerName       string                `json:"buyerName,omitempty"`
	DeadlineAt      *string               `json:"deadlineAt,omitempty"` // ISO 8601
	CurrentVersion  int                   `json:"currentVersion"`
	LockVersion     int                   `json:"lockVersion"`
	Suppliers       []QuotationSupplierDTO `json:"suppliers"`
	Approval        *ApprovalRecordDTO    `json:"approval,omitempty"`
	Rejection       *RejectionRecordDTO   `json:"rejection,omitempty"`
	Renegotiations  []RenegotiationRecordDTO `json:"renegotiations,omitempty"`
	Attachments     []AttachmentDTO       `json:"attachments,omitempty"`
	CreatedAt       string                `json:"createdAt"` // ISO 8601
	UpdatedAt       string                `json:"updatedAt"` // ISO 8601
}

type QuotationSupplierDTO struct {
	ID           uuid.UUID          `json:"id"`
	SupplierID   string             `json:"supplierId,omitempty"`
	Name         string             `json:"name"`
	FreightType  string             `json:"freightType,omitempty"`
	FreightTotal float64            `json:"freightTotal"`
	PaymentTerm  string             `json:"paymentTerm,omitempty"`
	Version      int                `json:"version"`
	Items        []QuotationItemDTO `json:"items"`
}

type QuotationItemDTO struct {
	ID                      uuid.UUID `json:"id"`
	ProductID               string    `json:"productId,omitempty"`
	ProductName             string    `json:"productName"`
	Quantity                float64   `json:"quantity"`
	Unit                    string    `json:"unit,omitempty"`
	UnitPrice               float64   `json:"unitPrice"`
	DifalPercent            float64   `json:"difalPercent"`
	IPI                     float64   `json:"ipi"`
	DeliveryTerm            string    `json:"deliveryTerm,omitempty"`
	LastApprovedPrice       *float64  `json:"lastApprovedPrice,omitempty"`
	FirstQuotedPrice        *float64  `json:"firstQuotedPrice,omitempty"`
	FlaggedForRenegotiation bool      `json:"flaggedForRenegotiation"`
}

type QuotationVersionDTO struct {
	ID            uuid.UUID       `json:"id"`
	Version       int             `json:"version"`
	Status        QuotationStatus `json:"status"`
	Snapshot      string          `json:"snapshot"`
	CreatedByID   string          `json:"createdById,omitempty"`
	CreatedByName string          `json:"createdByName,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

type ApprovalRecordDTO struct {
	ID             uuid.UUID    `json:"id"`
	Version        int          `json:"version"`
	ApprovalType   ApprovalType `json:"approvalType"`
	ApprovedItems  []ItemRefDTO `json:"approvedItems"`
	Reason         string       `json:"reason"`
	ApprovedByID   string       `json:"approvedById"`
	ApprovedByName string       `json:"approvedByName,omitempty"`
	ApprovedAt     string       `json:"approvedAt"`
}

type RejectionRecordDTO struct {
	ID             uuid.UUID `json:"id"`
	Version        int       `json:"version"`
	Reason         string    `json:"reason"`
	RejectedByID   string    `json:"rejectedById"`
	RejectedByName string    `json:"rejectedByName,omitempty"`
	RejectedAt     string    `json:"rejectedAt"`
}

type RenegotiationRecordDTO struct {
	ID              uuid.UUID    `json:"id"`
	Version         int          `json:"version"`
	SelectedItems   []ItemRefDTO `json:"selectedItems"`
	Justification   string       `json:"justification"`
	Observations    string       `json:"observations,omitempty"`
	RequestedByID   string       `json:"requestedById"`
	RequestedByName string       `json:"requestedByName,omitempty"`
	RequestedAt     string       `json:"requestedAt"`
}

// ItemRefDTO identifies a supplier x product line across versions.
type ItemRefDTO struct {
	ProductID    string `json:"productId,omitempty"`
	ProductName  string `json:"productName"`
	SupplierName string `json:"supplierName"`
}

// ComparisonDTO is the full criteria analysis for one quotation version.
type ComparisonDTO struct {
	QuotationID uuid.UUID            `json:"quotationId"`
	Version     int                  `json:"version"`
	Groups      []ComparisonGroupDTO `json:"groups"`
	Savings     *SavingsReportDTO    `json:"savings,omitempty"`
	ParseIssues []ParseIssueDTO      `json:"parseIssues,omitempty"`
}

// ComparisonGroupDTO holds the per-product winners. Price ties list every
// winning offer; delivery and payment name a single winner.
type ComparisonGroupDTO struct {
	ProductID        string              `json:"productId,omitempty"`
	ProductName      string              `json:"productName"`
	NameKeyed        bool                `json:"nameKeyed"`
	Offers           []ComparisonOfferDTO `json:"offers"`
	BestPrice        []ItemRefDTO        `json:"bestPrice"`
	BestPriceValue   float64             `json:"bestPriceValue"`
	BestDelivery     *ItemRefDTO         `json:"bestDelivery,omitempty"`
	BestDeliveryDays *int                `json:"bestDeliveryDays,omitempty"`
	BestPayment      *ItemRefDTO         `json:"bestPayment,omitempty"`
	BestPaymentDays  *int                `json:"bestPaymentDays,omitempty"`
}

type ComparisonOfferDTO struct {
	SupplierName       string  `json:"supplierName"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unitPrice"`
	EffectiveUnitPrice float64 `json:"effectiveUnitPrice"`
	DifalPercent       float64 `json:"difalPercent"`
	IPI                float64 `json:"ipi"`
	DeliveryDays       *int    `json:"deliveryDays,omitempty"`
	PaymentDays        *int    `json:"paymentDays,omitempty"`
	DeliveryTerm       string  `json:"deliveryTerm,omitempty"`
	PaymentTerm        string  `json:"paymentTerm,omitempty"`
}

type ParseIssueDTO struct {
	Field        string `json:"field"`
	Value        string `json:"value"`
	ProductName  string `json:"productName,omitempty"`
	SupplierName string `json:"supplierName,omitempty"`
}

// SavingsReportDTO aggregates the three economy baselines per item and in
// total.
type SavingsReportDTO struct {
	Items                     []ItemSavingsDTO `json:"items"`
	TotalEconomyVsLastApproved float64         `json:"totalEconomyVsLastApproved"`
	TotalEconomyVsLastApprovedPct float64      `json:"totalEconomyVsLastApprovedPct"`
	TotalEconomyVsAverage     float64          `json:"totalEconomyVsAverage"`
	TotalEconomyVsAveragePct  float64          `json:"totalEconomyVsAveragePct"`
	TotalSavingVsFirstQuoted  float64          `json:"totalSavingVsFirstQuoted"`
	TotalSavingVsFirstQuotedPct float64        `json:"totalSavingVsFirstQuotedPct"`
}

type ItemSavingsDTO struct {
	ProductID               string  `json:"productId,omitempty"`
	ProductName             string  `json:"productName"`
	BestSupplierName        string  `json:"bestSupplierName"`
	Quantity                float64 `json:"quantity"`
	BestUnitPrice           float64 `json:"bestUnitPrice"`
	EconomyVsLastApproved   float64 `json:"economyVsLastApproved"`
	EconomyVsLastApprovedPct float64 `json:"economyVsLastApprovedPct"`
	EconomyVsAverage        float64 `json:"economyVsAverage"`
	EconomyVsAveragePct     float64 `json:"economyVsAveragePct"`
	SavingVsFirstQuoted     float64 `json:"savingVsFirstQuoted"`
	SavingVsFirstQuotedPct  float64 `json:"savingVsFirstQuotedPct"`
}

type SavingDTO struct {
	ID                uuid.UUID      `json:"id"`
	QuotationID       uuid.UUID      `json:"quotationId"`
	BuyerID           string         `json:"buyerId"`
	PurchaseType      PurchaseType   `json:"purchaseType"`
	DeliveryPlace     string         `json:"deliveryPlace,omitempty"`
	TotalInitialValue float64        `json:"totalInitialValue"`
	TotalFinalValue   float64        `json:"totalFinalValue"`
	Economy           float64        `json:"economy"`
	EconomyPercent    float64        `json:"economyPercent"`
	Rounds            int            `json:"rounds"`
	Status            SavingStatus   `json:"status"`
	Observations      string         `json:"observations,omitempty"`
	Items             []SavingItemDTO `json:"items"`
	CreatedAt         string         `json:"createdAt"`
}

type SavingItemDTO struct {
	ID               uuid.UUID `json:"id"`
	Description      string    `json:"description"`
	SupplierName     string    `json:"supplierName"`
	Quantity         float64   `json:"quantity"`
	InitialUnitPrice float64   `json:"initialUnitPrice"`
	FinalUnitPrice   float64   `json:"finalUnitPrice"`
	Economy          float64   `json:"economy"`
	EconomyPercent   float64   `json:"economyPercent"`
	DeliveryTerm     string    `json:"deliveryTerm,omitempty"`
	PaymentTerm      string    `json:"paymentTerm,omitempty"`
	Freight          float64   `json:"freight"`
	DifalPercent     float64   `json:"difalPercent"`
}

type QuotationEventDTO struct {
	ID          uuid.UUID          `json:"id"`
	QuotationID uuid.UUID          `json:"quotationId"`
	Version     int                `json:"version"`
	Kind        QuotationEventKind `json:"kind"`
	FromStatus  QuotationStatus    `json:"fromStatus,omitempty"`
	ToStatus    QuotationStatus    `json:"toStatus,omitempty"`
	Detail      string             `json:"detail,omitempty"`
	ActorID     string             `json:"actorId,omitempty"`
	ActorName   string             `json:"actorName,omitempty"`
	OccurredAt  string             `json:"occurredAt"`
}

type AttachmentDTO struct {
	ID          uuid.UUID `json:"id"`
	QuotationID uuid.UUID `json:"quotationId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

// DashboardStatsDTO summarizes the pipeline for the buyer dashboard.
type DashboardStatsDTO struct {
	TotalQuotations     int     `json:"totalQuotations"`
	PendingCount        int     `json:"pendingCount"`
	InAnalysisCount     int     `json:"inAnalysisCount"`
	AwaitingApproval    int     `json:"awaitingApproval"`
	ApprovedCount       int     `json:"approvedCount"`
	RejectedCount       int     `json:"rejectedCount"`
	RenegotiationCount  int     `json:"renegotiationCount"`
	TotalEconomy        float64 `json:"totalEconomy"`
	AverageEconomyPct   float64 `json:"averageEconomyPct"`
	AverageRounds       float64 `json:"averageRounds"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request DTOs

// CreateQuotationRequest carries the raw supplier spreadsheet rows. Numeric
// fields arrive as text exactly as typed and are normalized server side.
type CreateQuotationRequest struct {
	PurchaseType    PurchaseType                 `json:"purchaseType" validate:"required"`
	EmergencyReason string                       `json:"emergencyReason,omitempty" validate:"max=2000"`
	DeliveryPlace   string                       `json:"deliveryPlace,omitempty" validate:"max=200"`
	DeadlineAt      *time.Time                   `json:"deadlineAt,omitempty"`
	Suppliers       []CreateQuotationSupplierReq `json:"suppliers" validate:"required,min=1,dive"`
}

type CreateQuotationSupplierReq struct {
	SupplierID   string                   `json:"supplierId,omitempty" validate:"max=100"`
	Name         string                   `json:"name" validate:"required,max=200"`
	FreightType  string                   `json:"freightType,omitempty" validate:"max=50"`
	FreightTotal string                   `json:"freightTotal,omitempty" validate:"max=50"`
	PaymentTerm  string                   `json:"paymentTerm,omitempty" validate:"max=100"`
	Items        []CreateQuotationItemReq `json:"items" validate:"required,min=1,dive"`
}

type CreateQuotationItemReq struct {
	ProductID    string `json:"productId,omitempty" validate:"max=100"`
	ProductName  string `json:"productName" validate:"required,max=200"`
	Quantity     string `json:"quantity" validate:"required,max=50"`
	Unit         string `json:"unit,omitempty" validate:"max=50"`
	UnitPrice    string `json:"unitPrice" validate:"required,max=50"`
	DifalPercent string `json:"difalPercent,omitempty" validate:"max=50"`
	IPI          string `json:"ipi,omitempty" validate:"max=50"`
	DeliveryTerm string `json:"deliveryTerm,omitempty" validate:"max=100"`
}

// UpdateQuotationRequest edits header fields while the quotation is still
// pending. LockVersion must match the stored counter.
type UpdateQuotationRequest struct {
	PurchaseType    *PurchaseType `json:"purchaseType,omitempty"`
	EmergencyReason *string       `json:"emergencyReason,omitempty" validate:"omitempty,max=2000"`
	DeliveryPlace   *string       `json:"deliveryPlace,omitempty" validate:"omitempty,max=200"`
	DeadlineAt      *time.Time    `json:"deadlineAt,omitempty"`
	LockVersion     int           `json:"lockVersion" validate:"min=0"`
}

type SubmitQuotationRequest struct {
	LockVersion int `json:"lockVersion" validate:"min=0"`
}

type ForwardQuotationRequest struct {
	LockVersion int `json:"lockVersion" validate:"min=0"`
}

type ApproveQuotationRequest struct {
	ApprovalType  ApprovalType            `json:"approvalType" validate:"required"`
	Reason        string                  `json:"reason" validate:"required,max=2000"`
	ManualItems   []ItemRefDTO            `json:"manualItems,omitempty" validate:"dive"`
	PerCriterion  map[string][]ItemRefDTO `json:"perCriterion,omitempty"`
	LockVersion   int                     `json:"lockVersion" validate:"min=0"`
}

type RejectQuotationRequest struct {
	Reason      string `json:"reason" validate:"required,max=2000"`
	LockVersion int    `json:"lockVersion" validate:"min=0"`
}

type RenegotiationRequest struct {
	SelectedItems []ItemRefDTO `json:"selectedItems" validate:"required,min=1,dive"`
	Justification string       `json:"justification" validate:"required,max=2000"`
	Observations  string       `json:"observations,omitempty" validate:"max=2000"`
	LockVersion   int          `json:"lockVersion" validate:"min=0"`
}

// ResubmitQuotationRequest replaces the offer rows after a renegotiation
// round. The full item set must be present, not only the flagged lines.
type ResubmitQuotationRequest struct {
	Suppliers   []CreateQuotationSupplierReq `json:"suppliers" validate:"required,min=1,dive"`
	LockVersion int                          `json:"lockVersion" validate:"min=0"`
}

type UploadAttachmentRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
}

// Auth DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type UserDTO struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
	IsActive    bool     `json:"isActive"`
}

// ListQuotationsQuery is the parsed query-string filter for list endpoints.
type ListQuotationsQuery struct {
	Status       string `json:"status,omitempty"`
	PurchaseType string `json:"purchaseType,omitempty"`
	BuyerID      string `json:"buyerId,omitempty"`
	Search       string `json:"search,omitempty"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
