package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/comprasys/cotacao-api/internal/quote"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// QuotationStatus mirrors the core state machine's status enum at the
// persistence boundary.
type QuotationStatus = quote.Status

// PurchaseType classifies why the quotation exists.
type PurchaseType string

const (
	PurchaseTypeScheduled PurchaseType = "scheduled"
	PurchaseTypeEmergency PurchaseType = "emergency"
)

// IsValid checks if the PurchaseType is a valid enum value
func (p PurchaseType) IsValid() bool {
	switch p {
	case PurchaseTypeScheduled, PurchaseTypeEmergency:
		return true
	}
	return false
}

// Quotation is the aggregate root: a buyer's request for supplier offers on
// a set of products, tracked through the approval lifecycle.
type Quotation struct {
	BaseModel
	Status          QuotationStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	PurchaseType    PurchaseType    `gorm:"type:varchar(50);not null;default:'scheduled';column:purchase_type"`
	EmergencyReason string          `gorm:"type:text;column:emergency_reason"`
	DeliveryPlace   string          `gorm:"type:varchar(200);column:delivery_place"`
	BuyerID         string          `gorm:"type:varchar(100);not null;index;column:buyer_id"`
	BuyerName       string          `gorm:"type:varchar(200);column:buyer_name"`
	DeadlineAt      *time.Time      `gorm:"column:deadline_at"`

	// CurrentVersion points at the active snapshot; LockVersion is the
	// optimistic-concurrency counter bumped on every mutating transition.
	CurrentVersion int `gorm:"not null;default:1;column:current_version"`
	LockVersion    int `gorm:"not null;default:0;column:lock_version"`

	Suppliers []QuotationSupplier `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	Versions  []QuotationVersion  `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`

	ApprovalRecord       *ApprovalRecord       `gorm:"foreignKey:QuotationID"`
	RejectionRecord      *RejectionRecord      `gorm:"foreignKey:QuotationID"`
	RenegotiationRecords []RenegotiationRecord `gorm:"foreignKey:QuotationID"`

	Attachments []Attachment `gorm:"foreignKey:QuotationID"`
}

// QuotationSupplier is one supplier's participation in a quotation version,
// carrying the supplier-level terms shared by all of its item rows.
type QuotationSupplier struct {
	BaseModel
	QuotationID  uuid.UUID  `gorm:"type:uuid;not null;index;column:quotation_id"`
	Quotation    *Quotation `gorm:"foreignKey:QuotationID"`
	Version      int        `gorm:"not null;default:1;index"`
	SupplierID   string     `gorm:"type:varchar(100);index;column:supplier_id"`
	Name         string     `gorm:"type:varchar(200);not null;index"`
	FreightType  string     `gorm:"type:varchar(50);column:freight_type"`
	FreightTotal float64    `gorm:"type:decimal(15,2);not null;default:0;column:freight_total"`
	PaymentTerm  string     `gorm:"type:varchar(100);column:payment_term"`

	Items []QuotationItem `gorm:"foreignKey:SupplierRowID;constraint:OnDelete:CASCADE"`
}

// QuotationItem is one supplier x product row. Rows are immutable within a
// version; edits and renegotiations create rows under a new version.
type QuotationItem struct {
	BaseModel
	SupplierRowID uuid.UUID          `gorm:"type:uuid;not null;index;column:supplier_row_id"`
	SupplierRow   *QuotationSupplier `gorm:"foreignKey:SupplierRowID"`

	ProductID   string  `gorm:"type:varchar(100);index;column:product_id"`
	ProductName string  `gorm:"type:varchar(200);not null;index;column:product_name"`
	Quantity    float64 `gorm:"type:decimal(15,3);not null;default:0"`
	Unit        string  `gorm:"type:varchar(50)"`

	UnitPrice    float64 `gorm:"type:decimal(15,4);not null;default:0;column:unit_price"`
	DifalPercent float64 `gorm:"type:decimal(5,2);not null;default:0;column:difal_percent"`
	IPI          float64 `gorm:"type:decimal(15,4);not null;default:0;column:ipi"`
	DeliveryTerm string  `gorm:"type:varchar(100);column:delivery_term"`

	LastApprovedPrice *float64 `gorm:"type:decimal(15,4);column:last_approved_price"`
	FirstQuotedPrice  *float64 `gorm:"type:decimal(15,4);column:first_quoted_price"`

	FlaggedForRenegotiation bool `gorm:"not null;default:false;column:flagged_for_renegotiation"`
}

// QuotationVersion is an immutable snapshot of the quotation's inputs taken
// on every mutating transition. History rows are never edited in place.
type QuotationVersion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuotationID   uuid.UUID       `gorm:"type:uuid;not null;index;column:quotation_id"`
	Quotation     *Quotation      `gorm:"foreignKey:QuotationID"`
	Version       int             `gorm:"not null;index"`
	Status        QuotationStatus `gorm:"type:varchar(50);not null"`
	Snapshot      string          `gorm:"type:jsonb;not null"`
	CreatedByID   string          `gorm:"type:varchar(100);column:created_by_id"`
	CreatedByName string          `gorm:"type:varchar(200);column:created_by_name"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ApprovalType mirrors the core resolution enum.
type ApprovalType = quote.ApprovalType

// ApprovalRecord stores the outcome of an approve transition.
type ApprovalRecord struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuotationID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex;column:quotation_id"`
	Version      int          `gorm:"not null"`
	ApprovalType ApprovalType `gorm:"type:varchar(50);not null;column:approval_type"`
	// ApprovedItems is the resolved item reference list, serialized as JSON.
	ApprovedItems  string    `gorm:"type:jsonb;not null;column:approved_items"`
	Reason         string    `gorm:"type:text;not null"`
	ApprovedByID   string    `gorm:"type:varchar(100);not null;column:approved_by_id"`
	ApprovedByName string    `gorm:"type:varchar(200);column:approved_by_name"`
	ApprovedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:approved_at"`
}

// RejectionRecord stores the outcome of a reject transition.
type RejectionRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuotationID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:quotation_id"`
	Version        int       `gorm:"not null"`
	Reason         string    `gorm:"type:text;not null"`
	RejectedByID   string    `gorm:"type:varchar(100);not null;column:rejected_by_id"`
	RejectedByName string    `gorm:"type:varchar(200);column:rejected_by_name"`
	RejectedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:rejected_at"`
}

// RenegotiationRecord stores one renegotiation request. A quotation may
// accumulate several across its versions. Selected items are flagged, never
// removed: the next version carries the full item set.
type RenegotiationRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuotationID     uuid.UUID `gorm:"type:uuid;not null;index;column:quotation_id"`
	Version         int       `gorm:"not null"`
	SelectedItems   string    `gorm:"type:jsonb;not null;column:selected_items"`
	Justification   string    `gorm:"type:text;not null"`
	Observations    string    `gorm:"type:text"`
	RequestedByID   string    `gorm:"type:varchar(100);not null;column:requested_by_id"`
	RequestedByName string    `gorm:"type:varchar(200);column:requested_by_name"`
	RequestedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:requested_at"`
}

// SavingStatus represents the lifecycle of a persisted saving record.
type SavingStatus string

const (
	SavingStatusConcluded SavingStatus = "concluded"
	SavingStatusPartial   SavingStatus = "partial"
)

// IsValid checks if the SavingStatus is a valid enum value
func (s SavingStatus) IsValid() bool {
	switch s {
	case SavingStatusConcluded, SavingStatusPartial:
		return true
	}
	return false
}

// Saving is the persisted economy outcome captured when a quotation is
// approved, the figure procurement reports against.
type Saving struct {
	BaseModel
	QuotationID       uuid.UUID    `gorm:"type:uuid;not null;index;column:quotation_id"`
	Quotation         *Quotation   `gorm:"foreignKey:QuotationID"`
	BuyerID           string       `gorm:"type:varchar(100);not null;column:buyer_id"`
	PurchaseType      PurchaseType `gorm:"type:varchar(50);not null;column:purchase_type"`
	DeliveryPlace     string       `gorm:"type:varchar(200);column:delivery_place"`
	TotalInitialValue float64      `gorm:"type:decimal(15,2);not null;column:total_initial_value"`
	TotalFinalValue   float64      `gorm:"type:decimal(15,2);not null;column:total_final_value"`
	Economy           float64      `gorm:"type:decimal(15,2);not null"`
	EconomyPercent    float64      `gorm:"type:decimal(5,2);not null;column:economy_percent"`
	Rounds            int          `gorm:"not null;default:1"`
	Status            SavingStatus `gorm:"type:varchar(50);not null;default:'concluded'"`
	Observations      string       `gorm:"type:text"`

	Items []SavingItem `gorm:"foreignKey:SavingID;constraint:OnDelete:CASCADE"`
}

// SavingItem is the per-product economy line inside a saving record.
type SavingItem struct {
	BaseModel
	SavingID         uuid.UUID `gorm:"type:uuid;not null;index;column:saving_id"`
	Description      string    `gorm:"type:varchar(200);not null"`
	SupplierName     string    `gorm:"type:varchar(200);not null;column:supplier_name"`
	Quantity         float64   `gorm:"type:decimal(15,3);not null"`
	InitialUnitPrice float64   `gorm:"type:decimal(15,4);not null;column:initial_unit_price"`
	FinalUnitPrice   float64   `gorm:"type:decimal(15,4);not null;column:final_unit_price"`
	Economy          float64   `gorm:"type:decimal(15,2);not null"`
	EconomyPercent   float64   `gorm:"type:decimal(5,2);not null;column:economy_percent"`
	DeliveryTerm     string    `gorm:"type:varchar(100);column:delivery_term"`
	PaymentTerm      string    `gorm:"type:varchar(100);column:payment_term"`
	Freight          float64   `gorm:"type:decimal(15,2);not null;default:0"`
	DifalPercent     float64   `gorm:"type:decimal(5,2);not null;default:0;column:difal_percent"`
}

// QuotationEventKind enumerates audited lifecycle actions.
type QuotationEventKind string

const (
	EventKindCreated        QuotationEventKind = "created"
	EventKindUpdated        QuotationEventKind = "updated"
	EventKindSubmitted      QuotationEventKind = "submitted"
	EventKindForwarded      QuotationEventKind = "forwarded"
	EventKindApproved       QuotationEventKind = "approved"
	EventKindRejected       QuotationEventKind = "rejected"
	EventKindRenegotiation  QuotationEventKind = "renegotiation_requested"
	EventKindResubmitted    QuotationEventKind = "resubmitted"
	EventKindDeadlineLapsed QuotationEventKind = "deadline_lapsed"
)

// QuotationEvent is the audit-trail entry recorded for every mutating
// transition: who, when, and what the inputs were.
type QuotationEvent struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuotationID uuid.UUID          `gorm:"type:uuid;not null;index;column:quotation_id"`
	Version     int                `gorm:"not null"`
	Kind        QuotationEventKind `gorm:"type:varchar(50);not null;index"`
	FromStatus  QuotationStatus    `gorm:"type:varchar(50);column:from_status"`
	ToStatus    QuotationStatus    `gorm:"type:varchar(50);column:to_status"`
	Detail      string             `gorm:"type:varchar(2000)"`
	Payload     string             `gorm:"type:jsonb"`
	ActorID     string             `gorm:"type:varchar(100);column:actor_id"`
	ActorName   string             `gorm:"type:varchar(200);column:actor_name"`
	OccurredAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
}

// Attachment is a file attached to a quotation (supplier proposals, e-mail
// threads). Content lives in blob storage; this row is metadata only.
type Attachment struct {
	BaseModel
	QuotationID uuid.UUID  `gorm:"type:uuid;not null;index;column:quotation_id"`
	Quotation   *Quotation `gorm:"foreignKey:QuotationID"`
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	UploadedBy  string     `gorm:"type:varchar(100);column:uploaded_by"`
}

// UserRoleType represents a role a user can have in the approval pipeline.
type UserRoleType string

const (
	RoleBuyer      UserRoleType = "buyer"
	RoleSupervisor UserRoleType = "supervisor"
	RoleManager    UserRoleType = "manager"
	RoleAdmin      UserRoleType = "admin"
)

// IsValid checks if the UserRoleType is a valid enum value
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSupervisor, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	ID           string         `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email        string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	DisplayName  string         `gorm:"type:varchar(200);not null;column:name" json:"displayName"`
	PasswordHash string         `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	Roles        pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	IsActive     bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role UserRoleType) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}
