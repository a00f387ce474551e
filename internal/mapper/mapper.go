package mapper

import (
	"encoding/json"

	"github.com/comprasys/cotacao-api/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05Z"

// ToQuotationDTO converts Quotation to QuotationDTO. Only supplier rows of
// the current version are mapped; history lives in the version endpoints.
func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	var suppliers []domain.QuotationSupplierDTO
	for _, s := range q.Suppliers {
		if s.Version != q.CurrentVersion {
			continue
		}
		suppliers = append(suppliers, ToQuotationSupplierDTO(&s))
	}
	if suppliers == nil {
		suppliers = []domain.QuotationSupplierDTO{}
	}

	dto := domain.QuotationDTO{
		ID:              q.ID,
		Status:          q.Status,
		PurchaseType:    q.PurchaseType,
		EmergencyReason: q.EmergencyReason,
		DeliveryPlace:   q.DeliveryPlace,
		BuyerID:         q.BuyerID,
		BuyerName:       q.BuyerName,
		CurrentVersion:  q.CurrentVersion,
		LockVersion:     q.LockVersion,
		Suppliers:       suppliers,
		CreatedAt:       q.CreatedAt.Format(timeLayout),
		UpdatedAt:       q.UpdatedAt.Format(timeLayout),
	}

	if q.DeadlineAt != nil {
		deadline := q.DeadlineAt.Format(timeLayout)
		dto.DeadlineAt = &deadline
	}
	if q.ApprovalRecord != nil {
		approval := ToApprovalRecordDTO(q.ApprovalRecord)
		dto.Approval = &approval
	}
	if q.RejectionRecord != nil {
		rejection := ToRejectionRecordDTO(q.RejectionRecord)
		dto.Rejection = &rejection
	}
	for _, r := range q.RenegotiationRecords {
		dto.Renegotiations = append(dto.Renegotiations, ToRenegotiationRecordDTO(&r))
	}
	for _, a := range q.Attachments {
		dto.Attachments = append(dto.Attachments, ToAttachmentDTO(&a))
	}

	return dto
}

// ToQuotationSupplierDTO converts QuotationSupplier to QuotationSupplierDTO
func ToQuotationSupplierDTO(s *domain.QuotationSupplier) domain.QuotationSupplierDTO {
	items := make([]domain.QuotationItemDTO, len(s.Items))
	for i, item := range s.Items {
		items[i] = ToQuotationItemDTO(&item)
	}

	return domain.QuotationSupplierDTO{
		ID:           s.ID,
		SupplierID:   s.SupplierID,
		Name:         s.Name,
		FreightType:  s.FreightType,
		FreightTotal: s.FreightTotal,
		PaymentTerm:  s.PaymentTerm,
		Version:      s.Version,
		Items:        items,
	}
}

// ToQuotationItemDTO converts QuotationItem to QuotationItemDTO
func ToQuotationItemDTO(item *domain.QuotationItem) domain.QuotationItemDTO {
	return domain.QuotationItemDTO{
		ID:                      item.ID,
		ProductID:               item.ProductID,
		ProductName:             item.ProductName,
		Quantity:                item.Quantity,
		Unit:                    item.Unit,
		UnitPrice:               item.UnitPrice,
		DifalPercent:            item.DifalPercent,
		IPI:                     item.IPI,
		DeliveryTerm:            item.DeliveryTerm,
		LastApprovedPrice:       item.LastApprovedPrice,
		FirstQuotedPrice:        item.FirstQuotedPrice,
		FlaggedForRenegotiation: item.FlaggedForRenegotiation,
	}
}

// ToQuotationVersionDTO converts QuotationVersion to QuotationVersionDTO
func ToQuotationVersionDTO(v *domain.QuotationVersion) domain.QuotationVersionDTO {
	return domain.QuotationVersionDTO{
		ID:            v.ID,
		Version:       v.Version,
		Status:        v.Status,
		Snapshot:      v.Snapshot,
		CreatedByID:   v.CreatedByID,
		CreatedByName: v.CreatedByName,
		CreatedAt:     v.CreatedAt.Format(timeLayout),
	}
}

// ToApprovalRecordDTO converts ApprovalRecord to ApprovalRecordDTO
func ToApprovalRecordDTO(r *domain.ApprovalRecord) domain.ApprovalRecordDTO {
	return domain.ApprovalRecordDTO{
		ID:             r.ID,
		Version:        r.Version,
		ApprovalType:   r.ApprovalType,
		ApprovedItems:  decodeItemRefs(r.ApprovedItems),
		Reason:         r.Reason,
		ApprovedByID:   r.ApprovedByID,
		ApprovedByName: r.ApprovedByName,
		ApprovedAt:     r.ApprovedAt.Format(timeLayout),
	}
}

// ToRejectionRecordDTO converts RejectionRecord to RejectionRecordDTO
func ToRejectionRecordDTO(r *domain.RejectionRecord) domain.RejectionRecordDTO {
	return domain.RejectionRecordDTO{
		ID:             r.ID,
		Version:        r.Version,
		Reason:         r.Reason,
		RejectedByID:   r.RejectedByID,
		RejectedByName: r.RejectedByName,
		RejectedAt:     r.RejectedAt.Format(timeLayout),
	}
}

// ToRenegotiationRecordDTO converts RenegotiationRecord to RenegotiationRecordDTO
func ToRenegotiationRecordDTO(r *domain.RenegotiationRecord) domain.RenegotiationRecordDTO {
	return domain.RenegotiationRecordDTO{
		ID:              r.ID,
		Version:         r.Version,
		SelectedItems:   decodeItemRefs(r.SelectedItems),
		Justification:   r.Justification,
		Observations:    r.Observations,
		RequestedByID:   r.RequestedByID,
		RequestedByName: r.RequestedByName,
		RequestedAt:     r.RequestedAt.Format(timeLayout),
	}
}

// ToSavingDTO converts Saving to SavingDTO
func ToSavingDTO(s *domain.Saving) domain.SavingDTO {
	items := make([]domain.SavingItemDTO, len(s.Items))
	for i, item := range s.Items {
		items[i] = ToSavingItemDTO(&item)
	}

	return domain.SavingDTO{
		ID:                s.ID,
		QuotationID:       s.QuotationID,
		BuyerID:           s.BuyerID,
		PurchaseType:      s.PurchaseType,
		DeliveryPlace:     s.DeliveryPlace,
		TotalInitialValue: s.TotalInitialValue,
		TotalFinalValue:   s.TotalFinalValue,
		Economy:           s.Economy,
		EconomyPercent:    s.EconomyPercent,
		Rounds:            s.Rounds,
		Status:            s.Status,
		Observations:      s.Observations,
		Items:             items,
		CreatedAt:         s.CreatedAt.Format(timeLayout),
	}
}

// ToSavingItemDTO converts SavingItem to SavingItemDTO
func ToSavingItemDTO(item *domain.SavingItem) domain.SavingItemDTO {
	return domain.SavingItemDTO{
		ID:               item.ID,
		Description:      item.Description,
		SupplierName:     item.SupplierName,
		Quantity:         item.Quantity,
		InitialUnitPrice: item.InitialUnitPrice,
		FinalUnitPrice:   item.FinalUnitPrice,
		Economy:          item.Economy,
		EconomyPercent:   item.EconomyPercent,
		DeliveryTerm:     item.DeliveryTerm,
		PaymentTerm:      item.PaymentTerm,
		Freight:          item.Freight,
		DifalPercent:     item.DifalPercent,
	}
}

// ToQuotationEventDTO converts QuotationEvent to QuotationEventDTO
func ToQuotationEventDTO(e *domain.QuotationEvent) domain.QuotationEventDTO {
	return domain.QuotationEventDTO{
		ID:          e.ID,
		QuotationID: e.QuotationID,
		Version:     e.Version,
		Kind:        e.Kind,
		FromStatus:  e.FromStatus,
		ToStatus:    e.ToStatus,
		Detail:      e.Detail,
		ActorID:     e.ActorID,
		ActorName:   e.ActorName,
		OccurredAt:  e.OccurredAt.Format(timeLayout),
	}
}

// ToAttachmentDTO converts Attachment to AttachmentDTO
func ToAttachmentDTO(a *domain.Attachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:          a.ID,
		QuotationID: a.QuotationID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt.Format(timeLayout),
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(u *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Roles:       u.Roles,
		IsActive:    u.IsActive,
	}
}

// decodeItemRefs parses a stored JSON item reference list. Corrupt payloads
// map to an empty list rather than failing the whole response.
func decodeItemRefs(raw string) []domain.ItemRefDTO {
	if raw == "" {
		return []domain.ItemRefDTO{}
	}
	var refs []domain.ItemRefDTO
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return []domain.ItemRefDTO{}
	}
	return refs
}
