package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	enquiryDomain "keystone/internal/domain/enquiry"
	leadDomain "keystone/internal/domain/lead"
)

// LeadStoreForSync extends LeadStore with the email lookup used to find the
// legacy lead that mirrors an enquiry. Leads carry no enquiry reference, so
// the guardian email is the join key.
type LeadStoreForSync interface {
	LeadStore
	GetByEmail(ctx context.Context, email string) (leadDomain.Lead, error)
}

// UpdateEnquiryStatusInput carries input for the status update.
type UpdateEnquiryStatusInput struct {
	EnquiryID string
	Status    string
}

// UpdateEnquiryStatusDeps holds dependencies for UpdateEnquiryStatus.
type UpdateEnquiryStatusDeps struct {
	EnquiryStore EnquiryStore
	LeadStore    LeadStoreForSync
}

// enquiryToLeadStatus maps enquiry lifecycle statuses to their legacy lead
// counterparts. Statuses without a mapping leave the lead untouched.
var enquiryToLeadStatus = map[string]string{
	enquiryDomain.StatusConsultationRequested: leadDomain.StatusNew,
	enquiryDomain.StatusConsultationScheduled: leadDomain.StatusConsultationBooked,
	enquiryDomain.StatusContacted:             leadDomain.StatusContacted,
	enquiryDomain.StatusEnrolled:              leadDomain.StatusConverted,
	enquiryDomain.StatusClosed:                leadDomain.StatusClosed,
}

// ExecuteUpdateEnquiryStatus moves an enquiry to a new lifecycle status and
// keeps the mirroring legacy lead in step where a mapping exists. A lead
// lookup miss is logged and ignored; the enquiry update is the operation.
// PRE: EnquiryID exists; Status is a valid enquiry status
// POST: Enquiry status updated; matching lead status synced when found
func ExecuteUpdateEnquiryStatus(ctx context.Context, input UpdateEnquiryStatusInput, deps UpdateEnquiryStatusDeps) error {
	if input.EnquiryID == "" {
		return errors.New("enquiry ID is required")
	}

	e, err := deps.EnquiryStore.GetByID(ctx, input.EnquiryID)
	if err != nil {
		return err
	}

	if err := e.UpdateStatus(input.Status); err != nil {
		return err
	}

	if err := deps.EnquiryStore.UpdateStatus(ctx, e.ID, e.Status); err != nil {
		return err
	}

	slog.Info("enquiry_event", "event", "enquiry_status_updated", "enquiry_id", e.ID, "status", e.Status)

	leadStatus, ok := enquiryToLeadStatus[e.Status]
	if !ok {
		return nil
	}

	l, err := deps.LeadStore.GetByEmail(ctx, e.GuardianEmail)
	if err != nil {
		slog.Warn("lead_sync_lookup_failed", "enquiry_id", e.ID, "email", e.GuardianEmail, "error", err)
		return nil
	}

	if err := l.UpdateStatus(leadStatus); err != nil {
		return err
	}
	if err := deps.LeadStore.Save(ctx, l); err != nil {
		slog.Warn("lead_sync_save_failed", "enquiry_id", e.ID, "lead_id", l.ID, "error", err)
		return nil
	}

	slog.Info("enquiry_event", "event", "lead_status_synced", "lead_id", l.ID, "status", leadStatus)
	return nil
}
