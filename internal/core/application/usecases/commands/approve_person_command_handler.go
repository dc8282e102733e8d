package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

type approvalKind struct {
	action  access.Action
	topic   ports.Topic
	event   string
	approve func(p *identity.Person, a identity.Approver, profile identity.Profile, now time.Time) (identity.ApprovalFlag, error)
}

var (
	driverApproval = approvalKind{
		action:  access.ActionApproveDriver,
		topic:   ports.DriverApprovalTopic(),
		event:   EventDriverApproved,
		approve: (*identity.Person).ApproveDriver,
	}
	companyManagerApproval = approvalKind{
		action:  access.ActionApproveCompanyManager,
		topic:   ports.CompanyManagerApprovalTopic(),
		event:   EventCompanyManagerApproved,
		approve: (*identity.Person).ApproveCompanyManager,
	}
)

// ApprovePersonCommandHandler runs one of the two approvals. The profile
// and the approval flag are written in one guarded update; a second
// approval fails with identity.ErrAlreadyApproved.
type ApprovePersonCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
	kind       approvalKind
}

// NewApproveDriverCommandHandler approves drivers and company drivers.
func NewApproveDriverCommandHandler(uowFactory UoWFactory, fanOut *FanOut) ApprovePersonCommandHandler {
	return ApprovePersonCommandHandler{uowFactory: uowFactory, fanOut: fanOut, kind: driverApproval}
}

// NewApproveCompanyManagerCommandHandler approves company managers.
func NewApproveCompanyManagerCommandHandler(uowFactory UoWFactory, fanOut *FanOut) ApprovePersonCommandHandler {
	return ApprovePersonCommandHandler{uowFactory: uowFactory, fanOut: fanOut, kind: companyManagerApproval}
}

func (h ApprovePersonCommandHandler) Handle(ctx context.Context, cmd ApprovePersonCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkPermission(cmd.Actor(), h.kind.action); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	persons := uow.PersonRepository()
	target, err := persons.Get(ctx, cmd.PersonID())
	if err != nil {
		return err
	}
	if profile := cmd.Profile(); profile.ContragentID != nil {
		missing, missErr := uow.ReferenceRepository().MissingContragents(ctx, []kernel.UUID{*profile.ContragentID})
		if missErr != nil {
			return missErr
		}
		if len(missing) > 0 {
			return errs.NewObjectNotFoundError("contragentId", missing[0].String())
		}
	}

	flag, err := h.kind.approve(target, cmd.approver(), cmd.Profile(), time.Now().UTC())
	if err != nil {
		return err
	}
	if err = persons.ApplyApproval(ctx, target, flag); err != nil {
		return err
	}

	user, err := uow.UserRepository().Get(ctx, target.UserID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.Publish(ctx, h.kind.topic, target.UserID(), ports.NewLiveEvent(h.kind.event, map[string]any{
		"personId":        target.ID().String(),
		"approved":        target.Approved(),
		"approvedCompany": target.ApprovedCompany(),
	}))
	h.fanOut.Push(ctx, user, "Profile approved", "Your profile has been approved", map[string]string{
		"personId": target.ID().String(),
		"flag":     string(flag),
	})
	return nil
}
