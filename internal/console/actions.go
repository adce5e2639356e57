package console

import (
	"context"
	"fmt"
	"strings"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/inflight"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
)

// ActionRequest is an operator action on one certificate of a snapshot.
type ActionRequest struct {
	Action entities.Action
	Target certificate.View
	// Name is the new name of a rename.
	Name string
}

// Outcome is what an action returned. Only the field matching the action
// is set.
type Outcome struct {
	View    *certificate.View
	Status  *certificate.StatusReport
	Renewal *certificate.RenewResult
}

// Perform runs a certificate action and, once it succeeds, refreshes the
// certificate view the operator is on. The action must be allowed in the
// certificate's current state.
func (c *Console) Perform(ctx context.Context, req ActionRequest) (Outcome, error) {
	target := resolve(req.Target, c.now())
	if !certificate.AlwaysAllowed(req.Action) && !target.Actions.Has(req.Action) {
		return Outcome{}, fmt.Errorf("%s %s (%s): %w", req.Action, target.ID, target.State, errs.ErrActionNotAllowed)
	}
	if req.Action == entities.ActionRename && strings.TrimSpace(req.Name) == "" {
		return Outcome{}, errs.Validation(errs.InvalidInput, "name", "name must not be empty")
	}

	resource := "cert:" + string(target.Origin) + ":" + target.ID
	payload := ""
	if req.Action == entities.ActionRename {
		payload = strings.TrimSpace(req.Name)
	}
	out, _, err := inflight.Do(c.guard, resource, req.Action.String(), payload, func() (Outcome, error) {
		return c.dispatch(ctx, req.Action, target, req.Name)
	})
	if err != nil {
		return Outcome{}, err
	}

	c.Refresh(ctx, c.listing(target.Origin))
	return out, nil
}

func (c *Console) dispatch(ctx context.Context, action entities.Action, target certificate.View, name string) (Outcome, error) {
	cloudOrigin := target.Origin == entities.OriginCloud

	switch action {
	case entities.ActionDownload:
		v, err := c.certs.DownloadCertificate(ctx, target.ID)
		return Outcome{View: &v}, err
	case entities.ActionRenew:
		res, err := c.certs.RenewCertificate(ctx, target.ID)
		return Outcome{Renewal: &res}, err
	case entities.ActionCheckStatus:
		report, err := c.certs.CheckCertificateStatus(ctx, target.ID)
		return Outcome{Status: &report}, err
	case entities.ActionRename:
		var (
			v   certificate.View
			err error
		)
		if cloudOrigin {
			v, err = c.certs.RenameCloudCertificate(ctx, target.ID, strings.TrimSpace(name))
		} else {
			v, err = c.certs.RenameCertificate(ctx, target.ID, strings.TrimSpace(name))
		}
		return Outcome{View: &v}, err
	case entities.ActionDelete:
		if cloudOrigin {
			return Outcome{}, c.certs.DeleteCloudCertificate(ctx, target.ID)
		}
		return Outcome{}, c.certs.DeleteCertificate(ctx, target.ID)
	default:
		return Outcome{}, fmt.Errorf("unknown certificate action %d", action)
	}
}

// listing returns the view to refresh after an action on a certificate of
// origin o. Both certificate views list cloud certificates, so the one on
// screen wins; otherwise the view owning the origin is used.
func (c *Console) listing(o entities.Origin) View {
	if v := c.Current(); v == ViewCertificates || v == ViewCloudCertificates {
		return v
	}
	if o == entities.OriginCloud {
		return ViewCloudCertificates
	}
	return ViewCertificates
}
