package tencent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	sdkerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	ssl "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/ssl/v20191205"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

const (
	pageSize     = 100
	revokeReason = "proxy admin"

	codeNotFound      = "InvalidParameter.CertificateNotFound"
	codeInvalidStatus = "InvalidParameter.CertificateStatusInvalid"
)

// Client is a cloud.CA backed by the Tencent Cloud SSL API. Calls go through
// a circuit breaker that opens after repeated transport failures; error
// answers from the API do not count as failures.
type Client struct {
	ssl     *ssl.Client
	breaker *gobreaker.CircuitBreaker[any]
	logger  *zap.Logger
}

var _ cloud.CA = (*Client)(nil)

// New returns a Client for the configured account.
func New(conf *config.Cloud, logger *zap.Logger) (*Client, error) {
	credential := common.NewCredential(conf.SecretID, conf.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = conf.Endpoint

	client, err := ssl.NewClient(credential, conf.Region, cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to create ssl client: %w", err)
	}

	return &Client{
		ssl:     client,
		breaker: newBreaker(logger),
		logger:  logger,
	}, nil
}

func newBreaker(logger *zap.Logger) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "tencent-ssl",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var sdkErr *sdkerrors.TencentCloudSDKError
			return err == nil || errors.As(err, &sdkErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cloud CA circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func call[T any](c *Client, op string, fn func() (T, error)) (T, error) {
	v, err := c.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, classify(op, err)
	}
	return v.(T), nil
}

// classify maps API answers to ServiceError and everything else to
// TransportError.
func classify(op string, err error) error {
	var sdkErr *sdkerrors.TencentCloudSDKError
	if errors.As(err, &sdkErr) {
		return &errs.ServiceError{Op: op, Message: fmt.Sprintf("%s - %s", sdkErr.Code, sdkErr.Message)}
	}
	return &errs.TransportError{Op: op, Err: err}
}

// Apply implements cloud.CA.
func (c *Client) Apply(ctx context.Context, req cloud.ApplyRequest) (cloud.ApplyResult, error) {
	request := ssl.NewApplyCertificateRequest()
	request.DvAuthMethod = common.StringPtr(string(req.ValidateType))
	request.DomainName = common.StringPtr(req.Domain)
	if req.Alias != "" {
		request.Alias = common.StringPtr(req.Alias)
	}

	resp, err := call(c, "apply certificate", func() (*ssl.ApplyCertificateResponse, error) {
		return c.ssl.ApplyCertificateWithContext(ctx, request)
	})
	if err != nil {
		return cloud.ApplyResult{}, err
	}
	if resp.Response == nil || resp.Response.CertificateId == nil {
		return cloud.ApplyResult{}, &errs.ServiceError{Op: "apply certificate", Message: "empty certificate id in response"}
	}

	result := cloud.ApplyResult{CertificateID: *resp.Response.CertificateId}
	if req.ValidateType == cloud.ValidateDNS {
		detail, err := c.Describe(ctx, result.CertificateID)
		if err != nil {
			c.logger.Warn("failed to fetch dns validation record",
				zap.String("certificate_id", result.CertificateID),
				zap.Error(err),
			)
		} else {
			result.Validation = detail.Validation
		}
	}

	return result, nil
}

// Describe implements cloud.CA.
func (c *Client) Describe(ctx context.Context, certificateID string) (cloud.Detail, error) {
	request := ssl.NewDescribeCertificateDetailRequest()
	request.CertificateId = common.StringPtr(certificateID)

	resp, err := call(c, "describe certificate", func() (*ssl.DescribeCertificateDetailResponse, error) {
		return c.ssl.DescribeCertificateDetailWithContext(ctx, request)
	})
	if err != nil {
		return cloud.Detail{}, err
	}

	r := resp.Response
	if r == nil {
		return cloud.Detail{}, &errs.ServiceError{Op: "describe certificate", Message: "empty response"}
	}

	detail := cloud.Detail{
		CertificateID: certificateID,
		Domain:        deref(r.Domain),
		Alias:         deref(r.Alias),
		EndTime:       deref(r.CertEndTime),
	}
	if r.Status != nil {
		detail.Status = cloud.Status(*r.Status)
	}
	if r.DvAuthDetail != nil && r.DvAuthDetail.DvAuthKey != nil {
		detail.Validation = &cloud.Validation{
			Type:   string(cloud.ValidateDNS),
			Record: deref(r.DvAuthDetail.DvAuthKey),
			Value:  deref(r.DvAuthDetail.DvAuthValue),
		}
	}

	return detail, nil
}

// Download implements cloud.CA.
func (c *Client) Download(ctx context.Context, certificateID string) (cloud.Bundle, error) {
	request := ssl.NewDownloadCertificateRequest()
	request.CertificateId = common.StringPtr(certificateID)

	resp, err := call(c, "download certificate", func() (*ssl.DownloadCertificateResponse, error) {
		return c.ssl.DownloadCertificateWithContext(ctx, request)
	})
	if err != nil {
		return cloud.Bundle{}, err
	}
	if resp.Response == nil || resp.Response.Content == nil {
		return cloud.Bundle{}, &errs.ServiceError{Op: "download certificate", Message: "certificate content is empty"}
	}

	bundle, err := ExtractBundle(*resp.Response.Content)
	if err != nil {
		return cloud.Bundle{}, fmt.Errorf("failed to extract certificate %s: %w", certificateID, err)
	}
	return bundle, nil
}

// Revoke implements cloud.CA.
func (c *Client) Revoke(ctx context.Context, certificateID string) error {
	request := ssl.NewRevokeCertificateRequest()
	request.CertificateId = common.StringPtr(certificateID)
	request.Reason = common.StringPtr(revokeReason)

	_, err := c.breaker.Execute(func() (any, error) {
		return c.ssl.RevokeCertificateWithContext(ctx, request)
	})
	if err != nil {
		var sdkErr *sdkerrors.TencentCloudSDKError
		if errors.As(err, &sdkErr) && (sdkErr.Code == codeNotFound || sdkErr.Code == codeInvalidStatus) {
			return cloud.ErrGone
		}
		return classify("revoke certificate", err)
	}
	return nil
}

// List implements cloud.CA.
func (c *Client) List(ctx context.Context) ([]cloud.Summary, error) {
	request := ssl.NewDescribeCertificatesRequest()
	request.Limit = common.Uint64Ptr(pageSize)
	request.Offset = common.Uint64Ptr(0)

	var all []cloud.Summary
	for {
		resp, err := call(c, "list certificates", func() (*ssl.DescribeCertificatesResponse, error) {
			return c.ssl.DescribeCertificatesWithContext(ctx, request)
		})
		if err != nil {
			return nil, err
		}
		if resp.Response == nil || len(resp.Response.Certificates) == 0 {
			break
		}

		for _, cert := range resp.Response.Certificates {
			if cert == nil || cert.CertificateId == nil {
				continue
			}
			s := cloud.Summary{
				CertificateID: *cert.CertificateId,
				Domain:        deref(cert.Domain),
				Alias:         deref(cert.Alias),
				EndTime:       deref(cert.CertEndTime),
			}
			if cert.Status != nil {
				s.Status = cloud.Status(*cert.Status)
			}
			all = append(all, s)
		}

		if resp.Response.TotalCount == nil || uint64(len(all)) >= *resp.Response.TotalCount {
			break
		}
		*request.Offset += *request.Limit
	}

	return all, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
