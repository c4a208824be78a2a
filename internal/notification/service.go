package notification

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/realtime"

	"go.uber.org/zap"
)

// Service sends leave emails from the calling process and pushes live
// events through the configured publisher.
type Service struct {
	mailer  Mailer
	live    realtime.Publisher
	baseURL string
	logger  *zap.Logger
}

func NewService(mailer Mailer, live realtime.Publisher, baseURL string, logger ...*zap.Logger) *Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &Service{
		mailer:  mailer,
		live:    live,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  l,
	}
}

// ActionURL is the one-click link embedded in approval emails.
func ActionURL(baseURL, token, action string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("action", action)
	return strings.TrimRight(baseURL, "/") + "/api/v1/leave/email-action?" + q.Encode()
}

func (s *Service) NotifyApprovalRequested(ctx context.Context, leave LeaveSummary, approver Recipient, tokens *approvaltoken.TokenPair) error {
	if approver.Email == "" {
		return fmt.Errorf("approver %q has no email", approver.Name)
	}

	data := summaryData(leave)
	data.RecipientName = approver.Name
	if tokens != nil {
		data.ApproveURL = ActionURL(s.baseURL, tokens.Approve, approvaltoken.ActionApprove)
		data.RejectURL = ActionURL(s.baseURL, tokens.Reject, approvaltoken.ActionReject)
	}

	text, html, err := approvalRequestTemplates.render(data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Message{
		To:      []string{approver.Email},
		Subject: fmt.Sprintf("Leave approval required: %s (%s)", leave.EmployeeName, leave.LeaveType),
		Text:    text,
		HTML:    html,
	})
}

func (s *Service) NotifyDecision(ctx context.Context, leave LeaveSummary, employee Recipient, finalStatus, approverName, remark string) error {
	if employee.Email == "" {
		return fmt.Errorf("employee %q has no email", employee.Name)
	}

	data := summaryData(leave)
	data.RecipientName = employee.Name
	data.FinalStatus = strings.ToLower(finalStatus)
	data.ApproverName = approverName
	data.Remark = remark

	text, html, err := decisionTemplates.render(data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Message{
		To:      []string{employee.Email},
		Subject: fmt.Sprintf("Your leave request was %s", data.FinalStatus),
		Text:    text,
		HTML:    html,
	})
}

// NotifyOrgWide mails each recipient separately and keeps going past
// individual failures.
func (s *Service) NotifyOrgWide(ctx context.Context, leave LeaveSummary, approverName string, recipients []Recipient) error {
	data := summaryData(leave)
	data.ApproverName = approverName

	text, html, err := orgWideTemplates.render(data)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s is on leave %s to %s", leave.EmployeeName, data.StartDate, data.EndDate)

	var errs []error
	for _, r := range recipients {
		if r.Email == "" {
			continue
		}
		if err := s.mailer.Send(ctx, Message{To: []string{r.Email}, Subject: subject, Text: text, HTML: html}); err != nil {
			s.logger.Warn("org-wide leave notice failed",
				zap.Int64("leave_id", leave.ID),
				zap.String("to", r.Email),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) PushLiveEvent(ctx context.Context, target realtime.Target, ev realtime.Event) error {
	if s.live == nil || target.Empty() {
		return nil
	}
	return s.live.Publish(ctx, target, ev)
}
