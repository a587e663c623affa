package emailsvc

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"

	"github.com/trezcool/shkola/core"
)

const resendTimeout = 30 * time.Second

type resendService struct {
	conf       *core.Config
	client     *resend.Client
	from       string
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*resendService)(nil)

func NewResendService(conf *core.Config, logger core.Logger) core.EmailService {
	return &resendService{
		conf:       conf,
		client:     resend.NewClient(conf.ResendAPIKey),
		from:       conf.DefaultFromEmail.String(),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc *resendService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := msg.Render(svc.conf.AppName, svc.conf.FrontendBaseURL); err != nil {
				svc.logger.Error("rendering email", errors.Wrap(err, "rendering email"))
				return
			}
			if msg.HasRecipients() && msg.HasContent() {
				svc.send(*msg)
			}
		}()
	}
}

func (svc *resendService) prepare(msg core.EmailMessage) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    svc.from,
		To:      addresses(msg.To),
		Cc:      addresses(msg.Cc),
		Bcc:     addresses(msg.Bcc),
		Subject: svc.subjPrefix + msg.Subject,
		Text:    msg.TextContent,
		Html:    msg.HTMLContent,
	}
}

func addresses(addrs []mail.Address) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}

func (svc *resendService) send(msg core.EmailMessage) {
	req := svc.prepare(msg)

	ctx, cancel := context.WithTimeout(context.Background(), resendTimeout)
	defer cancel()
	sent, err := svc.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		svc.logger.Error("sending email", errors.Wrap(err, "resend"))
		return
	}
	svc.logger.Debug(fmt.Sprintf("email sent: %s", sent.Id))
}
