// Package emailsvc provides the core.EmailService implementations.
package emailsvc

import (
	"github.com/trezcool/shkola/core"
)

// NewService returns the email provider selected by conf.EmailProvider.
// Tests always get the synchronous console mock.
func NewService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.TestMode {
		return NewConsoleServiceMock(conf, logger)
	}
	switch conf.EmailProvider {
	case "sendgrid":
		return NewSendgridService(conf, logger)
	case "resend":
		return NewResendService(conf, logger)
	default:
		return NewConsoleService(conf, logger)
	}
}
