package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	appconfig "estate-scraper/config"
	"estate-scraper/utils"
)

// Notifier delivers run reports. Implementations must be safe to call
// with an empty failure list.
type Notifier interface {
	NotifyRunResult(ctx context.Context, subject, body string) error
}

// New returns an SES-backed notifier when email settings are present,
// otherwise a no-op notifier. Missing email configuration is not an
// error: runs proceed, only without notifications.
func New(ctx context.Context, cfg *appconfig.Config, logger *utils.Logger) (Notifier, error) {
	if !cfg.EmailConfigured() {
		logger.Info("Email notifications disabled (EMAIL_FROM / EMAIL_TO not set)")
		return &Disabled{logger: logger}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("notify: load aws config: %w", err)
	}

	to := strings.Split(cfg.EmailTo, ",")
	for i := range to {
		to[i] = strings.TrimSpace(to[i])
	}

	return &SESNotifier{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.EmailFrom,
		to:     to,
		logger: logger,
	}, nil
}

// Disabled is the no-op notifier used when email is not configured.
type Disabled struct {
	logger *utils.Logger
}

func (d *Disabled) NotifyRunResult(_ context.Context, subject, _ string) error {
	d.logger.Debug("Skipping notification %q, email not configured", subject)
	return nil
}

// SESNotifier sends run reports through Amazon SES.
type SESNotifier struct {
	client *ses.Client
	from   string
	to     []string
	logger *utils.Logger
}

func (n *SESNotifier) NotifyRunResult(ctx context.Context, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: n.to,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("notify: send email to %s: %w", strings.Join(n.to, ", "), err)
	}
	n.logger.Info("Sent notification %q to %s", subject, strings.Join(n.to, ", "))
	return nil
}
