// Package notify sends tier-specific follow-up messages after a successful
// submission. Delivery is best-effort: failures are logged and never block
// the user-visible result.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"academy-api/internal/assessment/collector"
	"academy-api/internal/assessment/presenter"
	"academy-api/internal/assessment/scorer"
	"academy-api/internal/assessment/tier"
	"academy-api/internal/common/config"
	commonerrors "academy-api/internal/common/errors"
	"academy-api/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Interfaces for mocking the AWS clients in tests.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type emailTemplate struct {
	Subject string
	Body    string
}

var followUpTemplates = map[tier.Tier]emailTemplate{
	tier.Premium: {
		Subject: "{{firstName}}, you're a premium candidate — let's get you flying",
		Body:    "Hi {{firstName}},\n\nYou scored {{total}}/150 on our pilot aptitude assessment, placing you in our {{label}} group.\n\nThe next step is simple: {{ctaLabel}}. Our admissions team will reach out within one business day.\n\nBlue skies,\nThe Academy Team",
	},
	tier.Strong: {
		Subject: "Strong assessment result, {{firstName}} — book your demo flight",
		Body:    "Hi {{firstName}},\n\nYou scored {{total}}/150 — a {{label}} result. A demo flight is the best way to find out how it feels in the left seat.\n\n{{ctaLabel}} whenever you're ready.\n\nBlue skies,\nThe Academy Team",
	},
	tier.Potential: {
		Subject: "Your pilot assessment results, {{firstName}}",
		Body:    "Hi {{firstName}},\n\nYou scored {{total}}/150. There's real potential here, and an advisor can help you plan the gap to the cockpit.\n\n{{ctaLabel}} — we'd love to talk.\n\nBlue skies,\nThe Academy Team",
	},
	tier.NotReady: {
		Subject: "Thanks for taking our assessment, {{firstName}}",
		Body:    "Hi {{firstName}},\n\nYou scored {{total}}/150. The timing may not be right just yet, but our starter program keeps you moving toward the cockpit at your own pace.\n\n{{ctaLabel}} to stay in the loop.\n\nBlue skies,\nThe Academy Team",
	},
}

// Notifier sends follow-up email via SES and sales alerts via SNS.
type Notifier struct {
	config    config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}

	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return n, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	n.sesClient = ses.NewFromConfig(awsCfg)
	n.snsClient = sns.NewFromConfig(awsCfg)
	return n, nil
}

// NewWithClients wires explicit clients; used by tests.
func NewWithClients(cfg config.NotificationConfig, log logger.Logger, sesClient SESService, snsClient SNSService) *Notifier {
	return &Notifier{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// SendTierFollowUp emails the lead their tier-specific follow-up and, for the
// configured alert tier, publishes an SMS alert to the sales line.
func (n *Notifier) SendTierFollowUp(ctx context.Context, contact collector.Contact, bundle presenter.Bundle, score scorer.Score) error {
	data := map[string]string{
		"firstName": contact.FirstName,
		"label":     bundle.Label,
		"total":     strconv.Itoa(score.Total),
		"ctaLabel":  bundle.CTALabel,
	}

	if n.config.Email.Enabled && n.sesClient != nil {
		template, ok := followUpTemplates[bundle.Tier]
		if !ok {
			template = followUpTemplates[tier.Potential]
		}

		subject := renderTemplate(template.Subject, data)
		body := renderTemplate(template.Body, data)

		_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
			Source: aws.String(n.config.Email.FromEmail),
			Destination: &types.Destination{
				ToAddresses: []string{contact.Email},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		})
		if err != nil {
			stdErr := commonerrors.NewNotificationSendFailedError("email", err)
			n.logger.Error("follow-up email failed", map[string]interface{}{
				"email": contact.Email,
				"tier":  bundle.Tier,
				"error": err.Error(),
			})
			return stdErr
		}

		n.logger.Info("follow-up email sent", map[string]interface{}{
			"email": contact.Email,
			"tier":  bundle.Tier,
		})
	}

	if n.config.SMS.Enabled && n.snsClient != nil && string(bundle.Tier) == n.config.SMS.AlertTier {
		if err := n.sendSalesAlert(ctx, contact, bundle, score); err != nil {
			return err
		}
	}

	return nil
}

func (n *Notifier) sendSalesAlert(ctx context.Context, contact collector.Contact, bundle presenter.Bundle, score scorer.Score) error {
	message := fmt.Sprintf("New %s lead: %s %s, %s, scored %d/150",
		bundle.Label, contact.FirstName, contact.LastName, contact.Phone, score.Total)

	input := &sns.PublishInput{
		PhoneNumber: aws.String(n.config.SMS.SalesPhone),
		Message:     aws.String(message),
	}
	if n.config.SMS.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.config.SMS.SenderID),
			},
		}
	}

	if _, err := n.snsClient.Publish(ctx, input); err != nil {
		stdErr := commonerrors.NewNotificationSendFailedError("sms", err)
		n.logger.Error("sales alert SMS failed", map[string]interface{}{
			"tier":  bundle.Tier,
			"error": err.Error(),
		})
		return stdErr
	}

	n.logger.Info("sales alert SMS sent", map[string]interface{}{
		"tier": bundle.Tier,
	})
	return nil
}

func renderTemplate(template string, data map[string]string) string {
	out := template
	for key, value := range data {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
