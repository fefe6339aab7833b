package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	"github.com/zatekoja/goldenhour/pkg/retry"
)

// EmailSender delivers plain-text email
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

// WhatsAppSender delivers a free-form WhatsApp text message
type WhatsAppSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

const alertSubjectTemplate = "[{{severity}}] Emergency dispatch to {{facility_name}}"

const alertEmailTemplate = `EMERGENCY ALERT

Severity: {{severity}} (priority {{priority}})
Assessment: {{risk}}
Assigned hospital: {{facility_name}}
Estimated arrival: {{eta}} minutes ({{distance}} km)
Location: {{address}} ({{coordinates}})
{{#if description}}Description: {{description}}
{{/if}}{{#if contact_email}}Reporter contact: {{contact_email}}
{{/if}}
Reference: {{request_id}}
`

const alertWhatsAppTemplate = "🚨 {{severity}} emergency en route. ETA {{eta}} min. {{risk}}. Location: {{address}}. Ref {{request_id}}"

// NotificationService implements providers.Notifier over email and WhatsApp
type NotificationService struct {
	email        EmailSender
	whatsapp     WhatsAppSender
	dispatchDesk []string
	retryConfig  retry.Config
}

// NewNotificationService creates a new notification service. Either sender may be nil.
func NewNotificationService(email EmailSender, whatsapp WhatsAppSender, dispatchDesk []string) *NotificationService {
	return &NotificationService{
		email:        email,
		whatsapp:     whatsapp,
		dispatchDesk: dispatchDesk,
		retryConfig:  retry.DeliveryConfig(),
	}
}

// Notify sends the alert on every configured channel. A failing channel does not stop the others;
// all failures are joined into the returned error.
func (n *NotificationService) Notify(ctx context.Context, alert *entities.EmergencyAlert) error {
	values := alertValues(alert)
	var errs []error

	if recipients := n.emailRecipients(alert); n.email != nil && len(recipients) > 0 {
		subject := renderTemplate(alertSubjectTemplate, values)
		body := renderTemplate(alertEmailTemplate, values)
		err := n.deliver(ctx, "email", func() error {
			return n.email.SendEmail(ctx, recipients, subject, body)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("email alert: %w", err))
		}
	}

	if n.whatsapp != nil && alert.FacilityWhatsApp != "" {
		body := renderTemplate(alertWhatsAppTemplate, values)
		err := n.deliver(ctx, "whatsapp", func() error {
			_, err := n.whatsapp.SendText(ctx, alert.FacilityWhatsApp, body)
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("whatsapp alert: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (n *NotificationService) deliver(ctx context.Context, channel string, fn func() error) error {
	logger := observability.LoggerFromContext(ctx)
	return retry.DoWithLog(ctx, n.retryConfig, channel, fn, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().
			Err(err).
			Str("channel", channel).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("alert delivery failed, retrying")
	})
}

// emailRecipients returns the reporter, the facility and the dispatch desk, de-duplicated
func (n *NotificationService) emailRecipients(alert *entities.EmergencyAlert) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return
		}
		key := strings.ToLower(addr)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}

	add(alert.ContactEmail)
	add(alert.FacilityEmail)
	for _, desk := range n.dispatchDesk {
		add(desk)
	}
	return out
}

func alertValues(alert *entities.EmergencyAlert) map[string]string {
	return map[string]string{
		"request_id":    alert.RequestID,
		"severity":      string(alert.Severity),
		"priority":      fmt.Sprintf("%d", alert.Priority),
		"risk":          alert.RiskSummary,
		"facility_name": alert.FacilityName,
		"eta":           fmt.Sprintf("%.1f", alert.ETAMinutes),
		"distance":      fmt.Sprintf("%.1f", alert.DistanceKm),
		"address":       alert.Address,
		"coordinates":   fmt.Sprintf("%.5f, %.5f", alert.Location.Latitude, alert.Location.Longitude),
		"description":   alert.Description,
		"contact_email": alert.ContactEmail,
	}
}

// renderTemplate replaces {{key}} placeholders and keeps {{#if key}}...{{/if}} sections
// only when the value for key is non-empty
func renderTemplate(template string, values map[string]string) string {
	for {
		start := strings.Index(template, "{{#if ")
		if start < 0 {
			break
		}
		keyEnd := strings.Index(template[start:], "}}")
		if keyEnd < 0 {
			break
		}
		key := strings.TrimSpace(template[start+len("{{#if ") : start+keyEnd])
		bodyStart := start + keyEnd + 2
		end := strings.Index(template[bodyStart:], "{{/if}}")
		if end < 0 {
			break
		}
		body := template[bodyStart : bodyStart+end]
		if values[key] == "" {
			body = ""
		}
		template = template[:start] + body + template[bodyStart+end+len("{{/if}}"):]
	}

	// single pass: substituted values are never rescanned
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
