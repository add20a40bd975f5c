// Package notify sends "your item was seen" and "someone has your item"
// emails to the reporting user. Delivery goes through the EmailJS REST
// API when configured; otherwise sends are logged and dropped, which is
// all the original ever did. Notification failures never fail the user
// action that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reclaim/pkg/types"

	"github.com/sirupsen/logrus"
)

const emailAPIURL = "https://api.emailjs.com/api/v1.0/email/send"

type Emailer struct {
	serviceID      string
	publicKey      string
	seenTemplateID string
	haveTemplateID string

	httpClient *http.Client
	logger     *logrus.Logger
}

func NewEmailer(config *types.Config, logger *logrus.Logger) *Emailer {
	return &Emailer{
		serviceID:      config.EmailJSServiceID,
		publicKey:      config.EmailJSPublicKey,
		seenTemplateID: config.EmailJSSeenTemplateID,
		haveTemplateID: config.EmailJSHaveTemplateID,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         logger,
	}
}

// ItemSeen tells the owner that a third party reported a sighting.
func (e *Emailer) ItemSeen(ctx context.Context, item *types.Item, reporter types.Sighting) error {
	return e.send(ctx, e.seenTemplateID, item, reporter)
}

// ItemFound tells the owner that a third party has the item in hand.
func (e *Emailer) ItemFound(ctx context.Context, item *types.Item, reporter types.Sighting) error {
	return e.send(ctx, e.haveTemplateID, item, reporter)
}

func (e *Emailer) configured() bool {
	return e.serviceID != "" && e.publicKey != ""
}

func (e *Emailer) send(ctx context.Context, templateID string, item *types.Item, reporter types.Sighting) error {
	if !e.configured() || templateID == "" {
		e.logger.WithFields(logrus.Fields{
			"to":       item.OwnerEmail,
			"item":     item.Title,
			"reporter": reporter.Name,
		}).Info("email delivery not configured, notification logged only")
		return nil
	}

	payload := map[string]any{
		"service_id":  e.serviceID,
		"template_id": templateID,
		"user_id":     e.publicKey,
		"template_params": map[string]string{
			"to_email":       item.OwnerEmail,
			"to_name":        item.OwnerName,
			"item_name":      item.Title,
			"reporter_name":  reporter.Name,
			"reporter_email": reporter.Email,
			"reporter_phone": reporter.Phone,
			"location":       reporter.Location,
			"date":           reporter.Date,
			"message":        reporter.Message,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, emailAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email send failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
