// Package mailer sends contact-seller messages through a hosted
// transactional email relay. The relay is a black box: this client only
// surfaces success or failure, it implements no email protocol of its
// own.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
)

const defaultEndpoint = "https://api.emailjs.com"

// Client calls an EmailJS-compatible relay API.
type Client struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	client     *http.Client
	logger     *logrus.Logger
}

func NewClient(endpoint, serviceID, templateID, publicKey string, logger *logrus.Logger) (*Client, error) {
	if serviceID == "" {
		return nil, errors.New("mail relay service id is not configured")
	}
	if templateID == "" {
		return nil, errors.New("mail relay template id is not configured")
	}
	if publicKey == "" {
		return nil, errors.New("mail relay public key is not configured")
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// SendForm relays a contact message to the seller named in it.
func (c *Client) SendForm(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ToEmail == "" {
		return errors.New("contact message has no recipient")
	}

	payload := map[string]interface{}{
		"service_id":  c.serviceID,
		"template_id": c.templateID,
		"user_id":     c.publicKey,
		"template_params": map[string]string{
			"to_email":      msg.ToEmail,
			"listing_title": msg.ListingTitle,
			"message":       msg.Message,
			"reply_to":      msg.ReplyTo,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %v", err)
	}

	url := c.endpoint + "/api/v1.0/email/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mail relay: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.New("mail relay rejected the public key")
		case http.StatusBadRequest:
			return fmt.Errorf("mail relay rejected the message: %s", string(body))
		case http.StatusNotFound:
			return errors.New("mail relay service or template not found")
		default:
			return fmt.Errorf("mail relay error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}
