package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperr "godlval/discountwatcher/pkg/errors"
)

// GatewayNotifier implements Notifier by posting messages directly to a
// WhatsApp HTTP gateway.
type GatewayNotifier struct {
	gatewayURL string
	phone      string
	client     *http.Client
}

type gatewayMessage struct {
	Phone   string `json:"phone"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewGatewayNotifier creates a new HTTP gateway notifier
func NewGatewayNotifier(gatewayURL, phone string) *GatewayNotifier {
	return &GatewayNotifier{
		gatewayURL: gatewayURL,
		phone:      phone,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts the message to the gateway
func (n *GatewayNotifier) Notify(kind string, body string) error {
	payload, err := json.Marshal(gatewayMessage{
		Phone:   n.phone,
		Kind:    kind,
		Message: body,
	})
	if err != nil {
		return apperr.NewDispatch(n.phone, "failed to encode message", err)
	}

	resp, err := n.client.Post(n.gatewayURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return apperr.NewDispatch(n.phone, "gateway request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.NewDispatch(n.phone, fmt.Sprintf("gateway returned status %d", resp.StatusCode), nil)
	}

	return nil
}

// Close is a no-op for the HTTP gateway
func (n *GatewayNotifier) Close() error {
	return nil
}
