// Package notify sends fire-and-forget notification envelopes to an external
// messaging endpoint.
package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notification kinds the endpoint understands.
const (
	KindRenewal = "renewal"
	KindStatus  = "status"
	KindCustom  = "custom"
)

// ErrInvalidInput means the notification was malformed; it is returned before
// any network call is attempted.
var ErrInvalidInput = errors.New("invalid notification input")

// Dispatcher posts {to, type, data|subject+html} envelopes to the configured
// endpoint. Failures are reported to the caller and never retried here;
// retry policy belongs to whoever dispatched.
type Dispatcher struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Dispatcher {
	return &Dispatcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Dispatch validates the input, then posts one envelope. Custom notifications
// must carry both subject and html; every kind needs a plausible address.
func (d *Dispatcher) Dispatch(to, kind string, payload map[string]any) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("%w: recipient %q is not an email address", ErrInvalidInput, to)
	}
	switch kind {
	case KindRenewal, KindStatus:
	case KindCustom:
		if s, _ := payload["subject"].(string); s == "" {
			return fmt.Errorf("%w: custom notification needs a subject", ErrInvalidInput)
		}
		if h, _ := payload["html"].(string); h == "" {
			return fmt.Errorf("%w: custom notification needs a body", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}

	envelope := map[string]any{"to": to, "type": kind}
	if kind == KindCustom {
		envelope["subject"] = payload["subject"]
		envelope["html"] = payload["html"]
	} else {
		envelope["data"] = payload
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("notify: marshal envelope: %w", err)
	}
	resp, err := d.client.Post(d.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: post to %s: %w", d.endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: endpoint returned %s", resp.Status)
	}
	return nil
}
