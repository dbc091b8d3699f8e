// Package notify sends lock/unlock signals for the photo box through an
// ntfy topic. The signal is fire-and-forget: callers only learn whether
// the publish went out, never what the booth did with it.
package notify

import (
	"net/http"
	"strings"
	"time"

	"boothmon/internal/logging"
)

const (
	commandLock   = "lock"
	commandUnlock = "unlock"
)

// Client publishes control commands to an ntfy topic.
type Client struct {
	baseURL    string
	topic      string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a notify client. An empty topic disables publishing;
// Lock and Unlock then warn and report failure instead of erroring out.
func NewClient(baseURL, topic string, logger *logging.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		topic:      topic,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

// Lock asks the booth software to lock.
func (c *Client) Lock() bool {
	return c.publish(commandLock)
}

// Unlock asks the booth software to unlock.
func (c *Client) Unlock() bool {
	return c.publish(commandUnlock)
}

func (c *Client) publish(command string) bool {
	if c.topic == "" {
		c.logger.Warn("notify.topic_missing", "Control topic not configured, cannot publish", map[string]interface{}{
			"command": command,
		})
		return false
	}

	url := strings.TrimRight(c.baseURL, "/") + "/" + c.topic

	c.logger.Info("notify.publish", "Publishing control command", map[string]interface{}{
		"command": command,
		"url":     url,
	})

	resp, err := c.httpClient.Post(url, "text/plain", strings.NewReader(command))
	if err != nil {
		c.logger.Error("notify.publish_failed", "Failed to publish control command", map[string]interface{}{
			"command": command,
			"error":   err.Error(),
		})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("notify.publish_rejected", "Relay rejected control command", map[string]interface{}{
			"command": command,
			"status":  resp.StatusCode,
		})
		return false
	}

	return true
}
