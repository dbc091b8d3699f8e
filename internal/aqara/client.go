// Package aqara drives the smart plug powering a printer. It is a side
// channel next to the status core: the dashboard can power-cycle a booth,
// nothing here feeds back into classification.
package aqara

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"boothmon/internal/logging"
	"boothmon/internal/secrets"
)

// DefaultAPIBase is the Aqara cloud endpoint.
const DefaultAPIBase = "https://open-ger.aqara.com"

const (
	actionOn  = "on"
	actionOff = "off"
)

// Credentials holds the Aqara account material. All four fields are
// required; none of them ever lives in code or config files.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// CredentialsFromEnv reads credentials from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		ClientID:     os.Getenv("AQARA_CLIENT_ID"),
		ClientSecret: os.Getenv("AQARA_CLIENT_SECRET"),
		Username:     os.Getenv("AQARA_USERNAME"),
		Password:     os.Getenv("AQARA_PASSWORD"),
	}
}

// Complete reports whether every credential field is set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

// SecretSource provides stored secret values by name.
type SecretSource interface {
	Get(name string) ([]byte, error)
}

// ResolveCredentials reads credentials from the environment, preferring
// the client secret held in the encrypted store when one exists.
func ResolveCredentials(store SecretSource) Credentials {
	creds := CredentialsFromEnv()
	if store == nil {
		return creds
	}
	if value, err := store.Get(secrets.NameAqaraSecret); err == nil && len(value) > 0 {
		creds.ClientSecret = string(value)
	}
	return creds
}

// Client is a minimal Aqara API client: authenticate once, then switch
// devices with the bearer token.
type Client struct {
	creds       Credentials
	apiBase     string
	httpClient  *http.Client
	logger      *logging.Logger
	accessToken string
}

// NewClient creates an Aqara client, failing when credentials are
// incomplete so a misconfigured .env surfaces at startup.
func NewClient(creds Credentials, logger *logging.Logger) (*Client, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("aqara credentials incomplete, check environment")
	}
	return &Client{
		creds:      creds,
		apiBase:    DefaultAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}, nil
}

// SetAPIBase overrides the cloud endpoint, primarily for tests.
func (c *Client) SetAPIBase(base string) {
	c.apiBase = base
}

type authRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
}

type controlRequest struct {
	DeviceID string `json:"device_id"`
	Action   string `json:"action"`
}

// Authenticate obtains a fresh access token.
func (c *Client) Authenticate() error {
	payload, err := json.Marshal(authRequest{
		ClientID:     c.creds.ClientID,
		ClientSecret: c.creds.ClientSecret,
		Username:     c.creds.Username,
		Password:     c.creds.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal auth request: %w", err)
	}

	resp, err := c.httpClient.Post(c.apiBase+"/auth", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth returned status %d", resp.StatusCode)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	if auth.AccessToken == "" {
		return fmt.Errorf("auth response carried no token")
	}

	c.accessToken = auth.AccessToken

	c.logger.Info("aqara.authenticated", "Aqara token obtained", nil)
	return nil
}

// EnsureToken authenticates only when no token is held yet.
func (c *Client) EnsureToken() error {
	if c.accessToken != "" {
		return nil
	}
	return c.Authenticate()
}

// SwitchOn powers a device on.
func (c *Client) SwitchOn(deviceID string) error {
	return c.control(deviceID, actionOn)
}

// SwitchOff powers a device off.
func (c *Client) SwitchOff(deviceID string) error {
	return c.control(deviceID, actionOff)
}

func (c *Client) control(deviceID, action string) error {
	if deviceID == "" {
		return fmt.Errorf("no device id configured")
	}
	if err := c.EnsureToken(); err != nil {
		return err
	}

	payload, err := json.Marshal(controlRequest{DeviceID: deviceID, Action: action})
	if err != nil {
		return fmt.Errorf("failed to marshal control request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.apiBase+"/device/control", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build control request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("control request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("control returned status %d", resp.StatusCode)
	}

	c.logger.Info("aqara.switched", "Device switched", map[string]interface{}{
		"device": deviceID,
		"action": action,
	})
	return nil
}
