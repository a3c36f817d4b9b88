package sbapi

import (
	"context"
	"strings"
	"time"

	"github.com/jake-scott/switchbot-cli/internal/pkg/jsonvalue"
	"github.com/jake-scott/switchbot-cli/internal/pkg/sbauth"
)

const (
	DefaultBaseURL    = "https://api.switch-bot.com"
	DefaultAPIVersion = "v1.1"
	DefaultTimeout    = time.Second * 15
)

// Config is resolved once at start-up and passed to NewLiveClient
type Config struct {
	Token       string
	Secret      string
	BaseURL     string
	APIVersion  string
	Timeout     time.Duration
	LogRequests bool
}

// Endpoint returns the versioned API root, eg. https://api.switch-bot.com/v1.1
func (c Config) Endpoint() string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	version := c.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	return strings.TrimRight(base, "/") + "/" + strings.Trim(version, "/")
}

// Credential validates and returns the token/secret pair
func (c Config) Credential() (sbauth.Credential, error) {
	return sbauth.NewCredential(c.Token, c.Secret)
}

// DeviceEntry is one item from the device listing
type DeviceEntry struct {
	Device   jsonvalue.Value
	Infrared bool
}

type SwitchBot interface {
	WithContext(ctx context.Context) SwitchBot
	WithTimeout(d time.Duration) SwitchBot
	Devices() (jsonvalue.Value, error)
	DeviceStatus(deviceID string) (jsonvalue.Value, error)
}
