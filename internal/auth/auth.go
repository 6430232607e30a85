// Package auth stores the ChartMogul API key in the OS keychain, falling back
// to the CHARTMOGUL_API_KEY environment variable.
package auth

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/stephendolan/chartmogul-cli/internal/apierror"
	"github.com/stephendolan/chartmogul-cli/internal/config"
)

// ServiceName identifies this CLI's entries in the OS keychain.
const ServiceName = "chartmogul-cli"

// apiKeyAccount is the keychain account name for the API key.
const apiKeyAccount = "api-key"

// EnvAPIKey is the environment fallback for the API key.
const EnvAPIKey = "CHARTMOGUL_API_KEY"

const keyringUnavailableMessage = "Keychain storage unavailable. Cannot store credentials securely.\n" +
	"On Linux, install libsecret: sudo apt-get install libsecret-1-dev\n" +
	"Alternatively, use the CHARTMOGUL_API_KEY environment variable."

// APIKey returns the stored API key, preferring the keychain over the
// environment. Empty when neither is set.
func APIKey() string {
	if key, err := keyring.Get(ServiceName, apiKeyAccount); err == nil && key != "" {
		return key
	}
	return os.Getenv(EnvAPIKey)
}

// IsAuthenticated reports whether an API key is available.
func IsAuthenticated() bool {
	return APIKey() != ""
}

// SetAPIKey stores the API key in the keychain. When no keychain backend is
// available the error carries the fixed remediation message.
func SetAPIKey(key string) error {
	if err := keyring.Set(ServiceName, apiKeyAccount, key); err != nil {
		return &apierror.CLIError{Message: keyringUnavailableMessage, StatusCode: 1}
	}
	return nil
}

// Logout removes the stored API key and clears the default data source.
// A missing keychain entry is not an error.
func Logout() error {
	if err := keyring.Delete(ServiceName, apiKeyAccount); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return config.ClearDefaultDataSource()
}
