package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups the portal's secrets in the OS keychain.
	KeyringService = "jobs-portal"

	TokenEnv = "PORTAL_BACKEND_TOKEN"
)

var ErrNoToken = errors.New("backend token not found (set it in keychain or via " + TokenEnv + ")")

// BackendToken looks in the keyring first, then the environment.
func BackendToken(account string) (string, error) {
	if strings.TrimSpace(account) != "" {
		tok, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(tok) != "" {
			return tok, nil
		}
	}
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		return tok, nil
	}
	return "", ErrNoToken
}

func SetBackendToken(account, token string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, account, token)
}

func DeleteBackendToken(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
