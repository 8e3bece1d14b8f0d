package secret

import (
	"fmt"

	"github.com/zalando/go-keyring"

	"ArticlePress/internal/ports"
)

// defaultAccount mirrors the account name under which the integration token
// was stored by the operator's keychain tooling.
const defaultAccount = "default"

// KeyringStore resolves credentials from the operating system keychain.
type KeyringStore struct {
	account string
}

var _ ports.SecretStore = (*KeyringStore)(nil)

// NewKeyringStore builds a store reading the default account.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{account: defaultAccount}
}

// Get reads the secret stored under the given service name.
func (k *KeyringStore) Get(service string) (string, error) {
	secret, err := keyring.Get(service, k.account)
	if err != nil {
		return "", fmt.Errorf("keyring %s: %w", service, err)
	}
	return secret, nil
}
