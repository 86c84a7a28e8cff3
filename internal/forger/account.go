// Package forger is the operator control service: importing and exporting
// forging state and toggling forging for the locally configured delegate.
// It shells out to the node tooling and is operational, not part of the
// transaction core.
package forger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// DelegateAccount is the locally configured delegate loaded from
// account.json. The password unlocks forging on the node.
type DelegateAccount struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

// LoadDelegateAccount reads the delegate account file. When the file omits
// the password, it is prompted on the terminal without echoing.
func LoadDelegateAccount(path string) (*DelegateAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read delegate account file: %w", err)
	}

	var accounts []DelegateAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse delegate account file: %w", err)
	}
	if len(accounts) == 0 {
		return nil, errors.New("delegate account file is empty")
	}

	account := accounts[0]
	if account.Address == "" {
		return nil, errors.New("delegate account has no address")
	}
	if account.Password == "" {
		password, err := promptPassword()
		if err != nil {
			return nil, err
		}
		account.Password = password
	}
	return &account, nil
}

func promptPassword() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal: add the password to the account file or run interactively")
	}
	fmt.Fprint(os.Stderr, "Enter delegate password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password cannot be empty")
	}
	return string(raw), nil
}
