// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token implements 'podium token': manage the API bearer token
// stored in the system keychain.
package token

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/podium/internal/commands/shared"
	"github.com/tombee/podium/internal/secrets"
)

var tokenUnmask bool

// NewCommand creates the token command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the API token in the system keychain",
		Long: `Manage the bearer token used to authenticate against the backing
connector API. The token is stored in the system keychain (macOS
Keychain, Linux Secret Service, Windows Credential Manager) and
referenced from the config as keyring://` + secrets.TokenKey + `.

Commands:
  set     Store the token (prompted or piped via stdin)
  show    Print the token, masked by default
  clear   Remove the token

Examples:
  podium token set
  echo "$TOKEN" | podium token set
  podium token show --unmask
  podium token clear`,
	}

	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newClearCommand())

	return cmd
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store the API token",
		Args:  cobra.NoArgs,
		RunE:  runSet,
	}
}

func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the API token (masked)",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
	cmd.Flags().BoolVar(&tokenUnmask, "unmask", false, "Show full value (not masked)")
	return cmd
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the API token",
		Args:  cobra.NoArgs,
		RunE:  runClear,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	value, err := readTokenValue()
	if err != nil {
		return shared.NewInvalidInputError("failed to read token", err)
	}
	if value == "" {
		return shared.NewInvalidInputError("token cannot be empty", nil)
	}

	keychain := secrets.NewKeychain()
	if err := keychain.Set(cmd.Context(), secrets.TokenKey, value); err != nil {
		if errors.Is(err, secrets.ErrBackendUnavailable) {
			return shared.NewConfigError(
				"keychain unavailable; set the token via an environment variable and identity.token: env://NAME instead", err)
		}
		return shared.NewConfigError("failed to store token", err)
	}

	fmt.Println(shared.RenderOK("token stored in keychain"))
	fmt.Println(shared.Muted.Render("reference it from config as identity.token: keyring://" + secrets.TokenKey))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	keychain := secrets.NewKeychain()
	value, err := keychain.Get(cmd.Context(), secrets.TokenKey)
	if err != nil {
		if errors.Is(err, secrets.ErrSecretNotFound) {
			return shared.NewConfigError("no token stored; set one with: podium token set", nil)
		}
		return shared.NewConfigError("failed to read token", err)
	}

	if tokenUnmask {
		fmt.Println(value)
		return nil
	}
	fmt.Printf("%s (use --unmask to show full value)\n", maskToken(value))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	keychain := secrets.NewKeychain()
	if err := keychain.Delete(cmd.Context(), secrets.TokenKey); err != nil {
		if errors.Is(err, secrets.ErrSecretNotFound) {
			fmt.Println("No token stored")
			return nil
		}
		return shared.NewConfigError("failed to remove token", err)
	}

	fmt.Println(shared.RenderOK("token removed"))
	return nil
}

// readTokenValue reads the token from stdin: hidden prompt on a TTY,
// first line otherwise (supports piping).
func readTokenValue() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Token: ")
		value, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(value)), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// maskToken shows only enough of the token to recognize it.
func maskToken(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", 8) + value[len(value)-4:]
}
