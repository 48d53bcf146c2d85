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

package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrSecretNotFound is returned when a referenced secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrBackendUnavailable is returned when the backing store cannot be reached.
	ErrBackendUnavailable = errors.New("secret backend unavailable")
)

const (
	envScheme     = "env://"
	keyringScheme = "keyring://"
)

// Resolver resolves secret references against the environment and the
// OS keyring.
type Resolver struct {
	keychain *Keychain
}

// NewResolver creates a resolver backed by the OS keyring.
func NewResolver() *Resolver {
	return &Resolver{keychain: NewKeychain()}
}

// Resolve resolves a secret reference to its value. References without a
// recognized scheme are returned as-is.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, envScheme):
		name := strings.TrimPrefix(ref, envScheme)
		if name == "" {
			return "", fmt.Errorf("empty environment variable name in reference %q", ref)
		}
		value, ok := os.LookupEnv(name)
		if !ok {
			return "", fmt.Errorf("%w: environment variable %s is not set", ErrSecretNotFound, name)
		}
		return value, nil

	case strings.HasPrefix(ref, keyringScheme):
		key := strings.TrimPrefix(ref, keyringScheme)
		if key == "" {
			return "", fmt.Errorf("empty key in reference %q", ref)
		}
		return r.keychain.Get(ctx, key)

	default:
		return ref, nil
	}
}

// IsReference reports whether ref carries a resolver scheme rather than
// a literal value.
func IsReference(ref string) bool {
	return strings.HasPrefix(ref, envScheme) || strings.HasPrefix(ref, keyringScheme)
}
