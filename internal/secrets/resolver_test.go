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
	"testing"
)

func TestResolveLiteral(t *testing.T) {
	r := NewResolver()

	tests := []string{
		"plain-value",
		"",
		"https://not-a-reference",
		"env:/missing-second-slash",
	}
	for _, ref := range tests {
		got, err := r.Resolve(context.Background(), ref)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", ref, err)
		}
		if got != ref {
			t.Errorf("Resolve(%q) = %q, want the literal back", ref, got)
		}
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("PODIUM_TEST_SECRET", "from-env")

	r := NewResolver()
	got, err := r.Resolve(context.Background(), "env://PODIUM_TEST_SECRET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Errorf("got %q, want %q", got, "from-env")
	}
}

func TestResolveEnvMissing(t *testing.T) {
	r := NewResolver()
	_, err := r.Resolve(context.Background(), "env://PODIUM_TEST_SECRET_UNSET")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestResolveEmptyName(t *testing.T) {
	r := NewResolver()

	if _, err := r.Resolve(context.Background(), "env://"); err == nil {
		t.Error("empty env name should fail")
	}
	if _, err := r.Resolve(context.Background(), "keyring://"); err == nil {
		t.Error("empty keyring key should fail")
	}
}

func TestIsReference(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"env://TOKEN", true},
		{"keyring://api-token", true},
		{"literal", false},
		{"", false},
		{"file://something", false},
	}
	for _, tt := range tests {
		if got := IsReference(tt.ref); got != tt.want {
			t.Errorf("IsReference(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

// TestKeychainIntegration tests actual keychain operations.
// This requires a working keychain, so it skips where none is available.
func TestKeychainIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	store := NewKeychain()
	if !store.Available() {
		t.Skip("Keychain not available on this system")
	}

	ctx := context.Background()
	testKey := "test/podium/integration_test"

	_ = store.Delete(ctx, testKey)
	defer func() {
		_ = store.Delete(ctx, testKey)
	}()

	if err := store.Set(ctx, testKey, "test-secret-value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, testKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "test-secret-value" {
		t.Errorf("Get() = %q", got)
	}

	if err := store.Delete(ctx, testKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, testKey); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound after delete, got %v", err)
	}
}

func TestIsKeychainUnavailableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"locked keychain", errors.New("keychain is locked"), true},
		{"dbus failure", errors.New("failed to connect to dbus"), true},
		{"plain not found", errors.New("no such item"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isKeychainUnavailableError(tt.err); got != tt.want {
				t.Errorf("isKeychainUnavailableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
