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

package identity

import (
	"context"
	"testing"

	"github.com/tombee/podium/internal/config"
)

func TestTokenSourceUnconfigured(t *testing.T) {
	source, err := TokenSource(context.Background(), config.IdentityConfig{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != nil {
		t.Error("expected nil source with no identity configured")
	}
}

func TestTokenSourceStaticToken(t *testing.T) {
	t.Setenv("PODIUM_TEST_TOKEN", "tok-123")

	source, err := TokenSource(context.Background(), config.IdentityConfig{
		Token: "env://PODIUM_TEST_TOKEN",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source == nil {
		t.Fatal("expected a token source")
	}

	token, err := source.Token()
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token.AccessToken != "tok-123" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
}

func TestTokenSourceLiteralToken(t *testing.T) {
	source, err := TokenSource(context.Background(), config.IdentityConfig{
		Token: "literal-token",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := source.Token()
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token.AccessToken != "literal-token" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
}

func TestTokenSourceMissingEnvToken(t *testing.T) {
	_, err := TokenSource(context.Background(), config.IdentityConfig{
		Token: "env://PODIUM_TEST_TOKEN_MISSING",
	}, nil)
	if err == nil {
		t.Error("expected error for unresolvable token reference")
	}
}

func TestTokenSourceClientCredentialsPrecedence(t *testing.T) {
	// Client credentials build lazily; no token endpoint call happens
	// until Token() is invoked, so construction succeeds offline.
	source, err := TokenSource(context.Background(), config.IdentityConfig{
		Token: "should-be-ignored",
		ClientCredentials: config.ClientCredentialsConfig{
			TokenURL:     "https://login.example.com/oauth2/token",
			ClientID:     "client-1",
			ClientSecret: "secret-1",
			Scopes:       []string{"api://podium/.default"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source == nil {
		t.Fatal("expected a client-credentials token source")
	}
}
