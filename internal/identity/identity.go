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

// Package identity builds OAuth2 token sources for the backing API from
// configuration. Two sources are supported: a static bearer token
// (resolved through a secret reference) and the client-credentials flow.
package identity

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tombee/podium/internal/config"
	"github.com/tombee/podium/internal/secrets"
)

// TokenSource builds an oauth2.TokenSource from the identity
// configuration. Client credentials take precedence over a static token;
// with neither configured the returned source is nil and outbound calls
// go unauthenticated.
func TokenSource(ctx context.Context, cfg config.IdentityConfig, resolver *secrets.Resolver) (oauth2.TokenSource, error) {
	if resolver == nil {
		resolver = secrets.NewResolver()
	}

	if cfg.ClientCredentials.TokenURL != "" {
		secret, err := resolver.Resolve(ctx, cfg.ClientCredentials.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve client secret: %w", err)
		}

		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientCredentials.ClientID,
			ClientSecret: secret,
			TokenURL:     cfg.ClientCredentials.TokenURL,
			Scopes:       cfg.ClientCredentials.Scopes,
		}
		return cc.TokenSource(ctx), nil
	}

	if cfg.Token != "" {
		token, err := resolver.Resolve(ctx, cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve API token: %w", err)
		}
		if token == "" {
			return nil, nil
		}
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), nil
	}

	return nil, nil
}
