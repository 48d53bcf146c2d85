// Package httpclient provides the HTTP capability consumed by dynamic
// metadata resolution: Get, Post, and Put against fully constructed URIs,
// returning the decoded response as a status/headers/body envelope.
//
// The client composes transport layers to provide:
//   - Request logging with sanitized URLs (sensitive params redacted)
//   - User-Agent header injection
//   - Correlation ID propagation for distributed tracing
//   - Bearer token injection from an oauth2 token source
//   - Host allow/block patterns to keep invocations on approved APIs
//   - Optional client-side rate limiting
//   - TLS 1.2+ with secure defaults and connection pooling
//
// There is no retry layer: each call is a single attempt, and any failure
// surfaces immediately to the caller.
//
// Example usage:
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "my-service/1.0"
//	client, err := httpclient.New(cfg)
//	if err != nil {
//	    return err
//	}
//
//	envelope, err := client.Get(ctx, httpclient.Options{URI: "https://api.example.com/resource"})
package httpclient
