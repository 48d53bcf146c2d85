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

// Package schema implements 'podium schema': resolve a dynamic JSON
// schema fragment for a connector operation.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/podium/internal/commands/shared"
	"github.com/tombee/podium/internal/jq"
	"github.com/tombee/podium/pkg/dynamic"
)

type options struct {
	connection         string
	connector          string
	operation          string
	method             string
	path               string
	body               string
	queries            []string
	headers            []string
	valuePath          string
	managedIdentity    bool
	identityProperties string
	query              string
}

// NewCommand creates the schema command.
func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Resolve a dynamic JSON schema for an operation",
		Long: `Resolve a dynamic JSON schema fragment for a connector operation.

With --value-path unset the whole response body is wrapped as an object
schema. With it set, the slash-delimited path locates the schema inside
the response; a trailing "properties" segment is implicit and trimmed.

Examples:
  podium schema --connector sharepoint --operation GetListSchema \
    --connection conn-1 --method GET --path 'lists/items/schema' \
    --value-path 'schema/properties'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.connection, "connection", "", "Connection ID (managed-identity name, ARM resource ID, or plain ID)")
	cmd.Flags().StringVar(&opts.connector, "connector", "", "Connector ID (required)")
	cmd.Flags().StringVar(&opts.operation, "operation", "", "Operation ID (required)")
	cmd.Flags().StringVar(&opts.method, "method", "GET", "HTTP method for the upstream call (GET, POST, PUT)")
	cmd.Flags().StringVar(&opts.path, "path", "", "Upstream request path")
	cmd.Flags().StringVar(&opts.body, "body", "", "Upstream request body as JSON")
	cmd.Flags().StringArrayVar(&opts.queries, "query-param", nil, "Upstream query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.headers, "header", nil, "Upstream request header as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.valuePath, "value-path", "", "Path to the schema in the response")
	cmd.Flags().BoolVar(&opts.managedIdentity, "managed-identity", false, "Use managed-identity addressing (dynamicInvoke)")
	cmd.Flags().StringVar(&opts.identityProperties, "identity-properties", "", "Managed-identity properties as JSON")
	cmd.Flags().StringVar(&opts.query, "query", "", "jq expression applied to the result")

	_ = cmd.MarkFlagRequired("connector")
	_ = cmd.MarkFlagRequired("operation")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	service, err := shared.NewService(ctx, cfg)
	if err != nil {
		return err
	}

	if !service.IsClientSupportedOperation(opts.connector, opts.operation) {
		return shared.NewUnsupportedOperationError(opts.connector, opts.operation)
	}

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	schema, err := service.SchemaResolverFor(opts.operation).ResolveSchema(ctx, req)
	if err != nil {
		return shared.NewResolutionError("failed to resolve schema", err)
	}

	if opts.query != "" {
		executor := jq.NewExecutor(jq.DefaultTimeout, jq.DefaultMaxInputSize)
		schema, err = executor.Execute(ctx, opts.query, schema)
		if err != nil {
			return shared.NewInvalidInputError("jq query failed", err)
		}
	}

	if shared.GetJSON() {
		return shared.EmitJSON(struct {
			shared.JSONResponse
			Schema any `json:"schema"`
		}{
			JSONResponse: shared.NewJSONResponse("schema", true),
			Schema:       schema,
		})
	}

	encoded, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// buildRequest assembles the resolution request from flags.
func buildRequest(opts *options) (dynamic.SchemaRequest, error) {
	params := map[string]any{
		"method": opts.method,
		"path":   opts.path,
	}

	if opts.body != "" {
		var body any
		if err := json.Unmarshal([]byte(opts.body), &body); err != nil {
			return dynamic.SchemaRequest{}, shared.NewInvalidInputError("invalid --body JSON", err)
		}
		params["body"] = body
	}
	if kv, err := parsePairs(opts.queries, "--query-param"); err != nil {
		return dynamic.SchemaRequest{}, err
	} else if len(kv) > 0 {
		params["queries"] = kv
	}
	if kv, err := parsePairs(opts.headers, "--header"); err != nil {
		return dynamic.SchemaRequest{}, err
	} else if len(kv) > 0 {
		params["headers"] = kv
	}

	req := dynamic.SchemaRequest{
		ConnectionID: opts.connection,
		ConnectorID:  opts.connector,
		Parameters:   params,
		Descriptor: dynamic.Descriptor{
			ValuePath: opts.valuePath,
		},
	}

	if opts.managedIdentity || opts.identityProperties != "" {
		identity := &dynamic.ManagedIdentity{}
		if opts.identityProperties != "" {
			if err := json.Unmarshal([]byte(opts.identityProperties), &identity.Properties); err != nil {
				return dynamic.SchemaRequest{}, shared.NewInvalidInputError("invalid --identity-properties JSON", err)
			}
		}
		req.Identity = identity
	}

	return req, nil
}

// parsePairs parses repeated key=value flags into a map.
func parsePairs(pairs []string, flagName string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, shared.NewInvalidInputError(
				fmt.Sprintf("%s %q is not key=value", flagName, pair), nil)
		}
		out[key] = value
	}
	return out, nil
}
