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

// Package values implements 'podium values': resolve dynamic pick-list
// values for a connector operation.
package values

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
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
	collectionPath     string
	valuePath          string
	titlePath          string
	descriptionPath    string
	selectablePath     string
	arrayType          string
	managedIdentity    bool
	identityProperties string
	query              string
	pick               bool
}

// NewCommand creates the values command.
func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "values",
		Short: "Resolve dynamic pick-list values for an operation",
		Long: `Resolve dynamic pick-list values for a connector operation.

The operation must be listed under 'operations' in the config file.
The extension descriptor flags (--collection-path, --value-path, and
friends) use slash-delimited property paths into the API response.

Examples:
  podium values --connector sharepoint --operation GetLists \
    --connection conn-1 --method GET --path lists \
    --collection-path lists --value-path id --title-path title

  podium values --connector sql --operation GetTables \
    --connection conn-2 --method GET --path tables \
    --value-path name --query '.[].value' --json`,
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
	cmd.Flags().StringVar(&opts.collectionPath, "collection-path", "", "Path to the value collection in the response")
	cmd.Flags().StringVar(&opts.valuePath, "value-path", "", "Path to each element's value")
	cmd.Flags().StringVar(&opts.titlePath, "title-path", "", "Path to each element's display name")
	cmd.Flags().StringVar(&opts.descriptionPath, "description-path", "", "Path to each element's description")
	cmd.Flags().StringVar(&opts.selectablePath, "selectable-path", "", "Path to each element's selectable flag")
	cmd.Flags().StringVar(&opts.arrayType, "array-type", "", "Parameter array type (object or a primitive kind)")
	cmd.Flags().BoolVar(&opts.managedIdentity, "managed-identity", false, "Use managed-identity addressing (dynamicInvoke)")
	cmd.Flags().StringVar(&opts.identityProperties, "identity-properties", "", "Managed-identity properties as JSON")
	cmd.Flags().StringVar(&opts.query, "query", "", "jq expression applied to the result")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "Interactively pick one value and print it")

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

	values, passthrough, err := service.ValueResolverFor(opts.operation).ResolveValues(ctx, req)
	if err != nil {
		return shared.NewResolutionError("failed to resolve values", err)
	}

	if passthrough != nil {
		return emitPassthrough(ctx, passthrough, opts)
	}

	if opts.query != "" {
		return emitQueried(ctx, values, opts)
	}

	if opts.pick {
		return pickValue(values)
	}

	if shared.GetJSON() {
		return shared.EmitJSON(struct {
			shared.JSONResponse
			Values []dynamic.Value `json:"values"`
		}{
			JSONResponse: shared.NewJSONResponse("values", true),
			Values:       values,
		})
	}

	printValues(values)
	return nil
}

// buildRequest assembles the resolution request from flags.
func buildRequest(opts *options) (dynamic.ValuesRequest, error) {
	params := map[string]any{
		"method": opts.method,
		"path":   opts.path,
	}

	if opts.body != "" {
		var body any
		if err := json.Unmarshal([]byte(opts.body), &body); err != nil {
			return dynamic.ValuesRequest{}, shared.NewInvalidInputError("invalid --body JSON", err)
		}
		params["body"] = body
	}
	if kv, err := parsePairs(opts.queries, "--query-param"); err != nil {
		return dynamic.ValuesRequest{}, err
	} else if len(kv) > 0 {
		params["queries"] = kv
	}
	if kv, err := parsePairs(opts.headers, "--header"); err != nil {
		return dynamic.ValuesRequest{}, err
	} else if len(kv) > 0 {
		params["headers"] = kv
	}

	req := dynamic.ValuesRequest{
		ConnectionID: opts.connection,
		ConnectorID:  opts.connector,
		Parameters:   params,
		Descriptor: dynamic.Descriptor{
			ValueCollectionPath:  opts.collectionPath,
			ValuePath:            opts.valuePath,
			ValueTitlePath:       opts.titlePath,
			ValueDescriptionPath: opts.descriptionPath,
			ValueSelectablePath:  opts.selectablePath,
		},
		ArrayType: opts.arrayType,
	}

	if opts.managedIdentity || opts.identityProperties != "" {
		identity := &dynamic.ManagedIdentity{}
		if opts.identityProperties != "" {
			if err := json.Unmarshal([]byte(opts.identityProperties), &identity.Properties); err != nil {
				return dynamic.ValuesRequest{}, shared.NewInvalidInputError("invalid --identity-properties JSON", err)
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

// emitPassthrough outputs the raw upstream body returned when the
// response carried no recognizable value collection.
func emitPassthrough(ctx context.Context, body any, opts *options) error {
	if opts.pick {
		return shared.NewResolutionError("response carried no value collection to pick from", nil)
	}
	if opts.query != "" {
		executor := jq.NewExecutor(jq.DefaultTimeout, jq.DefaultMaxInputSize)
		result, err := executor.Execute(ctx, opts.query, body)
		if err != nil {
			return shared.NewInvalidInputError("jq query failed", err)
		}
		body = result
	}

	if shared.GetJSON() {
		return shared.EmitJSON(struct {
			shared.JSONResponse
			Body any `json:"body"`
		}{
			JSONResponse: shared.NewJSONResponse("values", true),
			Body:         body,
		})
	}

	encoded, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// emitQueried applies a jq expression to the resolved values and prints
// the result as JSON.
func emitQueried(ctx context.Context, values []dynamic.Value, opts *options) error {
	// Round-trip through JSON so the expression sees plain maps.
	encoded, err := json.Marshal(values)
	if err != nil {
		return err
	}
	var data any
	if err := json.Unmarshal(encoded, &data); err != nil {
		return err
	}

	executor := jq.NewExecutor(jq.DefaultTimeout, jq.DefaultMaxInputSize)
	result, err := executor.Execute(ctx, opts.query, data)
	if err != nil {
		return shared.NewInvalidInputError("jq query failed", err)
	}

	if shared.GetJSON() {
		return shared.EmitJSON(struct {
			shared.JSONResponse
			Result any `json:"result"`
		}{
			JSONResponse: shared.NewJSONResponse("values", true),
			Result:       result,
		})
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// pickValue presents an interactive selector and prints the chosen value.
func pickValue(values []dynamic.Value) error {
	if shared.IsNonInteractive() {
		return shared.NewInvalidInputError("--pick requires an interactive terminal", nil)
	}
	if len(values) == 0 {
		return shared.NewResolutionError("no values to pick from", nil)
	}

	selectable := make([]huh.Option[int], 0, len(values))
	for i, v := range values {
		if v.Disabled {
			continue
		}
		selectable = append(selectable, huh.NewOption(displayLabel(v), i))
	}
	if len(selectable) == 0 {
		return shared.NewResolutionError("all resolved values are disabled", nil)
	}

	var chosen int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Pick a value").
			Options(selectable...).
			Value(&chosen),
	))
	if err := form.Run(); err != nil {
		return err
	}

	fmt.Println(renderScalar(values[chosen].Value))
	return nil
}

// printValues renders resolved values as an aligned listing.
func printValues(values []dynamic.Value) {
	if len(values) == 0 {
		fmt.Println("No values resolved")
		return
	}

	for _, v := range values {
		line := shared.Bold.Render(renderScalar(v.Value))
		if label := displayLabel(v); label != renderScalar(v.Value) {
			line += "  " + label
		}
		if v.Description != nil {
			line += "  " + shared.Muted.Render(renderScalar(v.Description))
		}
		if v.Disabled {
			line += "  " + shared.StatusWarn.Render("(disabled)")
		}
		fmt.Println(line)
	}
}

func displayLabel(v dynamic.Value) string {
	if v.DisplayName != nil {
		return renderScalar(v.DisplayName)
	}
	return renderScalar(v.Value)
}

// renderScalar formats a decoded JSON value for terminal display.
func renderScalar(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(encoded)
	}
}
