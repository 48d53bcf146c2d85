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

// Package operations implements 'podium operations': list the configured
// operation allow-list and check membership.
package operations

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/podium/internal/commands/shared"
	"github.com/tombee/podium/internal/config"
)

// NewCommand creates the operations command.
func NewCommand() *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List operations eligible for dynamic resolution",
		Long: `List the connector operations eligible for dynamic resolution.

With --check connector:operation the command prints nothing and exits 0
when the pair is configured, 1 when it is not. The comparison is
case-insensitive on both parts.

Examples:
  podium operations
  podium operations --json
  podium operations --check sharepoint:GetLists`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(check)
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "Check one connector:operation pair; exit 0 if configured")

	return cmd
}

func run(check string) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}

	if check != "" {
		return runCheck(cfg, check)
	}

	if shared.GetJSON() {
		return shared.EmitJSON(struct {
			shared.JSONResponse
			Operations []config.OperationRef `json:"operations"`
		}{
			JSONResponse: shared.NewJSONResponse("operations", true),
			Operations:   cfg.Operations,
		})
	}

	if len(cfg.Operations) == 0 {
		fmt.Println("No operations configured")
		return nil
	}

	fmt.Println(shared.Header.Render("CONNECTOR") + "  " + shared.Header.Render("OPERATION"))
	for _, op := range cfg.Operations {
		fmt.Printf("%s  %s\n", op.Connector, op.Operation)
	}
	return nil
}

// runCheck reports membership for one connector:operation pair through
// the exit code.
func runCheck(cfg *config.Config, check string) error {
	connector, operation, found := strings.Cut(check, ":")
	if !found || connector == "" || operation == "" {
		return shared.NewInvalidInputError(
			fmt.Sprintf("--check %q is not connector:operation", check), nil)
	}

	for _, op := range cfg.Operations {
		if strings.EqualFold(op.Connector, connector) && strings.EqualFold(op.Operation, operation) {
			if !shared.GetQuiet() {
				fmt.Println(shared.RenderOK(check + " is configured"))
			}
			return nil
		}
	}

	return &shared.ExitError{
		Code:    shared.ExitResolutionFailed,
		Message: check + " is not configured",
	}
}
