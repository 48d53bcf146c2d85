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

package operations

import (
	"errors"
	"testing"

	"github.com/tombee/podium/internal/commands/shared"
	"github.com/tombee/podium/internal/config"
)

func checkConfig() *config.Config {
	cfg := config.Default()
	cfg.Operations = []config.OperationRef{
		{Connector: "sharepoint", Operation: "GetLists"},
		{Connector: "sql", Operation: "GetTables"},
	}
	return cfg
}

func TestRunCheck(t *testing.T) {
	tests := []struct {
		name     string
		check    string
		wantErr  bool
		wantCode int
	}{
		{name: "configured", check: "sharepoint:GetLists"},
		{name: "case insensitive", check: "SHAREPOINT:getlists"},
		{name: "not configured", check: "sharepoint:DeleteList", wantErr: true, wantCode: shared.ExitResolutionFailed},
		{name: "malformed", check: "no-separator", wantErr: true, wantCode: shared.ExitInvalidInput},
		{name: "empty operation", check: "sharepoint:", wantErr: true, wantCode: shared.ExitInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCheck(checkConfig(), tt.check)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("runCheck: %v", err)
				}
				return
			}
			var exitErr *shared.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("error %v is not an ExitError", err)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", exitErr.Code, tt.wantCode)
			}
		})
	}
}

func TestNewCommandFlags(t *testing.T) {
	cmd := NewCommand()
	if cmd.Flags().Lookup("check") == nil {
		t.Error("missing --check flag")
	}
}
