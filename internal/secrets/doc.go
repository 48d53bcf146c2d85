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

// Package secrets resolves secret references used in configuration.
//
// A reference takes one of three forms:
//
//	env://NAME        read from the NAME environment variable
//	keyring://KEY     read from the OS keyring (service "podium")
//	anything else     used literally
//
// The keyring store is also the backing for the token commands, which
// keep the backing API token out of config files.
package secrets
