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

// Package messages formats the fixed diagnostic strings that surface in
// resolution errors. The templates are protocol content consumed by
// downstream tooling, so their shape never changes; only the locale used
// for formatting is configurable.
package messages

import (
	"os"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer renders the diagnostic templates in a fixed locale.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a Printer for the given language tag.
func NewPrinter(tag language.Tag) *Printer {
	return &Printer{p: message.NewPrinter(tag)}
}

var (
	defaultOnce    sync.Once
	defaultPrinter *Printer
)

// Default returns the process-wide Printer, honoring PODIUM_LANG when it
// parses as a BCP 47 tag and falling back to English otherwise.
func Default() *Printer {
	defaultOnce.Do(func() {
		tag := language.English
		if env := os.Getenv("PODIUM_LANG"); env != "" {
			if parsed, err := language.Parse(env); err == nil {
				tag = parsed
			}
		}
		defaultPrinter = NewPrinter(tag)
	})
	return defaultPrinter
}

// ErrorCodeWithMessage renders the envelope failure diagnostic carrying the
// upstream status code and message.
func (pr *Printer) ErrorCodeWithMessage(statusCode, msg string) string {
	return pr.p.Sprintf("Error code: '%s', Message: '%s'.", statusCode, msg)
}

// ErrorExecutingAPI renders the generic execution failure diagnostic. The
// target is the request URL when the envelope gave nothing better, or the
// caller-supplied path when the transport itself failed.
func (pr *Printer) ErrorExecutingAPI(target string) string {
	return pr.p.Sprintf("Error executing the api - %s", target)
}

// ClientRequestIDSuffix renders the diagnostic suffix appended when the
// response headers carried a client-request-id.
func (pr *Printer) ClientRequestIDSuffix(id string) string {
	return pr.p.Sprintf("More diagnostic information: x-ms-client-request-id is '%s'.", id)
}
