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

package tracing

import "fmt"

// Exporter selects where spans are exported.
type Exporter string

const (
	// ExporterNone disables span export; spans are still created so
	// trace IDs propagate, but nothing leaves the process.
	ExporterNone Exporter = "none"
	// ExporterStdout writes spans to stderr as JSON, for development.
	ExporterStdout Exporter = "stdout"
	// ExporterOTLPGRPC exports spans over OTLP/gRPC.
	ExporterOTLPGRPC Exporter = "otlp-grpc"
	// ExporterOTLPHTTP exports spans over OTLP/HTTP.
	ExporterOTLPHTTP Exporter = "otlp-http"
)

// Config configures the tracer and metrics provider.
type Config struct {
	// ServiceName identifies this process in exported telemetry.
	ServiceName string

	// ServiceVersion is the build version attached to telemetry.
	ServiceVersion string

	// Exporter selects the span exporter. Default: none.
	Exporter Exporter

	// Endpoint is the OTLP collector endpoint, for the otlp exporters.
	Endpoint string

	// Insecure disables TLS on the OTLP connection.
	Insecure bool
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLPGRPC, ExporterOTLPHTTP:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for exporter %q", c.Exporter)
		}
	default:
		return fmt.Errorf("unknown exporter %q", c.Exporter)
	}
	return nil
}
