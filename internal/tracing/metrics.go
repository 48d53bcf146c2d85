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

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsCollector records dynamic-resolution metrics: how many value and
// schema resolutions ran, per connector/operation/outcome, and how long
// they took.
type MetricsCollector struct {
	meter metric.Meter

	resolutionsTotal   metric.Int64Counter
	resolutionDuration metric.Float64Histogram
}

// NewMetricsCollector creates a collector using the given meter provider.
func NewMetricsCollector(meterProvider metric.MeterProvider) (*MetricsCollector, error) {
	meter := meterProvider.Meter("podium")

	mc := &MetricsCollector{meter: meter}

	var err error
	mc.resolutionsTotal, err = meter.Int64Counter(
		"podium_resolutions_total",
		metric.WithDescription("Total number of dynamic value/schema resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, err
	}

	mc.resolutionDuration, err = meter.Float64Histogram(
		"podium_resolution_duration_seconds",
		metric.WithDescription("Duration of dynamic resolutions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return mc, nil
}

// RecordResolution records one completed resolution. Kind is "values" or
// "schema"; outcome is "success" or the failing error code.
func (mc *MetricsCollector) RecordResolution(ctx context.Context, connectorID, operationID, kind, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("connector", connectorID),
		attribute.String("operation", operationID),
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	mc.resolutionsTotal.Add(ctx, 1, attrs)
	mc.resolutionDuration.Record(ctx, duration.Seconds(), attrs)
}
