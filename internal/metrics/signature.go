// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignOperations tracks signature-creation calls by algorithm.
	SignOperations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_total",
			Help:      "Total number of signature creation operations",
		},
		[]string{"algorithm"},
	)

	// VerifyOperations tracks signature-verification calls by algorithm
	// and outcome ("success" or "failure").
	VerifyOperations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verify_total",
			Help:      "Total number of signature verification operations",
		},
		[]string{"algorithm", "result"},
	)

	// VerifyFailures tracks verification failures by reason (bad
	// signature, expired, algorithm mismatch, missing component, ...).
	VerifyFailures = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verify_failures_total",
			Help:      "Total number of signature verification failures by reason",
		},
		[]string{"reason"},
	)

	// BuildDuration tracks how long signature-base construction takes.
	BuildDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Signature base construction duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
	)
)
