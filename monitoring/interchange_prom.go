// Copyright 2026 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "modelguard_export_duration_seconds",
	Help:    "Duration of export requests in seconds",
	Buckets: prometheus.DefBuckets,
}, []string{"format"})

var ExportedProjectsAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modelguard_exported_projects_total",
	Help: "The total number of exported projects",
}, []string{"format"})

var ImportedProjectsAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modelguard_imported_projects_total",
	Help: "The total number of successfully imported projects",
})

var FailedImportItemsAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modelguard_failed_import_items_total",
	Help: "The total number of bundle items which could not be imported",
})

var SkippedItemsAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modelguard_skipped_items_total",
	Help: "The total number of entities skipped during import or restore",
}, []string{"operation", "kind"})

var RestoreAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modelguard_restores_total",
	Help: "The total number of snapshot restores by outcome",
}, []string{"outcome"})

var RestoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "modelguard_restore_duration_seconds",
	Help:    "Duration of snapshot restores in seconds",
	Buckets: prometheus.DefBuckets,
})
