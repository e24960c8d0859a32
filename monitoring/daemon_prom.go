// Copyright 2026 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TrashPurgeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "modelguard_daemon_trash_purge_duration_seconds",
	Help:    "Duration of purging trashed projects in seconds",
	Buckets: prometheus.DefBuckets,
})

var TrashPurgedProjectsAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "modelguard_daemon_trash_purged_projects_amount",
	Help: "The total number of trashed projects purged after the retention window",
})
