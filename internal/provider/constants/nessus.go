// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package constants

import (
	"maps"
	"slices"
)

// Export job states reported by GET /scans/{id}/export/{file}/status.
const (
	ExportStatusReady   = "ready"
	ExportStatusLoading = "loading"
)

// Template families served under /editor/{type}/templates.
const (
	TemplateTypeScan   = "scan"
	TemplateTypePolicy = "policy"
)

// ScanStatusSpec describes a scan status value and whether the scan is still active.
type ScanStatusSpec struct {
	Description string
	Active      bool
}

// ScanStatuses maps the status values Nessus reports for a scan.
var ScanStatuses = map[string]ScanStatusSpec{
	"empty":     {Description: "never launched"},
	"running":   {Description: "in progress", Active: true},
	"pending":   {Description: "queued for launch", Active: true},
	"paused":    {Description: "paused by a user", Active: true},
	"resuming":  {Description: "resuming after a pause", Active: true},
	"stopping":  {Description: "stop requested", Active: true},
	"completed": {Description: "finished"},
	"canceled":  {Description: "stopped before completion"},
	"aborted":   {Description: "ended by the scanner"},
	"imported":  {Description: "imported from a file"},
}

// ScanStatusKeys returns the known scan statuses in sorted order.
func ScanStatusKeys() []string {
	return slices.Sorted(maps.Keys(ScanStatuses))
}

// TemplateTypes returns the template families in sorted order.
func TemplateTypes() []string {
	return []string{TemplateTypePolicy, TemplateTypeScan}
}
