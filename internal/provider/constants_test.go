// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

// Resource and data source addresses used by acceptance tests.
const (
	folderResourceName     = "nessus_folder.test"
	scanResourceName       = "nessus_scan.test"
	policyResourceName     = "nessus_policy.test"
	scanExportResourceName = "nessus_scan_export.test"
	operationResourceName  = "nessus_operation.test"
)
