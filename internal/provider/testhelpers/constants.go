// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package testhelpers

import (
	"path/filepath"
)

const (
	// TmplPath defines the base path for template files.
	TmplPath = "./testdata/templates"
	// FolderTmpl is the filename for the folder Terraform template.
	FolderTmpl = "folder.tf.tmpl"
	// ScanTmpl is the filename for the scan Terraform template.
	ScanTmpl = "scan.tf.tmpl"
	// PolicyTmpl is the filename for the policy Terraform template.
	PolicyTmpl = "policy.tf.tmpl"
	// ScanExportTmpl is the filename for the scan_export Terraform template.
	ScanExportTmpl = "scan_export.tf.tmpl"
	// DataListsTmpl is the filename for the list data sources template.
	DataListsTmpl = "data.lists.tf.tmpl"
)

var (
	// FolderTmplPath is the file path of the folder template.
	FolderTmplPath = filepath.Join(TmplPath, FolderTmpl)
	// ScanTmplPath is the file path of the scan template.
	ScanTmplPath = filepath.Join(TmplPath, ScanTmpl)
	// PolicyTmplPath is the file path of the policy template.
	PolicyTmplPath = filepath.Join(TmplPath, PolicyTmpl)
	// ScanExportTmplPath is the file path of the scan export template.
	ScanExportTmplPath = filepath.Join(TmplPath, ScanExportTmpl)
	// DataListsTmplPath is the file path of the list data sources template.
	DataListsTmplPath = filepath.Join(TmplPath, DataListsTmpl)
)
