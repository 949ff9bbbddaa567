// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package testhelpers

// FolderTmplCfg feeds folder.tf.tmpl.
type FolderTmplCfg struct {
	Provider string
	Name     string
}

// ScanTmplCfg feeds scan.tf.tmpl. FolderName adds a nessus_folder the scan is placed in.
type ScanTmplCfg struct {
	Provider     string
	Name         string
	Targets      []string
	TemplateUUID string
	Description  string
	FolderName   string
	Launch       bool
}

// PolicyTmplCfg feeds policy.tf.tmpl.
type PolicyTmplCfg struct {
	Provider     string
	TemplateUUID string
	Name         string
	Description  string
	SettingsJSON string
}

// ScanExportTmplCfg feeds scan_export.tf.tmpl.
type ScanExportTmplCfg struct {
	Provider string
	ScanID   int64
	Format   string
	Download bool
}

// DataListsTmplCfg feeds data.lists.tf.tmpl.
type DataListsTmplCfg struct {
	Provider   string
	FolderName string
	MaxItems   int
}

// FakeNetErr is a net.Error used to exercise transport error handling.
type FakeNetErr struct{ timeout bool }

func (e FakeNetErr) Error() string   { return "fake timeout" }
func (e FakeNetErr) Timeout() bool   { return e.timeout }
func (e FakeNetErr) Temporary() bool { return true }

// NewFakeNetErr constructs a FakeNetErr with the provided timeout flag.
func NewFakeNetErr(timeout bool) FakeNetErr { return FakeNetErr{timeout: timeout} }
