// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package testhelpers

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"text/template"
)

// TemplatePath returns the path of a template file under testdata/templates.
func TemplatePath(name string) string {
	return filepath.Join("testdata", "templates", name)
}

// MustReadTemplate reads a template by name or fails the test.
func MustReadTemplate(t *testing.T, name string) string {
	t.Helper()
	p := TemplatePath(name)
	absPath, _ := filepath.Abs(p)
	b, err := os.ReadFile(p)
	if err != nil {
		wd, _ := os.Getwd()
		dir := filepath.Dir(p)
		var candidates []string
		if entries, dirErr := os.ReadDir(dir); dirErr == nil {
			for _, e := range entries {
				if !e.IsDir() {
					candidates = append(candidates, e.Name())
				}
			}
		}
		t.Fatalf(
			"failed to read template %q\n  path: %s\n  abs:  %s\n  cwd:  %s\n  dir:  %s\n  available templates: %v\n  error: %v",
			name, p, absPath, wd, dir, candidates, err,
		)
	}
	return string(b)
}

// RenderTemplate executes the named template with data or fails the test.
func RenderTemplate(t *testing.T, name string, data any) string {
	t.Helper()
	tmpl, err := template.New(name).Parse(MustReadTemplate(t, name))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

// FolderConfig renders a nessus_folder configuration.
func FolderConfig(t *testing.T, f *FakeNessus, name string) string {
	t.Helper()
	return RenderTemplate(t, FolderTmpl, FolderTmplCfg{Provider: f.ProviderConfig(), Name: name})
}

// ScanConfig renders a nessus_scan configuration.
func ScanConfig(t *testing.T, f *FakeNessus, cfg ScanTmplCfg) string {
	t.Helper()
	cfg.Provider = f.ProviderConfig()
	return RenderTemplate(t, ScanTmpl, cfg)
}

// PolicyConfig renders a nessus_policy configuration.
func PolicyConfig(t *testing.T, f *FakeNessus, cfg PolicyTmplCfg) string {
	t.Helper()
	cfg.Provider = f.ProviderConfig()
	return RenderTemplate(t, PolicyTmpl, cfg)
}

// ScanExportConfig renders a nessus_scan_export configuration.
func ScanExportConfig(t *testing.T, f *FakeNessus, cfg ScanExportTmplCfg) string {
	t.Helper()
	cfg.Provider = f.ProviderConfig()
	return RenderTemplate(t, ScanExportTmpl, cfg)
}

// DataListsConfig renders the list data sources configuration.
func DataListsConfig(t *testing.T, f *FakeNessus, cfg DataListsTmplCfg) string {
	t.Helper()
	cfg.Provider = f.ProviderConfig()
	return RenderTemplate(t, DataListsTmpl, cfg)
}

// BuildLargeBody creates a large JSON-like string embedding Nessus secrets
// to validate both truncation and redaction. Size target ~2MB.
func BuildLargeBody() string {
	var b strings.Builder
	chunks := 2 << 20 / 64
	for i := 0; i < chunks; i++ {
		b.WriteString(`{"secretKey":"TOPSECRET`)
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`","token":"AAA`)
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`","password":"PWD`)
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`"}`)
	}
	return b.String()
}
