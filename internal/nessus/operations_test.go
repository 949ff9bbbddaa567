// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperations_Endpoints(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name       string
		call       func(c *Client) (json.RawMessage, error)
		wantMethod string
		wantPath   string
		wantQuery  string
		wantBody   string
	}{
		{"list scans", func(c *Client) (json.RawMessage, error) { return c.ListScans(ctx, nil) }, http.MethodGet, "/scans", "", ""},
		{"list scans paged", func(c *Client) (json.RawMessage, error) {
			return c.ListScans(ctx, &PaginationOptions{Limit: 10, Offset: 20, Sort: "name", Order: "DESC"})
		}, http.MethodGet, "/scans", "limit=10&offset=20&order=desc&sort=name", ""},
		{"scan details", func(c *Client) (json.RawMessage, error) { return c.GetScanDetails(ctx, 5) }, http.MethodGet, "/scans/5", "", ""},
		{"create scan", func(c *Client) (json.RawMessage, error) {
			return c.CreateScan(ctx, ScanCreatePayload{TemplateUUID: "tmpl", Name: "weekly", Targets: "10.0.0.0/24"})
		}, http.MethodPost, "/scans", "", `{"uuid":"tmpl","settings":{"name":"weekly","text_targets":"10.0.0.0/24","enabled":false}}`},
		{"create scan in folder", func(c *Client) (json.RawMessage, error) {
			return c.CreateScan(ctx, ScanCreatePayload{TemplateUUID: "tmpl", Name: "n", Targets: "h", Enabled: true, FolderID: 3, Description: "d"})
		}, http.MethodPost, "/scans", "", `{"uuid":"tmpl","settings":{"name":"n","description":"d","text_targets":"h","enabled":true,"folder_id":3}}`},
		{"launch", func(c *Client) (json.RawMessage, error) { return c.LaunchScan(ctx, 5, nil) }, http.MethodPost, "/scans/5/launch", "", `{}`},
		{"launch alt targets", func(c *Client) (json.RawMessage, error) { return c.LaunchScan(ctx, 5, []string{"a", "b"}) }, http.MethodPost, "/scans/5/launch", "", `{"alt_targets":["a","b"]}`},
		{"stop", func(c *Client) (json.RawMessage, error) { return c.StopScan(ctx, 5) }, http.MethodPost, "/scans/5/stop", "", ""},
		{"pause", func(c *Client) (json.RawMessage, error) { return c.PauseScan(ctx, 5) }, http.MethodPost, "/scans/5/pause", "", ""},
		{"resume", func(c *Client) (json.RawMessage, error) { return c.ResumeScan(ctx, 5) }, http.MethodPost, "/scans/5/resume", "", ""},
		{"delete scan", func(c *Client) (json.RawMessage, error) { return c.DeleteScan(ctx, 5) }, http.MethodDelete, "/scans/5", "", ""},
		{"delete many scans", func(c *Client) (json.RawMessage, error) { return c.DeleteManyScans(ctx, []int64{1, 2, 3}) }, http.MethodDelete, "/scans", "", `{"ids":[1,2,3]}`},
		{"export", func(c *Client) (json.RawMessage, error) { return c.ExportScan(ctx, 5, "PDF", 0) }, http.MethodPost, "/scans/5/export", "", `{"format":"pdf"}`},
		{"export history", func(c *Client) (json.RawMessage, error) { return c.ExportScan(ctx, 5, "csv", 9) }, http.MethodPost, "/scans/5/export", "", `{"format":"csv","history_id":9}`},
		{"export status", func(c *Client) (json.RawMessage, error) { return c.GetScanExportStatus(ctx, 5, 77) }, http.MethodGet, "/scans/5/export/77/status", "", ""},
		{"copy scan", func(c *Client) (json.RawMessage, error) { return c.CopyScan(ctx, 5, 0, "") }, http.MethodPost, "/scans/5/copy", "", `{}`},
		{"copy scan named", func(c *Client) (json.RawMessage, error) { return c.CopyScan(ctx, 5, 2, "clone") }, http.MethodPost, "/scans/5/copy", "", `{"folder_id":2,"name":"clone"}`},
		{"list policies", func(c *Client) (json.RawMessage, error) { return c.ListPolicies(ctx, nil) }, http.MethodGet, "/policies", "", ""},
		{"policy details", func(c *Client) (json.RawMessage, error) { return c.GetPolicyDetails(ctx, 8) }, http.MethodGet, "/policies/8", "", ""},
		{"create policy", func(c *Client) (json.RawMessage, error) {
			return c.CreatePolicy(ctx, PolicyPayload{TemplateUUID: "u", Name: "p"})
		}, http.MethodPost, "/policies", "", `{"uuid":"u","settings":{"name":"p"}}`},
		{"update policy", func(c *Client) (json.RawMessage, error) {
			return c.UpdatePolicy(ctx, 8, PolicyPayload{Settings: map[string]any{"name": "renamed", "scan_webapps": "no"}})
		}, http.MethodPut, "/policies/8", "", `{"settings":{"name":"renamed","scan_webapps":"no"}}`},
		{"delete policy", func(c *Client) (json.RawMessage, error) { return c.DeletePolicy(ctx, 8) }, http.MethodDelete, "/policies/8", "", ""},
		{"delete many policies", func(c *Client) (json.RawMessage, error) { return c.DeleteManyPolicies(ctx, []int64{8, 9}) }, http.MethodDelete, "/policies", "", `{"ids":[8,9]}`},
		{"copy policy", func(c *Client) (json.RawMessage, error) { return c.CopyPolicy(ctx, 8) }, http.MethodPost, "/policies/8/copy", "", ""},
		{"list folders", func(c *Client) (json.RawMessage, error) { return c.ListFolders(ctx) }, http.MethodGet, "/folders", "", ""},
		{"create folder", func(c *Client) (json.RawMessage, error) { return c.CreateFolder(ctx, "Q3 audits") }, http.MethodPost, "/folders", "", `{"name":"Q3 audits"}`},
		{"delete folder", func(c *Client) (json.RawMessage, error) { return c.DeleteFolder(ctx, 4) }, http.MethodDelete, "/folders/4", "", ""},
		{"plugin families", func(c *Client) (json.RawMessage, error) { return c.ListPluginFamilies(ctx, nil) }, http.MethodGet, "/plugins/families", "", ""},
		{"plugins in family", func(c *Client) (json.RawMessage, error) {
			return c.ListPluginsInFamily(ctx, 12, &PaginationOptions{Limit: 50})
		}, http.MethodGet, "/plugins/families/12", "limit=50", ""},
		{"plugin details", func(c *Client) (json.RawMessage, error) { return c.GetPluginDetails(ctx, 19506) }, http.MethodGet, "/plugins/plugin/19506", "", ""},
		{"session", func(c *Client) (json.RawMessage, error) { return c.GetSessionDetails(ctx) }, http.MethodGet, "/session", "", ""},
		{"edit session", func(c *Client) (json.RawMessage, error) {
			return c.EditSession(ctx, SessionPayload{Name: "Ops"})
		}, http.MethodPut, "/session", "", `{"name":"Ops"}`},
		{"scan templates", func(c *Client) (json.RawMessage, error) { return c.ListScanTemplates(ctx) }, http.MethodGet, "/editor/scan/templates", "", ""},
		{"policy templates", func(c *Client) (json.RawMessage, error) { return c.ListPolicyTemplates(ctx) }, http.MethodGet, "/editor/policy/templates", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newRecorder(t, http.StatusOK, `{"ok":true}`)
			c := newTestClient(t, srv.URL)

			out, err := tc.call(c)
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(out))

			reqs := srv.requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tc.wantMethod, reqs[0].Method)
			assert.Equal(t, tc.wantPath, reqs[0].Path)
			assert.Equal(t, tc.wantQuery, reqs[0].Query)
			if tc.wantBody == "" {
				assert.Empty(t, reqs[0].Body)
			} else {
				assert.JSONEq(t, tc.wantBody, string(reqs[0].Body))
			}
		})
	}
}

func TestOperations_ValidationSendsNothing(t *testing.T) {
	ctx := context.Background()
	long := strings.Repeat("x", 256)
	cases := []struct {
		name    string
		call    func(c *Client) error
		wantMsg string
	}{
		{"scan id zero", func(c *Client) error { _, err := c.GetScanDetails(ctx, 0); return err }, "Scan ID must be a positive integer"},
		{"scan id negative", func(c *Client) error { _, err := c.StopScan(ctx, -1); return err }, "Scan ID must be a positive integer"},
		{"launch id", func(c *Client) error { _, err := c.LaunchScan(ctx, 0, []string{"a"}); return err }, "Scan ID must be a positive integer"},
		{"pause id", func(c *Client) error { _, err := c.PauseScan(ctx, 0); return err }, "Scan ID must be a positive integer"},
		{"resume id", func(c *Client) error { _, err := c.ResumeScan(ctx, 0); return err }, "Scan ID must be a positive integer"},
		{"delete id", func(c *Client) error { _, err := c.DeleteScan(ctx, 0); return err }, "Scan ID must be a positive integer"},
		{"copy id", func(c *Client) error { _, err := c.CopyScan(ctx, 0, 0, ""); return err }, "Scan ID must be a positive integer"},
		{"copy folder", func(c *Client) error { _, err := c.CopyScan(ctx, 1, -2, ""); return err }, "Folder ID must be a positive integer"},
		{"create no template", func(c *Client) error {
			_, err := c.CreateScan(ctx, ScanCreatePayload{Name: "n", Targets: "t"})
			return err
		}, "Template UUID is required for scan creation"},
		{"create no name", func(c *Client) error {
			_, err := c.CreateScan(ctx, ScanCreatePayload{TemplateUUID: "u", Targets: "t"})
			return err
		}, "Scan name is required"},
		{"create no targets", func(c *Client) error {
			_, err := c.CreateScan(ctx, ScanCreatePayload{TemplateUUID: "u", Name: "n", Targets: "  "})
			return err
		}, "Target list is required"},
		{"export format", func(c *Client) error { _, err := c.ExportScan(ctx, 1, "docx", 0); return err }, "Invalid export format. Valid formats: nessus, pdf, html, csv, db"},
		{"export id", func(c *Client) error { _, err := c.ExportScan(ctx, 0, "pdf", 0); return err }, "Scan ID must be a positive integer"},
		{"export history", func(c *Client) error { _, err := c.ExportScan(ctx, 1, "pdf", -1); return err }, "History ID must be a positive integer"},
		{"export status file", func(c *Client) error { _, err := c.GetScanExportStatus(ctx, 1, 0); return err }, "File ID must be a positive integer"},
		{"download file", func(c *Client) error { _, err := c.DownloadScanExport(ctx, 1, 0); return err }, "File ID must be a positive integer"},
		{"bulk scans empty", func(c *Client) error { _, err := c.DeleteManyScans(ctx, nil); return err }, "Scan IDs array cannot be empty"},
		{"bulk scans negative", func(c *Client) error { _, err := c.DeleteManyScans(ctx, []int64{1, -1}); return err }, "Scan IDs must contain only positive integers"},
		{"bulk policies empty", func(c *Client) error { _, err := c.DeleteManyPolicies(ctx, []int64{}); return err }, "Policy IDs array cannot be empty"},
		{"policy id", func(c *Client) error { _, err := c.GetPolicyDetails(ctx, 0); return err }, "Policy ID must be a positive integer"},
		{"copy policy id", func(c *Client) error { _, err := c.CopyPolicy(ctx, 0); return err }, "Policy ID must be a positive integer"},
		{"delete policy id", func(c *Client) error { _, err := c.DeletePolicy(ctx, 0); return err }, "Policy ID must be a positive integer"},
		{"update policy id", func(c *Client) error {
			_, err := c.UpdatePolicy(ctx, 0, PolicyPayload{Name: "x"})
			return err
		}, "Policy ID must be a positive integer"},
		{"create policy empty", func(c *Client) error { _, err := c.CreatePolicy(ctx, PolicyPayload{}); return err }, "Policy UUID or name is required"},
		{"folder blank", func(c *Client) error { _, err := c.CreateFolder(ctx, "   "); return err }, "Folder name cannot be empty"},
		{"folder too long", func(c *Client) error { _, err := c.CreateFolder(ctx, long); return err }, "Folder name cannot exceed 255 characters"},
		{"folder id", func(c *Client) error { _, err := c.DeleteFolder(ctx, 0); return err }, "Folder ID must be a positive integer"},
		{"family id", func(c *Client) error { _, err := c.ListPluginsInFamily(ctx, 0, nil); return err }, "Family ID must be a positive integer"},
		{"plugin id", func(c *Client) error { _, err := c.GetPluginDetails(ctx, -5); return err }, "Plugin ID must be a positive integer"},
		{"bad order", func(c *Client) error {
			_, err := c.ListScans(ctx, &PaginationOptions{Order: "sideways"})
			return err
		}, "Order must be one of: asc, desc"},
		{"negative limit", func(c *Client) error {
			_, err := c.ListPolicies(ctx, &PaginationOptions{Limit: -1})
			return err
		}, "Limit must be a positive integer"},
		{"negative offset", func(c *Client) error {
			_, err := c.ListPluginFamilies(ctx, &PaginationOptions{Offset: -1})
			return err
		}, "Offset must not be negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newRecorder(t, http.StatusOK, `{}`)
			c := newTestClient(t, srv.URL)

			e := requireKind(t, tc.call(c), InvalidArgument)
			assert.Equal(t, tc.wantMsg, e.Message)
			assert.Zero(t, e.StatusCode)
			assert.Empty(t, srv.requests(), "validation failures must not reach the network")
		})
	}
}

func TestCreateFolder_AcceptsMaxLength(t *testing.T) {
	srv := newRecorder(t, http.StatusOK, `{"id":3}`)
	c := newTestClient(t, srv.URL)

	_, err := c.CreateFolder(context.Background(), strings.Repeat("é", maxFolderNameLength))
	require.NoError(t, err)
	assert.Len(t, srv.requests(), 1)
}

func TestExportFormats_CaseInsensitive(t *testing.T) {
	for _, f := range []string{"nessus", "PDF", "Html", "csv", "DB"} {
		t.Run(f, func(t *testing.T) {
			srv := newRecorder(t, http.StatusOK, `{"file":1}`)
			c := newTestClient(t, srv.URL)

			_, err := c.ExportScan(context.Background(), 1, f, 0)
			require.NoError(t, err)
			assert.JSONEq(t, `{"format":"`+strings.ToLower(f)+`"}`, string(srv.last(t).Body))
		})
	}
}

func TestDownloadScanExport_ReturnsRawBytes(t *testing.T) {
	srv := newRecorder(t, http.StatusOK, "host,plugin\n10.0.0.1,19506\n")
	c := newTestClient(t, srv.URL)

	data, err := c.DownloadScanExport(context.Background(), 3, 44)
	require.NoError(t, err)
	assert.Equal(t, "host,plugin\n10.0.0.1,19506\n", string(data))
	assert.Equal(t, "/scans/3/export/44/download", srv.last(t).Path)
}

func TestPolicyPayload_NameFromSettings(t *testing.T) {
	p := PolicyPayload{Settings: map[string]any{"name": "from-settings"}}
	assert.NoError(t, validatePolicyPayload(p))

	p = PolicyPayload{Name: "explicit", Settings: map[string]any{"name": "ignored"}}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"settings":{"name":"explicit"}}`, string(raw))
	assert.Equal(t, "ignored", p.Settings["name"], "caller settings are not mutated")
}
