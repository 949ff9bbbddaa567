// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_UnknownKindOrAction(t *testing.T) {
	srv := newRecorder(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL)

	_, err := c.Do(context.Background(), Request{Kind: "agent", Action: "list"})
	e := requireKind(t, err, InvalidArgument)
	assert.Contains(t, e.Message, "Unknown resource kind")

	_, err = c.Do(context.Background(), Request{Kind: KindScan, Action: "explode"})
	e = requireKind(t, err, InvalidArgument)
	assert.Contains(t, e.Message, "Unknown scan action")
	assert.Empty(t, srv.requests())
}

func TestDo_RoutesActions(t *testing.T) {
	cases := []struct {
		name     string
		req      Request
		method   string
		path     string
		query    string
		wantBody string
	}{
		{"scan list", Request{Kind: KindScan, Action: "list"}, http.MethodGet, "/scans", "", ""},
		{"scan list paged", Request{Kind: KindScan, Action: "list", Args: Args{"limit": "5", "order": "asc"}}, http.MethodGet, "/scans", "limit=5&order=asc", ""},
		{"scan details string id", Request{Kind: KindScan, Action: "getDetails", Args: Args{"scanId": "12"}}, http.MethodGet, "/scans/12", "", ""},
		{"scan details snake case", Request{Kind: "SCAN", Action: "getDetails", Args: Args{"scan_id": 12}}, http.MethodGet, "/scans/12", "", ""},
		{"launch alt targets", Request{Kind: KindScan, Action: "launch", Args: Args{"scanId": float64(3), "altTargets": " a, b ,,c "}}, http.MethodPost, "/scans/3/launch", "", `{"alt_targets":["a","b","c"]}`},
		{"launch no targets", Request{Kind: KindScan, Action: "launch", Args: Args{"scanId": json.Number("3"), "altTargets": ""}}, http.MethodPost, "/scans/3/launch", "", `{}`},
		{"stop", Request{Kind: KindScan, Action: "stop", Args: Args{"scanId": 3}}, http.MethodPost, "/scans/3/stop", "", ""},
		{"pause", Request{Kind: KindScan, Action: "pause", Args: Args{"scanId": 3}}, http.MethodPost, "/scans/3/pause", "", ""},
		{"resume", Request{Kind: KindScan, Action: "resume", Args: Args{"scanId": 3}}, http.MethodPost, "/scans/3/resume", "", ""},
		{"delete", Request{Kind: KindScan, Action: "delete", Args: Args{"scanId": 3}}, http.MethodDelete, "/scans/3", "", ""},
		{"delete many", Request{Kind: KindScan, Action: "deleteMany", Args: Args{"ids": "4, 5,6"}}, http.MethodDelete, "/scans", "", `{"ids":[4,5,6]}`},
		{"delete many slice", Request{Kind: KindScan, Action: "deleteMany", Args: Args{"ids": []any{float64(4), "5"}}}, http.MethodDelete, "/scans", "", `{"ids":[4,5]}`},
		{"export", Request{Kind: KindScan, Action: "export", Args: Args{"scanId": 3, "exportFormat": "HTML"}}, http.MethodPost, "/scans/3/export", "", `{"format":"html"}`},
		{"export status", Request{Kind: KindScan, Action: "exportStatus", Args: Args{"scanId": 3, "fileId": "9"}}, http.MethodGet, "/scans/3/export/9/status", "", ""},
		{"copy", Request{Kind: KindScan, Action: "copy", Args: Args{"scanId": 3, "destinationFolderId": "", "newName": ""}}, http.MethodPost, "/scans/3/copy", "", `{}`},
		{"copy to folder", Request{Kind: KindScan, Action: "copy", Args: Args{"scanId": 3, "destinationFolderId": "7", "newName": "copy"}}, http.MethodPost, "/scans/3/copy", "", `{"folder_id":7,"name":"copy"}`},
		{"scan templates", Request{Kind: KindScan, Action: "listTemplates"}, http.MethodGet, "/editor/scan/templates", "", ""},
		{"policy list", Request{Kind: KindPolicy, Action: "list"}, http.MethodGet, "/policies", "", ""},
		{"policy details", Request{Kind: KindPolicy, Action: "getDetails", Args: Args{"policyId": "8"}}, http.MethodGet, "/policies/8", "", ""},
		{"policy create", Request{Kind: KindPolicy, Action: "create", Args: Args{"policyUuid": "u", "name": "p", "settings": `{"port_range":"default"}`}}, http.MethodPost, "/policies", "", `{"uuid":"u","settings":{"name":"p","port_range":"default"}}`},
		{"policy update", Request{Kind: KindPolicy, Action: "update", Args: Args{"policyId": 8, "name": "p2"}}, http.MethodPut, "/policies/8", "", `{"settings":{"name":"p2"}}`},
		{"policy delete", Request{Kind: KindPolicy, Action: "delete", Args: Args{"policyId": 8}}, http.MethodDelete, "/policies/8", "", ""},
		{"policy delete many", Request{Kind: KindPolicy, Action: "deleteMany", Args: Args{"ids": []int64{8, 9}}}, http.MethodDelete, "/policies", "", `{"ids":[8,9]}`},
		{"policy copy", Request{Kind: KindPolicy, Action: "copy", Args: Args{"policyId": 8}}, http.MethodPost, "/policies/8/copy", "", ""},
		{"policy templates", Request{Kind: KindPolicy, Action: "listTemplates"}, http.MethodGet, "/editor/policy/templates", "", ""},
		{"folder list", Request{Kind: KindFolder, Action: "list"}, http.MethodGet, "/folders", "", ""},
		{"folder create", Request{Kind: KindFolder, Action: "create", Args: Args{"folderName": "Audits"}}, http.MethodPost, "/folders", "", `{"name":"Audits"}`},
		{"folder create keeps spacing", Request{Kind: KindFolder, Action: "create", Args: Args{"name": "  Q3  "}}, http.MethodPost, "/folders", "", `{"name":"  Q3  "}`},
		{"folder delete", Request{Kind: KindFolder, Action: "delete", Args: Args{"folderId": "2"}}, http.MethodDelete, "/folders/2", "", ""},
		{"families", Request{Kind: KindPlugin, Action: "listFamilies"}, http.MethodGet, "/plugins/families", "", ""},
		{"plugins in family", Request{Kind: KindPlugin, Action: "listPluginsInFamily", Args: Args{"familyId": "1"}}, http.MethodGet, "/plugins/families/1", "", ""},
		{"plugin", Request{Kind: KindPlugin, Action: "getPluginDetails", Args: Args{"pluginId": "19506"}}, http.MethodGet, "/plugins/plugin/19506", "", ""},
		{"session", Request{Kind: KindSession, Action: "getDetails"}, http.MethodGet, "/session", "", ""},
		{"session edit", Request{Kind: KindSession, Action: "edit", Args: Args{"email": "ops@example.com"}}, http.MethodPut, "/session", "", `{"email":"ops@example.com"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newRecorder(t, http.StatusOK, `{"ok":true}`)
			c := newTestClient(t, srv.URL)

			out, err := c.Do(context.Background(), tc.req)
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(out))

			reqs := srv.requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tc.method, reqs[0].Method)
			assert.Equal(t, tc.path, reqs[0].Path)
			assert.Equal(t, tc.query, reqs[0].Query)
			if tc.wantBody == "" {
				assert.Empty(t, reqs[0].Body)
			} else {
				assert.JSONEq(t, tc.wantBody, string(reqs[0].Body))
			}
		})
	}
}

func TestDo_ArgumentErrors(t *testing.T) {
	cases := []struct {
		name    string
		req     Request
		wantMsg string
	}{
		{"missing scan id", Request{Kind: KindScan, Action: "getDetails"}, "Scan ID must be a positive integer"},
		{"non numeric scan id", Request{Kind: KindScan, Action: "stop", Args: Args{"scanId": "abc"}}, "Scan ID must be a positive integer"},
		{"fractional scan id", Request{Kind: KindScan, Action: "stop", Args: Args{"scanId": 1.5}}, "Scan ID must be a positive integer"},
		{"bad ids", Request{Kind: KindScan, Action: "deleteMany", Args: Args{"ids": "1,x"}}, "Scan IDs must contain only positive integers"},
		{"empty ids", Request{Kind: KindPolicy, Action: "deleteMany", Args: Args{"ids": ""}}, "Policy IDs array cannot be empty"},
		{"bad format", Request{Kind: KindScan, Action: "export", Args: Args{"scanId": 1, "format": "xml"}}, "Invalid export format. Valid formats: nessus, pdf, html, csv, db"},
		{"bad enabled", Request{Kind: KindScan, Action: "create", Args: Args{"targets": "h", "enabled": "maybe"}}, "enabled must be true or false"},
		{"create without targets", Request{Kind: KindScan, Action: "create", Args: Args{"scanName": "n", "policyUuid": "u"}}, "Target list is required"},
		{"bad settings", Request{Kind: KindPolicy, Action: "create", Args: Args{"name": "p", "settings": "[1]"}}, "settings must be a JSON object"},
		{"empty folder name", Request{Kind: KindFolder, Action: "create"}, "Folder name cannot be empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newRecorder(t, http.StatusOK, `{}`)
			c := newTestClient(t, srv.URL)

			_, err := c.Do(context.Background(), tc.req)
			e := requireKind(t, err, InvalidArgument)
			assert.Equal(t, tc.wantMsg, e.Message)
			assert.Empty(t, srv.requests())
		})
	}
}

// templateServer serves scan templates on GET and echoes POST /scans bodies.
type templateServer struct {
	mu        sync.Mutex
	templates string
	created   []byte
	calls     []string
}

func (s *templateServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, r.Method+" "+r.URL.Path)
	switch r.URL.Path {
	case "/editor/scan/templates":
		_, _ = io.WriteString(w, s.templates)
	case "/scans":
		s.created, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"scan":{"id":101}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestDo_CreateScanDefaults(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	ts := &templateServer{templates: `{"templates":[
		{"uuid":"adv","title":"Advanced Scan"},
		{"uuid":"basic","title":"Basic Network Scan"},
		{"uuid":"web","title":"Web Application Tests"}]}`}
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	out, err := c.Do(context.Background(), Request{Kind: KindScan, Action: "create", Args: Args{"targets": "10.0.0.1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"scan":{"id":101}}`, string(out))
	assert.Equal(t, []string{"GET /editor/scan/templates", "POST /scans"}, ts.calls)
	assert.JSONEq(t,
		`{"uuid":"basic","settings":{"name":"Basic Scan - 2024-03-09","text_targets":"10.0.0.1","enabled":false}}`,
		string(ts.created))
}

func TestDo_CreateScanExplicitSkipsTemplateLookup(t *testing.T) {
	ts := &templateServer{}
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := c.Do(context.Background(), Request{Kind: KindScan, Action: "create", Args: Args{
		"policyUuid": "u", "scanName": "nightly", "targets": "h1,h2", "enabled": "true", "folderId": "4",
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /scans"}, ts.calls)
	assert.JSONEq(t,
		`{"uuid":"u","settings":{"name":"nightly","text_targets":"h1,h2","enabled":true,"folder_id":4}}`,
		string(ts.created))
}

func TestDo_CreateScanNoTemplatesAvailable(t *testing.T) {
	ts := &templateServer{templates: `{"templates":[]}`}
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := c.Do(context.Background(), Request{Kind: KindScan, Action: "create", Args: Args{"targets": "h"}})
	e := requireKind(t, err, InvalidArgument)
	assert.Equal(t, "Template UUID is required for scan creation", e.Message)
	assert.Equal(t, []string{"GET /editor/scan/templates"}, ts.calls)
}

func TestDefaultScanTemplate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", `{}`, ""},
		{"basic first match wins", `{"templates":[{"uuid":"z","title":"Zeta"},{"uuid":"n","title":"Internal PCI Network Scan"},{"uuid":"b","title":"Basic Network Scan"}]}`, "n"},
		{"alphabetical fallback", `{"templates":[{"uuid":"z","title":"Zeta"},{"uuid":"a","title":"Alpha"}]}`, "a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DefaultScanTemplate(json.RawMessage(tc.in)))
		})
	}
}

func TestDo_DownloadWrapsBytes(t *testing.T) {
	srv := newRecorder(t, http.StatusOK, "%PDF-1.4 binary")
	c := newTestClient(t, srv.URL)

	out, err := c.Do(context.Background(), Request{Kind: KindScan, Action: "download", Args: Args{"scanId": 2, "fileId": 5}})
	require.NoError(t, err)

	var got exportDownload
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, int64(2), got.ScanID)
	assert.Equal(t, int64(5), got.FileID)
	assert.Equal(t, len("%PDF-1.4 binary"), got.Size)
	raw, err := base64.StdEncoding.DecodeString(got.ContentBase64)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 binary", string(raw))
}

func TestKindsAndActions(t *testing.T) {
	assert.Equal(t, []ResourceKind{KindFolder, KindPlugin, KindPolicy, KindScan, KindSession}, Kinds())
	assert.Equal(t, []string{"create", "delete", "list"}, Actions(KindFolder))
	assert.Nil(t, Actions("agent"))
}

func TestArgs_Coercion(t *testing.T) {
	a := Args{"Scan_ID": " 42 ", "alt-targets": []string{"a", " ", "b"}, "enabled": true}
	n, err := a.Int("Scan ID", "scanId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, []string{"a", "b"}, a.Strings("altTargets"))
	b, err := a.Bool("enabled")
	require.NoError(t, err)
	assert.True(t, b)
	assert.Nil(t, a.Strings("missing"))

	var nilArgs Args
	n, err = nilArgs.Int("Scan ID", "scanId")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "", nilArgs.String("name"))

	spaced := Args{"folder_name": "  Q3  "}
	assert.Equal(t, "Q3", spaced.String("folderName"))
	assert.Equal(t, "  Q3  ", spaced.Text("folderName"))
	assert.Equal(t, "", spaced.Text("name"))
}
