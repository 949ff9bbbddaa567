// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package testhelpers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Credentials accepted by FakeNessus.
const (
	FakeAccessKey = "fake-access-key-0001"
	FakeSecretKey = "fake-secret-key-0002"
)

// Template UUIDs served by FakeNessus.
const (
	FakeBasicScanTemplate  = "731a8e52-3ea6-a291-ec0a-d2ff0619c19d7bd788d6be818b65"
	FakeDiscoveryTemplate  = "bbd4f805-3966-d464-b2d1-0079eb89d69708c3a05ec2812bcf"
	FakeAdvancedPolicyTmpl = "ad629e16-03b6-8c1d-cef6-ef8c9dd3c658d24bd260ef5f9e66"
)

// FakeRequest is a request observed by FakeNessus.
type FakeRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeScan struct {
	ID          int64
	UUID        string
	Name        string
	Description string
	Targets     string
	FolderID    int64
	Enabled     bool
	Status      string
	History     []int64
}

type fakePolicy struct {
	ID          int64
	UUID        string
	Name        string
	Description string
	Settings    map[string]any
}

type fakeExport struct {
	ScanID int64
	Format string
	Status string
}

type fakeFailure struct {
	status int
	body   string
}

// FakeNessus is an in-memory Nessus API used by unit and acceptance tests.
// It enforces the X-ApiKeys header and keeps folders, scans, policies and
// exports until the test ends.
type FakeNessus struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int64
	folders  map[int64]string
	scans    map[int64]*fakeScan
	policies map[int64]*fakePolicy
	exports  map[int64]*fakeExport
	requests []FakeRequest
	failures map[string]fakeFailure

	// ExportReadyAfter is the number of status polls an export stays "loading".
	ExportReadyAfter int
	polls            map[int64]int
}

// NewFakeNessus starts a FakeNessus and registers its shutdown with t.
func NewFakeNessus(t testing.TB) *FakeNessus {
	t.Helper()
	f := &FakeNessus{
		nextID:   100,
		folders:  map[int64]string{2: "My Scans", 3: "Trash"},
		scans:    map[int64]*fakeScan{},
		policies: map[int64]*fakePolicy{},
		exports:  map[int64]*fakeExport{},
		failures: map[string]fakeFailure{},
		polls:    map[int64]int{},
	}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Close)
	return f
}

// FailNext makes the next request matching "METHOD /path" answer status and body.
func (f *FakeNessus) FailNext(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = fakeFailure{status: status, body: body}
}

// Requests returns a copy of the observed requests.
func (f *FakeNessus) Requests() []FakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeRequest(nil), f.requests...)
}

// ScanCount returns the number of scans currently stored.
func (f *FakeNessus) ScanCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scans)
}

// SeedScan stores a scan directly and returns its id.
func (f *FakeNessus) SeedScan(name, targets string, history ...int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.scans[id] = &fakeScan{ID: id, UUID: fmt.Sprintf("scan-uuid-%d", id), Name: name, Targets: targets, FolderID: 2, Status: "completed", History: history}
	return id
}

// RemoveScan deletes a scan behind the provider's back.
func (f *FakeNessus) RemoveScan(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scans, id)
}

// ProviderConfig renders a provider block pointing at the fake server.
func (f *FakeNessus) ProviderConfig() string {
	return fmt.Sprintf("provider \"nessus\" {\n  url        = %q\n  access_key = %q\n  secret_key = %q\n}\n", f.URL, FakeAccessKey, FakeSecretKey)
}

func (f *FakeNessus) newID() int64 {
	f.nextID++
	return f.nextID
}

func (f *FakeNessus) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /session", f.getSession)
	mux.HandleFunc("PUT /session", f.getSession)
	mux.HandleFunc("GET /editor/{type}/templates", f.listTemplates)

	mux.HandleFunc("GET /folders", f.listFolders)
	mux.HandleFunc("POST /folders", f.createFolder)
	mux.HandleFunc("DELETE /folders/{id}", f.deleteFolder)

	mux.HandleFunc("GET /scans", f.listScans)
	mux.HandleFunc("POST /scans", f.createScan)
	mux.HandleFunc("DELETE /scans", f.deleteManyScans)
	mux.HandleFunc("GET /scans/{id}", f.getScan)
	mux.HandleFunc("DELETE /scans/{id}", f.deleteScan)
	mux.HandleFunc("POST /scans/{id}/{action}", f.scanAction)
	mux.HandleFunc("GET /scans/{id}/export/{file}/status", f.exportStatus)
	mux.HandleFunc("GET /scans/{id}/export/{file}/download", f.exportDownload)

	mux.HandleFunc("GET /policies", f.listPolicies)
	mux.HandleFunc("POST /policies", f.createPolicy)
	mux.HandleFunc("DELETE /policies", f.deleteManyPolicies)
	mux.HandleFunc("GET /policies/{id}", f.getPolicy)
	mux.HandleFunc("PUT /policies/{id}", f.updatePolicy)
	mux.HandleFunc("DELETE /policies/{id}", f.deletePolicy)
	mux.HandleFunc("POST /policies/{id}/copy", f.copyPolicy)

	mux.HandleFunc("GET /plugins/families", f.listFamilies)
	mux.HandleFunc("GET /plugins/families/{id}", f.getFamily)
	mux.HandleFunc("GET /plugins/plugin/{id}", f.getPlugin)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests = append(f.requests, FakeRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		key := r.Method + " " + r.URL.Path
		fail, failing := f.failures[key]
		delete(f.failures, key)
		f.mu.Unlock()

		want := fmt.Sprintf("accessKey=%s; secretKey=%s", FakeAccessKey, FakeSecretKey)
		if r.Header.Get("X-ApiKeys") != want {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid Credentials"})
			return
		}
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.status)
			_, _ = io.WriteString(w, fail.body)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "The requested file was not found."})
}

func pathID(r *http.Request, name string) int64 {
	n, _ := strconv.ParseInt(r.PathValue(name), 10, 64)
	return n
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (f *FakeNessus) getSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          1,
		"username":    "admin",
		"name":        "Admin User",
		"email":       "admin@example.com",
		"type":        "local",
		"permissions": 128,
		"lastlogin":   1700000000,
	})
}

func (f *FakeNessus) listTemplates(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("type") == "policy" {
		writeJSON(w, http.StatusOK, map[string]any{"templates": []map[string]any{
			{"uuid": FakeAdvancedPolicyTmpl, "name": "advanced", "title": "Advanced Scan", "desc": "Configure a scan without using any recommendations.", "cloud_only": false, "subscription_only": false},
		}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": []map[string]any{
		{"uuid": FakeDiscoveryTemplate, "name": "discovery", "title": "Host Discovery", "desc": "A simple scan to discover live hosts and open ports.", "cloud_only": false, "subscription_only": false},
		{"uuid": FakeBasicScanTemplate, "name": "basic", "title": "Basic Network Scan", "desc": "A full system scan suitable for any host.", "cloud_only": false, "subscription_only": true},
	}})
}

func (f *FakeNessus) listFolders(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.folders))
	for _, id := range sortedKeys(f.folders) {
		typ, custom := "custom", 1
		switch id {
		case 2:
			typ, custom = "main", 0
		case 3:
			typ, custom = "trash", 0
		}
		out = append(out, map[string]any{"id": id, "name": f.folders[id], "type": typ, "custom": custom, "default_tag": id == 2, "unread_count": 0})
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": out})
}

func (f *FakeNessus) createFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid folder name"})
		return
	}
	f.mu.Lock()
	id := f.newID()
	f.folders[id] = req.Name
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (f *FakeNessus) deleteFolder(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folders[id]; !ok || id <= 3 {
		notFound(w)
		return
	}
	delete(f.folders, id)
	w.WriteHeader(http.StatusOK)
}

func (s *fakeScan) listItem() map[string]any {
	return map[string]any{
		"id": s.ID, "uuid": s.UUID, "name": s.Name, "owner": "admin", "status": s.Status,
		"folder_id": s.FolderID, "enabled": s.Enabled, "creation_date": 1700000000, "last_modification_date": 1700000100,
	}
}

func (f *FakeNessus) listScans(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder := r.URL.Query().Get("folder_id")
	out := make([]map[string]any, 0, len(f.scans))
	for _, id := range sortedKeys(f.scans) {
		s := f.scans[id]
		if folder != "" && folder != strconv.FormatInt(s.FolderID, 10) {
			continue
		}
		out = append(out, s.listItem())
	}
	writeJSON(w, http.StatusOK, map[string]any{"scans": out, "folders": []any{}, "timestamp": 1700000200})
}

func (f *FakeNessus) createScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UUID     string `json:"uuid"`
		Settings struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			TextTargets string `json:"text_targets"`
			Enabled     bool   `json:"enabled"`
			FolderID    int64  `json:"folder_id"`
		} `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UUID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid 'uuid' field"})
		return
	}
	f.mu.Lock()
	id := f.newID()
	folder := req.Settings.FolderID
	if folder == 0 {
		folder = 2
	}
	s := &fakeScan{
		ID: id, UUID: fmt.Sprintf("scan-uuid-%d", id), Name: req.Settings.Name, Description: req.Settings.Description,
		Targets: req.Settings.TextTargets, FolderID: folder, Enabled: req.Settings.Enabled, Status: "empty",
	}
	f.scans[id] = s
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"scan": map[string]any{"id": id, "uuid": s.UUID, "name": s.Name, "enabled": s.Enabled}})
}

func (f *FakeNessus) getScan(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scans[pathID(r, "id")]
	if !ok {
		notFound(w)
		return
	}
	history := make([]map[string]any, 0, len(s.History))
	for _, h := range s.History {
		history = append(history, map[string]any{"history_id": h, "status": "completed"})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"info": map[string]any{
			"object_id": s.ID, "uuid": s.UUID, "name": s.Name, "status": s.Status, "targets": s.Targets,
			"folder_id": s.FolderID, "owner": "admin", "policy": "Basic Network Scan", "scanner_name": "Local Scanner",
		},
		"hosts":           []map[string]any{{"host_id": 1, "hostname": "10.0.0.1"}},
		"vulnerabilities": []map[string]any{{"plugin_id": 19506, "severity": 0}},
		"history":         history,
	})
}

func (f *FakeNessus) deleteScan(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.scans[id]; !ok {
		notFound(w)
		return
	}
	delete(f.scans, id)
	w.WriteHeader(http.StatusOK)
}

func (f *FakeNessus) deleteManyScans(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted []int64
	for _, id := range req.IDs {
		if _, ok := f.scans[id]; ok {
			delete(f.scans, id)
			deleted = append(deleted, id)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (f *FakeNessus) scanAction(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scans[id]
	if !ok {
		notFound(w)
		return
	}
	switch r.PathValue("action") {
	case "launch":
		s.Status = "running"
		s.History = append(s.History, f.newID())
		writeJSON(w, http.StatusOK, map[string]any{"scan_uuid": fmt.Sprintf("launch-%d-%d", id, len(s.History))})
	case "stop":
		s.Status = "canceled"
		w.WriteHeader(http.StatusOK)
	case "pause":
		s.Status = "paused"
		w.WriteHeader(http.StatusOK)
	case "resume":
		s.Status = "running"
		w.WriteHeader(http.StatusOK)
	case "export":
		var req struct {
			Format string `json:"format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		file := f.newID()
		f.exports[file] = &fakeExport{ScanID: id, Format: req.Format, Status: "loading"}
		writeJSON(w, http.StatusOK, map[string]any{"file": file, "token": fmt.Sprintf("token-%d", file)})
	case "copy":
		cp := *s
		cp.ID = f.newID()
		cp.UUID = fmt.Sprintf("scan-uuid-%d", cp.ID)
		cp.Name = "Copy of " + s.Name
		f.scans[cp.ID] = &cp
		writeJSON(w, http.StatusOK, cp.listItem())
	default:
		notFound(w)
	}
}

func (f *FakeNessus) lookupExport(r *http.Request) (*fakeExport, int64, bool) {
	file := pathID(r, "file")
	e, ok := f.exports[file]
	if !ok || e.ScanID != pathID(r, "id") {
		return nil, 0, false
	}
	return e, file, true
}

func (f *FakeNessus) exportStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, file, ok := f.lookupExport(r)
	if !ok {
		notFound(w)
		return
	}
	f.polls[file]++
	if f.polls[file] > f.ExportReadyAfter {
		e.Status = "ready"
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": e.Status})
}

func (f *FakeNessus) exportDownload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, file, ok := f.lookupExport(r)
	if !ok || e.Status != "ready" {
		notFound(w)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "export %d of scan %d in %s format", file, e.ScanID, e.Format)
}

func (p *fakePolicy) listItem() map[string]any {
	return map[string]any{
		"id": p.ID, "name": p.Name, "description": p.Description, "template_uuid": p.UUID, "owner": "admin",
		"visibility": "private", "creation_date": 1700000000, "last_modification_date": 1700000100,
	}
}

func (f *FakeNessus) listPolicies(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.policies))
	for _, id := range sortedKeys(f.policies) {
		out = append(out, f.policies[id].listItem())
	}
	writeJSON(w, http.StatusOK, map[string]any{"policies": out})
}

type policyRequest struct {
	UUID     string         `json:"uuid"`
	Settings map[string]any `json:"settings"`
}

func (p *fakePolicy) apply(req policyRequest) {
	if p.Settings == nil {
		p.Settings = map[string]any{}
	}
	for k, v := range req.Settings {
		p.Settings[k] = v
	}
	if n, ok := req.Settings["name"].(string); ok {
		p.Name = n
	}
	if d, ok := req.Settings["description"].(string); ok {
		p.Description = d
	}
}

func (f *FakeNessus) createPolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UUID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid 'uuid' field"})
		return
	}
	f.mu.Lock()
	p := &fakePolicy{ID: f.newID(), UUID: req.UUID}
	p.apply(req)
	f.policies[p.ID] = p
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"policy_id": p.ID, "policy_name": p.Name})
}

func (f *FakeNessus) getPolicy(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.policies[pathID(r, "id")]
	if !ok {
		notFound(w)
		return
	}
	settings := map[string]any{"name": p.Name, "description": p.Description, "scan_webapps": "no"}
	for k, v := range p.Settings {
		settings[k] = v
	}
	writeJSON(w, http.StatusOK, map[string]any{"uuid": p.UUID, "settings": settings})
}

func (f *FakeNessus) updatePolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.policies[pathID(r, "id")]
	if !ok {
		notFound(w)
		return
	}
	p.apply(req)
	w.WriteHeader(http.StatusOK)
}

func (f *FakeNessus) deletePolicy(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.policies[id]; !ok {
		notFound(w)
		return
	}
	delete(f.policies, id)
	w.WriteHeader(http.StatusOK)
}

func (f *FakeNessus) deleteManyPolicies(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range req.IDs {
		delete(f.policies, id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": req.IDs})
}

func (f *FakeNessus) copyPolicy(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.policies[pathID(r, "id")]
	if !ok {
		notFound(w)
		return
	}
	cp := *p
	cp.ID = f.newID()
	cp.Name = "Copy of " + p.Name
	f.policies[cp.ID] = &cp
	writeJSON(w, http.StatusOK, map[string]any{"id": cp.ID, "name": cp.Name})
}

func (f *FakeNessus) listFamilies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"families": []map[string]any{
		{"id": 1, "name": "General", "count": 2},
		{"id": 2, "name": "Web Servers", "count": 1},
	}})
}

func (f *FakeNessus) getFamily(w http.ResponseWriter, r *http.Request) {
	switch pathID(r, "id") {
	case 1:
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "name": "General", "plugins": []map[string]any{
			{"id": 19506, "name": "Nessus Scan Information"},
			{"id": 10287, "name": "Traceroute Information"},
		}})
	case 2:
		writeJSON(w, http.StatusOK, map[string]any{"id": 2, "name": "Web Servers", "plugins": []map[string]any{
			{"id": 10107, "name": "HTTP Server Type and Version"},
		}})
	default:
		notFound(w)
	}
}

func (f *FakeNessus) getPlugin(w http.ResponseWriter, r *http.Request) {
	if pathID(r, "id") != 19506 {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id": 19506, "name": "Nessus Scan Information", "family_name": "Settings",
		"attributes": []map[string]any{
			{"attribute_name": "risk_factor", "attribute_value": "None"},
			{"attribute_name": "plugin_type", "attribute_value": "summary"},
			{"attribute_name": "see_also", "attribute_value": "https://www.tenable.com/"},
			{"attribute_name": "see_also", "attribute_value": "https://docs.tenable.com/"},
		},
	})
}
