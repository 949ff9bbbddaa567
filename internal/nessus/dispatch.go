// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ResourceKind names the API area a Request targets.
type ResourceKind string

const (
	KindScan    ResourceKind = "scan"
	KindPolicy  ResourceKind = "policy"
	KindFolder  ResourceKind = "folder"
	KindPlugin  ResourceKind = "plugin"
	KindSession ResourceKind = "session"
)

// Request is a logical operation: a kind, an action within it and loosely
// typed arguments. Argument keys are matched ignoring case and underscores,
// so "scanId", "scan_id" and "SCANID" are the same key.
type Request struct {
	Kind   ResourceKind
	Action string
	Args   Args
}

type handler func(ctx context.Context, c *Client, a Args) (json.RawMessage, error)

// now is replaced in tests.
var now = time.Now

var dispatchTable = map[ResourceKind]map[string]handler{
	KindScan: {
		"list": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			p, err := a.pagination()
			if err != nil {
				return nil, err
			}
			return c.ListScans(ctx, p)
		},
		"getDetails": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int(fieldScanID, "scanId", "id")
			if err != nil {
				return nil, err
			}
			return c.GetScanDetails(ctx, id)
		},
		"create": createScanWithDefaults,
		"launch": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int(fieldScanID, "scanId", "id")
			if err != nil {
				return nil, err
			}
			return c.LaunchScan(ctx, id, a.Strings("altTargets"))
		},
		"stop":   scanIDAction((*Client).StopScan),
		"pause":  scanIDAction((*Client).PauseScan),
		"resume": scanIDAction((*Client).ResumeScan),
		"delete": scanIDAction((*Client).DeleteScan),
		"deleteMany": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			ids, err := a.Ints("Scan IDs", "ids", "scanIds")
			if err != nil {
				return nil, err
			}
			return c.DeleteManyScans(ctx, ids)
		},
		"export": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int(fieldScanID, "scanId", "id")
			if err != nil {
				return nil, err
			}
			history, err := a.Int("History ID", "historyId")
			if err != nil {
				return nil, err
			}
			return c.ExportScan(ctx, id, a.String("exportFormat", "format"), history)
		},
		"exportStatus": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, file, err := a.exportRef()
			if err != nil {
				return nil, err
			}
			return c.GetScanExportStatus(ctx, id, file)
		},
		"download": downloadScanExport,
		"copy": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int(fieldScanID, "scanId", "id")
			if err != nil {
				return nil, err
			}
			folder, err := a.Int("Folder ID", "destinationFolderId", "folderId")
			if err != nil {
				return nil, err
			}
			return c.CopyScan(ctx, id, folder, a.String("newName", "name"))
		},
		"listTemplates": func(ctx context.Context, c *Client, _ Args) (json.RawMessage, error) {
			return c.ListScanTemplates(ctx)
		},
	},
	KindPolicy: {
		"list": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			p, err := a.pagination()
			if err != nil {
				return nil, err
			}
			return c.ListPolicies(ctx, p)
		},
		"getDetails": policyIDAction((*Client).GetPolicyDetails),
		"create": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			p, err := a.policyPayload()
			if err != nil {
				return nil, err
			}
			return c.CreatePolicy(ctx, p)
		},
		"update": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int(fieldPolicyID, "policyId", "id")
			if err != nil {
				return nil, err
			}
			p, err := a.policyPayload()
			if err != nil {
				return nil, err
			}
			return c.UpdatePolicy(ctx, id, p)
		},
		"delete": policyIDAction((*Client).DeletePolicy),
		"deleteMany": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			ids, err := a.Ints("Policy IDs", "ids", "policyIds")
			if err != nil {
				return nil, err
			}
			return c.DeleteManyPolicies(ctx, ids)
		},
		"copy": policyIDAction((*Client).CopyPolicy),
		"listTemplates": func(ctx context.Context, c *Client, _ Args) (json.RawMessage, error) {
			return c.ListPolicyTemplates(ctx)
		},
	},
	KindFolder: {
		"list": func(ctx context.Context, c *Client, _ Args) (json.RawMessage, error) {
			return c.ListFolders(ctx)
		},
		"create": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			return c.CreateFolder(ctx, a.Text("folderName", "name"))
		},
		"delete": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int("Folder ID", "folderId", "id")
			if err != nil {
				return nil, err
			}
			return c.DeleteFolder(ctx, id)
		},
	},
	KindPlugin: {
		"listFamilies": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			p, err := a.pagination()
			if err != nil {
				return nil, err
			}
			return c.ListPluginFamilies(ctx, p)
		},
		"listPluginsInFamily": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int("Family ID", "familyId", "id")
			if err != nil {
				return nil, err
			}
			p, err := a.pagination()
			if err != nil {
				return nil, err
			}
			return c.ListPluginsInFamily(ctx, id, p)
		},
		"getPluginDetails": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			id, err := a.Int("Plugin ID", "pluginId", "id")
			if err != nil {
				return nil, err
			}
			return c.GetPluginDetails(ctx, id)
		},
	},
	KindSession: {
		"getDetails": func(ctx context.Context, c *Client, _ Args) (json.RawMessage, error) {
			return c.GetSessionDetails(ctx)
		},
		"edit": func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
			return c.EditSession(ctx, SessionPayload{Name: a.String("name"), Email: a.String("email")})
		},
	},
}

// Do routes r to the matching typed operation.
func (c *Client) Do(ctx context.Context, r Request) (json.RawMessage, error) {
	actions, ok := dispatchTable[ResourceKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))]
	if !ok {
		return nil, invalidArgument("Unknown resource kind %q", r.Kind)
	}
	h, ok := actions[strings.TrimSpace(r.Action)]
	if !ok {
		return nil, invalidArgument("Unknown %s action %q", r.Kind, r.Action)
	}
	return h(ctx, c, r.Args)
}

// Kinds returns every supported kind in alphabetical order.
func Kinds() []ResourceKind {
	out := make([]ResourceKind, 0, len(dispatchTable))
	for k := range dispatchTable {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Actions returns the actions supported for kind in alphabetical order, or
// nil for an unknown kind.
func Actions(kind ResourceKind) []string {
	actions, ok := dispatchTable[kind]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(actions))
	for a := range actions {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func scanIDAction(op func(*Client, context.Context, int64) (json.RawMessage, error)) handler {
	return func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
		id, err := a.Int(fieldScanID, "scanId", "id")
		if err != nil {
			return nil, err
		}
		return op(c, ctx, id)
	}
}

func policyIDAction(op func(*Client, context.Context, int64) (json.RawMessage, error)) handler {
	return func(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
		id, err := a.Int(fieldPolicyID, "policyId", "id")
		if err != nil {
			return nil, err
		}
		return op(c, ctx, id)
	}
}

// createScanWithDefaults fills a missing template from the server's scan
// templates and a missing name from today's date before calling CreateScan.
func createScanWithDefaults(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
	enabled, err := a.Bool("enabled")
	if err != nil {
		return nil, err
	}
	folder, err := a.Int("Folder ID", "folderId")
	if err != nil {
		return nil, err
	}
	p := ScanCreatePayload{
		TemplateUUID: a.String("policyUuid", "templateUuid", "uuid"),
		Name:         a.String("scanName", "name"),
		Targets:      a.String("targets", "textTargets"),
		Enabled:      enabled,
		FolderID:     folder,
		Description:  a.String("description"),
	}
	if strings.TrimSpace(p.Targets) == "" {
		return nil, invalidArgument("Target list is required")
	}
	if strings.TrimSpace(p.TemplateUUID) == "" {
		templates, err := c.ListScanTemplates(ctx)
		if err != nil {
			return nil, err
		}
		p.TemplateUUID = DefaultScanTemplate(templates)
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = "Basic Scan - " + now().UTC().Format(time.DateOnly)
	}
	return c.CreateScan(ctx, p)
}

// DefaultScanTemplate picks a template UUID from a /editor/scan/templates
// response: the first template whose title mentions "basic" or "network",
// otherwise the alphabetically first title. It returns "" when there are none.
func DefaultScanTemplate(templates json.RawMessage) string {
	type tmpl struct{ uuid, title string }
	var all []tmpl
	gjson.GetBytes(templates, "templates").ForEach(func(_, v gjson.Result) bool {
		all = append(all, tmpl{uuid: v.Get("uuid").String(), title: v.Get("title").String()})
		return true
	})
	if len(all) == 0 {
		return ""
	}
	for _, t := range all {
		lower := strings.ToLower(t.title)
		if strings.Contains(lower, "basic") || strings.Contains(lower, "network") {
			return t.uuid
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].title < all[j].title })
	return all[0].uuid
}

type exportDownload struct {
	ScanID        int64  `json:"scan_id"`
	FileID        int64  `json:"file_id"`
	Size          int    `json:"size"`
	ContentBase64 string `json:"content_base64"`
}

func downloadScanExport(ctx context.Context, c *Client, a Args) (json.RawMessage, error) {
	id, file, err := a.exportRef()
	if err != nil {
		return nil, err
	}
	data, err := c.DownloadScanExport(ctx, id, file)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(exportDownload{
		ScanID:        id,
		FileID:        file,
		Size:          len(data),
		ContentBase64: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, &Error{Kind: UnknownError, Message: err.Error(), StatusCode: http.StatusOK, Err: err}
	}
	return out, nil
}
