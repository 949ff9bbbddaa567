// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case outputJSON, outputYAML:
		return outputFormat(f), nil
	case "yml":
		return outputYAML, nil
	default:
		return "", &nessus.Error{
			Kind:    nessus.InvalidArgument,
			Message: fmt.Sprintf("unsupported output format %q: use json or yaml", s),
		}
	}
}

// writeResult prints an operation result. JSON keeps the server's key order
// and is indented; YAML is converted node by node so key order survives too.
func writeResult(w io.Writer, format outputFormat, result json.RawMessage) error {
	if format == outputYAML {
		return writeYAML(w, result)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, result, "", "  "); err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func writeYAML(w io.Writer, result json.RawMessage) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(result, &doc); err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles JSON input carries. Scalar tags
// are kept, so strings that look like numbers are still quoted on output.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
