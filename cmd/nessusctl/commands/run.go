// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/spf13/cobra"
)

// newKindCommand builds "nessusctl <kind> <action>". The action is not checked
// against the list here; the dispatcher reports unknown actions.
func newKindCommand(kind nessus.ResourceKind, opts *rootOptions) *cobra.Command {
	var rawArgs []string
	actions := nessus.Actions(kind)

	cmd := &cobra.Command{
		Use:       string(kind) + " <action>",
		Short:     fmt.Sprintf("Run a %s operation", kind),
		Long:      fmt.Sprintf("Run a %s operation.\n\nActions:\n  %s", kind, strings.Join(actions, "\n  ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: actions,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(opts.v.GetString(keyOutput))
			if err != nil {
				return err
			}
			opArgs, err := parseOperationArgs(rawArgs)
			if err != nil {
				return err
			}
			client, err := opts.newClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := client.Do(cmd.Context(), nessus.Request{Kind: kind, Action: args[0], Args: opArgs})
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), format, result)
		},
	}
	cmd.Flags().StringArrayVarP(&rawArgs, "arg", "a", nil, "Operation argument as key=value (repeatable; repeated keys form a list)")
	return cmd
}

// parseOperationArgs turns key=value pairs into nessus.Args. Values stay
// strings; a key given more than once becomes a comma separated list.
func parseOperationArgs(pairs []string) (nessus.Args, error) {
	out := nessus.Args{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &nessus.Error{
				Kind:    nessus.InvalidArgument,
				Message: fmt.Sprintf("argument %q must be key=value", pair),
			}
		}
		if prev, seen := out[key]; seen {
			out[key] = prev.(string) + "," + value
			continue
		}
		out[key] = value
	}
	return out, nil
}

// describeError renders a failure as its classified message, adding the HTTP
// status when the server answered.
func describeError(err error) string {
	var nerr *nessus.Error
	if errors.As(err, &nerr) && nerr.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", nerr.Error(), nerr.StatusCode)
	}
	return err.Error()
}
