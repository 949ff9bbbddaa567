// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Command nessusctl runs a single Nessus API operation from the shell.
package main

import "github.com/devops-wiz/terraform-provider-nessus/cmd/nessusctl/commands"

func main() {
	commands.Execute()
}
