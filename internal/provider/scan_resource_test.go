// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/devops-wiz/terraform-provider-nessus/internal/provider/testhelpers"
	"github.com/hashicorp/terraform-plugin-testing/compare"
	"github.com/hashicorp/terraform-plugin-testing/helper/acctest"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/knownvalue"
	"github.com/hashicorp/terraform-plugin-testing/statecheck"
	"github.com/hashicorp/terraform-plugin-testing/terraform"
	"github.com/hashicorp/terraform-plugin-testing/tfjsonpath"
)

func TestAccScanResource_basic(t *testing.T) {
	t.Parallel()

	f := testhelpers.NewFakeNessus(t)
	name := acctest.RandomWithPrefix("tf-acc-scan")
	cfg := testhelpers.ScanTmplCfg{
		Name:        name,
		Targets:     []string{"10.0.0.1", "10.0.0.2"},
		Description: "weekly baseline",
	}

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t, f) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		CheckDestroy: func(*terraform.State) error {
			if n := f.ScanCount(); n != 0 {
				return fmt.Errorf("expected all scans to be deleted, %d left", n)
			}
			return nil
		},
		Steps: []resource.TestStep{
			{
				Config: testhelpers.ScanConfig(t, f, cfg),
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("name"), knownvalue.StringExact(name)),
					// The default template is resolved from the server list.
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("template_uuid"), knownvalue.StringExact(testhelpers.FakeBasicScanTemplate)),
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("status"), knownvalue.StringExact("empty")),
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("folder_id"), knownvalue.Int64Exact(2)),
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("launch_uuid"), knownvalue.Null()),
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("targets"), knownvalue.ListExact([]knownvalue.Check{
						knownvalue.StringExact("10.0.0.1"),
						knownvalue.StringExact("10.0.0.2"),
					})),
				},
				Check: func(*terraform.State) error {
					for _, r := range f.Requests() {
						if r.Method == http.MethodPost && r.Path == "/scans" {
							if !strings.Contains(r.Body, `"text_targets":"10.0.0.1,10.0.0.2"`) {
								return fmt.Errorf("unexpected create body: %s", r.Body)
							}
							return nil
						}
					}
					return fmt.Errorf("no scan create request recorded")
				},
			},
			{
				ImportState:             true,
				ImportStateVerify:       true,
				ResourceName:            scanResourceName,
				ImportStateVerifyIgnore: []string{"description", "template_uuid"},
			},
		},
	})
}

func TestAccScanResource_launchInFolder(t *testing.T) {
	t.Parallel()

	f := testhelpers.NewFakeNessus(t)
	cfg := testhelpers.ScanTmplCfg{
		Name:         acctest.RandomWithPrefix("tf-acc-scan"),
		Targets:      []string{"192.168.1.0/24"},
		TemplateUUID: testhelpers.FakeDiscoveryTemplate,
		FolderName:   acctest.RandomWithPrefix("tf-acc-folder"),
		Launch:       true,
	}

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t, f) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testhelpers.ScanConfig(t, f, cfg),
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("template_uuid"), knownvalue.StringExact(testhelpers.FakeDiscoveryTemplate)),
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("status"), knownvalue.StringExact("running")),
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("launch_uuid"), knownvalue.StringRegexp(regexp.MustCompile(`^launch-\d+-1$`))),
					statecheck.CompareValuePairs(
						scanResourceName, tfjsonpath.New("folder_id"),
						"nessus_folder.scan", tfjsonpath.New("folder_id"),
						compare.ValuesSame(),
					),
				},
			},
		},
	})
}

func TestAccScanResource_launchFailureTaintsScan(t *testing.T) {
	t.Parallel()

	f := testhelpers.NewFakeNessus(t)
	cfg := testhelpers.ScanTmplCfg{
		Name:    acctest.RandomWithPrefix("tf-acc-scan"),
		Targets: []string{"10.0.0.9"},
		Launch:  true,
	}

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t, f) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		CheckDestroy: func(*terraform.State) error {
			if n := f.ScanCount(); n != 0 {
				return fmt.Errorf("expected all scans to be deleted, %d left", n)
			}
			return nil
		},
		Steps: []resource.TestStep{
			{
				PreConfig:   func() { f.FailNext(http.MethodPost, "/scans/101/launch", http.StatusServiceUnavailable, "") },
				Config:      testhelpers.ScanConfig(t, f, cfg),
				ExpectError: regexp.MustCompile(`post-create\s+hook\s+failed`),
			},
			{
				// The tracked scan is replaced, not duplicated.
				Config: testhelpers.ScanConfig(t, f, cfg),
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("scan_id"), knownvalue.Int64Exact(102)),
					statecheck.ExpectKnownValue(scanResourceName, tfjsonpath.New("status"), knownvalue.StringExact("running")),
				},
				Check: func(*terraform.State) error {
					if n := f.ScanCount(); n != 1 {
						return fmt.Errorf("expected one scan on the server, got %d", n)
					}
					for _, r := range f.Requests() {
						if r.Method == http.MethodDelete && r.Path == "/scans/101" {
							return nil
						}
					}
					return fmt.Errorf("scan 101 was never deleted")
				},
			},
		},
	})
}

func TestAccScanResource_negative(t *testing.T) {
	t.Parallel()

	t.Run("empty targets fail validation", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config:      testhelpers.ScanConfig(t, f, testhelpers.ScanTmplCfg{Name: "tf-acc-scan-neg"}),
					ExpectError: regexp.MustCompile(`(?s)targets.*at\s+least\s+1`),
				},
			},
		})
	})

	t.Run("server rejects the template", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		f.FailNext(http.MethodPost, "/scans", http.StatusBadRequest, `{"error":"Invalid 'uuid' field"}`)
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config:      testhelpers.ScanConfig(t, f, testhelpers.ScanTmplCfg{Name: "tf-acc-scan-neg", Targets: []string{"10.0.0.1"}, TemplateUUID: "bogus"}),
					ExpectError: regexp.MustCompile(`(?s)create\s+resource\s+failed.*Invalid\s+'uuid'\s+field`),
				},
			},
		})
	})

	t.Run("scan deleted outside terraform is recreated", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		cfg := testhelpers.ScanConfig(t, f, testhelpers.ScanTmplCfg{Name: "tf-acc-scan-drift", Targets: []string{"10.0.0.9"}})
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{Config: cfg},
				{
					PreConfig: func() {
						f.RemoveScan(101)
					},
					Config:             cfg,
					PlanOnly:           true,
					ExpectNonEmptyPlan: true,
				},
			},
		})
	})
}
