// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/terraform-plugin-framework/diag"
)

// Function type aliases used by CRUDHooks for clarity and reuse.
//
// Purpose
// - Keep CRUDHooks signatures concise and intention‑revealing (builder, create/read/update/delete, mapper).
// - Centralize call signatures so future changes don’t ripple across all resources.
// - Leverage the constraints below to catch type mismatches at compile time.
//
// Usage pattern
// - Resources implement these functions via small closures over nessus.Client methods.
// - The API side is always the raw JSON document returned by the client; mappers read it with gjson.

// PayloadBuilderFunc builds the API payload (TPayload) from the planned Terraform state (TState).
// Return diagnostics for validation or value derivation errors encountered during build.
type PayloadBuilderFunc[TState StateConstraint, TPayload PayloadConstraint] func(ctx context.Context, st *TState) (TPayload, diag.Diagnostics)

// CreateFunc invokes the concrete API Create call and returns the created API document (TAPI).
type CreateFunc[TPayload PayloadConstraint, TAPI APIConstraint] func(ctx context.Context, p TPayload) (api TAPI, err error)

// ReadFunc invokes the concrete API Read/Get call using a stable identifier and returns TAPI.
type ReadFunc[TAPI APIConstraint] func(ctx context.Context, id string) (api TAPI, err error)

// UpdateFunc invokes the concrete API Update call with payload and returns TAPI.
// Nessus answers most updates with an empty object; pair with PostUpdate to re-read.
type UpdateFunc[TPayload PayloadConstraint, TAPI APIConstraint] func(ctx context.Context, id string, p TPayload) (api TAPI, err error)

// DeleteFunc invokes the concrete API Delete call; Ensure* handles 404 semantics.
type DeleteFunc func(ctx context.Context, id string) error

// ExtractIDFunc returns the stable identifier from the current state (typically id string).
type ExtractIDFunc[TState StateConstraint] func(st *TState) string

// MapToStateFunc maps the API document (TAPI) into the Terraform state model (TState).
// Return diagnostics when mapping encounters unexpected values or schema mismatches.
type MapToStateFunc[TState StateConstraint, TAPI APIConstraint] func(ctx context.Context, api TAPI, st *TState) diag.Diagnostics

// PostAPIHook is an optional extra step after an API call to fetch the full TAPI document.
// Use this when Create returns only an identifier and a subsequent Get is needed.
type PostAPIHook[TState StateConstraint, TAPI APIConstraint] func(ctx context.Context, api TAPI, st *TState) (apiOut TAPI, err error)

// EnsureFunc evaluates an API error and records diagnostics; see ensureWith.
type EnsureFunc func(ctx context.Context, action string, err error, opts *EnsureSuccessOrDiagOptions) bool

// Generic type constraints restricted to available provider types.
//
// What these do
// - StateConstraint limits TState to Terraform state models defined by this provider.
// - PayloadConstraint limits TPayload to the request payloads the provider sends.
// - APIConstraint limits TAPI to what the client returns.
//
// How to extend
// - Add your new types to the relevant union below.
// - Implement hooks() in the new resource that uses those types.

// StateConstraint enumerates the Terraform state models supported by the CRUD runner.
type StateConstraint interface {
	folderResourceModel |
		scanResourceModel |
		policyResourceModel |
		scanExportResourceModel
}

// PayloadConstraint enumerates the payload types used in Create/Update.
type PayloadConstraint interface {
	folderPayload |
		nessus.ScanCreatePayload |
		nessus.PolicyPayload |
		scanExportPayload
}

// APIConstraint enumerates the API documents returned by service calls.
type APIConstraint interface {
	json.RawMessage
}

// CRUDHooks defines per‑resource behavior consumed by the generic runner.
//
// Provide only the resource‑specific logic here; the runner coordinates the flow.
//
// Required
// - BuildPayload: Construct the API payload from planned state (Create/Update).
// - APICreate/APIRead/APIUpdate/APIDelete: Call the concrete nessus.Client methods.
// - ExtractID: Return the stable identifier from state (used for Read/Update/Delete).
// - MapToState: Map the API document to Terraform state (also used by Import).
//
// Optional
// - PostCreate/PostRead/PostUpdate: Fetch the full document after the primary call.
// - CreatedID: Identifier of the created object, saved before PostCreate runs.
// - TreatDelete404AsSuccess: Make Delete idempotent by treating 404 as success.
type CRUDHooks[TState StateConstraint, TPayload PayloadConstraint, TAPI APIConstraint] struct {
	// Required
	BuildPayload PayloadBuilderFunc[TState, TPayload]

	// API calls
	APICreate CreateFunc[TPayload, TAPI]
	APIRead   ReadFunc[TAPI]
	APIUpdate UpdateFunc[TPayload, TAPI]
	APIDelete DeleteFunc

	// State helpers
	ExtractID  ExtractIDFunc[TState]
	MapToState MapToStateFunc[TState, TAPI]

	// Optional hooks for flows that need a follow-up read
	PostCreate PostAPIHook[TState, TAPI]
	PostRead   PostAPIHook[TState, TAPI]
	PostUpdate PostAPIHook[TState, TAPI]

	// CreatedID reads the identifier from the APICreate answer. When set, the
	// runner records it as partial state before PostCreate, so a failed
	// follow-up leaves the object tracked (and tainted) instead of orphaned.
	CreatedID func(api TAPI) string

	TreatDelete404AsSuccess bool
}

// CRUDRunner coordinates the CRUD lifecycle using the per‑resource CRUDHooks.
// It is generic over TState (Terraform model), TPayload (API payload), and TAPI (API document).
type CRUDRunner[TState StateConstraint, TPayload PayloadConstraint, TAPI APIConstraint] struct {
	// hooks holds the per‑resource implementation details consumed by the runner.
	hooks CRUDHooks[TState, TPayload, TAPI]
}

// NewCRUDRunner constructs a CRUDRunner bound to the provided hooks.
// Typical usage: runner := NewCRUDRunner(r.hooks())
func NewCRUDRunner[TState StateConstraint, TPayload PayloadConstraint, TAPI APIConstraint](hooks CRUDHooks[TState, TPayload, TAPI]) CRUDRunner[TState, TPayload, TAPI] {
	return CRUDRunner[TState, TPayload, TAPI]{hooks: hooks}
}

// runPostHook runs an optional post-API hook (create/read/update) with shared ensure handling.
func (r CRUDRunner[TState, TPayload, TAPI]) runPostHook(
	ctx context.Context,
	label string,
	hook PostAPIHook[TState, TAPI],
	api TAPI,
	st *TState,
	ensure EnsureFunc,
) (TAPI, bool) {
	if hook == nil {
		return api, true
	}
	api2, err := hook(ctx, api, st)
	if !ensure(ctx, label, err, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		var zero TAPI
		return zero, false
	}
	return api2, true
}

// mapAndSetState performs the MapToState + setState sequence and returns accumulated diagnostics.
func (r CRUDRunner[TState, TPayload, TAPI]) mapAndSetState(
	ctx context.Context,
	api TAPI,
	st *TState,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
) diag.Diagnostics {
	var diags diag.Diagnostics
	diags.Append(r.hooks.MapToState(ctx, api, st)...)
	if diags.HasError() {
		return diags
	}
	diags.Append(setState(ctx, st)...)
	return diags
}

// DoCreate orchestrates the Create lifecycle:
//
// Steps
// 1) getPlan: Read the Terraform planned state into TState.
// 2) BuildPayload: Build the API payload (TPayload) from TState.
// 3) APICreate: Call the service to create the resource; savePartial records CreatedID.
// 4) PostCreate (optional): Fetch the full document when Create returns only an id.
// 5) MapToState: Map the API document (TAPI) back into TState.
// 6) setState: Persist the final state back to Terraform.
//
// ensure
// - Pass ensureWith(&resp.Diagnostics) to bind resource diagnostics to the Ensure helper.
// - savePartial may be nil; see saveCreatedID.
func (r CRUDRunner[TState, TPayload, TAPI]) DoCreate(
	ctx context.Context,
	getPlan func(ctx context.Context, dst *TState) diag.Diagnostics,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	savePartial func(ctx context.Context, id string) diag.Diagnostics,
	ensure EnsureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	// 1) Read planned state
	if d := getPlan(ctx, &st); d.HasError() {
		return d
	}

	// 2) Build payload
	payload, d2 := r.hooks.BuildPayload(ctx, &st)
	diags.Append(d2...)
	if diags.HasError() {
		return diags
	}

	// 3) API create
	api, err := r.hooks.APICreate(ctx, payload)
	if !ensure(ctx, "create resource", err, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		return diags
	}
	if r.hooks.CreatedID != nil && savePartial != nil {
		if id := r.hooks.CreatedID(api); id != "" {
			diags.Append(savePartial(ctx, id)...)
			if diags.HasError() {
				return diags
			}
		}
	}

	// 4) Optional post-create read
	api, ok := r.runPostHook(ctx, "post-create hook", r.hooks.PostCreate, api, &st, ensure)
	if !ok {
		return diags
	}

	// 5) Map and set state
	diags.Append(r.mapAndSetState(ctx, api, &st, setState)...)
	return diags
}

// DoRead refreshes state from the remote API.
//
// Behavior
// - Reads current state (for ID) via getState.
// - Invokes APIRead; if isNotFound(err), remove() is called to drop the resource from state.
// - Otherwise maps API → state (MapToState) and writes it using setState.
// - Any HTTP/transport errors are reported via ensure.
func (r CRUDRunner[TState, TPayload, TAPI]) DoRead(
	ctx context.Context,
	getState func(ctx context.Context, dst *TState) diag.Diagnostics,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	remove func(ctx context.Context),
	ensure EnsureFunc,
	isNotFound func(error) bool,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	// 1) Read current state (for ID)
	if d := getState(ctx, &st); d.HasError() {
		return d
	}
	id := r.hooks.ExtractID(&st)

	// 2) API read (404 removal)
	api, err := r.hooks.APIRead(ctx, id)
	if err != nil && isNotFound(err) {
		remove(ctx)
		return diags
	}
	if !ensure(ctx, "read resource", err, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		return diags
	}

	// 3) Post-read hook
	api, ok := r.runPostHook(ctx, "post-read hook", r.hooks.PostRead, api, &st, ensure)
	if !ok {
		return diags
	}

	// 4) Map and set state
	diags.Append(r.mapAndSetState(ctx, api, &st, setState)...)
	return diags
}

// DoUpdate applies changes to the remote API and updates state.
//
// Steps
// - getPlan → BuildPayload → APIUpdate → PostUpdate (optional)
// - MapToState → setState
func (r CRUDRunner[TState, TPayload, TAPI]) DoUpdate(
	ctx context.Context,
	getPlan func(ctx context.Context, dst *TState) diag.Diagnostics,
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	ensure EnsureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	// 1) Read planned state (for ID)
	if d := getPlan(ctx, &st); d.HasError() {
		return d
	}
	id := r.hooks.ExtractID(&st)

	// 2) Build payload
	payload, d2 := r.hooks.BuildPayload(ctx, &st)
	diags.Append(d2...)
	if diags.HasError() {
		return diags
	}

	// 3) API update
	api, err := r.hooks.APIUpdate(ctx, id, payload)
	if !ensure(ctx, "update resource", err, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		return diags
	}

	// 4) Post-update hook
	api, ok := r.runPostHook(ctx, "post-update hook", r.hooks.PostUpdate, api, &st, ensure)
	if !ok {
		return diags
	}

	// 5) Map and set state
	diags.Append(r.mapAndSetState(ctx, api, &st, setState)...)
	return diags
}

// DoDelete removes the resource remotely.
//
// Steps
//   - getState to obtain the ID
//   - APIDelete call
//   - ensure handles errors; if TreatDelete404AsSuccess is set on hooks,
//     a 404 is treated as success for idempotent destroys.
func (r CRUDRunner[TState, TPayload, TAPI]) DoDelete(
	ctx context.Context,
	getState func(ctx context.Context, dst *TState) diag.Diagnostics,
	ensure EnsureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState

	// 1) Read current state (for ID)
	if d := getState(ctx, &st); d.HasError() {
		return d
	}
	id := r.hooks.ExtractID(&st)

	// 2) API delete
	err := r.hooks.APIDelete(ctx, id)
	ensure(ctx, "delete resource", err, &EnsureSuccessOrDiagOptions{
		TreatDelete404AsSuccess: r.hooks.TreatDelete404AsSuccess,
		IncludeBodySnippet:      true,
	})
	return diags
}

// DoImport mirrors Read using an arbitrary import identifier.
//
// Steps
// - APIRead fetches the remote document using the import ID.
// - MapToState converts the API document into Terraform state.
// - setState persists the state.
//
// Guidance
// - Pass ensureWith(&response.Diagnostics) for ensure.
// - seed, when non-nil, pre-populates fields the API does not echo back.
func (r CRUDRunner[TState, TPayload, TAPI]) DoImport(
	ctx context.Context,
	id string,
	seed func(st *TState),
	setState func(ctx context.Context, src *TState) diag.Diagnostics,
	ensure EnsureFunc,
) diag.Diagnostics {
	var diags diag.Diagnostics
	var st TState
	if seed != nil {
		seed(&st)
	}

	api, err := r.hooks.APIRead(ctx, id)
	if !ensure(ctx, "read imported resource", err, &EnsureSuccessOrDiagOptions{IncludeBodySnippet: true}) {
		return diags
	}

	api, ok := r.runPostHook(ctx, "post-read on import hook", r.hooks.PostRead, api, &st, ensure)
	if !ok {
		return diags
	}

	diags.Append(r.hooks.MapToState(ctx, api, &st)...)
	if diags.HasError() {
		return diags
	}
	diags.Append(setState(ctx, &st)...)
	return diags
}
