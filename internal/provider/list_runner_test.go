// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type item = gjson.Result

type out = folderListItemModel

func folderItems(n int) []item {
	var b strings.Builder
	b.WriteString(`{"folders":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":%d,"name":"f%d","type":"custom","custom":1}`, i, i)
	}
	b.WriteString("]}")
	return gjsonItems(json.RawMessage(b.String()), "folders")
}

func folderListHooks(items []item) ListHooks[item, out] {
	return ListHooks[item, out]{
		List:      func(context.Context) ([]item, diag.Diagnostics) { return items, nil },
		KeyOf:     func(i item) string { return i.Get("id").String() },
		MapToOut:  mapFolderListItem,
		AttrTypes: folderListItemModel{}.AttributeTypes,
	}
}

func TestListRunner_ListWithoutFilter(t *testing.T) {
	m, diags := DoListToMap(context.Background(), folderListHooks(folderItems(2)))
	require.False(t, diags.HasError(), "%v", diags)
	require.Len(t, m, 2)
	assert.Equal(t, "f0", m["0"].Name.ValueString())
	assert.True(t, m["1"].Custom.ValueBool())
}

func TestListRunner_ListWithFilter(t *testing.T) {
	h := folderListHooks(folderItems(4))
	h.Filter = func(_ context.Context, i item) bool { return i.Get("id").Int()%2 == 0 }
	m, diags := DoListToMap(context.Background(), h)
	require.False(t, diags.HasError())
	assert.Len(t, m, 2)
	assert.Contains(t, m, "0")
	assert.Contains(t, m, "2")
}

func TestListRunner_ListDiagnostics_Error(t *testing.T) {
	h := folderListHooks(nil)
	h.List = func(context.Context) ([]item, diag.Diagnostics) {
		var d diag.Diagnostics
		d.AddError("list failed", "boom")
		return nil, d
	}
	m, diags := DoListToMap(context.Background(), h)
	assert.True(t, diags.HasError())
	assert.Nil(t, m)
}

func TestListRunner_MapToOutError_Stops_NoPartial(t *testing.T) {
	calls := 0
	h := folderListHooks(folderItems(5))
	h.MapToOut = func(ctx context.Context, i item) (out, diag.Diagnostics) {
		calls++
		if calls == 3 {
			var d diag.Diagnostics
			d.AddError("map error", "failed mapping")
			return out{}, d
		}
		return mapFolderListItem(ctx, i)
	}
	m, diags := DoListToMap(context.Background(), h)
	assert.True(t, diags.HasError())
	assert.Nil(t, m)
	assert.Equal(t, 3, calls)
}

func TestListRunner_DuplicateKeys_LastWriteWins(t *testing.T) {
	items := gjsonItems(json.RawMessage(`{"folders":[{"id":1,"name":"first"},{"id":1,"name":"second"}]}`), "folders")
	m, diags := DoListToMap(context.Background(), folderListHooks(items))
	require.False(t, diags.HasError())
	require.Len(t, m, 1)
	assert.Equal(t, "second", m["1"].Name.ValueString())
}

func TestListRunner_EmptyList_ReturnsEmptyMap(t *testing.T) {
	m, diags := DoListToMap(context.Background(), folderListHooks(nil))
	require.False(t, diags.HasError())
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestDoListToMapWithLimit_MaxItemsCap(t *testing.T) {
	m, diags := DoListToMapWithLimit(context.Background(), folderListHooks(folderItems(50)), ListOptions{MaxItems: 10})
	require.False(t, diags.HasError())
	assert.Len(t, m, 10)
	require.Len(t, diags, 1)
	assert.Equal(t, "result capped", diags[0].Summary())
}

func TestDoListToMapWithLimit_WarnThresholdOnly(t *testing.T) {
	m, diags := DoListToMapWithLimit(context.Background(), folderListHooks(folderItems(20)), ListOptions{WarnThreshold: 5})
	require.False(t, diags.HasError())
	assert.Len(t, m, 20)
	require.Len(t, diags, 1, "threshold warning is added once")
	assert.Equal(t, "large result set", diags[0].Summary())
}

func TestDoListToMapWithLimit_RespectContext_CancelEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 2500
	m, diags := DoListToMapWithLimit(ctx, folderListHooks(folderItems(n)), ListOptions{RespectContext: true})
	require.False(t, diags.HasError())
	require.NotEmpty(t, diags)
	assert.Equal(t, "listing canceled", diags[0].Summary())
	assert.Less(t, len(m), n)
	assert.NotEmpty(t, m)
}

func TestMapValueFromHooks_EncodesObjects(t *testing.T) {
	v, diags := mapValueFromHooks(context.Background(), "folders", folderListHooks(folderItems(3)), ListOptions{})
	require.False(t, diags.HasError(), "%v", diags)
	assert.Len(t, v.Elements(), 3)
	_, ok := v.Elements()[strconv.Itoa(2)]
	assert.True(t, ok)
}

func TestListFromDocument_RecordsRawAndErrors(t *testing.T) {
	var raw json.RawMessage
	list := listFromDocument("list folders", func(context.Context) (json.RawMessage, error) {
		return json.RawMessage(`{"folders":[{"id":1},{"id":2}]}`), nil
	}, "folders", &raw)
	items, diags := list(context.Background())
	require.False(t, diags.HasError())
	assert.Len(t, items, 2)
	assert.JSONEq(t, `{"folders":[{"id":1},{"id":2}]}`, string(raw))

	list = listFromDocument("list folders", func(context.Context) (json.RawMessage, error) {
		return nil, statusErr(403)
	}, "folders", nil)
	_, diags = list(context.Background())
	require.True(t, diags.HasError())
	assert.Contains(t, diags[0].Summary(), "list folders failed")
}
