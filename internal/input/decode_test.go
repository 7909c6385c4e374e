package input

import (
	"testing"

	"activity-charts/internal/activity"
	apperr "activity-charts/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_FlatKeepsKeyOrder(t *testing.T) {
	doc, err := Decode([]byte(`{"Zeta": 1, "Alpha": 2.5, "Mid": 0}`))
	require.NoError(t, err)

	assert.Equal(t, KindFlat, doc.Kind)
	assert.Equal(t, []Entry{{"Zeta", 1}, {"Alpha", 2.5}, {"Mid", 0}}, doc.Entries)
	require.Len(t, doc.Records, 3)
	assert.Equal(t, activity.NodeID("Alpha"), doc.Records[1].ID)
	assert.Equal(t, "Alpha", doc.Records[1].Name)
	assert.Nil(t, doc.Records[1].ParentID)
	require.NotNil(t, doc.Records[1].Duration)
	assert.Equal(t, 2.5, *doc.Records[1].Duration)
}

func TestDecode_Tree(t *testing.T) {
	doc, err := Decode([]byte(`{"nodes": [
		{"id": 1, "parent_id": null, "name": "Work", "duration": null},
		{"id": 2, "parent_id": 1, "name": "Dev", "duration": 90},
		{"id": "x", "name": "Sleep", "duration": 480.5}
	]}`))
	require.NoError(t, err)

	assert.Equal(t, KindTree, doc.Kind)
	require.Len(t, doc.Records, 3)

	assert.Equal(t, activity.NodeID("1"), doc.Records[0].ID)
	assert.Nil(t, doc.Records[0].ParentID)
	assert.Nil(t, doc.Records[0].Duration)

	require.NotNil(t, doc.Records[1].ParentID)
	assert.Equal(t, activity.NodeID("1"), *doc.Records[1].ParentID)
	assert.Equal(t, 90.0, *doc.Records[1].Duration)

	assert.Equal(t, activity.NodeID("x"), doc.Records[2].ID)
	assert.Nil(t, doc.Records[2].ParentID)
}

func TestDecode_IntegerAndStringIDsCoincide(t *testing.T) {
	doc, err := Decode([]byte(`{"nodes": [
		{"id": "7", "name": "Root"},
		{"id": 8, "parent_id": 7.0, "name": "Leaf", "duration": 1}
	]}`))
	require.NoError(t, err)
	require.NotNil(t, doc.Records[1].ParentID)
	assert.Equal(t, doc.Records[0].ID, *doc.Records[1].ParentID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		code  apperr.Code
	}{
		{"not json", `{"a": 1`, KindAuto, apperr.CodeMalformedInput},
		{"trailing garbage", `{"a": 1} x`, KindAuto, apperr.CodeMalformedInput},
		{"top level array", `[1, 2]`, KindAuto, apperr.CodeMalformedInput},
		{"flat string value", `{"a": "ten"}`, KindAuto, apperr.CodeMalformedInput},
		{"flat negative value", `{"a": 10, "b": -1}`, KindAuto, apperr.CodeInvalidData},
		{"nodes not array", `{"nodes": {"id": 1}}`, KindAuto, apperr.CodeMalformedInput},
		{"node missing name", `{"nodes": [{"id": 1, "duration": 1}]}`, KindAuto, apperr.CodeMalformedInput},
		{"node name wrong type", `{"nodes": [{"id": 1, "name": 5}]}`, KindAuto, apperr.CodeMalformedInput},
		{"fractional id", `{"nodes": [{"id": 1.5, "name": "a"}]}`, KindAuto, apperr.CodeMalformedInput},
		{"duration wrong type", `{"nodes": [{"id": 1, "name": "a", "duration": "5m"}]}`, KindAuto, apperr.CodeMalformedInput},
		{"forced tree without nodes", `{"a": 1}`, KindTree, apperr.CodeMalformedInput},
		{"forced flat on tree", `{"nodes": []}`, KindFlat, apperr.CodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeAs([]byte(tt.input), tt.kind)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, tt.code, apperr.GetCode(err), err.Error())
		})
	}
}

func TestDecode_NegativeTreeDurationPassesShapeCheck(t *testing.T) {
	doc, err := Decode([]byte(`{"nodes": [{"id": 1, "name": "a", "duration": -3}]}`))
	require.NoError(t, err)
	assert.Equal(t, -3.0, *doc.Records[0].Duration)
}

func TestDecode_EmptyFlatObject(t *testing.T) {
	doc, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, KindFlat, doc.Kind)
	assert.Empty(t, doc.Records)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    activity.NodeID
		wantErr bool
	}{
		{`"abc"`, "abc", false},
		{`42`, "42", false},
		{`-3`, "-3", false},
		{`1e2`, "100", false},
		{`2.0`, "2", false},
		{`2.5`, "", true},
		{`""`, "", true},
		{`true`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseID([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
