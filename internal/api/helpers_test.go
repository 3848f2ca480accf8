package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSet_Decode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *[]int64
	}{
		{name: "omitted", body: `{}`, want: nil},
		{name: "null", body: `{"tags":null}`, want: &[]int64{}},
		{name: "empty", body: `{"tags":[]}`, want: &[]int64{}},
		{name: "values", body: `{"tags":[3,1]}`, want: &[]int64{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateKnowledgeRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Tags.replacement())
		})
	}
}

func TestIDSet_RejectsNonIntegers(t *testing.T) {
	var req UpdateKnowledgeRequest
	assert.Error(t, json.Unmarshal([]byte(`{"tags":["a"]}`), &req))
}
