package json

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cityArgs struct {
	City  string `json:"city"`
	State string `json:"state"`
}

func TestDecodeArguments(t *testing.T) {
	tests := map[string]struct {
		raw       string
		wantCity  string
		wantState string
		wantErr   bool
	}{
		"plain object": {
			raw:       `{"city":"Boise","state":"ID"}`,
			wantCity:  "Boise",
			wantState: "ID",
		},
		"empty arguments": {
			raw: ``,
		},
		"whitespace only": {
			raw: "  \n ",
		},
		"double encoded": {
			raw:       `"{\"city\":\"Boise\",\"state\":\"ID\"}"`,
			wantCity:  "Boise",
			wantState: "ID",
		},
		"wrapped in prose": {
			raw:       `Here are the arguments: {"city":"Boise","state":"ID"} as requested`,
			wantCity:  "Boise",
			wantState: "ID",
		},
		"unrecoverable": {
			raw:     `not json at all`,
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var args cityArgs
			err := DecodeArguments(json.RawMessage(tc.raw), &args)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCity, args.City)
			assert.Equal(t, tc.wantState, args.State)
		})
	}
}

func TestExtractObjectIgnoresBracesInStrings(t *testing.T) {
	obj, ok := ExtractObject(`prefix {"note":"has a } brace","n":1} suffix`)
	require.True(t, ok)
	assert.Equal(t, `{"note":"has a } brace","n":1}`, obj)
}

func TestExtractObjectNested(t *testing.T) {
	obj, ok := ExtractObject(`{"outer":{"inner":2}}`)
	require.True(t, ok)
	assert.Equal(t, `{"outer":{"inner":2}}`, obj)
}

func TestExtractObjectNone(t *testing.T) {
	_, ok := ExtractObject(`[1, 2, 3]`)
	assert.False(t, ok)
}
