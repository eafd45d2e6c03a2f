package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppSnapshot_MarshalJSON(t *testing.T) {
	snap := Classify("blackjack21", []RunRecord{{
		ID: 42, Status: RunCompleted, Conclusion: ConclusionSuccess, Title: "Build iOS release",
	}})

	b, err := json.Marshal(snap)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"ios":"success","aab":"pending","amazon":"pending","windows":"pending",
		"iosRun":42,"aabRun":null,"amazonRun":null,"windowsRun":null
	}`, string(b))
}

func TestStatusSet_KeepsRosterOrder(t *testing.T) {
	set := StatusSet{
		{App: "roulette", Snapshot: PendingSnapshot("roulette")},
		{App: "blackjack21", Snapshot: PendingSnapshot("blackjack21")},
	}

	b, err := json.Marshal(set)
	require.NoError(t, err)

	s := string(b)
	assert.Less(t, strings.Index(s, `"roulette"`), strings.Index(s, `"blackjack21"`))

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "pending", decoded["roulette"]["windows"])
}
