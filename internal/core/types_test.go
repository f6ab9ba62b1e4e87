package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheKeyOrderIndependent(t *testing.T) {
	first := CacheKey("/teams", Params{"league": 1, "season": 2023})
	second := CacheKey("/teams", Params{"season": 2023, "league": 1})
	require.Equal(t, first, second)
}

func TestCacheKeyExcludesNilParams(t *testing.T) {
	withNil := CacheKey("/players", Params{"team": 12, "search": nil})
	without := CacheKey("/players", Params{"team": 12})
	require.Equal(t, without, withNil)
}

func TestCacheKeyNoParams(t *testing.T) {
	require.Equal(t, "/seasons", CacheKey("/seasons", nil))
	require.Equal(t, "/seasons", CacheKey("/seasons", Params{}))
}

func TestParamsEncode(t *testing.T) {
	params := Params{"season": 2023, "league": 1, "search": nil}
	require.Equal(t, "league=1&season=2023", params.Encode())
}

func TestParamsKeys(t *testing.T) {
	params := Params{"b": 2, "a": 1, "c": nil}
	require.Equal(t, []string{"a", "b"}, params.Keys())
}

func TestEnvelopeOK(t *testing.T) {
	require.True(t, (&Envelope{StatusCode: 200}).OK())
	require.False(t, (&Envelope{StatusCode: 401, Error: "authentication failed"}).OK())

	var nilEnvelope *Envelope
	require.False(t, nilEnvelope.OK())
}
