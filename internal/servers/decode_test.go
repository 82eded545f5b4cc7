package servers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mtlist/internal/servers"
)

func TestDecodeLenientFields(t *testing.T) {
	body := []byte(`{
    "list": [
        {
            "address": "203.0.113.5",
            "clients": "3",
            "clients_max": 16,
            "clients_top": 20,
            "clients_list": ["alice", 7, {"x": 1}, "bob"],
            "mods": "not a list",
            "name": "Test",
            "password": "true",
            "creative": 1,
            "pvp": false,
            "uptime": -5,
            "start": 0,
            "game_time": "3600",
            "ping": 0.0234,
            "proto_min": 37,
            "proto_max": "39"
        }
    ],
    "total": {"clients": 3, "servers": 1},
    "total_max": "broken"
}`)
	resp, errDecode := servers.Decode(body)
	require.NoError(t, errDecode)
	require.Len(t, resp.List, 1)
	require.Equal(t, 0, resp.Skipped)

	rec := resp.List[0]
	require.Equal(t, "203.0.113.5", rec.Address)
	require.Equal(t, servers.DefaultPort, rec.Port)
	require.Equal(t, servers.IntOf(3), rec.Clients)
	require.Equal(t, servers.IntOf(16), rec.ClientsMax)
	require.Equal(t, servers.StringOf("20"), rec.ClientsTop)
	require.Equal(t, []string{"alice", "7", "bob"}, rec.ClientsList)
	require.Nil(t, rec.Mods)
	require.True(t, rec.Password)
	require.True(t, rec.Creative)
	require.False(t, rec.PvP)
	require.False(t, rec.Uptime.Valid, "negative uptime is absent")
	require.False(t, rec.Start.Valid, "zero start is absent")
	require.Equal(t, servers.IntOf(3600), rec.GameTime)
	require.Equal(t, servers.FloatOf(0.0234), rec.Ping)
	require.Equal(t, servers.IntOf(37), rec.ProtoMin)
	require.Equal(t, servers.IntOf(39), rec.ProtoMax)

	require.NotNil(t, resp.Total)
	require.Equal(t, servers.IntOf(3), resp.Total.Clients)
	require.Nil(t, resp.TotalMax)
	require.Equal(t, body, resp.Raw())
}

func TestDecodeZeroClientsAndPingKept(t *testing.T) {
	resp, errDecode := servers.Decode([]byte(`{"list":[{"address":"a","clients":0,"clients_max":0,"ping":0}]}`))
	require.NoError(t, errDecode)
	require.Len(t, resp.List, 1)
	require.Equal(t, servers.IntOf(0), resp.List[0].Clients)
	require.Equal(t, servers.FloatOf(0), resp.List[0].Ping)
	require.False(t, resp.List[0].ClientsMax.Valid)
}

func TestDecodeSkipsMalformedRecords(t *testing.T) {
	resp, errDecode := servers.Decode([]byte(`{"list":[
		{"address":"one.example.org","port":30001},
		"garbage",
		{"name":"no address"},
		{"address":""},
		{"address":"two.example.org","port":99999},
		[1,2,3]
	]}`))
	require.NoError(t, errDecode)
	require.Equal(t, 4, resp.Skipped)
	require.Len(t, resp.List, 2)
	require.Equal(t, "one.example.org", resp.List[0].Address)
	require.Equal(t, 30001, resp.List[0].Port)
	require.Equal(t, "two.example.org", resp.List[1].Address)
	require.Equal(t, servers.DefaultPort, resp.List[1].Port)
}

func TestDecodeList(t *testing.T) {
	t.Run("missing list", func(t *testing.T) {
		resp, errDecode := servers.Decode([]byte(`{"total":{"clients":1}}`))
		require.NoError(t, errDecode)
		require.Nil(t, resp.List)
	})
	t.Run("null list", func(t *testing.T) {
		resp, errDecode := servers.Decode([]byte(`{"list":null}`))
		require.NoError(t, errDecode)
		require.Nil(t, resp.List)
	})
	t.Run("empty list", func(t *testing.T) {
		resp, errDecode := servers.Decode([]byte(`{"list":[]}`))
		require.NoError(t, errDecode)
		require.NotNil(t, resp.List)
		require.Empty(t, resp.List)
	})
	t.Run("not an object", func(t *testing.T) {
		for _, body := range []string{``, `[]`, `"x"`, `null`, `<html>`} {
			_, errDecode := servers.Decode([]byte(body))
			require.ErrorIs(t, errDecode, servers.ErrNotObject, body)
		}
	})
	t.Run("truncated", func(t *testing.T) {
		_, errDecode := servers.Decode([]byte(`{"list":[{"address":"a"}`))
		require.Error(t, errDecode)
	})
}

func TestDecodeKeepsOrder(t *testing.T) {
	resp, errDecode := servers.Decode([]byte(`{"list":[{"address":"c"},{"address":"a"},{"address":"b"},{"address":"a"}]}`))
	require.NoError(t, errDecode)
	var got []string
	for _, rec := range resp.List {
		got = append(got, rec.Address)
	}
	require.Equal(t, []string{"c", "a", "b", "a"}, got)
}
