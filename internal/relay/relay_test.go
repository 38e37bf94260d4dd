package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRawTransactionStripsPrefixAndReturnsHash(t *testing.T) {
	var got jsonRPCRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":"0xabc123"}`))
	}))
	defer server.Close()

	c := NewWithEndpoint(server.URL, "Bearer secret")
	hash, err := c.SendRawTransaction(context.Background(), "0xdeadbeef", []Builder{BuilderBloxroute})
	require.NoError(t, err)

	assert.Equal(t, "0xabc123", hash)
	assert.Equal(t, "deadbeef", got.Params.Transaction)
	assert.Equal(t, []Builder{BuilderBloxroute}, got.Params.MevBuilders)
}

func TestSendRawTransactionReturnsRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"code":-32000,"message":"nonce too low"}}`))
	}))
	defer server.Close()

	c := NewWithEndpoint(server.URL, "Bearer secret")
	_, err := c.SendRawTransaction(context.Background(), "deadbeef", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce too low")
}
