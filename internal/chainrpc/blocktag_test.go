package chainrpc

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestLatestIsLatest(t *testing.T) {
	assert.True(t, Latest.IsLatest())
	assert.Equal(t, "latest", Latest.String())
}

func TestBlockNumberTag(t *testing.T) {
	tag := BlockNumber(big.NewInt(123))
	assert.False(t, tag.IsLatest())
	assert.Equal(t, big.NewInt(123), tag.Number())
	assert.Equal(t, "123", tag.String())

	_, ok := tag.Hash()
	assert.False(t, ok)
}

func TestBlockHashTag(t *testing.T) {
	h := common.HexToHash("0xabc123")
	tag := BlockHash(h)
	assert.False(t, tag.IsLatest())
	assert.Nil(t, tag.Number())

	got, ok := tag.Hash()
	assert.True(t, ok)
	assert.Equal(t, h, got)
	assert.Equal(t, h.Hex(), tag.String())
}
