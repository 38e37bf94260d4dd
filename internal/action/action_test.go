package action

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen4903/harpoon/internal/logging"
	"github.com/chen4903/harpoon/internal/proxydetect"
)

func TestPrinterSubmitLogsSingleTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harpoon.log")
	log, err := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, FilePath: path})
	require.NoError(t, err)

	p := NewPrinter(log)
	p.Submit(Detection{
		Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Result: proxydetect.Result{
			Kind:   proxydetect.KindEip1967Direct,
			Target: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		},
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "proxy detected")
	assert.Contains(t, string(data), "Eip1967Direct")
}

func TestPrinterSubmitLogsDiamondFacets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harpoon.log")
	log, err := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, FilePath: path})
	require.NoError(t, err)

	p := NewPrinter(log)
	facet := common.HexToAddress("0x3333333333333333333333333333333333333333")
	p.Submit(Detection{
		Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Result: proxydetect.Result{
			Kind:    proxydetect.KindEip2535Diamond,
			Diamond: true,
			Targets: []common.Address{facet},
		},
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "facets")
}
