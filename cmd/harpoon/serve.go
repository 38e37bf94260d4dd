package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chen4903/harpoon/internal/chainrpc"
	"github.com/chen4903/harpoon/internal/config"
	"github.com/chen4903/harpoon/internal/logging"
	"github.com/chen4903/harpoon/internal/proxydetect"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Args:  cobra.NoArgs,
	Short: "Run an HTTP server exposing GET /detect/:address",
	Long: `Serve exposes the detector over HTTP, the same shape as the
original get-abi service's GET /abi/:chainId/:address endpoint, but scoped
to proxy detection alone — ABI fetching stays a separate opt-in step via
"harpoon detect --fetch-abi".`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

type detectServer struct {
	rpc chainrpc.Reader
	log *logging.Logger
}

func (s *detectServer) handleDetect(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}

	result, err := proxydetect.Detect(c.Request.Context(), s.rpc, common.HexToAddress(address), chainrpc.Latest)
	if errors.Is(err, proxydetect.ErrNotDetected) {
		c.JSON(http.StatusOK, gin.H{"isProxy": false})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("address", address).Msg("detect failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "detection failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isProxy": true, "result": result})
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("serve: load config: %w", err)
	}

	log, err := logging.New(logging.Config{
		Level:    logging.Level(cfg.Log.Level),
		Format:   logging.Format(cfg.Log.Format),
		FilePath: cfg.Log.FilePath,
	})
	if err != nil {
		return fmt.Errorf("serve: init logger: %w", err)
	}

	rpc, err := chainrpc.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return fmt.Errorf("serve: dial rpc: %w", err)
	}
	defer rpc.Close()

	srv := &detectServer{rpc: rpc, log: log}

	router := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	router.Use(cors.New(corsCfg))
	router.GET("/detect/:address", srv.handleDetect)

	return router.Run(addr)
}
