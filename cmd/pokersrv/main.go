package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/nlholdem/server/pkg/config"
	"github.com/nlholdem/server/pkg/httpapi"
	"github.com/nlholdem/server/pkg/logctx"
	"github.com/nlholdem/server/pkg/session"
	"github.com/nlholdem/server/pkg/transport/ws"
)

func main() {
	var (
		envPath    string
		host       string
		port       int
		portFile   string
		debugLevel string
	)
	flag.StringVar(&envPath, "envfile", ".env", "Path to a .env file to load (missing file is not an error)")
	flag.StringVar(&host, "host", "127.0.0.1", "Host to listen on (used only when -port is set)")
	flag.IntVar(&port, "port", 0, "Port to listen on with -host (0 uses the configured listen address, POKER_LISTEN_ADDR)")
	flag.StringVar(&portFile, "portfile", "", "If set, write the selected port to this file")
	flag.StringVar(&debugLevel, "debuglevel", "", "Logging level override: trace, debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if debugLevel != "" {
		cfg.DebugLevel = debugLevel
	}

	logBackend := logctx.New(os.Stderr, cfg.DebugLevel)
	log := logBackend.Logger("POKERSRV")

	registry := session.NewRegistry()
	router := mux.NewRouter()
	httpapi.NewServer(registry, cfg, logBackend.Logger("HTTP")).Register(router)
	ws.NewHandler(registry, logBackend.Logger("WS")).Register(router)

	addr := cfg.ListenAddr
	if port != 0 {
		addr = fmt.Sprintf("%s:%d", host, port)
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Errorf("failed to listen on %s: %v", addr, err)
		os.Exit(1)
	}

	if portFile != "" {
		_, p, _ := net.SplitHostPort(lis.Addr().String())
		_ = os.WriteFile(portFile, []byte(p), 0600)
	}

	log.Infof("listening on %s", lis.Addr())
	if err := http.Serve(lis, router); err != nil {
		log.Errorf("http serve error: %v", err)
		os.Exit(1)
	}
}
