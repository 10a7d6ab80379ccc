package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebot/internal/maze"
	"github.com/vovakirdan/mazebot/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve [maze]",
	Short: "Start the mazebot SSH server",
	Long: `Start an SSH server that shows every connection a live trial.

Each session gets its own robot on the given maze (generated mazes get a new
layout per session). Finished trials are saved to the server's results
database. A session can pick the algorithm by passing it as the command.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.mazebot/host_key

Examples:
  mazebot serve                          # Listen on the configured host:port
  mazebot serve loops-16 --ssh :2222     # Serve loops-16 on port 2222

Users can connect with:
  ssh -t localhost -p 2222
  ssh -t localhost -p 2222 HEURISTIC_90`,
	Args: cobra.MaximumNArgs(1),
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config viewer.host/port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, args []string) {
	ref := mazeRef(args)
	// Fail now rather than on the first connection.
	if _, err := resolveMaze(ref, 1); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := flagSSHAddr
	if addr == "" {
		addr = net.JoinHostPort(cfg.Viewer.Host, strconv.Itoa(cfg.Viewer.Port))
	}

	srvCfg := tui.DefaultSSHServerConfig()
	srvCfg.Address = addr
	srvCfg.HostKeyPath = flagHostKey
	srvCfg.DBPath = cfg.Storage.DB
	srvCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	srvCfg.Algorithm = algorithm()
	srvCfg.Settings = settings()
	srvCfg.Speed = cfg.Viewer.Speed
	srvCfg.Mazes = func(seed int64) (*maze.Maze, error) {
		return resolveMaze(ref, seed)
	}

	server, err := tui.NewSSHServer(srvCfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting mazebot SSH server on %s (maze %s)\n", server.Addr(), ref)
	if _, port, splitErr := net.SplitHostPort(addr); splitErr == nil {
		fmt.Printf("Connect with: ssh -t localhost -p %s\n", port)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
