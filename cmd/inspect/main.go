package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/state"
	"huddle/pkg/store"
)

// inspect opens a snapshot database offline and prints what it holds.
// Useful for checking what a server would recover after a restart.
func main() {
	var p string
	flag.StringVar(&p, "db", "", "snapshot DB path to inspect")
	flag.Parse()
	if p == "" {
		fmt.Fprintln(os.Stderr, "--db required")
		os.Exit(2)
	}
	logger.Init("error", "text")

	st, err := store.Open(state.SnapshotDir(p))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open failed: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	keys, err := st.ListSnapshotKeys()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot keys: %d\n", len(keys))
	for _, k := range keys {
		fmt.Printf("  %s\n", k)
	}

	raw, err := st.LatestSnapshot()
	if err != nil {
		fmt.Println("no latest snapshot")
		return
	}
	var ws models.Workspace
	if err := json.Unmarshal(raw, &ws); err != nil {
		fmt.Fprintf(os.Stderr, "corrupt latest snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("latest snapshot: %s\n", humanize.Bytes(uint64(len(raw))))
	fmt.Printf("  users:         %d\n", len(ws.Users))
	fmt.Printf("  channels:      %d\n", len(ws.Channels))
	fmt.Printf("  dms:           %d\n", len(ws.DMs))
	fmt.Printf("  live messages: %d\n", ws.LiveMessages)
	fmt.Printf("  next msg id:   %d\n", ws.NextMessageID)
	fmt.Printf("  sessions:      %d\n", len(ws.Sessions))
}
