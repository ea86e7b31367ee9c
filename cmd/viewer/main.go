package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/process"

	"swarm-replica/conversation"
	"swarm-replica/domain"
	"swarm-replica/domain/search"
	"swarm-replica/internal"
	"swarm-replica/repositories"
	"swarm-replica/sink"
)

func main() {
	conversationID := flag.String("conversation", "", "Conversation to replay and print")
	query := flag.String("q", "", "Search query, e.g. 'invoice --author alice --limit 5'")
	inspect := flag.Bool("inspect", false, "Serve the badger inspector and block")
	flag.Parse()

	// 1. Load config
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Open Badger in Read-Only mode
	// Note: BypassLockGuard allows opening while the live client holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	switch {
	case *query != "":
		runSearch(config, *query)
	case *conversationID != "":
		repo := repositories.NewHistoryRepository(db, logger)
		printTimeline(repo, config, *conversationID)
	case !*inspect:
		flag.Usage()
		os.Exit(2)
	}

	if *inspect {
		port := config.DebugPort
		if port == 0 {
			port = 8099
		}
		internal.StartDebugServer(db, port, "/inspect", interactionMapper, processStats(db))
		color.Cyan.Printf("Inspector started at http://localhost:%d/inspect\n", port)
		select {}
	}
}

// printTimeline replays the persisted mirror through a fresh replica, so what
// is printed is the linearized DAG order, not the raw key order.
func printTimeline(repo repositories.HistoryRepository, config internal.Config, conversationID string) {
	records, err := repo.LoadConversation(conversationID)
	if err != nil {
		log.Fatalf("Failed to load conversation: %v", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)
	replica := conversation.New(logger, config.AccountID, conversationID,
		domain.PeerID(config.LocalPeer), domain.ModeSyncing, conversation.Options{
			OrphanCap: config.OrphanTableCap,
			BusBuffer: config.EventBufferSize,
		})
	for _, rec := range records {
		replica.Insert(sink.FromDiskInteraction(rec))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Parent", "Kind", "Author", "Time", "Body"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range replica.Snapshot() {
		body := m.CurrentBody()
		detail := ""
		switch b := body.(type) {
		case domain.TextBody:
			detail = b.Text
		case domain.TransferBody:
			detail = b.FileName
		case domain.MemberBody:
			detail = fmt.Sprintf("%s %s", b.Peer, b.Action)
		}
		table.Append([]string{
			short(string(m.ID)),
			short(string(m.ParentID)),
			body.Kind().String(),
			string(m.Author),
			time.UnixMilli(int64(m.Timestamp)).Format("2006-01-02 15:04:05"),
			detail,
		})
	}
	color.Green.Printf("Conversation %s (%d interactions)\n", conversationID, len(records))
	table.Render()
}

// runSearch queries the full-text index without touching the writer lock.
func runSearch(config internal.Config, raw string) {
	parsed := search.ParseQuery(raw)
	reader, err := bluge.OpenReader(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer reader.Close()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(parsed.Terms).SetField("body"))
	if parsed.Conversation != "" {
		q.AddMust(bluge.NewTermQuery(parsed.Conversation).SetField("conversation"))
	}
	if parsed.Author != "" {
		q.AddMust(bluge.NewTermQuery(parsed.Author).SetField("author"))
	}
	iterator, err := reader.Search(context.Background(),
		bluge.NewTopNSearch(parsed.Limit, q).WithStandardAggregations())
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	for {
		match, err := iterator.Next()
		if err != nil {
			log.Fatalf("Search iteration failed: %v", err)
		}
		if match == nil {
			break
		}
		var id, conv, author, body string
		_ = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				id = string(value)
			case "conversation":
				conv = string(value)
			case "author":
				author = string(value)
			case "body":
				body = string(value)
			}
			return true
		})
		color.Yellow.Printf("%s ", short(id))
		fmt.Printf("[%s] %s: %s\n", conv, author, body)
	}
	color.Green.Printf("%d match(es)\n", iterator.Aggregations().Count())
}

// processStats feeds the inspector footer with live process and store
// figures.
func processStats(db *badger.DB) internal.StatsProvider {
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return func() map[string]any {
		stats := map[string]any{
			"Mode": "Viewer (Read-Only)",
			"Time": time.Now().Format(time.RFC822),
		}
		lsm, vlog := db.Size()
		stats["BadgerLSM"] = fmt.Sprintf("%d KiB", lsm/1024)
		stats["BadgerVLog"] = fmt.Sprintf("%d KiB", vlog/1024)
		if proc != nil {
			if mem, err := proc.MemoryInfo(); err == nil {
				stats["RSS"] = fmt.Sprintf("%d MiB", mem.RSS/1024/1024)
			}
		}
		return stats
	}
}

// interactionMapper decodes the persisted JSON documents for the inspector.
func interactionMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	var rec repositories.DiskInteraction
	if err := json.Unmarshal(val, &rec); err != nil {
		return row
	}
	row.Kind = strings.ToUpper(rec.Kind)
	row.Conversation = rec.Conversation
	row.Author = rec.Author
	row.Detail = rec.Body
	return row
}

func short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + ".."
}
