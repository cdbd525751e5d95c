// mhashrepl is an interactive REPL for exercising an in-memory mhash
// table.
//
// Usage:
//
//	mhashrepl [--capacity N]
//
// Commands:
//
//	put <key> <value>   Insert a key/value pair (no-op if key exists)
//	get <key>            Retrieve a value by key
//	len                  Count live entries
//	stats                Show table layout diagnostics
//	bulk <count>         Insert N random entries
//	seq <count> [start]  Insert N sequential entries starting at start
//	rebuild              Replace the table with a fresh empty one at the current page count
//	help                 Show this help
//	exit / quit / q      Exit
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/pflag"

	"github.com/mhashlab/mhashmap/pkg/mhash"
)

func main() {
	capacity := pflag.Uint64("capacity", 2, "initial page capacity")
	pflag.Parse()

	tbl, err := mhash.New(mhash.Options{InitialCapacity: *capacity})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mhashrepl: %v\n", err)
		os.Exit(1)
	}

	r := &repl{table: tbl}
	if err := r.run(); err != nil {
		fmt.Fprintf(os.Stderr, "mhashrepl: %v\n", err)
		os.Exit(1)
	}
}

// repl is the interactive command loop, grounded on cmd/sloty's REPL
// shape but driven against an in-memory table instead of a file-backed
// cache.
type repl struct {
	table *mhash.Table
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".mhashrepl_history")
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("mhashrepl - in-memory cuckoo hash table")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("mhash> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "put":
			r.cmdPut(args)

		case "get":
			r.cmdGet(args)

		case "len":
			fmt.Println(r.table.Size())

		case "stats":
			fmt.Println(r.table.Stats())

		case "bulk":
			r.cmdBulk(args)

		case "seq":
			r.cmdSeq(args)

		case "rebuild":
			r.cmdRebuild()

		default:
			fmt.Printf("unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func (r *repl) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()

	r.liner.WriteHistory(f)
}

func (r *repl) completer(line string) []string {
	commands := []string{"put", "get", "len", "stats", "bulk", "seq", "rebuild", "help", "exit", "quit"}

	var matches []string

	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			matches = append(matches, c)
		}
	}

	return matches
}

func (r *repl) cmdPut(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: put <key> <value>")
		return
	}

	key, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid key: %v\n", err)
		return
	}

	value, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Printf("invalid value: %v\n", err)
		return
	}

	r.table.Insert(key, value)
	fmt.Println("ok")
}

func (r *repl) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")
		return
	}

	key, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid key: %v\n", err)
		return
	}

	it := r.table.Find(key)
	if it.Equal(r.table.End()) {
		fmt.Println("(not found)")
		return
	}

	fmt.Println(it.Value())
}

func (r *repl) cmdBulk(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: bulk <count>")
		return
	}

	count, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid count: %v\n", err)
		return
	}

	for i := 0; i < count; i++ {
		r.table.Insert(rand.Uint64(), rand.Uint64())
	}

	fmt.Printf("inserted %d random entries\n", count)
}

func (r *repl) cmdSeq(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Println("usage: seq <count> [start]")
		return
	}

	count, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid count: %v\n", err)
		return
	}

	start := uint64(0)

	if len(args) == 2 {
		start, err = strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fmt.Printf("invalid start: %v\n", err)
			return
		}
	}

	for i := uint64(0); i < count; i++ {
		key := start + i
		r.table.Insert(key, key)
	}

	fmt.Printf("inserted %d sequential entries starting at %d\n", count, start)
}

func (r *repl) cmdRebuild() {
	stats := r.table.Stats()

	tbl, err := mhash.New(mhash.Options{InitialCapacity: stats.Pages})
	if err != nil {
		fmt.Printf("rebuild failed: %v\n", err)
		return
	}

	// mhashrepl has no iteration surface to drain the old table (the
	// contract deliberately omits ordered iteration), so 'rebuild' here
	// demonstrates growth pressure rather than migrating live data.
	r.table = tbl

	fmt.Println("rebuilt (new empty table at the reported page count)")
}

func (r *repl) printHelp() {
	fmt.Print(`Commands:
  put <key> <value>   Insert a key/value pair (no-op if key exists)
  get <key>           Retrieve a value by key
  len                 Count live entries
  stats               Show table layout diagnostics
  bulk <count>        Insert N random entries
  seq <count> [start] Insert N sequential entries starting at start
  rebuild             Allocate a fresh empty table at the current page count
  help                Show this help
  exit / quit / q     Exit
`)
}
