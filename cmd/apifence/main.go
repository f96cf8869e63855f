package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/go-api-fence/internal/pkg/checker"
	"github.com/google/go-api-fence/internal/pkg/config"
	"github.com/google/go-api-fence/internal/pkg/facts"
	"github.com/google/go-api-fence/internal/pkg/history"
	"github.com/google/go-api-fence/internal/pkg/ir"
	"github.com/google/go-api-fence/internal/pkg/layout"
	"github.com/google/go-api-fence/internal/pkg/logging"
	"github.com/google/go-api-fence/internal/pkg/report"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "runs":
		runsCmd(os.Args[2:])
	case "version":
		fmt.Println("apifence", version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `apifence - deny-listed API checker

Usage:
  apifence check   --rules <rules.yaml> [--facts nodes.jsonl] [--layouts res/layout] [--db fence.db] [--out findings.json] [--format text|json] [--log text|json] [--log-level info]
  apifence diff    --db fence.db --base <run-id> --head <run-id>
  apifence runs    --db fence.db [--limit 20]
  apifence version
`)
}

// pathList collects a repeatable flag.
type pathList []string

func (l *pathList) String() string { return strings.Join(*l, ",") }

func (l *pathList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	rulesPath := fs.String("rules", "", "Path to the deny rules YAML file")
	var factPaths, layoutDirs pathList
	fs.Var(&factPaths, "facts", "JSON-lines facts file (repeatable)")
	fs.Var(&layoutDirs, "layouts", "Layout resource directory (repeatable)")
	dbPath := fs.String("db", "", "SQLite archive path (optional)")
	outPath := fs.String("out", "", "Write the full run as JSON to this file")
	format := fs.String("format", "text", "Findings output format: text or json")
	logFormat := fs.String("log", "text", "Log format: text or json")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn or error")
	_ = fs.Parse(args)

	logging.Init(*logFormat, *logLevel)

	if *rulesPath == "" {
		fmt.Fprintln(os.Stderr, "check: --rules is required")
		os.Exit(2)
	}
	if len(factPaths) == 0 && len(layoutDirs) == 0 {
		fmt.Fprintln(os.Stderr, "check: at least one of --facts or --layouts is required")
		os.Exit(2)
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintln(os.Stderr, "check: --format must be text or json")
		os.Exit(2)
	}

	conf, err := config.Load(*rulesPath)
	if err != nil {
		slog.Error("rule configuration rejected", "rules", *rulesPath, "err", err)
		os.Exit(2)
	}
	fence, err := checker.New(conf.Rules)
	if err != nil {
		slog.Error("rule configuration rejected", "rules", *rulesPath, "err", err)
		os.Exit(2)
	}

	var nodes []ir.Node
	for _, path := range factPaths {
		loaded, err := facts.ReadFile(path)
		if err != nil {
			slog.Error("facts rejected", "err", err)
			os.Exit(2)
		}
		nodes = append(nodes, loaded...)
	}
	for _, dir := range layoutDirs {
		scanned, err := layout.ScanDir(context.Background(), dir)
		if err != nil {
			slog.Error("layout scan failed", "dir", dir, "err", err)
			os.Exit(2)
		}
		nodes = append(nodes, scanned...)
	}

	run := report.NewRun(*rulesPath, append(factPaths, layoutDirs...))
	for _, n := range nodes {
		if conf.IsExcludedPath(n.Pos.File) {
			continue
		}
		run.Findings = append(run.Findings, fence.Check(n)...)
	}
	report.Sort(run.Findings)

	switch *format {
	case "text":
		if err := report.WriteText(os.Stdout, run.Findings); err != nil {
			slog.Error("writing findings failed", "err", err)
			os.Exit(2)
		}
	case "json":
		if err := report.WriteJSON(os.Stdout, run); err != nil {
			slog.Error("writing findings failed", "err", err)
			os.Exit(2)
		}
	}

	if *outPath != "" {
		if err := writeRunFile(*outPath, run); err != nil {
			slog.Error("writing run file failed", "out", *outPath, "err", err)
			os.Exit(2)
		}
	}

	if *dbPath != "" {
		if err := archiveRun(*dbPath, run); err != nil {
			slog.Error("archiving run failed", "db", *dbPath, "err", err)
			os.Exit(2)
		}
		slog.Info("run archived", "run", run.ID, "db", *dbPath)
	}

	slog.Info("check complete", "run", run.ID, "nodes", len(nodes), "findings", len(run.Findings))
	if len(run.Findings) > 0 {
		os.Exit(1)
	}
}

func writeRunFile(path string, run *report.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func archiveRun(path string, run *report.Run) error {
	db, err := history.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveRun(run)
}

func diffCmd(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite archive path")
	base := fs.String("base", "", "Base run ID")
	head := fs.String("head", "", "Head run ID")
	_ = fs.Parse(args)

	if *dbPath == "" || *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --db, --base and --head are required")
		os.Exit(2)
	}

	db, err := history.Open(*dbPath)
	if err != nil {
		slog.Error("archive open failed", "db", *dbPath, "err", err)
		os.Exit(2)
	}
	defer db.Close()

	baseRun, err := db.LoadRun(*base)
	if err != nil {
		slog.Error("loading base run failed", "err", err)
		os.Exit(2)
	}
	headRun, err := db.LoadRun(*head)
	if err != nil {
		slog.Error("loading head run failed", "err", err)
		os.Exit(2)
	}

	d := report.DiffRuns(baseRun, headRun)
	if err := report.WriteDiffText(os.Stdout, d); err != nil {
		slog.Error("writing diff failed", "err", err)
		os.Exit(2)
	}
	if len(d.New) > 0 {
		os.Exit(1)
	}
}

func runsCmd(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite archive path")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	_ = fs.Parse(args)

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "runs: --db is required")
		os.Exit(2)
	}

	db, err := history.Open(*dbPath)
	if err != nil {
		slog.Error("archive open failed", "db", *dbPath, "err", err)
		os.Exit(2)
	}
	defer db.Close()

	summaries, err := db.ListRuns(*limit)
	if err != nil {
		slog.Error("listing runs failed", "err", err)
		os.Exit(2)
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  findings=%d\n", s.ID, s.StartedAt.Format(time.RFC3339), s.Findings)
	}
}
