package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pevans/kboarchive/clip"
	"github.com/pevans/kboarchive/config"
	"github.com/pevans/kboarchive/discovery"
	"github.com/pevans/kboarchive/gamefeed"
	"github.com/pevans/kboarchive/history"
	"github.com/pevans/kboarchive/logger"
	"github.com/pevans/kboarchive/naming"
	"github.com/pevans/kboarchive/pipeline"
	"github.com/pevans/kboarchive/tools"
)

func handleCrawl(args []string) {
	cfg := loadConfig()

	// Parse flags for crawl command
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Enable debug logging (KBO_VERBOSE)")
	noHistory := fs.Bool("no-history", false, "Do not record this run in the history database")
	pf := newParamFlags(fs, &cfg.Crawl)
	fs.Parse(args)
	pf.apply()

	setupLogging(*verbose)
	log := logger.Get("kbo")

	runCfg, err := config.NewRunConfig(cfg.Crawl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// External tools are only needed when files will be produced
	if !runCfg.DryRun {
		for _, bin := range []string{cfg.Tools.Downloader, cfg.Tools.FFmpeg} {
			if err := tools.Lookup(bin); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
	}

	var feed *gamefeed.Feed
	if runCfg.ClipType == clip.CondensedGame {
		feed, err = gamefeed.Load(runCfg.FullGameFeedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Infof("Loaded %d full games from %s", feed.Len(), runCfg.FullGameFeedPath)
	}

	store := openRunHistory(cfg.History.Path, runCfg.DryRun || *noHistory, log)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	downloadLog := logger.Get("downloader")
	downloader := tools.NewYoutubeDL(cfg.Tools.Downloader, func(line string) {
		downloadLog.Debugf("%s", line)
	})
	ffmpeg := tools.NewFFmpeg(cfg.Tools.FFmpeg, naming.ThumbnailOffset, naming.ThumbnailWidth)

	fetcher := discovery.NewHTTPFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent)
	enricher := discovery.NewEnricher(fetcher, cfg.Selectors, feed)
	processor := pipeline.New(runCfg, downloader, ffmpeg, ffmpeg)
	crawler := discovery.NewCrawler(runCfg, fetcher, enricher, processor, cfg.Selectors)

	record := &history.Run{
		ClipType:  runCfg.ClipType.String(),
		TeamName:  runCfg.TeamName,
		StartDate: runCfg.StartDate,
		EndDate:   runCfg.EndDate,
		DryRun:    runCfg.DryRun,
	}
	if store != nil {
		if err := store.StartRun(record); err != nil {
			log.Warnf("Failed to record run: %v", err)
			store = nil
		}
	}

	log.Infof("Crawling %s clips from %s to %s (dry run: %t)",
		runCfg.ClipType, clip.NewDate(runCfg.StartDate), clip.NewDate(runCfg.EndDate), runCfg.DryRun)

	run, crawlErr := crawler.Crawl(ctx)

	record.PagesFetched = run.PagesFetched
	record.Discovered = run.Discovered
	record.Accepted = run.Accepted
	record.Rejected = run.Rejected
	record.Failed = run.Failed
	if store != nil {
		if err := store.FinishRun(record, crawlErr); err != nil {
			log.Warnf("Failed to record run: %v", err)
		}
	}

	printRunSummary(record, run)

	if crawlErr != nil {
		fmt.Fprintf(os.Stderr, "Error: crawl aborted: %v\n", crawlErr)
		os.Exit(1)
	}
}

// openRunHistory opens the history database, creating its directory. It
// returns nil without touching the filesystem when history is skipped, as
// for dry runs. A failure only disables history.
func openRunHistory(path string, skip bool, log *logger.Logger) *history.Store {
	if skip {
		log.Debugf("Run history not recorded")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warnf("Run history disabled: %v", err)
		return nil
	}
	store, err := history.NewStore(path)
	if err != nil {
		log.Warnf("Run history disabled: %v", err)
		return nil
	}
	return store
}

func handleHistory(args []string) {
	cfg := loadConfig()

	// Parse flags for history command
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Number of runs to show (0 for all)")
	fs.Parse(args)

	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.ListRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	printHistoryTable(runs)
}
