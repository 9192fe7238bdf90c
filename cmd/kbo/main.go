package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]

	switch subcommand {
	case "crawl":
		handleCrawl(os.Args[2:])
	case "history":
		handleHistory(os.Args[2:])
	case "teams":
		printTeamsTable()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("kbo - KBO League clip archiver")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  kbo <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  crawl      Discover, validate and archive clips")
	fmt.Println("  history    List previous crawl runs")
	fmt.Println("  teams      List known teams and their channels")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Configuration is read from ~/.kbo/config.yaml, then KBO_* environment")
	fmt.Println("variables, then command flags. Run 'kbo crawl -h' for crawl flags.")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  KBO_CONFIG        Path to the config file (default: ~/.kbo/config.yaml)")
	fmt.Println("  KBO_HISTORY_PATH  Path to the run history database (default: ~/.kbo/history.db)")
	fmt.Println("  KBO_VERBOSE       Set to 1 or true for debug logging")
}
