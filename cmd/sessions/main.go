package main

import (
	"flag"
	"fmt"
	"os"

	"trade-journal/internal/session"
)

// Classifies timestamps into forex market sessions. Accepts any number of
// timestamp arguments ("2024-03-15 14:30:00", "14:30", dotted dates work
// too); with none, prints the full session table.
func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printTable()
		return
	}

	for _, raw := range args {
		fmt.Printf("%s\t%s\n", raw, session.FromTimestamp(raw))
	}
	os.Exit(0)
}

func printTable() {
	fmt.Println("Session windows (minutes since midnight, report timezone):")
	for m := 0; m < 24*60; m += 30 {
		fmt.Printf("  %02d:%02d  %s\n", m/60, m%60, session.ClassifyMinute(m))
	}
}
