package main

import (
	"fmt"

	"github.com/revelaction/terms/stat"
)

func printStats(ui UI, stats stat.Stats) {
	fmt.Fprintf(ui.Err, "Num docs %d, num sentences %d, num tokens per sentence %d\n", stats.NumDocs, stats.NumSentences, stats.TokensPerSentenceMean)
	fmt.Fprintf(ui.Err, "Num subjects %d, num key noun phrases %d\n", stats.NumSubjects, stats.NumRows)

	for _, lc := range stats.Labels() {
		fmt.Fprintf(ui.Err, "%8d 🏷  %s\n", lc.Count, lc.Label)
	}
}
