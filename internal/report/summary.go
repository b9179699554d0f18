package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/abdulachik/litminer/internal/db"
	"github.com/abdulachik/litminer/internal/pipeline"
)

var (
	heading = color.New(color.Bold)
	good    = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	muted   = color.New(color.Faint)
)

func statusColor(status string) *color.Color {
	if status == string(pipeline.StatusEmpty) {
		return warn
	}
	return good
}

// RunSummary prints the outcome of a run and the files it wrote.
func RunSummary(w io.Writer, out pipeline.Outcome, paths []string) {
	heading.Fprintf(w, "Run %s\n", out.RunID)
	fmt.Fprintf(w, "  Status: ")
	statusColor(string(out.Status)).Fprintln(w, out.Status)
	fmt.Fprintf(w, "  Quotes: %d\n", out.Quotes)
	fmt.Fprintf(w, "  Characters: %d\n", out.Characters)
	fmt.Fprintf(w, "  Themes: %d\n", out.Themes)
	fmt.Fprintf(w, "  Relationships: %d\n", out.Relationships)
	if len(out.EmptyArtifacts) > 0 {
		warn.Fprintf(w, "  Empty: %s\n", strings.Join(out.EmptyArtifacts, ", "))
	}
	if out.SkippedRecords > 0 {
		warn.Fprintf(w, "  Skipped annotation records: %d\n", out.SkippedRecords)
	}
	muted.Fprintf(w, "  Source sha256: %s\n", out.SourceHash)

	if len(paths) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Artifacts")
		for _, p := range paths {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}

// Stats holds what the stats command reports about the latest run.
type Stats struct {
	DatabasePath string
	Runs         int64
	Recent       []db.Run
	Latest       db.Run
	ByMethod     []db.CountQuotesByMethodRow
	ByChapter    []db.CountQuotesByChapterRow
	IndexPath    string
	Indexed      int
}

// PrintStats prints store statistics.
func PrintStats(w io.Writer, s Stats) {
	heading.Fprintln(w, "=== LitMiner Statistics ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Database: %s\n", s.DatabasePath)
	fmt.Fprintf(w, "Runs: %d\n", s.Runs)
	fmt.Fprintln(w)

	if s.Latest.ID == "" {
		muted.Fprintln(w, "No runs stored yet.")
		return
	}

	if len(s.Recent) > 0 {
		heading.Fprintln(w, "Recent runs:")
		for _, r := range s.Recent {
			fmt.Fprintf(w, "  %s  %s  ", r.ID, r.FinishedAt)
			statusColor(r.Status).Fprintf(w, "%-9s", r.Status)
			fmt.Fprintf(w, "  quotes %d  characters %d\n", r.QuoteCount, r.CharacterCount)
		}
		fmt.Fprintln(w)
	}

	heading.Fprintln(w, "Run:")
	fmt.Fprintf(w, "  ID: %s\n", s.Latest.ID)
	fmt.Fprintf(w, "  Finished: %s\n", s.Latest.FinishedAt)
	fmt.Fprintf(w, "  Status: ")
	statusColor(s.Latest.Status).Fprintln(w, s.Latest.Status)
	fmt.Fprintf(w, "  Quotes: %d  Characters: %d  Themes: %d  Relationships: %d\n",
		s.Latest.QuoteCount, s.Latest.CharacterCount, s.Latest.ThemeCount, s.Latest.RelationshipCount)
	if s.Latest.SkippedRecords > 0 {
		warn.Fprintf(w, "  Skipped annotation records: %d\n", s.Latest.SkippedRecords)
	}
	fmt.Fprintln(w)

	if len(s.ByMethod) > 0 {
		fmt.Fprintln(w, "  By method:")
		for _, row := range s.ByMethod {
			fmt.Fprintf(w, "    %s: %d\n", row.ExtractionMethod, row.Count)
		}
	}
	if len(s.ByChapter) > 0 {
		fmt.Fprintln(w, "  By chapter:")
		for _, row := range s.ByChapter {
			fmt.Fprintf(w, "    %d: %d\n", row.Chapter, row.Count)
		}
	}

	if s.IndexPath != "" {
		fmt.Fprintln(w)
		heading.Fprintln(w, "VecLite:")
		fmt.Fprintf(w, "  Path: %s\n", s.IndexPath)
		fmt.Fprintf(w, "  Documents: %d\n", s.Indexed)
	}
}
