package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

// printTable writes rows through a tabwriter, trimming trailing padding.
func printTable(w io.Writer, header []string, rows [][]string) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(header, "\t"))
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func trailRow(t types.Trail, favorite bool) []string {
	mark := ""
	if favorite {
		mark = "*"
	}
	return []string{
		fmt.Sprint(t.ID),
		mark,
		truncate(t.Name, 24),
		string(t.Difficulty),
		t.Region,
		fmt.Sprintf("%.1f", t.Length),
		fmt.Sprintf("%.1f", t.Rating),
	}
}

var trailHeader = []string{"ID", "FAV", "NAME", "DIFFICULTY", "REGION", "KM", "RATING"}

// printView prints one page of a listing.
func printView(w io.Writer, v browse.View) {
	if v.Status == browse.StatusEmpty {
		fmt.Fprintln(w, "No trails match the current filters.")
		return
	}
	rows := make([][]string, len(v.Items))
	for i, it := range v.Items {
		rows[i] = trailRow(it.Trail, it.Favorite)
	}
	printTable(w, trailHeader, rows)
	fmt.Fprintf(w, "Page %d of %d, %d trail(s)\n", v.Page, v.TotalPages, v.Total)
}

// printTrails prints trails without paging information.
func printTrails(w io.Writer, trails []types.Trail, favs browse.FavoriteSet) {
	if len(trails) == 0 {
		fmt.Fprintln(w, "No trails found.")
		return
	}
	rows := make([][]string, len(trails))
	for i, t := range trails {
		rows[i] = trailRow(t, favs != nil && favs.Has(t.ID))
	}
	printTable(w, trailHeader, rows)
	fmt.Fprintf(w, "Total: %d trail(s)\n", len(trails))
}
