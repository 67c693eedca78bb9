package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/width"

	"github.com/klabast/wb-services/shop-directory/internal/app"
	"github.com/klabast/wb-services/shop-directory/internal/shops"
)

const defaultTermWidth = 100

// InspectCmd returns the inspect command
func InspectCmd() *cobra.Command {
	var (
		src  sourceFlags
		rows int
		no   string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how the sheet is parsed",
		Long: `Fetch the sheet once (no cache) and print the detected header row, record
counts and a preview of the listed shops with their current open state.
Use --no to print every field of a single shop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			src.apply(cmd.Flags(), &cfg)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			source, err := cfg.NewSource(nil)
			if err != nil {
				return err
			}

			grid, err := source.FetchRows(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch sheet: %w", err)
			}
			parsed, err := shops.Parse(grid)
			if err != nil {
				return err
			}

			clock := shops.SystemClock{Location: loc}
			out := cmd.OutOrStdout()
			if no != "" {
				return printShop(out, parsed, no, clock.Now())
			}
			printSummary(out, len(grid), parsed, clock.Now(), rows, terminalWidth())
			return nil
		},
	}

	src.register(cmd.Flags())
	cmd.Flags().IntVarP(&rows, "rows", "n", 20, "Number of listed shops to preview")
	cmd.Flags().StringVar(&no, "no", "", "Print all fields of the shop with this No.")

	return cmd
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTermWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

// displayWidth counts East Asian wide and fullwidth runes as two columns
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// fit truncates or pads s to exactly cols display columns
func fit(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := displayWidth(string(r))
		if used+w > cols {
			break
		}
		b.WriteRune(r)
		used += w
	}
	if used < cols {
		b.WriteString(strings.Repeat(" ", cols-used))
	}
	return b.String()
}

func printSummary(out io.Writer, rawRows int, parsed shops.Parsed, now time.Time, limit, termWidth int) {
	bold := color.New(color.Bold)
	population := shops.Population(parsed.Items)
	open := shops.OpenNos(population, now)

	fmt.Fprintf(out, "%s %s\n", bold.Sprint("Now:"), shops.FormatNow(now))
	fmt.Fprintf(out, "%s %d (row index %d)\n", bold.Sprint("Header row:"), parsed.HeaderRowIndex+1, parsed.HeaderRowIndex)
	fmt.Fprintf(out, "%s %d raw, %d parsed, %d listed, %s\n",
		bold.Sprint("Rows:"), rawRows, len(parsed.Items), len(population),
		color.New(color.FgGreen).Sprintf("%d open", len(open)))

	fmt.Fprintln(out, bold.Sprint("Headers:"))
	for i, h := range parsed.Headers {
		fmt.Fprintf(out, "  %2d  %s\n", i+1, h)
	}

	if limit <= 0 || len(population) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, bold.Sprint("Listed shops:"))

	// fixed columns: state(4) no(6) hours(13) dc(10), the name takes the rest
	nameCols := termWidth - 4 - 6 - 13 - 10 - 4
	if nameCols < 10 {
		nameCols = 10
	}

	for i, r := range population {
		if i >= limit {
			fmt.Fprintf(out, "  ... %d more\n", len(population)-limit)
			break
		}
		state := color.New(color.FgHiBlack).Sprint("  - ")
		if shops.IsOpenAt(r, now) {
			state = color.New(color.FgGreen).Sprint("OPEN")
		}
		hours := r.Start() + "-" + r.End()
		fmt.Fprintf(out, "%s %s %s %s %s\n", state, fit(r.No(), 6), fit(hours, 13), fit(r.DC(), 10), fit(r.Name(), nameCols))
	}
}

func printShop(out io.Writer, parsed shops.Parsed, no string, now time.Time) error {
	rec, ok := shops.FindByNo(parsed.Items, no)
	if !ok {
		return fmt.Errorf("no shop with No. %q", no)
	}

	bold := color.New(color.Bold)
	fmt.Fprintf(out, "%s %s\n", bold.Sprint(rec.Name()), rec.No())
	if shops.IsOpenAt(rec, now) {
		fmt.Fprintf(out, "  %s %s\n", color.New(color.FgGreen).Sprint("営業中"), shops.FormatNow(now))
	} else {
		fmt.Fprintf(out, "  %s %s\n", color.New(color.FgYellow).Sprint("営業時間外"), shops.FormatNow(now))
	}

	labelCols := 0
	for _, h := range parsed.Headers {
		if w := displayWidth(h); w > labelCols {
			labelCols = w
		}
	}
	for _, h := range parsed.Headers {
		fmt.Fprintf(out, "  %s  %s\n", fit(h, labelCols), rec[h])
	}
	return nil
}
