package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
	psqlRepo "github.com/IronRon/Adaptive-Landing-AI/internal/repository/postgres"
)

var (
	dumpVisitor  string
	dumpShowHTML bool
	dumpTruncate int
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print stored data for debugging",
}

var dumpVisitorsCmd = &cobra.Command{
	Use:   "visitors",
	Short: "Visitors with their sessions and recent interactions",
	RunE:  runDumpVisitors,
}

var dumpPagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Landing pages with their sections",
	RunE:  runDumpPages,
}

func init() {
	dumpVisitorsCmd.Flags().StringVar(&dumpVisitor, "visitor", "", "only this visitor cookie id")
	dumpPagesCmd.Flags().BoolVar(&dumpShowHTML, "show-html", false, "include section html")
	dumpPagesCmd.Flags().IntVar(&dumpTruncate, "truncate", 200, "truncate html/css to this many characters (0 = no limit)")

	dumpCmd.AddCommand(dumpVisitorsCmd, dumpPagesCmd)
	rootCmd.AddCommand(dumpCmd)
}

func runDumpVisitors(cmd *cobra.Command, args []string) error {
	var cookieID *uuid.UUID
	if dumpVisitor != "" {
		id, err := uuid.Parse(dumpVisitor)
		if err != nil {
			return fmt.Errorf("invalid --visitor: %w", err)
		}
		cookieID = &id
	}

	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	visitors, err := d.visitors.ListVisitors(context.Background(), limit, cookieID)
	if err != nil {
		return err
	}

	return printVisitors(cmd.OutOrStdout(), visitors, jsonOutput)
}

func runDumpPages(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	pages, err := d.landing.ListPages(context.Background(), limit)
	if err != nil {
		return err
	}

	return printPages(cmd.OutOrStdout(), pages, pageOptions{json: jsonOutput, showHTML: dumpShowHTML, truncate: dumpTruncate})
}

func printVisitors(w io.Writer, visitors []psqlRepo.VisitorDump, asJSON bool) error {
	if asJSON {
		return writeJSON(w, visitors)
	}

	if len(visitors) == 0 {
		fmt.Fprintln(w, "No visitors.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, v := range visitors {
		fmt.Fprintf(tw, "VISITOR %d\t%s\tfirst seen %s\n", v.ID, v.CookieID, v.CreatedAt.Format("2006-01-02 15:04"))
		for _, s := range v.Sessions {
			state := "ended"
			if s.IsActive {
				state = "active"
			}
			fmt.Fprintf(tw, "  session %s\t%s\t%d event(s)\t%s\n", s.SessionID, state, len(s.Interactions), s.StartedAt.Format("2006-01-02 15:04"))
			for _, it := range s.Interactions {
				el := "-"
				if it.Element != nil {
					el = *it.Element
				}
				fmt.Fprintf(tw, "    %s\t%s\t%s\n", it.EventType, el, it.Timestamp.Format("15:04:05"))
			}
		}
	}
	return tw.Flush()
}

type pageOptions struct {
	json     bool
	showHTML bool
	truncate int
}

func printPages(w io.Writer, pages []domain.LandingPage, opts pageOptions) error {
	trimmed := make([]domain.LandingPage, 0, len(pages))
	for _, p := range pages {
		p.GlobalCSS = truncate(p.GlobalCSS, opts.truncate)
		sections := make([]domain.LandingSection, 0, len(p.Sections))
		for _, s := range p.Sections {
			s.CSS = truncate(s.CSS, opts.truncate)
			if opts.showHTML {
				s.HTML = truncate(s.HTML, opts.truncate)
			} else {
				s.HTML = ""
			}
			sections = append(sections, s)
		}
		p.Sections = sections
		trimmed = append(trimmed, p)
	}

	if opts.json {
		return writeJSON(w, trimmed)
	}

	if len(trimmed) == 0 {
		fmt.Fprintln(w, "No landing pages.")
		return nil
	}

	for _, p := range trimmed {
		fmt.Fprintf(w, "PAGE %d %q (%d sections)\n", p.ID, p.Name, len(p.Sections))
		if p.GlobalCSS != "" {
			fmt.Fprintf(w, "  global css: %s\n", oneLine(p.GlobalCSS))
		}
		for _, s := range p.Sections {
			fmt.Fprintf(w, "  [%d] %s\n", s.Order, s.Key)
			if s.CSS != "" {
				fmt.Fprintf(w, "      css: %s\n", oneLine(s.CSS))
			}
			if s.HTML != "" {
				fmt.Fprintf(w, "      html: %s\n", oneLine(s.HTML))
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
