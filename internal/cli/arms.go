package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

var seedPageID uint

var armsCmd = &cobra.Command{
	Use:   "arms",
	Short: "Inspect and maintain bandit arms",
}

var armsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List arms with their pulls, rewards and current scores",
	RunE:  runArmsList,
}

var armsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create missing arms for every section of a landing page",
	RunE:  runArmsSeed,
}

var armsRewardCmd = &cobra.Command{
	Use:   "reward section=value [section=value...]",
	Short: "Credit one pull and a reward to each section",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArmsReward,
}

func init() {
	armsSeedCmd.Flags().UintVar(&seedPageID, "page", 0, "landing page id (0 = first page)")

	armsCmd.AddCommand(armsListCmd, armsSeedCmd, armsRewardCmd)
	rootCmd.AddCommand(armsCmd)
}

func runArmsList(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	arms, err := d.arms.ListScored(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list arms: %w", err)
	}

	return printArms(cmd.OutOrStdout(), arms, jsonOutput)
}

func runArmsSeed(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	page, err := d.landing.GetPage(ctx, seedPageID)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	n, err := d.arms.SeedArms(ctx, domain.DefaultLayout(page.Sections))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d new arm(s) for page %q.\n", n, page.Name)
	return nil
}

func runArmsReward(cmd *cobra.Command, args []string) error {
	rewards, err := parseRewardArgs(args)
	if err != nil {
		return err
	}

	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.arms.RecordOutcome(context.Background(), rewards); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded outcome for %d section(s).\n", len(rewards))
	return nil
}

// parseRewardArgs reads "section=value" pairs. Repeating a section is an error.
func parseRewardArgs(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, arg := range args {
		section, raw, ok := strings.Cut(arg, "=")
		section = strings.TrimSpace(section)
		if !ok || section == "" {
			return nil, fmt.Errorf("expected section=value, got %q", arg)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid reward for %s: %w", section, err)
		}
		if _, dup := out[section]; dup {
			return nil, fmt.Errorf("section %s given twice", section)
		}
		out[section] = v
	}
	return out, nil
}

func printArms(w io.Writer, arms []domain.ArmScore, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(arms)
	}

	if len(arms) == 0 {
		fmt.Fprintln(w, "No arms yet. Run 'landingctl arms seed' first.")
		return nil
	}

	sorted := make([]domain.ArmScore, len(arms))
	copy(sorted, arms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tPULLS\tREWARD\tMEAN\tSCORE")
	for _, a := range sorted {
		mean := 0.0
		if a.Pulls > 0 {
			mean = a.Reward / float64(a.Pulls)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.4f\n", a.Section, a.Pulls, a.Reward, mean, a.Score)
	}
	return tw.Flush()
}
