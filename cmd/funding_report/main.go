package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"community_pledge_system/configs"
	"community_pledge_system/internal/di"
	"community_pledge_system/internal/store"
	"community_pledge_system/internal/store/models"
	"community_pledge_system/internal/store/repositories"
)

// Timestamps before 2000 mark records imported with broken clocks; they are
// excluded from any window.
const minSaneTimestamp = 946684800

type donorEntry struct {
	MemberID string
	Amount   int
}

type creatorEntry struct {
	MemberID      string
	Projects      int
	Raised        int
	PledgedShares []float64
}

func (e creatorEntry) AverageShare() float64 {
	if len(e.PledgedShares) == 0 {
		return 0
	}
	sum := 0.0
	for _, share := range e.PledgedShares {
		sum += share
	}
	return sum / float64(len(e.PledgedShares))
}

type report struct {
	TotalRaised   int
	TotalProjects int
	Donors        []donorEntry
	Creators      []creatorEntry
	Table         [][]string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		from    string
		to      string
		csvPath string
	)

	cmd := &cobra.Command{
		Use:   "funding_report",
		Short: "Summarize fundraising activity over a time window",
		Long: `Funding report aggregates the project document into overall totals, a
donor leaderboard, a creator leaderboard with self-pledged percentages and a
per-project CSV table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(from, to, csvPath)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start of the window (YYYY-MM-DD, default: all time)")
	cmd.Flags().StringVar(&to, "to", "", "end of the window (YYYY-MM-DD, default: all time)")
	cmd.Flags().StringVar(&csvPath, "csv", "report.csv", "path for the per-project CSV table")

	return cmd
}

func run(from, to, csvPath string) error {
	config, err := configs.LoadFundingReportConfig()
	logger := di.NewLogger(config.Logger)

	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	window, err := parseWindow(from, to)
	if err != nil {
		return err
	}

	projectStore, err := store.OpenProjectStore(config.Store.ProjectsPath, config.Store.Bootstrap, logger)
	if err != nil {
		return err
	}
	memberStore, err := store.OpenMemberStore(config.Store.MembersPath, logger)
	if err != nil {
		return err
	}

	projects, err := repositories.NewProjectRepository(projectStore).GetMany()
	if err != nil {
		return err
	}
	members, err := repositories.NewMemberRepository(memberStore).GetMany()
	if err != nil {
		return err
	}

	names := make(map[string]string, len(members))
	for _, member := range members {
		names[member.ID] = member.DisplayName
	}

	result := aggregate(projects, window)
	printReport(result, names)

	if err := writeCSV(csvPath, result.Table); err != nil {
		return err
	}

	fmt.Printf("Report for individual projects written to %s\n", csvPath)
	return nil
}

type window struct {
	From int64
	To   int64
}

func (w window) contains(ts int64) bool {
	return ts >= w.From && ts <= w.To
}

func parseWindow(from, to string) (window, error) {
	w := window{From: minSaneTimestamp, To: time.Now().Unix()}

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return window{}, fmt.Errorf("invalid --from date: %w", err)
		}
		w.From = t.Unix()
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return window{}, fmt.Errorf("invalid --to date: %w", err)
		}
		w.To = t.AddDate(0, 0, 1).Unix() - 1
	}

	return w, nil
}

// latestMilestone is the most recent lifecycle stamp a project carries, the
// time the report attributes the project to.
func latestMilestone(p *models.Project) int64 {
	latest := p.CreatedAt
	if p.ApprovedAt != 0 {
		latest = p.ApprovedAt
	}
	if p.FundedAt != 0 {
		latest = p.FundedAt
	}
	return latest
}

func aggregate(projects []*models.Project, w window) report {
	result := report{
		Table: [][]string{{"Title", "Total", "Description", "# Donors"}},
	}

	donorTotals := make(map[string]int)
	creatorTotals := make(map[string]*creatorEntry)

	for _, project := range projects {
		latest := latestMilestone(project)
		if latest < minSaneTimestamp || !w.contains(latest) {
			continue
		}

		result.TotalProjects++
		result.TotalRaised += project.Total
		result.Table = append(result.Table, []string{
			project.Title,
			strconv.Itoa(project.Total),
			project.Description,
			strconv.Itoa(project.Backers()),
		})

		for donor, amount := range project.Pledges {
			donorTotals[donor] += amount
		}

		creator, ok := creatorTotals[project.CreatedBy]
		if !ok {
			creator = &creatorEntry{MemberID: project.CreatedBy}
			creatorTotals[project.CreatedBy] = creator
		}
		creator.Projects++
		creator.Raised += project.Total
		creator.PledgedShares = append(creator.PledgedShares,
			float64(project.PledgeFor(project.CreatedBy))/float64(project.Total))
	}

	for donor, amount := range donorTotals {
		result.Donors = append(result.Donors, donorEntry{MemberID: donor, Amount: amount})
	}
	sort.Slice(result.Donors, func(i, j int) bool {
		if result.Donors[i].Amount != result.Donors[j].Amount {
			return result.Donors[i].Amount > result.Donors[j].Amount
		}
		return result.Donors[i].MemberID < result.Donors[j].MemberID
	})

	for _, creator := range creatorTotals {
		result.Creators = append(result.Creators, *creator)
	}
	sort.Slice(result.Creators, func(i, j int) bool {
		if result.Creators[i].Raised != result.Creators[j].Raised {
			return result.Creators[i].Raised > result.Creators[j].Raised
		}
		return result.Creators[i].MemberID < result.Creators[j].MemberID
	})

	return result
}

func printReport(result report, names map[string]string) {
	displayName := func(memberID string) string {
		if name, ok := names[memberID]; ok && name != "" {
			return name
		}
		return memberID
	}

	fmt.Printf("Total raised: $%d\n", result.TotalRaised)
	fmt.Printf("Total projects: %d\n", result.TotalProjects)

	fmt.Printf("Total donors: %d\n", len(result.Donors))
	fmt.Println("Leaderboard:")
	for _, donor := range result.Donors {
		fmt.Printf("%s: $%d\n", displayName(donor.MemberID), donor.Amount)
	}

	fmt.Printf("Total creators: %d\n", len(result.Creators))
	fmt.Println("Creator leaderboard:")
	for _, creator := range result.Creators {
		fmt.Printf("%s: %d projects, $%d raised\n",
			displayName(creator.MemberID), creator.Projects, creator.Raised)
		fmt.Print("Pledged percentages: ")
		for _, share := range creator.PledgedShares {
			fmt.Printf("%.2f%%, ", share*100)
		}
		fmt.Printf("Average: %.2f%%\n", creator.AverageShare()*100)
	}
}

func writeCSV(path string, table [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(table); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}
