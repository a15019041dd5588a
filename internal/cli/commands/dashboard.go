package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/cli/client"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
	"github.com/nutribattle/nutribattle/internal/cli/output"
)

const barWidth = 20

// NewDashboardCmd creates the dashboard command group. Without a
// subcommand it prints today's overview.
func NewDashboardCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Track today's nutrition against your goals",
		Args:    cobra.NoArgs,
		RunE:    run(opts, runDashboardOverview),
	}

	cmd.AddCommand(newDailyCmd(opts))
	cmd.AddCommand(newWeeklyCmd(opts))
	cmd.AddCommand(newCompareCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newCaloriesCmd(opts))
	cmd.AddCommand(newGoalsCmd(opts))

	return withRoute(cmd, guard.RouteDashboard)
}

func runDashboardOverview(ctx context.Context, app *App, args []string) error {
	summary, err := app.Client.DailySummary(ctx, nil)
	if err != nil {
		return err
	}
	return app.Printer.Render(summary, func(w io.Writer) {
		if user, ok := app.Store.CurrentUser(); ok {
			fmt.Fprintf(w, "Welcome back, %s!\n\n", displayName(user))
		}
		dailySummary(w, summary)
		fmt.Fprintln(w, "\nRun 'nutribattle intake add <food-id> <grams>' to log a meal.")
	})
}

func displayName(user *api.UserSummary) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

func newDailyCmd(opts *Options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the nutrition summary of one day",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			d, err := optionalDate(date)
			if err != nil {
				return err
			}
			summary, err := app.Client.DailySummary(ctx, d)
			if err != nil {
				return err
			}
			return app.Printer.Render(summary, func(w io.Writer) { dailySummary(w, summary) })
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show as YYYY-MM-DD (defaults to today)")
	return cmd
}

func newWeeklyCmd(opts *Options) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Show averages and trends for a week",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			d, err := optionalDate(start)
			if err != nil {
				return err
			}
			summary, err := app.Client.WeeklySummary(ctx, d)
			if err != nil {
				return err
			}
			return app.Printer.Render(summary, func(w io.Writer) { weeklySummary(w, summary) })
		}),
	}

	cmd.Flags().StringVar(&start, "start", "", "First day as YYYY-MM-DD (defaults to this week's Monday)")
	return cmd
}

func optionalDate(s string) (*api.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := api.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date '%s': use YYYY-MM-DD", s)
	}
	return &d, nil
}

func dailySummary(w io.Writer, s *api.DailyNutritionSummary) {
	fmt.Fprintf(w, "Nutrition for %s\n\n", s.Date)

	goals := [][]string{
		macroRow("Calories", s.TotalCalories, s.CalorieGoal, s.CaloriePercentage, "kcal"),
		macroRow("Protein", s.TotalProtein, s.ProteinGoal, s.ProteinPercentage, "g"),
		macroRow("Carbs", s.TotalCarbs, s.CarbGoal, s.CarbPercentage, "g"),
		macroRow("Fat", s.TotalFat, s.FatGoal, s.FatPercentage, "g"),
	}
	output.Table(w, []string{"NUTRIENT", "EATEN", "GOAL", "PROGRESS", ""}, goals)

	if len(s.FoodItems) == 0 {
		fmt.Fprintln(w, "\nNothing logged yet.")
		return
	}

	fmt.Fprintln(w)
	rows := make([][]string, len(s.FoodItems))
	for i, item := range s.FoodItems {
		rows[i] = []string{
			strconv.FormatInt(item.ID, 10),
			string(item.MealType),
			item.FoodName,
			output.Number(item.Quantity) + "g",
			output.Number(item.Calories),
			output.Number(item.Protein),
			output.Number(item.Carbs),
			output.Number(item.Fat),
		}
	}
	output.Table(w, []string{"ID", "MEAL", "FOOD", "QTY", "KCAL", "PROTEIN", "CARBS", "FAT"}, rows)
}

func macroRow(name string, eaten, goal, percent float64, unit string) []string {
	return []string{
		name,
		output.Number(eaten) + unit,
		output.Number(goal) + unit,
		output.Bar(percent, barWidth),
		output.Number(percent) + "%",
	}
}

func weeklySummary(w io.Writer, s *api.WeeklyNutritionSummary) {
	fmt.Fprintf(w, "Week of %s to %s\n\n", s.StartDate, s.EndDate)

	rows := make([][]string, len(s.DailySummaries))
	for i, day := range s.DailySummaries {
		rows[i] = []string{
			day.Date.Format("Mon 2006-01-02"),
			output.Number(day.TotalCalories),
			output.Number(day.TotalProtein),
			output.Number(day.TotalCarbs),
			output.Number(day.TotalFat),
			output.Bar(day.CaloriePercentage, barWidth),
		}
	}
	output.Table(w, []string{"DAY", "KCAL", "PROTEIN", "CARBS", "FAT", "CALORIE GOAL"}, rows)

	fmt.Fprintf(w, "\nDaily average: %s kcal, %sg protein, %sg carbs, %sg fat\n",
		output.Number(s.AverageCalories), output.Number(s.AverageProtein),
		output.Number(s.AverageCarbs), output.Number(s.AverageFat))

	if len(s.MostConsumedFoods) > 0 {
		names := make([]string, 0, len(s.MostConsumedFoods))
		for name := range s.MostConsumedFoods {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			ci, cj := s.MostConsumedFoods[names[i]], s.MostConsumedFoods[names[j]]
			if ci != cj {
				return ci > cj
			}
			return names[i] < names[j]
		})
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s (%d)", name, s.MostConsumedFoods[name])
		}
		fmt.Fprintf(w, "Most eaten: %s\n", strings.Join(parts, ", "))
	}

	for _, rec := range s.Recommendations {
		fmt.Fprintf(w, "  • %s\n", rec)
	}
}

func newCompareCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <food-id>...",
		Short: "Compare the nutrients of up to three foods",
		Example: `  nutribattle dashboard compare 12 47
  nutribattle dashboard compare 12,47,50`,
		Args: cobra.MinimumNArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			result, err := app.Client.CompareFoods(ctx, ids)
			if err != nil {
				return err
			}
			return app.Printer.Render(result, func(w io.Writer) { comparison(w, result) })
		}),
	}
}

func comparison(w io.Writer, r *api.ComparisonResult) {
	headers := []string{"NUTRIENT"}
	for _, f := range r.Foods {
		headers = append(headers, strings.ToUpper(f.Name))
	}

	var rows [][]string
	for _, nc := range r.NutrientComparisons {
		row := []string{fmt.Sprintf("%s (%s)", nc.NutrientName, nc.Unit)}
		for _, f := range r.Foods {
			cell := "-"
			for _, v := range nc.Values {
				if v.FoodID != f.ID {
					continue
				}
				cell = output.Number(v.Value)
				switch {
				case v.Best:
					cell += " ▲"
				case v.Worst:
					cell += " ▼"
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	scores := []string{"Nutri-Score"}
	for _, f := range r.Foods {
		scores = append(scores, grade(f))
	}
	rows = append(rows, scores)
	output.Table(w, headers, rows)

	if r.HealthiestFood != nil {
		fmt.Fprintf(w, "\nHealthiest: %s (Nutri-Score %s)\n", r.HealthiestFood.Name, grade(*r.HealthiestFood))
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  • %s\n", rec)
	}
}

func newRecommendCmd(opts *Options) *cobra.Command {
	var (
		k    int
		mode string
	)

	cmd := &cobra.Command{
		Use:   "recommend <food-id>",
		Short: "Find foods similar to a food",
		Long: `Find foods similar to a food.

Modes:
  SAME_CATEGORY      foods of the same type
  OPPOSITE_CATEGORY  traditional alternatives to modern foods and vice versa
  MIXED              any food (default)`,
		Args: cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if k == 0 {
				k = client.DefaultRecommendations
				if app.Project != nil && app.Project.Recommend.K > 0 {
					k = app.Project.Recommend.K
				}
			}
			m := api.RecommendationMode(strings.ToUpper(mode))
			if m == "" && app.Project != nil {
				m = app.Project.Recommend.Mode
			}

			recs, err := app.Client.Recommendations(ctx, id, k, m)
			if err != nil {
				return err
			}
			return app.Printer.Render(recs, func(w io.Writer) { recommendations(w, recs) })
		}),
	}

	cmd.Flags().IntVarP(&k, "count", "k", 0, fmt.Sprintf("Number of foods, %d to %d (default %d)",
		client.MinRecommendations, client.MaxRecommendations, client.DefaultRecommendations))
	cmd.Flags().StringVar(&mode, "mode", "", "SAME_CATEGORY, OPPOSITE_CATEGORY or MIXED")

	return cmd
}

func recommendations(w io.Writer, recs []api.FoodRecommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No similar foods found")
		return
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			strconv.FormatInt(r.Food.ID, 10),
			r.Food.Name,
			r.Food.Category,
			fmt.Sprintf("%.0f%%", r.SimilarityScore*100),
			r.Reason,
		}
	}
	output.Table(w, []string{"ID", "NAME", "CATEGORY", "MATCH", "WHY"}, rows)
}

func newCaloriesCmd(opts *Options) *cobra.Command {
	var meal string

	cmd := &cobra.Command{
		Use:   "calories",
		Short: "Suggest foods that fit a meal's calorie budget",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			rec, err := app.Client.CalorieRecommendations(ctx, api.MealType(strings.ToUpper(meal)))
			if err != nil {
				return err
			}
			return app.Printer.Render(rec, func(w io.Writer) {
				fmt.Fprintf(w, "Target: %s kcal\n", output.Number(rec.TargetCalories))
				if rec.RecommendationReason != "" {
					fmt.Fprintln(w, rec.RecommendationReason)
				}
				fmt.Fprintln(w)
				rows := make([][]string, len(rec.RecommendedFoods))
				for i, m := range rec.RecommendedFoods {
					rows[i] = []string{
						strconv.FormatInt(m.Food.ID, 10),
						m.Food.Name,
						output.Number(m.Quantity) + "g",
						output.Number(m.Food.Calories*m.Quantity/100),
						fmt.Sprintf("%.0f", m.MatchScore),
					}
				}
				output.Table(w, []string{"ID", "FOOD", "PORTION", "KCAL", "MATCH"}, rows)
			})
		}),
	}

	cmd.Flags().StringVar(&meal, "meal", string(api.MealLunch), "BREAKFAST, LUNCH, DINNER or SNACK")
	return cmd
}

func newGoalsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show your goal profile and daily targets",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			goals, err := app.Client.NutritionGoals(ctx)
			if err != nil {
				return err
			}
			return app.Printer.Render(goals, func(w io.Writer) { goalProfile(w, goals) })
		}),
	}

	var (
		req            api.NutritionGoalRequest
		goal, ageGroup string
		weight, height float64
	)
	set := &cobra.Command{
		Use:     "set",
		Short:   "Set your goal profile",
		Example: `  nutribattle dashboard goals set --goal WEIGHT_LOSS --age-group MIDDLE_AGE --weight 72 --height 175`,
		Args:    cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			req.NutritionGoal = api.NutritionGoal(strings.ToUpper(goal))
			req.AgeGroup = api.AgeGroup(strings.ToUpper(ageGroup))
			if weight != 0 {
				req.Weight = &weight
			}
			if height != 0 {
				req.Height = &height
			}
			goals, err := app.Client.SetNutritionGoals(ctx, req)
			if err != nil {
				return err
			}
			return app.Printer.Render(goals, func(w io.Writer) {
				fmt.Fprintln(w, "✓ Goals updated")
				fmt.Fprintln(w)
				goalProfile(w, goals)
			})
		}),
	}
	set.Flags().StringVar(&goal, "goal", "", "WEIGHT_GAIN, WEIGHT_LOSS or MAINTAIN")
	set.Flags().StringVar(&ageGroup, "age-group", "", "CHILD, MIDDLE_AGE or OLD_AGE")
	set.Flags().Float64Var(&weight, "weight", 0, "Weight in kg")
	set.Flags().Float64Var(&height, "height", 0, "Height in cm")
	cmd.AddCommand(set)

	return cmd
}

func goalProfile(w io.Writer, g *api.NutritionGoalResponse) {
	fmt.Fprintf(w, "Goal: %s (%s)\n", g.NutritionGoal, g.AgeGroup)
	if g.BMI != nil {
		fmt.Fprintf(w, "BMI: %s (%s)\n", output.Number(*g.BMI), g.BMICategory)
	}
	fmt.Fprintln(w)
	macroGoals(w, &api.NutritionalGoals{
		DailyCalorieGoal: g.DailyCalorieGoal,
		DailyProteinGoal: g.DailyProteinGoal,
		DailyCarbGoal:    g.DailyCarbGoal,
		DailyFatGoal:     g.DailyFatGoal,
	})
}
