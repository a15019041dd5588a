package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
	"github.com/nutribattle/nutribattle/internal/cli/output"
)

// NewHomeCmd creates the home command
func NewHomeCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show featured foods",
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			foods, err := app.Client.HomepageFoods(ctx)
			if err != nil {
				return err
			}
			return app.Printer.Render(foods, func(w io.Writer) {
				fmt.Fprintln(w, "Featured foods")
				fmt.Fprintln(w)
				foodTable(w, foods)
				if !app.Store.IsAuthenticated() {
					fmt.Fprintln(w, "\nRun 'nutribattle signup' to start tracking what you eat.")
				}
			})
		}),
	}
	return withRoute(cmd, guard.RouteLanding)
}

// NewFoodsCmd creates the foods command group
func NewFoodsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foods",
		Short: "Browse the food catalog",
	}

	var foodType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List all foods",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			var (
				foods []api.Food
				err   error
			)
			if foodType != "" {
				foods, err = app.Client.FoodsByType(ctx, foodType)
			} else {
				foods, err = app.Client.ListFoods(ctx)
			}
			if err != nil {
				return err
			}
			return app.Printer.Render(foods, func(w io.Writer) {
				if len(foods) == 0 {
					fmt.Fprintln(w, "No foods found")
					return
				}
				foodTable(w, foods)
			})
		}),
	}
	list.Flags().StringVar(&foodType, "type", "", "Only list Traditional or Modern foods")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show the nutrients of a food",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			food, err := app.Client.GetFood(ctx, id)
			if err != nil {
				return err
			}
			return app.Printer.Render(food, func(w io.Writer) { foodDetail(w, food) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <name>",
		Short: "Search foods by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			foods, err := app.Client.SearchFoods(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return app.Printer.Render(foods, func(w io.Writer) {
				if len(foods) == 0 {
					fmt.Fprintf(w, "No foods match '%s'\n", strings.Join(args, " "))
					return
				}
				foodTable(w, foods)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List food categories",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			categories, err := app.Client.Categories(ctx)
			if err != nil {
				return err
			}
			return app.Printer.Render(categories, func(w io.Writer) {
				for _, c := range categories {
					fmt.Fprintln(w, c)
				}
			})
		}),
	})

	return withRoute(cmd, guard.RouteCatalog)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id '%s': must be a positive number", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func grade(food api.Food) string {
	if food.NutriScore == "" {
		return "-"
	}
	return food.NutriScore
}

func foodTable(w io.Writer, foods []api.Food) {
	rows := make([][]string, len(foods))
	for i, f := range foods {
		rows[i] = []string{
			strconv.FormatInt(f.ID, 10),
			f.Name,
			f.Category,
			f.Type,
			output.Number(f.Calories),
			output.Number(f.Protein),
			output.Number(f.Carbs),
			output.Number(f.Fat),
			grade(f),
		}
	}
	output.Table(w, []string{"ID", "NAME", "CATEGORY", "TYPE", "KCAL", "PROTEIN", "CARBS", "FAT", "SCORE"}, rows)
}

func foodDetail(w io.Writer, f *api.Food) {
	fmt.Fprintf(w, "%s (#%d)\n", f.Name, f.ID)
	fmt.Fprintf(w, "  %s · %s · Nutri-Score %s\n", f.Category, f.Type, grade(*f))
	if f.Description != "" {
		fmt.Fprintf(w, "  %s\n", f.Description)
	}
	fmt.Fprintln(w)

	rows := [][]string{
		{"Calories", output.Number(f.Calories), "kcal"},
		{"Protein", output.Number(f.Protein), "g"},
		{"Carbs", output.Number(f.Carbs), "g"},
		{"Sugar", output.Number(f.Sugar), "g"},
		{"Fat", output.Number(f.Fat), "g"},
		{"Saturated fat", output.Number(f.SaturatedFat), "g"},
		{"Fiber", output.Number(f.Fiber), "g"},
		{"Sodium", output.Number(f.Sodium), "mg"},
		{"Vitamin A", output.Optional(f.VitaminA), "µg"},
		{"Vitamin C", output.Optional(f.VitaminC), "mg"},
		{"Calcium", output.Optional(f.Calcium), "mg"},
		{"Iron", output.Optional(f.Iron), "mg"},
	}
	output.Table(w, []string{"PER 100G", "VALUE", "UNIT"}, rows)
}

// NewTestAPICmd creates the test-api command
func NewTestAPICmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-api",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			result, err := app.Client.Ping(ctx)
			if err != nil {
				return err
			}
			return app.Printer.Render(result, func(w io.Writer) {
				fmt.Fprintf(w, "✓ %s\n", result.Message)
				fmt.Fprintf(w, "  Backend: %s\n", app.Client.BaseURL())
				if result.Timestamp != "" {
					fmt.Fprintf(w, "  Server time: %s\n", result.Timestamp)
				}
				fmt.Fprintf(w, "  Latency: %s\n", result.Latency)
			})
		}),
	}
	return withRoute(cmd, guard.RouteDiagnose)
}
