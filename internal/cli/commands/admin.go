package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
	"github.com/nutribattle/nutribattle/internal/cli/output"
)

// NewAdminCmd creates the admin command group. Without a subcommand it
// shows the system counters.
func NewAdminCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage users and the food catalog (admins only)",
		Args:  cobra.NoArgs,
		RunE:  run(opts, runAdminStats),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show system counters",
		Args:  cobra.NoArgs,
		RunE:  run(opts, runAdminStats),
	})
	cmd.AddCommand(newAdminUsersCmd(opts))
	cmd.AddCommand(newAdminActionCmd(opts, "toggle <user-id>", "Enable or disable an account", adminToggle))
	cmd.AddCommand(newAdminActionCmd(opts, "promote <user-id>", "Give an account the admin role", adminPromote))
	cmd.AddCommand(newFoodAddCmd(opts))
	cmd.AddCommand(newFoodUpdateCmd(opts))
	cmd.AddCommand(newAdminActionCmd(opts, "food-delete <food-id>", "Remove a food from the catalog", adminDeleteFood))

	return withRoute(cmd, guard.RouteAdmin)
}

func runAdminStats(ctx context.Context, app *App, args []string) error {
	stats, err := app.Client.Stats(ctx)
	if err != nil {
		return err
	}
	return app.Printer.Render(stats, func(w io.Writer) {
		output.Table(w, []string{"COUNTER", "VALUE"}, [][]string{
			{"Users", strconv.FormatInt(stats.TotalUsers, 10)},
			{"Foods", strconv.FormatInt(stats.TotalFoods, 10)},
			{"Traditional", strconv.Itoa(stats.TraditionalFoods)},
			{"Modern", strconv.Itoa(stats.ModernFoods)},
		})
	})
}

func newAdminUsersCmd(opts *Options) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts, newest first",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			// Pages are numbered from 1 on the command line
			users, err := app.Client.ListUsers(ctx, page-1, size)
			if err != nil {
				return err
			}
			return app.Printer.Render(users, func(w io.Writer) {
				rows := make([][]string, len(users.Content))
				for i, u := range users.Content {
					status := "enabled"
					if !u.Enabled {
						status = "disabled"
					}
					joined := "-"
					if u.CreatedAt != nil {
						joined = u.CreatedAt.Local().Format("2006-01-02")
					}
					rows[i] = []string{strconv.FormatInt(u.ID, 10), u.Username, u.Email, string(u.Role), status, joined}
				}
				output.Table(w, []string{"ID", "USERNAME", "EMAIL", "ROLE", "STATUS", "JOINED"}, rows)
				fmt.Fprintf(w, "\nPage %d of %d (%d users)\n", users.Number+1, max(users.TotalPages, 1), users.TotalElements)
			})
		}),
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 10, "Users per page")

	return cmd
}

type adminAction func(ctx context.Context, app *App, id int64) (*api.APIMessage, error)

func adminToggle(ctx context.Context, app *App, id int64) (*api.APIMessage, error) {
	return app.Client.ToggleUserStatus(ctx, id)
}

func adminPromote(ctx context.Context, app *App, id int64) (*api.APIMessage, error) {
	return app.Client.MakeAdmin(ctx, id)
}

func adminDeleteFood(ctx context.Context, app *App, id int64) (*api.APIMessage, error) {
	return app.Client.DeleteFood(ctx, id)
}

func newAdminActionCmd(opts *Options, use, short string, action adminAction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := action(ctx, app, id)
			if err != nil {
				return err
			}
			if !msg.Success {
				return fmt.Errorf("%s", msg.Message)
			}
			return app.Printer.Render(msg, func(w io.Writer) {
				fmt.Fprintf(w, "✓ %s\n", msg.Message)
			})
		}),
	}
}

func registerFoodFlags(cmd *cobra.Command, f *api.FoodInput) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Food name")
	cmd.Flags().StringVar(&f.Category, "category", "", "Category, e.g. Rice or Dumplings")
	cmd.Flags().StringVar(&f.Type, "type", "", "Traditional or Modern")
	cmd.Flags().Float64Var(&f.Calories, "calories", 0, "kcal per 100g")
	cmd.Flags().Float64Var(&f.Protein, "protein", 0, "Protein g per 100g")
	cmd.Flags().Float64Var(&f.Fat, "fat", 0, "Fat g per 100g")
	cmd.Flags().Float64Var(&f.SaturatedFat, "saturated-fat", 0, "Saturated fat g per 100g")
	cmd.Flags().Float64Var(&f.Carbs, "carbs", 0, "Carbs g per 100g")
	cmd.Flags().Float64Var(&f.Sugar, "sugar", 0, "Sugar g per 100g")
	cmd.Flags().Float64Var(&f.Fiber, "fiber", 0, "Fiber g per 100g")
	cmd.Flags().Float64Var(&f.Sodium, "sodium", 0, "Sodium mg per 100g")
	cmd.Flags().StringVar(&f.Description, "description", "", "Short description")
	cmd.Flags().StringVar(&f.ImageURL, "image-url", "", "Image URL")
}

func newFoodAddCmd(opts *Options) *cobra.Command {
	var input api.FoodInput

	cmd := &cobra.Command{
		Use:     "food-add",
		Short:   "Add a food to the catalog",
		Example: `  nutribattle admin food-add --name "Sel Roti" --category Bread --type Traditional --calories 310 --carbs 52`,
		Args:    cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			food, err := app.Client.CreateFood(ctx, input)
			if err != nil {
				return err
			}
			return app.Printer.Render(food, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Added %s (#%d), Nutri-Score %s\n", food.Name, food.ID, grade(*food))
			})
		}),
	}

	registerFoodFlags(cmd, &input)
	return cmd
}

func newFoodUpdateCmd(opts *Options) *cobra.Command {
	var input api.FoodInput

	var cmd *cobra.Command
	cmd = &cobra.Command{
		Use:   "food-update <food-id>",
		Short: "Change a catalog entry",
		Long:  `Change a catalog entry. Flags that are not given keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := app.Client.GetFood(ctx, id)
			if err != nil {
				return err
			}

			merged := foodInputFrom(current)
			changed := cmd.Flags().Changed
			for flag, apply := range map[string]func(){
				"name":          func() { merged.Name = input.Name },
				"category":      func() { merged.Category = input.Category },
				"type":          func() { merged.Type = input.Type },
				"calories":      func() { merged.Calories = input.Calories },
				"protein":       func() { merged.Protein = input.Protein },
				"fat":           func() { merged.Fat = input.Fat },
				"saturated-fat": func() { merged.SaturatedFat = input.SaturatedFat },
				"carbs":         func() { merged.Carbs = input.Carbs },
				"sugar":         func() { merged.Sugar = input.Sugar },
				"fiber":         func() { merged.Fiber = input.Fiber },
				"sodium":        func() { merged.Sodium = input.Sodium },
				"description":   func() { merged.Description = input.Description },
				"image-url":     func() { merged.ImageURL = input.ImageURL },
			} {
				if changed(flag) {
					apply()
				}
			}

			food, err := app.Client.UpdateFood(ctx, id, merged)
			if err != nil {
				return err
			}
			return app.Printer.Render(food, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Updated %s (#%d), Nutri-Score %s\n", food.Name, food.ID, grade(*food))
			})
		}),
	}

	registerFoodFlags(cmd, &input)
	return cmd
}

func foodInputFrom(f *api.Food) api.FoodInput {
	return api.FoodInput{
		Name:         f.Name,
		Category:     f.Category,
		Type:         f.Type,
		Calories:     f.Calories,
		Protein:      f.Protein,
		Fat:          f.Fat,
		SaturatedFat: f.SaturatedFat,
		Carbs:        f.Carbs,
		Sugar:        f.Sugar,
		Fiber:        f.Fiber,
		Sodium:       f.Sodium,
		VitaminA:     f.VitaminA,
		VitaminC:     f.VitaminC,
		Calcium:      f.Calcium,
		Iron:         f.Iron,
		ImageURL:     f.ImageURL,
		Description:  f.Description,
	}
}
