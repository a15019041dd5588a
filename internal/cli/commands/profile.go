package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
	"github.com/nutribattle/nutribattle/internal/cli/output"
)

// NewProfileCmd creates the profile command group. Without a subcommand it
// shows the profile.
func NewProfileCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			profile, err := app.Client.Profile(ctx)
			if err != nil {
				return err
			}
			return app.Printer.Render(profile, func(w io.Writer) { profileDetail(w, profile) })
		}),
	}

	cmd.AddCommand(newProfileUpdateCmd(opts))
	cmd.AddCommand(newPasswordCmd(opts))
	cmd.AddCommand(newMacroGoalsCmd(opts))

	return withRoute(cmd, guard.RouteProfile)
}

func profileDetail(w io.Writer, p *api.UserProfile) {
	rows := [][]string{
		{"Username", p.Username},
		{"Name", p.FullName},
		{"Email", p.Email},
		{"Role", string(p.Role)},
		{"Age", orDash(p.Age != 0, fmt.Sprint(p.Age))},
		{"Gender", orDash(p.Gender != "", p.Gender)},
		{"Height", orDash(p.Height != 0, output.Number(p.Height)+" cm")},
		{"Weight", orDash(p.Weight != 0, output.Number(p.Weight)+" kg")},
		{"Activity", p.ActivityLevel},
		{"Diet", p.DietaryPreference},
	}
	if p.CreatedAt != nil {
		rows = append(rows, []string{"Member since", p.CreatedAt.Local().Format("2006-01-02")})
	}
	output.Table(w, []string{"FIELD", "VALUE"}, rows)
}

func orDash(ok bool, v string) string {
	if !ok {
		return "-"
	}
	return v
}

func newProfileUpdateCmd(opts *Options) *cobra.Command {
	var (
		name, gender, activity, diet string
		age                          int
		height, weight               float64
	)

	var cmd *cobra.Command
	cmd = &cobra.Command{
		Use:     "update",
		Short:   "Change profile fields",
		Example: `  nutribattle profile update --age 29 --height 172 --weight 68 --activity MODERATE`,
		Args:    cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			var req api.UpdateProfileRequest
			flags := cmd.Flags().Changed
			if flags("name") {
				req.FullName = &name
			}
			if flags("age") {
				req.Age = &age
			}
			if flags("gender") {
				g := strings.ToUpper(gender)
				req.Gender = &g
			}
			if flags("height") {
				req.Height = &height
			}
			if flags("weight") {
				req.Weight = &weight
			}
			if flags("activity") {
				a := strings.ToUpper(activity)
				req.ActivityLevel = &a
			}
			if flags("diet") {
				d := strings.ToUpper(diet)
				req.DietaryPreference = &d
			}
			if req == (api.UpdateProfileRequest{}) {
				return fmt.Errorf("nothing to update (see 'nutribattle profile update --help')")
			}

			profile, err := app.Client.UpdateProfile(ctx, req)
			if err != nil {
				return err
			}
			return app.Printer.Render(profile, func(w io.Writer) {
				fmt.Fprintln(w, "✓ Profile updated")
				fmt.Fprintln(w)
				profileDetail(w, profile)
			})
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().IntVar(&age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&gender, "gender", "", "MALE or FEMALE")
	cmd.Flags().Float64Var(&height, "height", 0, "Height in cm")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kg")
	cmd.Flags().StringVar(&activity, "activity", "", "SEDENTARY, LIGHT, MODERATE, ACTIVE or VERY_ACTIVE")
	cmd.Flags().StringVar(&diet, "diet", "", "Dietary preference, e.g. VEGETARIAN")

	return cmd
}

func newPasswordCmd(opts *Options) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			var err error
			if current == "" {
				if !isTerminal() {
					return fmt.Errorf("current password is required in non-interactive mode (use --current)")
				}
				if current, err = readPassword(app.Err, "Current password"); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}
			if next == "" {
				if !isTerminal() {
					return fmt.Errorf("new password is required in non-interactive mode (use --new)")
				}
				if next, err = readPassword(app.Err, "New password"); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			msg, err := app.Client.ChangePassword(ctx, api.ChangePasswordRequest{CurrentPassword: current, NewPassword: next})
			if err != nil {
				return err
			}
			app.Printer.Printf("✓ %s\n", msg)
			return nil
		}),
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password (will prompt if not provided)")
	cmd.Flags().StringVar(&next, "new", "", "New password, at least 6 characters (will prompt if not provided)")

	return cmd
}

func newMacroGoalsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show your daily macro targets",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			goals, err := app.Client.Goals(ctx)
			if err != nil {
				return err
			}
			return app.Printer.Render(goals, func(w io.Writer) { macroGoals(w, goals) })
		}),
	}

	var goals api.NutritionalGoals
	set := &cobra.Command{
		Use:   "set",
		Short: "Set daily macro targets",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			if goals == (api.NutritionalGoals{}) {
				return fmt.Errorf("nothing to update (use --calories, --protein, --carbs or --fat)")
			}
			updated, err := app.Client.UpdateGoals(ctx, goals)
			if err != nil {
				return err
			}
			return app.Printer.Render(updated, func(w io.Writer) {
				fmt.Fprintln(w, "✓ Goals updated")
				macroGoals(w, updated)
			})
		}),
	}
	set.Flags().Float64Var(&goals.DailyCalorieGoal, "calories", 0, "Daily calories (kcal)")
	set.Flags().Float64Var(&goals.DailyProteinGoal, "protein", 0, "Daily protein (g)")
	set.Flags().Float64Var(&goals.DailyCarbGoal, "carbs", 0, "Daily carbs (g)")
	set.Flags().Float64Var(&goals.DailyFatGoal, "fat", 0, "Daily fat (g)")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "calculate",
		Short: "Calculate targets from your profile",
		Long: `Calculate daily targets from your age, height, weight, gender and activity
level using the Mifflin-St Jeor equation, and save them.`,
		Args: cobra.NoArgs,
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			calculated, err := app.Client.CalculateGoals(ctx)
			if err != nil {
				return err
			}
			return app.Printer.Render(calculated, func(w io.Writer) {
				fmt.Fprintln(w, "✓ Goals calculated from your profile")
				macroGoals(w, calculated)
			})
		}),
	})

	return cmd
}

func macroGoals(w io.Writer, g *api.NutritionalGoals) {
	output.Table(w, []string{"DAILY TARGET", "VALUE"}, [][]string{
		{"Calories", output.Number(g.DailyCalorieGoal) + " kcal"},
		{"Protein", output.Number(g.DailyProteinGoal) + " g"},
		{"Carbs", output.Number(g.DailyCarbGoal) + " g"},
		{"Fat", output.Number(g.DailyFatGoal) + " g"},
	})
}
