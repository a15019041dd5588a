package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/nutribattle/nutribattle/internal/api"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
	"github.com/nutribattle/nutribattle/internal/cli/output"
)

// confirm asks a yes/no question, replaced in tests
var confirm = func(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewIntakeCmd creates the intake command group
func NewIntakeCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Log what you eat",
	}

	cmd.AddCommand(newIntakeAddCmd(opts))
	cmd.AddCommand(newIntakeUpdateCmd(opts))
	cmd.AddCommand(newIntakeDeleteCmd(opts))

	return withRoute(cmd, guard.RouteDashboard)
}

type intakeFlags struct {
	meal  string
	date  string
	notes string
}

func (f *intakeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.meal, "meal", "m", string(api.MealLunch), "BREAKFAST, LUNCH, DINNER or SNACK")
	cmd.Flags().StringVar(&f.date, "date", "", "Day eaten as YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
}

func parseGrams(s string) (float64, error) {
	quantity, err := strconv.ParseFloat(strings.TrimSuffix(s, "g"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity '%s': must be grams, e.g. 150", s)
	}
	return quantity, nil
}

// request builds the intake body from a food id and a quantity in grams
func (f *intakeFlags) request(foodArg, quantityArg string) (api.AddFoodIntakeRequest, error) {
	foodID, err := parseID(foodArg)
	if err != nil {
		return api.AddFoodIntakeRequest{}, err
	}
	quantity, err := parseGrams(quantityArg)
	if err != nil {
		return api.AddFoodIntakeRequest{}, err
	}
	date, err := optionalDate(f.date)
	if err != nil {
		return api.AddFoodIntakeRequest{}, err
	}
	return api.AddFoodIntakeRequest{
		FoodID:     foodID,
		Quantity:   quantity,
		MealType:   api.MealType(strings.ToUpper(f.meal)),
		IntakeDate: date,
		Notes:      f.notes,
	}, nil
}

func newIntakeAddCmd(opts *Options) *cobra.Command {
	var flags intakeFlags

	cmd := &cobra.Command{
		Use:     "add <food-id> <grams>",
		Short:   "Log a food",
		Example: `  nutribattle intake add 12 150 --meal DINNER`,
		Args:    cobra.ExactArgs(2),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			req, err := flags.request(args[0], args[1])
			if err != nil {
				return err
			}
			intake, err := app.Client.AddIntake(ctx, req)
			if err != nil {
				return err
			}
			return app.Printer.Render(intake, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Logged %sg of %s for %s (#%d)\n", output.Number(intake.Quantity), intake.FoodName, strings.ToLower(string(intake.MealType)), intake.ID)
				fmt.Fprintf(w, "  %s kcal, %sg protein, %sg carbs, %sg fat\n",
					output.Number(intake.Calories), output.Number(intake.Protein), output.Number(intake.Carbs), output.Number(intake.Fat))
			})
		}),
	}

	flags.register(cmd)
	return cmd
}

func newIntakeUpdateCmd(opts *Options) *cobra.Command {
	var meal, notes string

	cmd := &cobra.Command{
		Use:   "update <intake-id> <grams>",
		Short: "Change the quantity, meal or notes of a logged food",
		Long: `Change the quantity, meal or notes of a logged food.

The food and the day cannot be changed. Delete the intake and log a new one
instead.`,
		Example: `  nutribattle intake update 3 200 --meal DINNER`,
		Args:    cobra.ExactArgs(2),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			quantity, err := parseGrams(args[1])
			if err != nil {
				return err
			}
			intake, err := app.Client.UpdateIntake(ctx, id, api.UpdateFoodIntakeRequest{
				Quantity: quantity,
				MealType: api.MealType(strings.ToUpper(meal)),
				Notes:    notes,
			})
			if err != nil {
				return err
			}
			return app.Printer.Render(intake, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Updated #%d: %sg of %s for %s\n", intake.ID, output.Number(intake.Quantity), intake.FoodName, strings.ToLower(string(intake.MealType)))
			})
		}),
	}

	cmd.Flags().StringVarP(&meal, "meal", "m", "", "BREAKFAST, LUNCH, DINNER or SNACK")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes, replacing any existing ones")
	_ = cmd.MarkFlagRequired("meal")
	return cmd
}

func newIntakeDeleteCmd(opts *Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <intake-id>",
		Short: "Remove a logged food",
		Args:  cobra.ExactArgs(1),
		RunE: run(opts, func(ctx context.Context, app *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				if !isTerminal() {
					return fmt.Errorf("refusing to delete without confirmation (use --force in non-interactive mode)")
				}
				ok, err := confirm(fmt.Sprintf("Delete intake #%d", id))
				if err != nil {
					return err
				}
				if !ok {
					app.Printer.Printf("Cancelled\n")
					return nil
				}
			}

			if err := app.Client.DeleteIntake(ctx, id); err != nil {
				return err
			}
			app.Printer.Printf("✓ Deleted intake #%d\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}
