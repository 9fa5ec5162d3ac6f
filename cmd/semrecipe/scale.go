package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/c360studio/semrecipe/config"
	"github.com/c360studio/semrecipe/recipe"
	"github.com/c360studio/semrecipe/units"
)

func scaleCmd(flags *globalFlags) *cobra.Command {
	var long, abbrev bool

	cmd := &cobra.Command{
		Use:   "scale <quantity> <unit> <multiple>",
		Short: "Scale an ingredient amount",
		Long: `Scale multiplies an amount and picks the unit that reads best in the
same measurement system, for example "3 tsp" times 4 is "1/4 cup".

Quantities may be whole numbers, decimals, fractions ("1/2"), mixed
numbers ("1 1/2") or vulgar fractions ("½"). An unknown unit keeps its
name; a quantity that is not a number is printed as written.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			multiple, err := strconv.ParseFloat(args[2], 64)
			if err != nil || multiple <= 0 {
				return fmt.Errorf("multiple must be a positive number: %q", args[2])
			}

			cfg, err := config.NewLoader(newLogger(cmd.ErrOrStderr(), flags.logLevel)).Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			length := cfg.DisplayLength()
			switch {
			case long && abbrev:
				return fmt.Errorf("--long and --abbrev are mutually exclusive")
			case long:
				length = units.Long
			case abbrev:
				length = units.Abbrev
			}

			ing := recipe.Ingredient{Quantity: args[0], Unit: args[1]}
			fmt.Fprintln(cmd.OutOrStdout(), recipe.ScaleIngredient(ing, multiple, length))
			return nil
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Spell out unit names (2 teaspoons)")
	cmd.Flags().BoolVar(&abbrev, "abbrev", false, "Abbreviate unit names (2 tsp)")
	return cmd
}
