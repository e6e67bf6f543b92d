package commands

import (
	"fmt"
	"siteqa/internal/visual"

	"github.com/spf13/cobra"
)

var (
	diffOut       *string
	diffCombined  *string
	diffThreshold *float64
)

func init() {
	diffOut = diffCmd.Flags().String("out", "diff.png", "Where to write the diff image.")
	diffCombined = diffCmd.Flags().String("combined", "", "Also write both images stacked on top of each other to this path.")
	diffThreshold = diffCmd.Flags().Float64("threshold", visual.DefaultThreshold, "Color distance from 0 to 1 above which pixels differ.")
	rootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff <a.png> <b.png> [--out diff.png] [--threshold 0.1]",
	Short: "Compares two screenshots pixel by pixel.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if *diffCombined != "" {
			err := visual.CombineFiles(args[0], args[1], *diffCombined)
			if err != nil {
				return err
			}
		}
		pixels, err := visual.Compare(args[0], args[1], *diffOut, *diffThreshold)
		if err != nil {
			return err
		}
		fmt.Printf("%d pixels differ, diff written to %s\n", pixels, *diffOut)
		return nil
	},
}
