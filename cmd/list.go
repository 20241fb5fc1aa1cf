package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates ranked by final score",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		candidates := st.All()
		if len(candidates) == 0 {
			fmt.Println("No candidates yet.")
			return nil
		}

		fmt.Printf("%-38s %-24s %-16s %-10s %s\n", "ID", "CANDIDATE", "STATUS", "SCORE", "DATE")
		for _, c := range candidates {
			name := c.Name
			if name == "" {
				name = "N/A"
			}
			score := "N/A"
			if c.FinalScore > 0 {
				score = fmt.Sprintf("%.0f/100", c.FinalScore)
			}
			fmt.Printf("%-38s %-24s %-16s %-10s %s\n",
				c.ID,
				name,
				strings.ReplaceAll(string(c.InterviewState), "_", " "),
				score,
				c.CreatedAt.Format("2006-01-02"),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
