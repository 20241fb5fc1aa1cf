package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <candidate-id>",
	Short: "Print a candidate's transcript and evaluation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		c, ok := st.Get(args[0])
		if !ok {
			return fmt.Errorf("no candidate with id %s", args[0])
		}

		fmt.Printf("%s\n%s • %s\n", c.Name, c.Email, c.Phone)
		fmt.Printf("Status: %s\nUploaded: %s\n\n", c.InterviewState, c.CreatedAt.Format("January 2, 2006"))

		if c.Summary != "" {
			fmt.Printf("Final score: %.0f / 100\n%s\n\n", c.FinalScore, c.Summary)
		}

		if len(c.Questions) > 0 {
			fmt.Println("Transcript:")
			for i, q := range c.Questions {
				fmt.Printf("\nQ%d (%s, %ds): %s\n", i+1, q.Difficulty, q.Duration, q.Text)
				if i < len(c.Answers) {
					a := c.Answers[i]
					fmt.Printf("A:  %s\n", a.Text)
					if a.Score != nil {
						fmt.Printf("    %.0f/10: %s\n", *a.Score, a.Feedback)
					}
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
