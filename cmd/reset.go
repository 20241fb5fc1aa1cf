package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <candidate-id>",
	Short: "Return a candidate to the not-started state",
	Long: `Reset clears a candidate's transcript, questions, answers, summary, and
score while keeping their identity and contact details, so they can start
the interview over with the same resume.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		if _, ok := st.Get(args[0]); !ok {
			return fmt.Errorf("no candidate with id %s", args[0])
		}
		st.ResetInterview(args[0])
		fmt.Println("Candidate reset.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
