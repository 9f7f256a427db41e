package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/workouts"
)

func newStreakCmd(flags *rootFlags) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Print the current and the longest workout streak of a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return errors.New("--user is required")
			}

			b, err := openBackend(cmd.Context(), flags, username)
			if err != nil {
				return err
			}
			defer b.Close()

			dates, err := workouts.NewRepo(b.dbPool).WorkoutDates(cmd.Context(), b.user.ID)
			if err != nil {
				return fmt.Errorf("get workout dates: %w", err)
			}

			today := workouts.DateOf(time.Now().In(b.cfg.Location()))
			printStreaks(cmd, b.user.Username, workouts.CalculateStreaks(dates, today))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "username")
	return cmd
}

func printStreaks(cmd *cobra.Command, username string, streaks workouts.Streaks) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "user:           %s\n", username)
	fmt.Fprintf(out, "current streak: %d\n", streaks.Current)
	fmt.Fprintf(out, "longest streak: %d\n", streaks.Longest)
}
