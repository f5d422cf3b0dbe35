package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

var (
	selfPlayGames   int
	selfPlayStarter string
)

var selfPlayCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "Let the AI play a perfect opponent and print the tally",
	Long: `selfplay runs the AI against a perfect minimax opponent.
Without --starter the first move alternates, Ai opening the odd games.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if selfPlayGames < 1 {
			return fmt.Errorf("games must be positive, got %d", selfPlayGames)
		}

		var fixed entity.Side
		if selfPlayStarter != "" {
			side, err := entity.ParseSide(selfPlayStarter)
			if err != nil {
				return err
			}
			fixed = side
		}

		tally := make(map[entity.Result]int)
		out := cmd.OutOrStdout()

		for i := 0; i < selfPlayGames; i++ {
			starter := fixed
			if starter == 0 {
				starter = entity.Ai
				if i%2 == 1 {
					starter = entity.Player
				}
			}

			game := tictactoe.SelfPlay(starter)
			tally[game.Result]++

			fmt.Fprintf(out, "game %d: starter=%s moves=%d result=%s\n", i+1, starter, len(game.Moves), game.Result)
		}

		fmt.Fprintf(out, "ai wins: %d, draws: %d, player wins: %d\n",
			tally[entity.AiWins], tally[entity.Draw], tally[entity.PlayerWins])

		return nil
	},
}

func init() {
	selfPlayCmd.Flags().IntVarP(&selfPlayGames, "games", "n", 2, "Number of games to play")
	selfPlayCmd.Flags().StringVarP(&selfPlayStarter, "starter", "s", "", "Who moves first in every game: player or ai")
}
