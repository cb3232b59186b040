package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voice-agent/internal/dialogue"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <utterance>...",
		Short: "Print the intent and canned reply for each utterance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, text := range args {
				intent := dialogue.Classify(text)
				fmt.Fprintf(out, "%s %s\n  %s\n",
					userStyle.Render(strings.TrimSpace(text)),
					intentStyle.Render("["+string(intent)+"]"),
					dialogue.CannedReply(intent),
				)
			}
			return nil
		},
	}
}
