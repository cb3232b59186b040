// Command dialogue-cli talks to an agent from the terminal without a call.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"voice-agent/internal/common/logger"
)

var (
	verbose bool

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)
	intentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dialogue-cli",
		Short: "Chat with a voice agent from the terminal",
		Long: `dialogue-cli builds an agent the same way the agent server does and
lets you type the caller's side of the conversation.

  dialogue-cli chat                      # rule-based assistant
  dialogue-cli chat --type LLM_ASSISTANT --genai-url http://localhost:8000
  dialogue-cli classify "can you help"   # show the intent only
  dialogue-cli activities -o configs/activity-registry.json`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newChatCmd(), newClassifyCmd(), newActivitiesCmd())
	return root
}

func newLogger() logger.Logger {
	if !verbose {
		return logger.NewNoOpLogger()
	}
	return logger.NewStructured("debug", "console", "stderr")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
