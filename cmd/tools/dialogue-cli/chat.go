package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voice-agent/internal/agent"
	"voice-agent/internal/dialogue"
	"voice-agent/internal/session"
)

type chatOptions struct {
	agentType  string
	configFile string
	genaiURL   string
	showIntent bool
}

func newChatCmd() *cobra.Command {
	opts := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Reads one utterance per line from stdin and prints the agent's reply.
Type /quit or send EOF to end the conversation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.agentType, "type", "t", string(agent.TypeCustomAssistant), "Agent type")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "JSON file with the full agent config")
	cmd.Flags().StringVar(&opts.genaiURL, "genai-url", "", "GenAI service base URL for LLM agents")
	cmd.Flags().BoolVar(&opts.showIntent, "intent", false, "Print the classified intent of each utterance")
	return cmd
}

func (o *chatOptions) agentConfig() (map[string]interface{}, error) {
	if o.configFile == "" {
		return map[string]interface{}{"type": o.agentType}, nil
	}
	data, err := os.ReadFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse agent config: %w", err)
	}
	return raw, nil
}

func runChat(cmd *cobra.Command, opts *chatOptions) error {
	raw, err := opts.agentConfig()
	if err != nil {
		return err
	}

	log := newLogger()
	factory := agent.NewFactory(log, agent.WithGenAIDefaults(agent.GenAIConfig{
		BaseURL:    opts.genaiURL,
		TimeoutMS:  10000,
		MaxRetries: 1,
	}))
	manager := session.NewManager(factory, log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	started, err := manager.Start(ctx, session.StartRequest{AgentConfig: raw})
	if err != nil {
		return err
	}
	id := started.Session.ConversationID

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", assistantStyle.Render("agent:"), started.InitialMessage)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, userStyle.Render("you: "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			break
		}

		if opts.showIntent {
			fmt.Fprintln(out, intentStyle.Render(fmt.Sprintf("[%s]", dialogue.Classify(line))))
		}
		result, err := manager.Respond(ctx, id, line, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", assistantStyle.Render("agent:"), result.Reply)
		if result.ShouldEnd {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	summary, err := manager.End(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, intentStyle.Render(fmt.Sprintf("%d turns in %s", summary.TurnCount, summary.Duration.Round(time.Millisecond))))
	return nil
}
