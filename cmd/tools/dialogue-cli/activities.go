package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voice-agent/internal/common/errors"
	endconversation "voice-agent/internal/workers/dialogue/end-conversation"
	"voice-agent/internal/workers/dialogue/respond"
	startconversation "voice-agent/internal/workers/dialogue/start-conversation"
	"voice-agent/pkg/registry"
)

func dialogueActivity(id, name, description, taskType, schema, timeout string, retries int, codes ...errors.ErrorCode) registry.Activity {
	var input map[string]interface{}
	_ = json.Unmarshal([]byte(schema), &input)

	errorCodes := make([]string, 0, len(codes))
	for _, c := range codes {
		errorCodes = append(errorCodes, string(c))
	}
	return registry.Activity{
		ID:                   id,
		DisplayName:          name,
		Description:          description,
		Category:             "dialogue",
		Version:              "1.0.0",
		TaskType:             taskType,
		ImplementationStatus: "completed",
		InputSchema:          input,
		ErrorCodes:           errorCodes,
		Timeout:              timeout,
		Retries:              retries,
		Tags:                 []string{"voice", "dialogue"},
	}
}

// builtinRegistry describes the workers this module registers.
func builtinRegistry() *registry.ActivityRegistry {
	return &registry.ActivityRegistry{
		Version: "1.0.0",
		Activities: []registry.Activity{
			dialogueActivity("dialogue-start-conversation", "Start Conversation",
				"Creates the agent for a call and returns its greeting",
				startconversation.TaskType, startconversation.InputSchema, "10s", 3,
				errors.ErrCodeAgentTypeUnrecognized, errors.ErrCodeAgentConfigInvalid,
				errors.ErrCodeCallConfigStore, errors.ErrCodeInvalidJobInput),
			dialogueActivity("dialogue-respond", "Respond To Utterance",
				"Answers one caller utterance, apologizing when generation fails",
				respond.TaskType, respond.InputSchema, "30s", 2,
				errors.ErrCodeSessionNotFound, errors.ErrCodeCallConfigStore,
				errors.ErrCodeInvalidJobInput),
			dialogueActivity("dialogue-end-conversation", "End Conversation",
				"Drops the session and its call config and returns a summary",
				endconversation.TaskType, endconversation.InputSchema, "10s", 3,
				errors.ErrCodeSessionNotFound, errors.ErrCodeInvalidJobInput),
		},
	}
}

func newActivitiesCmd() *cobra.Command {
	var outPath, checkPath string
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Print, export or check the dialogue activity registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := builtinRegistry()
			out := cmd.OutOrStdout()

			if checkPath != "" {
				existing, err := registry.LoadRegistry(checkPath)
				if err != nil {
					return fmt.Errorf("load registry: %w", err)
				}
				if err := existing.Validate(); err != nil {
					return err
				}
				missing, extra := reg.Diff(existing)
				if len(missing) > 0 || len(extra) > 0 {
					return fmt.Errorf("registry out of date: missing [%s] extra [%s]",
						strings.Join(missing, ", "), strings.Join(extra, ", "))
				}
				fmt.Fprintln(out, intentStyle.Render(fmt.Sprintf("%s is up to date", checkPath)))
				return nil
			}

			if outPath != "" {
				if err := reg.Save(outPath); err != nil {
					return err
				}
				fmt.Fprintln(out, intentStyle.Render(fmt.Sprintf("wrote %d activities to %s", len(reg.Activities), outPath)))
				return nil
			}

			for _, a := range reg.Activities {
				fmt.Fprintf(out, "%s %s\n  %s\n  errors: %s\n",
					assistantStyle.Render(a.TaskType),
					intentStyle.Render("("+a.Timeout+")"),
					a.Description,
					strings.Join(a.ErrorCodes, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the registry JSON to this path")
	cmd.Flags().StringVar(&checkPath, "check", "", "Validate a registry file against the registered workers")
	return cmd
}
