package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	sessionx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/session"
	toolx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/tool"
)

type replayScript struct {
	Family string       `json:"family"`
	Steps  []replayStep `json:"steps"`
}

type replayStep struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "replay <script.json>",
		Short: "Run a scripted session through the dispatcher and print each reply",
		Args:  cobra.ExactArgs(1),
		Run:   runReplay,
	}
	RootCmd.AddCommand(cmd)
}

func runReplay(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read script", err)
	}
	var script replayScript
	if err := json.Unmarshal(raw, &script); err != nil {
		exitErr("parse script", err)
	}
	family, err := parseFamily(script.Family)
	if err != nil {
		exitErr("replay", err)
	}

	deps, err := loadDeps(cmd)
	if err != nil {
		exitErr("load dependencies", err)
	}
	dispatcher := toolx.NewDispatcher(deps)
	sess := sessionx.New(family, time.Now())

	for i, step := range script.Steps {
		res, err := dispatcher.Invoke(cmd.Context(), sess, step.Tool, step.Args)
		if err != nil {
			exitErr(fmt.Sprintf("step %d (%s)", i+1, step.Tool), err)
		}
		fmt.Printf("[%d] %s (phase=%s)\n%s\n\n", i+1, step.Tool, sess.Phase, res.Reply)
	}
}
