package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	toolx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/tool"
	llmtoolx "github.com/shristirwt/ten-days-of-voice-agents-2025/pkg/llmtool"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tools <family>",
		Short: "Print the tool surface of one workflow family",
		Args:  cobra.ExactArgs(1),
		Run:   runTools,
	}
	cmd.Flags().Bool("openai", false, "Emit OpenAI function-calling JSON instead of plain text")
	RootCmd.AddCommand(cmd)
}

func runTools(cmd *cobra.Command, args []string) {
	family, err := parseFamily(args[0])
	if err != nil {
		exitErr("tools", err)
	}

	dispatcher := toolx.NewDispatcher(toolx.Deps{})
	specs := dispatcher.Specs(family)

	if asOpenAI, _ := cmd.Flags().GetBool("openai"); asOpenAI {
		b, err := json.MarshalIndent(llmtoolx.ChatTools(specs), "", "  ")
		if err != nil {
			exitErr("marshal tools", err)
		}
		fmt.Println(string(b))
		return
	}

	for _, spec := range specs {
		fmt.Printf("%s: %s\n", spec.Name, spec.Desc)
		for _, p := range spec.Params {
			required := ""
			if p.Required {
				required = " (required)"
			}
			fmt.Printf("    %s %s%s: %s\n", p.Name, p.Type, required, p.Desc)
		}
	}
}
