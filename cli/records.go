package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "records <family>",
		Short: "Print the stored records of one workflow family",
		Args:  cobra.ExactArgs(1),
		Run:   runRecords,
	}
	RootCmd.AddCommand(cmd)
}

func runRecords(cmd *cobra.Command, args []string) {
	family, err := parseFamily(args[0])
	if err != nil {
		exitErr("records", err)
	}

	st, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}

	records, err := st.ReadAll(cmd.Context(), family)
	if err != nil {
		exitErr("read records", err)
	}

	b, _ := json.MarshalIndent(records, "", "  ")
	fmt.Println(string(b))
}
