// Package cli implements the sessionflow commands: inspecting stored
// records, exporting tool surfaces, and replaying scripted sessions.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
	indexx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/index"
	storex "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/store"
	toolx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/tool"
	configx "github.com/shristirwt/ten-days-of-voice-agents-2025/pkg/config"
)

var (
	dataDir     string
	storeDriver string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "sessionflow",
	Short: "Slot-filling session workflow engine",
	Long:  "Drives multi-turn sessions through collection, verification, and finalization, persisting records per workflow family.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "data", "Directory with catalog.json, faq.json, concepts.json, and file-store records")
	RootCmd.PersistentFlags().StringVar(&storeDriver, "store", "file", "Record store driver: file, upstash, or postgres")
}

func openStore(cmd *cobra.Command) (storex.Store, error) {
	switch storeDriver {
	case "file":
		return storex.NewFileStore(dataDir)
	case "upstash":
		cfg, err := configx.New[storex.UpstashConfig]("UPSTASH")
		if err != nil {
			return nil, err
		}
		return storex.NewUpstashStore(*cfg)
	case "postgres":
		cfg, err := configx.New[storex.PostgresConfig]("POSTGRES")
		if err != nil {
			return nil, err
		}
		st := storex.NewBunStore(*cfg)
		if err := st.Init(cmd.Context()); err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", storeDriver)
	}
}

// loadDeps assembles dispatcher dependencies from the data directory. Index
// files are optional; families that need a missing one answer with their
// not-found replies.
func loadDeps(cmd *cobra.Command) (toolx.Deps, error) {
	st, err := openStore(cmd)
	if err != nil {
		return toolx.Deps{}, err
	}
	deps := toolx.Deps{Store: st}

	if catalog, err := indexx.LoadCatalog(filepath.Join(dataDir, "catalog.json")); err == nil {
		deps.Catalog = catalog
	}
	if faq, err := indexx.LoadFAQSet(filepath.Join(dataDir, "faq.json")); err == nil {
		deps.FAQ = faq
	}
	if concepts, err := indexx.LoadConceptLibrary(filepath.Join(dataDir, "concepts.json")); err == nil {
		deps.Concepts = concepts
	}
	return deps, nil
}

func parseFamily(arg string) (contractx.Family, error) {
	for _, family := range contractx.Families() {
		if string(family) == arg {
			return family, nil
		}
	}
	return "", fmt.Errorf("unknown family %q, expected one of %v", arg, contractx.Families())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
