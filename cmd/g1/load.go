package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remexre/g1/internal/facts"
)

// loadDocument is the on-disk shape accepted by `g1 load`: a flat batch of
// facts for each of the five extensional relations.
type loadDocument struct {
	Atoms []facts.Atom `json:"atoms"`
	Names []facts.Name `json:"names"`
	Edges []facts.Edge `json:"edges"`
	Tags  []facts.Tag  `json:"tags"`
	Blobs []facts.Blob `json:"blobs"`
}

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a batch of facts from a JSON file into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var doc loadDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := openEngine(cfg)
		if err != nil {
			return err
		}
		defer eng.Close()

		ctx := cmd.Context()
		store := eng.Store()
		for _, a := range doc.Atoms {
			if err := store.PutAtom(ctx, a); err != nil {
				return err
			}
		}
		for _, n := range doc.Names {
			if err := store.PutName(ctx, n); err != nil {
				return err
			}
		}
		for _, e := range doc.Edges {
			if err := store.PutEdge(ctx, e); err != nil {
				return err
			}
		}
		for _, t := range doc.Tags {
			if err := store.PutTag(ctx, t); err != nil {
				return err
			}
		}
		for _, b := range doc.Blobs {
			if err := store.PutBlob(ctx, b); err != nil {
				return err
			}
		}

		fmt.Printf("loaded %d atoms, %d names, %d edges, %d tags, %d blobs\n",
			len(doc.Atoms), len(doc.Names), len(doc.Edges), len(doc.Tags), len(doc.Blobs))
		return nil
	},
}
