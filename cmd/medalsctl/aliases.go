package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/medals/internal/domain/alias"
)

func newAliasesCmd(root *rootOptions) *cobra.Command {
	var (
		file string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Validate a country alias table",
		Long: `aliases checks an alias table for empty entries and for aliases that fold
to the same key while naming different countries. Without --file it checks
alias_path, or the embedded table when that is unset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = root.cfg.AliasPath
			}

			t := alias.Default()
			source := "embedded"
			if file != "" {
				var err error
				if t, err = alias.LoadFile(file); err != nil {
					return err
				}
				source = file
			}
			if err := t.Validate(); err != nil {
				return fmt.Errorf("alias table %s: %w", source, err)
			}

			w := cmd.OutOrStdout()
			if list {
				for _, e := range t.Entries() {
					fmt.Fprintf(w, "%s\t%s\n", e.Alias, e.Country)
				}
			}
			fmt.Fprintf(w, "alias table %s: version %d, %d entries, ok\n", source, t.Version(), t.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "alias YAML file (default alias_path or the embedded table)")
	cmd.Flags().BoolVar(&list, "list", false, "print every alias and its country")
	return cmd
}
