package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/internal/store"
)

func newAddCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <title> <author> <category> <totalCopies>",
		Short: "Add a book and print the catalog",
		Long: `Add inserts a book in ID order with every copy available.
Title, author and category longer than 99, 99 and 49 characters are truncated.

Example:
  shelf add 3 "The Hobbit" Tolkien Fantasy 2`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			total, err := parseCopies(args[4])
			if err != nil {
				return err
			}
			return o.mutate(cmd, id, func(c *catalog.Catalog) error {
				return c.Insert(id, args[1], args[2], args[3], total)
			})
		},
	}
}

func newDeleteCmd(o *options) *cobra.Command {
	return newIDCmd(o, "delete", "Delete a book and print the catalog", (*catalog.Catalog).Remove)
}

func newIssueCmd(o *options) *cobra.Command {
	return newIDCmd(o, "issue", "Issue one copy of a book and print the catalog", (*catalog.Catalog).Issue)
}

func newReturnCmd(o *options) *cobra.Command {
	return newIDCmd(o, "return", "Return one copy of a book and print the catalog", (*catalog.Catalog).Return)
}

// newIDCmd builds a command taking a single book ID and applying op.
func newIDCmd(o *options, use, short string, op func(*catalog.Catalog, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return o.mutate(cmd, id, func(c *catalog.Catalog) error {
				return op(c, id)
			})
		},
	}
}

// mutate loads the catalog, applies fn, saves, and prints the resulting
// catalog as JSON. A rejected mutation is reported on stderr, the unchanged
// catalog is still printed, and nothing is saved.
// A failed save is logged, the catalog is still printed, and the exit
// code is exitSysError.
func (o *options) mutate(cmd *cobra.Command, id int, fn func(*catalog.Catalog) error) error {
	s, cfg, err := o.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := store.Apply(cmd.Context(), s, o.logger, fn)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrSave):
		o.logger.Error().Err(err).Str("data_file", cfg.DataFile).Msg("could not persist catalog")
		fmt.Fprintln(cmd.OutOrStdout(), c.JSON())
		return sysError("Error writing %s", cfg.DataFile)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), c.JSON())
		return userError("%s", describe(err, id))
	}

	o.logger.Info().Int("id", id).Msg("catalog updated")
	fmt.Fprintln(cmd.OutOrStdout(), c.JSON())
	return nil
}
