package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/internal/store"
)

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.loadCatalog(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.JSON())
			return nil
		},
	}
}

func newTableCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the catalog as a fixed-width table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.loadCatalog(cmd)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), c.Table())
			return nil
		},
	}
}

func newSearchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <id>",
		Short: "Print one book as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := o.loadCatalog(cmd)
			if err != nil {
				return err
			}
			b, err := c.Get(id)
			if err != nil {
				return userError("%s", describe(err, id))
			}
			fmt.Fprintln(cmd.OutOrStdout(), catalog.BookJSON(*b))
			return nil
		},
	}
}

// loadCatalog opens the store and reads the catalog. A read failure is
// logged and yields an empty catalog.
func (o *options) loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	s, _, err := o.openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return store.LoadOrEmpty(cmd.Context(), s, o.logger), nil
}
