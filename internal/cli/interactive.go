package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/internal/session"
	"github.com/mesh-intelligence/shelf/internal/store"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newInteractiveCmd(o *options) *cobra.Command {
	var (
		load       bool
		exportFile string
	)

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"menu"},
		Short:   "Run the numbered menu",
		Long: `Interactive shows a numbered menu and reads one line per answer.
The session starts with an empty catalog unless --load is given. Menu option 7
writes the catalog in text form to the export file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.storeConfig()
			if err != nil {
				return userError("%s", err)
			}

			c := catalog.New()
			if load {
				s, _, err := o.openStore()
				if err != nil {
					return err
				}
				c = store.LoadOrEmpty(cmd.Context(), s, o.logger)
				s.Close()
			}

			if exportFile == "" {
				exportFile = cfg.DataFile
				if cfg.Backend != types.BackendText {
					exportFile, err = paths.ResolveDataFile("", "", paths.DefaultDataFileName)
					if err != nil {
						return sysError("resolve export file: %s", err)
					}
				}
			}
			exporter := store.NewTextStore(exportFile, o.logger)

			sess := session.New(c, cmd.InOrStdin(), cmd.OutOrStdout(), exporter, exportFile, o.logger)
			o.logger.Info().Str("session", sess.ID).Msg("interactive session")
			if err := sess.Run(cmd.Context()); err != nil {
				return sysError("session: %s", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&load, "load", false, "load the persisted catalog before showing the menu")
	cmd.Flags().StringVar(&exportFile, "export-file", "", "file written by menu option 7 (default: the text data file)")
	return cmd
}
