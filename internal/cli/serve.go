package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/server"
)

const shutdownGrace = 5 * time.Second

func newServeCmd(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Serve exposes the catalog as a REST API:

  GET    /api/books              list all books
  POST   /api/books              add {id,title,author,category,totalCopies}
  DELETE /api/books/:id          delete a book
  POST   /api/books/:id/issue    issue one copy
  POST   /api/books/:id/return   return one copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := o.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(s, o.logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			o.logger.Info().Str("addr", addr).Str("backend", cfg.Backend).Str("data_file", cfg.DataFile).Msg("server listening")
			fmt.Fprintf(cmd.OutOrStdout(), "Server running on %s\n", addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return sysError("serve: %s", err)
				}
				return nil
			case <-ctx.Done():
			}

			o.logger.Warn().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return sysError("shutdown: %s", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	return cmd
}
