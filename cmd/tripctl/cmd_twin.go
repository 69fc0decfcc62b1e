package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roadtrip/internal/backendtwin"
)

var twinFlags struct {
	addr     string
	envelope string
	idField  string
	create   string
	noNull   bool
}

var twinCmd = &cobra.Command{
	Use:   "twin",
	Short: "Serve the in-memory backend twin",
	Long: `Serve an in-memory stand-in for the roadtrip backend until interrupted.

Point other tripctl invocations at it with --api-url. The twin forgets all
accounts and data when it stops.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := backendtwin.DefaultBehavior()
		if twinFlags.envelope != "" {
			b.ChecklistEnvelope = twinFlags.envelope
		}
		if twinFlags.idField != "" {
			b.ChecklistIDField = twinFlags.idField
		}
		if twinFlags.create != "" {
			b.Create = backendtwin.CreateResponse(twinFlags.create)
		}
		b.NullWhenEmpty = !twinFlags.noNull

		srv, err := backendtwin.Start(twinFlags.addr, backendtwin.Options{Behavior: b})
		if err != nil {
			return err
		}
		logger.Info("backend twin listening", zap.String("url", srv.URL))
		fmt.Fprintln(cmd.OutOrStdout(), srv.URL)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Close(shutdownCtx)
	},
}

func init() {
	twinCmd.Flags().StringVar(&twinFlags.addr, "addr", "127.0.0.1:8000", "Listen address")
	twinCmd.Flags().StringVar(&twinFlags.envelope, "envelope", "", "Checklist envelope: checklistElements, elements, items or array")
	twinCmd.Flags().StringVar(&twinFlags.idField, "id-field", "", "Identifier key of listed checklist elements")
	twinCmd.Flags().StringVar(&twinFlags.create, "create", "", "Create response: entity, id or empty")
	twinCmd.Flags().BoolVar(&twinFlags.noNull, "no-null", false, "Render empty collections as [] instead of null")
}
