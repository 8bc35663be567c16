// Package cli implements ledgerctl, the command line companion of the API.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/oakline/ledger/internal/bootstrap"
	"github.com/spf13/cobra"
)

// Opener builds the ledger services for commands that read data
type Opener func(ctx context.Context) (*bootstrap.App, error)

// NewRootCmd creates the top-level "ledgerctl" command. open is only called
// by commands that need the database.
func NewRootCmd(open Opener, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Furniture business ledger tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSummaryCmd(open),
		newPreviewCmd(),
		newWorkbookCmd(open),
		newSyncCmd(open),
	)
	return root
}

// loaded opens the services and fetches the data into the store
func loaded(ctx context.Context, open Opener) (*bootstrap.App, error) {
	app, err := open(ctx)
	if err != nil {
		return nil, err
	}
	if err := app.Store.Load(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	return app, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
