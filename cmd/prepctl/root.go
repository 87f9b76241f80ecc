package main

import (
	"context"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mockprep/platform/internal/store"
)

// Connector opens the store a command works on.
type Connector func(ctx context.Context) (store.Store, error)

func newRootCmd(connect Connector, logger *zap.Logger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	root := &cobra.Command{
		Use:           "prepctl",
		Short:         "Administer the mock interview platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPromoteCmd(connect),
		newAnomaliesCmd(connect, logger),
		newReconcileCmd(connect, logger),
		newSeedInterviewCmd(connect),
	)
	return root
}

// withStore opens the store for the duration of fn.
func withStore(cmd *cobra.Command, connect Connector, fn func(ctx context.Context, s store.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func newTable(out io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}
