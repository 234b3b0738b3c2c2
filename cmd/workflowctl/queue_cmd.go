package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noah-isme/here-event-os/internal/app"
	"github.com/noah-isme/here-event-os/internal/models"
)

func (c *cli) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Log in and print the session identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, _ *app.Container, session *models.Session) error {
				return writeJSON(cmd.OutOrStdout(), session.Info())
			})
		},
	}
}

func (c *cli) newQueuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queues",
		Short: "List the approval queues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, container *app.Container, _ *models.Session) error {
				return writeJSON(cmd.OutOrStdout(), container.Approvals.Queues())
			})
		},
	}
}

func (c *cli) newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <queue>",
		Short: "List pending requests of a queue (managers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				if err := requireManager(session); err != nil {
					return err
				}
				records, err := container.Approvals.ListPending(ctx, models.QueueName(args[0]))
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), records)
			})
		},
	}
}

func (c *cli) newMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine <queue>",
		Short: "List your own requests of a queue with their decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				records, err := container.Approvals.ListByRequester(ctx, models.QueueName(args[0]), session.DisplayName)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), records)
			})
		},
	}
}

func (c *cli) newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <queue> <position>",
		Short: "Approve the request at a position of the latest pending listing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				if err := container.Approvals.Approve(ctx, session, models.QueueName(args[0]), models.RequestRecord{Position: position}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", args[0], position, models.RequestStatusApproved)
				return nil
			})
		},
	}
}

func (c *cli) newRejectCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "reject <queue> <position>",
		Short: "Reject the request at a position with a manager note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				if err := container.Approvals.Reject(ctx, session, models.QueueName(args[0]), models.RequestRecord{Position: position}, note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", args[0], position, models.RequestStatusRejected)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Reason shown to the requester (required)")
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var (
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export <queue>",
		Short: "Download a queue as csv, xlsx or pdf (managers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				if err := requireManager(session); err != nil {
					return err
				}
				file, err := container.Approvals.Export(ctx, models.QueueName(args[0]), format)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, file.Filename)
				if err := os.WriteFile(path, file.Payload, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv, xlsx or pdf")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the exported file")
	return cmd
}
