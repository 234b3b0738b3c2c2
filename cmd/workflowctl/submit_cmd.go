package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/noah-isme/here-event-os/internal/app"
	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
)

func (c *cli) newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a leave, advance or purchase request",
	}
	cmd.AddCommand(c.newSubmitLeaveCmd(), c.newSubmitAdvanceCmd(), c.newSubmitPurchaseCmd())
	return cmd
}

func (c *cli) newSubmitLeaveCmd() *cobra.Command {
	var req dto.LeaveRequest
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Request leave between two dates (inclusive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				res, err := container.Submissions.SubmitLeave(ctx, session, req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&req.StartDate, "start", "", "First day, "+dto.DateLayout)
	cmd.Flags().StringVar(&req.EndDate, "end", "", "Last day, "+dto.DateLayout)
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Reason")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (c *cli) newSubmitAdvanceCmd() *cobra.Command {
	var (
		amount string
		reason string
	)
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Request a cash advance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				res, err := container.Submissions.SubmitAdvance(ctx, session, dto.AdvanceRequest{Amount: value, Reason: reason})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 1250.50")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (c *cli) newSubmitPurchaseCmd() *cobra.Command {
	var (
		req  dto.PurchaseRequest
		cost string
	)
	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Request a purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(cost)
			if err != nil {
				return fmt.Errorf("invalid --cost %q: %w", cost, err)
			}
			req.EstimatedCost = value
			return c.run(cmd, func(ctx context.Context, container *app.Container, session *models.Session) error {
				res, err := container.Submissions.SubmitPurchase(ctx, session, req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&req.Item, "item", "", "Item to buy")
	cmd.Flags().IntVar(&req.Quantity, "quantity", 1, "Quantity")
	cmd.Flags().StringVar(&cost, "cost", "0", "Estimated total cost")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Reason")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
