package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/here-event-os/internal/app"
	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/pkg/config"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/logger"
)

// envFactory builds the service container for one command run.
type envFactory func(ctx context.Context, verbose bool) (*app.Container, error)

func defaultEnv(ctx context.Context, verbose bool) (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg, logger.NewCLI(cfg, verbose))
}

type globalFlags struct {
	username string
	password string
	verbose  bool
}

// cli carries what every subcommand needs: the container and the logged-in session.
type cli struct {
	flags   *globalFlags
	factory envFactory
}

func newRootCmd(factory envFactory) *cobra.Command {
	c := &cli{flags: &globalFlags{}, factory: factory}
	cmd := &cobra.Command{
		Use:           "workflowctl",
		Short:         "Operate Here Event approval queues from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&c.flags.username, "username", "u", os.Getenv("WORKFLOWCTL_USERNAME"), "Login name (env WORKFLOWCTL_USERNAME)")
	cmd.PersistentFlags().StringVarP(&c.flags.password, "password", "p", os.Getenv("WORKFLOWCTL_PASSWORD"), "Password (env WORKFLOWCTL_PASSWORD)")
	cmd.PersistentFlags().BoolVarP(&c.flags.verbose, "verbose", "v", false, "Debug logging on stderr")

	cmd.AddCommand(
		c.newWhoamiCmd(),
		c.newQueuesCmd(),
		c.newPendingCmd(),
		c.newMineCmd(),
		c.newApproveCmd(),
		c.newRejectCmd(),
		c.newSubmitCmd(),
		c.newExportCmd(),
	)
	return cmd
}

// run opens the container, logs in and hands both to fn. The session is closed afterwards.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, container *app.Container, session *models.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(c.flags.username) == "" {
		return errors.New("--username is required")
	}
	container, err := c.factory(ctx, c.flags.verbose)
	if err != nil {
		return err
	}
	defer container.Close()

	_, session, err := container.Auth.Login(ctx, models.LoginRequest{Username: c.flags.username, Password: c.flags.password})
	if err != nil {
		return describe(err)
	}
	defer container.Auth.Logout(ctx, session.ID) //nolint:errcheck

	return describe(fn(ctx, container, session))
}

func requireManager(session *models.Session) error {
	if !session.IsManager() {
		return appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}
	return nil
}

func parsePosition(raw string) (int, error) {
	position, err := strconv.Atoi(raw)
	if err != nil || position < 1 {
		return 0, fmt.Errorf("position must be a positive row number, got %q", raw)
	}
	return position, nil
}

// describe flattens application errors into "CODE: message" for terminal output.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return fmt.Errorf("%s: %s", appErr.Code, appErr.Message)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
