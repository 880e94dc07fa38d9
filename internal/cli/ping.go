package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/hydrakit/component"
	"github.com/kbukum/hydrakit/hydra"
	"github.com/kbukum/hydrakit/version"
)

type pingReport struct {
	Status     component.HealthStatus  `json:"status" yaml:"status"`
	Components []component.Description `json:"components" yaml:"components"`
	Health     []component.Health      `json:"health" yaml:"health"`
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the API entrypoint answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := component.NewRegistry(a.log)
			if err := reg.Register(hydra.NewComponent(a.client, "api")); err != nil {
				return err
			}
			if err := reg.StartAll(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = reg.StopAll(cmd.Context()) }()

			healths := reg.HealthAll(cmd.Context())
			report := pingReport{
				Status:     component.Overall(healths),
				Components: reg.Describe(),
				Health:     healths,
			}
			if err := a.print(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Status == component.StatusUnhealthy {
				return fmt.Errorf("api is %s", report.Status)
			}
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.print(cmd.OutOrStdout(), version.Get())
		},
	}
}
