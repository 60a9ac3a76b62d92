package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

//nolint:gochecknoglobals // Cobra boilerplate
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is up",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) (err error) {
	var rt session
	rt, err = newSession()
	if err != nil {
		return err
	}
	defer rt.close()

	var health portfolio.Health
	health, err = rt.service.HealthCheck(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("status:   %s\n", health.Status)
	if health.Database != "" {
		fmt.Printf("database: %s\n", health.Database)
	}
	if health.Message != "" {
		fmt.Printf("message:  %s\n", health.Message)
	}
	if health.Error != "" {
		fmt.Printf("error:    %s\n", health.Error)
	}

	if !health.Healthy() {
		err = errors.Errorf("backend reports %s", health.Status)
		return err
	}

	return err
}
