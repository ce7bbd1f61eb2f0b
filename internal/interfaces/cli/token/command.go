package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/klarnacheckout/internal/infrastructure/auth"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/config"
	"github.com/orris-inc/klarnacheckout/internal/shared/constants"
)

var (
	env        string
	configPath string
	subject    string
	ttl        time.Duration
)

// NewCommand mints operator tokens for the payment management endpoints.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator access token",
		Long:  `Sign a bearer token with the configured JWT secret for calling the operator endpoints.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Operator identity recorded in logs (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.jwt.token_ttl)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tokenTTL := cfg.Auth.JWT.TokenTTL
	if ttl > 0 {
		tokenTTL = ttl
	}

	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, tokenTTL)
	signed, err := jwtSvc.Generate(subject, auth.RoleOperator)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
