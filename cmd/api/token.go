package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syndic-console/reclamation-service/internal/auth"
	"github.com/syndic-console/reclamation-service/internal/config"
	"github.com/syndic-console/reclamation-service/internal/domain"
)

var tokenFlags struct {
	id        string
	name      string
	role      string
	apartment string
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for local testing",
	Example: `  reclamation-service token --id syn-1 --role SYNDIC
  reclamation-service token --id res-1 --name Salma --role RESIDENT --apartment apt-atlas-1a`,
	RunE: runToken,
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenFlags.id, "id", "", "actor id")
	f.StringVar(&tokenFlags.name, "name", "", "display name")
	f.StringVar(&tokenFlags.role, "role", string(domain.RoleResident), "RESIDENT or SYNDIC")
	f.StringVar(&tokenFlags.apartment, "apartment", "", "apartment id (residents)")
	_ = tokenCmd.MarkFlagRequired("id")
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	actor := domain.Actor{ID: tokenFlags.id, Name: tokenFlags.name, Role: domain.Role(tokenFlags.role)}
	if tokenFlags.apartment != "" {
		actor.ApartmentID = &tokenFlags.apartment
	}
	token, expires, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes).GenerateToken(actor)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
	return nil
}
