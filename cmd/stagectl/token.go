package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/site-logger/pkg/config"
	"github.com/jhoicas/site-logger/pkg/jwt"
)

func (a *cli) tokenCmd() *cobra.Command {
	var (
		email   string
		name    string
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de servicio firmado con JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET no configurado")
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, email, name, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			a.log.Debug().Str("email", email).Int("minutes", minutes).Msg("token emitido")
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email al que se atribuyen los lotes")
	cmd.Flags().StringVar(&name, "name", "", "nombre visible")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
