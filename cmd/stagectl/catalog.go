package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/site-logger/internal/domain/catalog"
)

func (a *cli) catalogCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Muestra sitios, materiales, unidades y métricas permitidos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := catalog.Default()
			if !offline {
				ctx, cancel := a.opContext(cmd)
				defer cancel()
				remote, err := a.client().Catalog(ctx)
				if err != nil {
					return err
				}
				cat = remote
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cat)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "usar el catálogo embebido sin consultar el servicio")
	return cmd
}
