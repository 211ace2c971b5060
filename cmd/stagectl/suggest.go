package main

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jhoicas/site-logger/internal/application/suggest"
)

func (a *cli) suggestCmd() *cobra.Command {
	var (
		industry string
		debounce = suggest.DefaultDebounce
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Autocompleta materiales; lee un texto parcial por línea desde stdin",
		Long: `Cada línea leída equivale a lo que el usuario lleva escrito. Las consultas se agrupan
con un debounce y solo se muestra la respuesta de la última consulta emitida.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			var mu sync.Mutex
			tr := suggest.NewTracker(a.client(), industry,
				suggest.WithDebounce(debounce),
				suggest.OnResult(func(partial string, s []string) {
					mu.Lock()
					defer mu.Unlock()
					fmt.Fprintf(out, "%s -> [%s]\n", strings.TrimSpace(partial), strings.Join(s, ", "))
				}),
			)
			defer tr.Close()

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				tr.Input(sc.Text())
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("leer stdin: %w", err)
			}
			tr.Wait()
			a.log.Debug().Int("discarded", tr.Discarded()).Msg("respuestas tardías descartadas")
			return nil
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "industria para orientar al modelo (por defecto la del servicio)")
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "espera sin teclear antes de consultar")
	return cmd
}
