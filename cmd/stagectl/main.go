// Command stagectl valida filas desde CSV, las prepara localmente y las envía como un lote
// al servicio. También emite tokens de servicio y prueba el autocompletado de materiales.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/site-logger/internal/infrastructure/apiclient"
	"github.com/jhoicas/site-logger/pkg/logger"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli estado compartido por los subcomandos.
type cli struct {
	v   *viper.Viper
	log *logger.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &cli{v: viper.New()}
	root := &cobra.Command{
		Use:          "stagectl",
		Short:        "Prepara y envía lotes de inventario y horas de sistema",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if a.v.GetBool("verbose") {
				level = "debug"
			}
			a.log = logger.New(logger.Config{
				Env:     "development",
				Level:   level,
				Service: "stagectl",
				Output:  cmd.ErrOrStderr(),
			})
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("api", "http://localhost:8080", "URL base del servicio (STAGECTL_API)")
	pf.String("token", "", "JWT de servicio (STAGECTL_TOKEN)")
	pf.Duration("timeout", time.Minute, "timeout de cada operación contra el servicio")
	pf.BoolP("verbose", "v", false, "log detallado")
	_ = a.v.BindPFlags(pf)
	a.v.SetEnvPrefix("STAGECTL")
	a.v.AutomaticEnv()

	root.AddCommand(
		a.inventoryCmd(),
		a.hoursCmd(),
		a.suggestCmd(),
		a.tokenCmd(),
		a.catalogCmd(),
	)
	return root
}

func (a *cli) client() *apiclient.Client {
	return apiclient.New(a.v.GetString("api"), a.v.GetString("token"))
}

func (a *cli) opContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.v.GetDuration("timeout"))
}
