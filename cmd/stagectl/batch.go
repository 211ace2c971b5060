package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jhoicas/site-logger/internal/application/staging"
	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/application/validation"
	"github.com/jhoicas/site-logger/internal/domain/catalog"
	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/infrastructure/apiclient"
)

type batchOptions struct {
	file      string
	encoding  string
	delimiter string
	notify    bool
	dryRun    bool
	strict    bool
}

func (o *batchOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "CSV con encabezado (- para stdin)")
	f.StringVar(&o.encoding, "encoding", "utf-8", "utf-8 | windows-1252 | iso-8859-1")
	f.StringVar(&o.delimiter, "delimiter", ",", "separador de columnas")
	f.BoolVar(&o.notify, "notify", false, "enviar recibo por correo")
	f.BoolVar(&o.dryRun, "dry-run", false, "validar y listar sin enviar")
	f.BoolVar(&o.strict, "strict", false, "no enviar si alguna fila es inválida")
	_ = cmd.MarkFlagRequired("file")
}

// batchKind lo que distingue a inventario de horas en el flujo común.
type batchKind[T any] struct {
	boundary func(c *apiclient.Client) submission.Boundary[T]
	parse    func(v *validation.Validator, r record) (T, error)
	columns  []string
	describe func(T) []string
}

func (a *cli) inventoryCmd() *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:     "inventory",
		Short:   "Valida, prepara y envía un CSV de inventario",
		Example: "  stagectl inventory --file semana.csv --encoding windows-1252 --notify",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, opts, batchKind[entity.InventoryEntry]{
				boundary: (*apiclient.Client).InventoryBoundary,
				parse: func(v *validation.Validator, r record) (entity.InventoryEntry, error) {
					return v.Inventory(r.inventoryForm())
				},
				columns: []string{"SITIO", "SEMANA", "MATERIAL", "CANTIDAD", "UNIDAD"},
				describe: func(e entity.InventoryEntry) []string {
					return []string{e.Location, e.WeekEnding.Format(time.DateOnly), e.Material, e.Quantity.String(), e.Unit}
				},
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *cli) hoursCmd() *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:     "hours",
		Short:   "Valida, prepara y envía un CSV de horas de sistema",
		Example: "  stagectl hours --file horas.csv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, opts, batchKind[entity.HoursEntry]{
				boundary: (*apiclient.Client).HoursBoundary,
				parse: func(v *validation.Validator, r record) (entity.HoursEntry, error) {
					return v.Hours(r.hoursForm())
				},
				columns: []string{"SITIO", "FECHA", "MÉTRICA", "HORAS"},
				describe: func(e entity.HoursEntry) []string {
					return []string{e.Location, e.Date.Format(time.DateOnly), e.Metric, e.Hours.String()}
				},
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func runBatch[T any](cmd *cobra.Command, a *cli, opts batchOptions, kind batchKind[T]) error {
	delim, size := utf8.DecodeRuneInString(opts.delimiter)
	if size == 0 || size != len(opts.delimiter) {
		return fmt.Errorf("separador inválido: %q", opts.delimiter)
	}
	records, err := readInput(cmd, opts.file, opts.encoding, delim)
	if err != nil {
		return err
	}

	ctx, cancel := a.opContext(cmd)
	defer cancel()

	client := a.client()
	me, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("identidad: %w", err)
	}
	a.log.Debug().Str("email", me.Email).Str("provider", me.Provider).Msg("identidad resuelta")

	session := submission.NewSession(me.Email, kind.boundary(client))
	defer session.Close()

	invalid := stageRecords(cmd.ErrOrStderr(), a.catalog(ctx, client), records, kind.parse, session)

	snap := session.Snapshot()
	printStaged(cmd.OutOrStdout(), kind.columns, snap.Items, kind.describe)
	fmt.Fprintf(cmd.OutOrStdout(), "%d filas preparadas, %d inválidas\n", len(snap.Items), invalid)

	switch {
	case len(snap.Items) == 0:
		return errors.New("no hay filas válidas para enviar")
	case opts.strict && invalid > 0:
		return fmt.Errorf("%d filas inválidas; nada se envió", invalid)
	case opts.dryRun:
		return nil
	}

	receipt, err := session.Submit(ctx, submission.WithNotify(opts.notify))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "nada se guardó; %d filas siguen preparadas\n", len(session.Snapshot().Items))
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "lote %s: %d filas guardadas (%s UTC)\n",
		receipt.BatchID, receipt.Count, receipt.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	return nil
}

// stageRecords valida cada fila y prepara las válidas. Devuelve cuántas se descartaron.
func stageRecords[T any](errOut io.Writer, cat *catalog.Catalog, records []record,
	parse func(*validation.Validator, record) (T, error), session *submission.Session[T],
) int {
	v := validation.New(cat)
	invalid := 0
	for _, rec := range records {
		entry, err := parse(v, rec)
		if err == nil {
			_, err = session.Stage(entry)
		}
		if err != nil {
			invalid++
			fmt.Fprintf(errOut, "línea %d: %v\n", rec.line, err)
		}
	}
	return invalid
}

// catalog usa el catálogo del servicio; si no responde, el embebido.
func (a *cli) catalog(ctx context.Context, client *apiclient.Client) *catalog.Catalog {
	cat, err := client.Catalog(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("catálogo del servicio no disponible, se usa el embebido")
		return catalog.Default()
	}
	return cat
}

func readInput(cmd *cobra.Command, path, enc string, delim rune) ([]record, error) {
	if path == "-" {
		return readRecords(cmd.InOrStdin(), enc, delim)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	return readRecords(f, enc, delim)
}

func printStaged[T any](w io.Writer, columns []string, items []staging.Item[T], describe func(T) []string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\t"+strings.Join(columns, "\t"))
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, strings.Join(describe(it.Entry), "\t"))
	}
	_ = tw.Flush()
}
