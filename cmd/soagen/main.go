// Command soagen generates column models from shape files and inspects the
// Parquet datasets they write.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/codegen"
	"github.com/ajitpratap0/soa/pkg/config"
	"github.com/ajitpratap0/soa/pkg/logger"
	"github.com/ajitpratap0/soa/pkg/observability"
	"github.com/ajitpratap0/soa/pkg/persistence"
	"github.com/ajitpratap0/soa/pkg/schema"
)

var version = "0.1.0"

// app carries state shared by the subcommands.
type app struct {
	configFile string
	logLevel   string

	cfg      *config.Config
	shutdown observability.ShutdownFunc
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "soagen",
		Short: "soagen - structure-of-arrays code generator",
		Long: `soagen turns a YAML shape file into a Go column model with views,
copy-on-write and sharded stores, and an Arrow codec for persistence.`,
		SilenceUsage:       true,
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.teardown(cmd.Context()) },
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	root.AddCommand(
		a.generateCommand(),
		a.inspectCommand(),
		versionCommand(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.Logging.Development,
	}); err != nil {
		return err
	}

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "soagen",
		ServiceVersion: version,
		Exporter:       cfg.Tracing.Exporter,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			return err
		}
	}
	_ = logger.Sync()
	return nil
}

func (a *app) generateCommand() *cobra.Command {
	var schemaFile, outFile string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a column model from a shape file",
		Long: `Generate reads a shape file and writes the Go source of its column model.

Example:
  soagen generate --schema order.soa.yaml --out order_soa.go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd.OutOrStdout(), schemaFile, outFile)
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "Path to the shape file (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file; stdout if empty")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (a *app) generate(stdout io.Writer, schemaFile, outFile string) error {
	log := logger.With(zap.String("schema", schemaFile))

	shape, err := schema.Load(schemaFile, schema.Options{
		DefaultKey:    a.cfg.Generator.DefaultKey,
		DefaultShards: a.cfg.Generator.DefaultShards,
	})
	if err != nil {
		return err
	}

	src, err := codegen.Generate(shape, codegen.Options{Source: filepath.Base(schemaFile)})
	if err != nil {
		return err
	}

	if outFile == "" {
		_, err := stdout.Write(src)
		return err
	}
	if err := os.WriteFile(outFile, src, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}

	log.Info("column model generated",
		zap.String("record", shape.Record),
		zap.Int("fields", len(shape.Fields)),
		zap.String("out", outFile))
	return nil
}

// datasetInfo is the JSON document printed by inspect.
type datasetInfo struct {
	Path     string            `json:"path"`
	Rows     int64             `json:"rows"`
	Record   string            `json:"record,omitempty"`
	Fields   []fieldInfo       `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type fieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Enum     string `json:"enum,omitempty"`
	Variants string `json:"variants,omitempty"`
}

func (a *app) inspectCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the row count and schema of a Parquet dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Storage.Dir
			}
			return a.inspect(cmd.Context(), cmd.OutOrStdout(), dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Dataset directory; storage.dir if empty")
	return cmd
}

func (a *app) inspect(ctx context.Context, stdout io.Writer, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("no dataset in %s: %w", dir, err)
	}

	p, err := persistence.NewParquetPersistence[arrow.Record](dir, persistence.NewRawCodec(nil),
		persistence.WithLogger(logger.Get()))
	if err != nil {
		return err
	}

	sc, found, err := p.Schema(ctx)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no dataset in %s", dir)
	}
	rows, err := p.Count(ctx)
	if err != nil {
		return err
	}

	info := datasetInfo{Path: p.Path(), Rows: rows, Metadata: metadataMap(sc.Metadata())}
	info.Record = info.Metadata[persistence.MetadataRecord]
	for _, f := range sc.Fields() {
		md := metadataMap(f.Metadata)
		info.Fields = append(info.Fields, fieldInfo{
			Name:     f.Name,
			Type:     f.Type.String(),
			Nullable: f.Nullable,
			Enum:     md[persistence.MetadataEnum],
			Variants: md[persistence.MetadataVariants],
		})
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

func metadataMap(md arrow.Metadata) map[string]string {
	if md.Len() == 0 {
		return nil
	}
	out := make(map[string]string, md.Len())
	for i, k := range md.Keys() {
		out[k] = md.Values()[i]
	}
	return out
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "soagen v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
