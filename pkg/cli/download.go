package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/quiverhq/quiver/pkg/provider"
)

func newDownloadCommand() *Command {
	cmd := &Command{
		Name:        "schema:download",
		Description: "Download the current schema to a local file",
		Flags:       flag.NewFlagSet("schema:download", flag.ExitOnError),
		Run: func(args []string) error {
			return runDownload(os.Stdout, args)
		},
	}

	registerProjectFlags(cmd.Flags)
	cmd.Flags.String("tag", "", "Published schema tag to download (default \"current\")")
	cmd.Flags.String("out", "schema.graphql", "Output path; .json selects introspection output")
	cmd.Flags.Bool("force", false, "Bypass any cached schema")

	return cmd
}

func runDownload(out io.Writer, args []string) error {
	flags := flag.NewFlagSet("schema:download", flag.ContinueOnError)
	pf := registerProjectFlags(flags)
	tag := flags.String("tag", "", "Published schema tag to download")
	outPath := flags.String("out", "schema.graphql", "Output path")
	force := flags.Bool("force", false, "Bypass any cached schema")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := pf.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	schemaProvider, err := provider.ForConfig(cfg, logger)
	if err != nil {
		return err
	}

	doc, err := schemaProvider.ResolveSchema(context.Background(), provider.ResolveOptions{Tag: *tag, Force: *force})
	if err != nil {
		return err
	}

	content, err := schemaFileContent(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*outPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write schema to %s: %w", *outPath, err)
	}

	fmt.Fprintf(out, "Saved schema to %s\n", *outPath)
	return nil
}

// schemaFileContent prefers SDL and falls back to the indented introspection
// result for providers that only have one.
func schemaFileContent(doc *provider.SchemaDocument) ([]byte, error) {
	if doc.Document != "" {
		return []byte(doc.Document), nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, doc.Introspection, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format introspection result: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
