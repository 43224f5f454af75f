package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/quiverhq/quiver/pkg/provider"
	"github.com/quiverhq/quiver/pkg/registry"
	"github.com/quiverhq/quiver/pkg/vcs"
)

func newPushCommand() *Command {
	cmd := &Command{
		Name:        "service:push",
		Description: "Publish the current schema to the registry",
		Flags:       flag.NewFlagSet("service:push", flag.ExitOnError),
		Run: func(args []string) error {
			return runPush(os.Stdout, args)
		},
	}

	registerProjectFlags(cmd.Flags)
	cmd.Flags.String("tag", "", "Tag to publish under (default \"current\")")

	return cmd
}

func runPush(out io.Writer, args []string) error {
	flags := flag.NewFlagSet("service:push", flag.ContinueOnError)
	pf := registerProjectFlags(flags)
	tag := flags.String("tag", "", "Tag to publish under")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := pf.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := context.Background()

	schemaProvider, err := provider.ForConfig(cfg, logger)
	if err != nil {
		return err
	}

	doc, err := schemaProvider.ResolveSchema(ctx, provider.ResolveOptions{})
	if err != nil {
		return err
	}

	serviceID, embeddedTag, err := cfg.ServiceID()
	if err != nil {
		return err
	}
	pushTag := *tag
	if pushTag == "" {
		pushTag = embeddedTag
	}
	pushTag = cfg.Tag(pushTag)

	gitContext := vcs.Collect(".")

	client, err := registry.NewClient(cfg.RegistryURL, cfg.APIKey, logger)
	if err != nil {
		return err
	}

	result, err := client.PublishSchema(ctx, serviceID, pushTag, doc.Payload(), gitContext)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Published schema for %s to tag %s (hash %s)\n", serviceID, result.Tag, result.Hash)
	return nil
}
