package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/quiverhq/quiver/pkg/provider"
	"github.com/quiverhq/quiver/pkg/registry"
	"github.com/quiverhq/quiver/pkg/render"
	"github.com/quiverhq/quiver/pkg/validation"
	"github.com/quiverhq/quiver/pkg/vcs"
)

func newCheckCommand() *Command {
	cmd := &Command{
		Name:        "service:check",
		Description: "Check a schema against recorded client usage in the registry",
		Flags:       flag.NewFlagSet("service:check", flag.ExitOnError),
		Run: func(args []string) error {
			return runCheck(os.Stdout, args)
		},
	}

	registerProjectFlags(cmd.Flags)
	cmd.Flags.String("tag", "", "Published schema tag to check against (default \"current\")")
	cmd.Flags.String("validationPeriod", "1", "Usage window: days or an ISO-8601 duration such as P1D")
	cmd.Flags.Float64("queryCountThreshold", 1, "Minimum request count for an operation to matter")
	cmd.Flags.Float64("queryCountThresholdPercentage", 0, "Minimum percent of total traffic for an operation to matter")
	cmd.Flags.Bool("no-color", false, "Disable colored output")

	return cmd
}

func runCheck(out io.Writer, args []string) error {
	flags := flag.NewFlagSet("service:check", flag.ContinueOnError)
	pf := registerProjectFlags(flags)
	tag := flags.String("tag", "", "Published schema tag to check against")
	validationPeriod := flags.String("validationPeriod", "1", "Usage window: days or an ISO-8601 duration")
	queryCountThreshold := flags.Float64("queryCountThreshold", 1, "Minimum request count for an operation to matter")
	queryCountThresholdPercentage := flags.Float64("queryCountThresholdPercentage", 0, "Minimum percent of total traffic for an operation to matter")
	noColor := flags.Bool("no-color", false, "Disable colored output")

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

	doc, err := schemaProvider.ResolveSchema(ctx, provider.ResolveOptions{Tag: *tag})
	if err != nil {
		return err
	}

	// best effort; an unversioned working copy never blocks the check
	gitContext := vcs.Collect(".")

	params, err := validation.HistoricParameters(*validationPeriod, *queryCountThreshold, *queryCountThresholdPercentage)
	if err != nil {
		return err
	}

	serviceID, embeddedTag, err := cfg.ServiceID()
	if err != nil {
		return err
	}
	checkTag := *tag
	if checkTag == "" {
		checkTag = embeddedTag
	}
	checkTag = cfg.Tag(checkTag)

	client, err := registry.NewClient(cfg.RegistryURL, cfg.APIKey, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Validating %s@%s against traffic from the last %s...\n\n", serviceID, checkTag, *validationPeriod)

	result, err := client.CheckSchema(ctx, registry.CheckSchemaInput{
		ServiceID:          serviceID,
		Schema:             doc.Payload(),
		Tag:                checkTag,
		GitContext:         gitContext,
		Frontend:           cfg.Frontend,
		HistoricParameters: params,
	})
	if err != nil {
		return err
	}

	opts := &render.Options{NoColor: *noColor}
	diff := result.DiffToPrevious
	if len(diff.Changes) == 0 {
		render.NoChanges(out, opts)
		return nil
	}

	render.Changes(out, diff.Changes, opts)
	if result.TargetURL != "" {
		fmt.Fprintf(out, "\nView full details at: %s\n", result.TargetURL)
	}

	if failures := diff.Failures(); failures > 0 {
		return fmt.Errorf("%d breaking change(s) found", failures)
	}
	return nil
}
