package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"imgpath/config"
	"imgpath/optimize"
	"imgpath/sidecar"
	"imgpath/state"
	"imgpath/utils/debug"
	"imgpath/variant"
)

// resolveReferences prints ranked variant sets for references given on
// command line, nothing is written.
func resolveReferences(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no image references have been specified")
	}

	project, err := filepath.Abs(cmd.String("project"))
	if err != nil {
		return err
	}
	root, err := optimize.AssetRoot(project, env.Cfg)
	if err != nil {
		return err
	}

	out, err := describeReferences(root, env.Cfg, cmd.Args().Slice(), env.Log)
	if err != nil {
		return err
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("resolve.txt", []byte(out))
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

// describeReferences renders resolution tree for refs. Resolver names its own
// logger, so it gets base one.
func describeReferences(root string, cfg *config.Config, refs []string, base *zap.Logger) (string, error) {
	if base == nil {
		base = zap.NewNop()
	}
	log := base.Named("resolve")

	resolver, err := variant.NewResolver(root, base,
		variant.WithTraceBack(cfg.Engine.TraceBack),
		variant.WithVerification(cfg.Engine.VerifyVariants))
	if err != nil {
		return "", fmt.Errorf("unable to prepare resolver: %w", err)
	}

	tw := debug.NewTreeWriter()
	tw.Field(0, "root", root)
	for _, ref := range refs {
		ranked := variant.Rank(resolver.Resolve(ref), ref)
		if ranked.Empty() {
			log.Debug("Reference was not resolved", zap.String("ref", ref))
		}
		tw.Ranked(1, ranked, sidecar.Key)
	}
	return tw.String(), nil
}
