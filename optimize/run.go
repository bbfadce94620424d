// Package optimize walks a project, points image references in web sources to
// the lightest existing variant and records what was found.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rupor-github/gencfg"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"imgpath/config"
	"imgpath/markup"
	"imgpath/misc"
	"imgpath/sidecar"
	"imgpath/state"
	"imgpath/variant"
)

// Options are run modifiers which are not part of configuration.
type Options struct {
	// DryRun computes everything but writes nothing.
	DryRun bool
	// Strict turns empty runs and per file failures into run error.
	Strict bool
}

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Named("optimize")

	project := cmd.Args().Get(0)
	if len(project) == 0 {
		project = "."
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many projects", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	if err := applyOverrides(cmd, env.Cfg, log); err != nil {
		return err
	}
	env.DryRun, env.Strict, env.Summary = cmd.Bool("dry-run"), cmd.Bool("strict"), cmd.Bool("summary")

	log.Info("Processing starting", zap.String("project", project), zap.Bool("dry_run", env.DryRun))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	summary, err := Optimize(ctx, project, env.Cfg, Options{DryRun: env.DryRun, Strict: env.Strict}, env.Rpt, log)
	if summary != nil {
		summary.Log(log)
		if env.Summary {
			fmt.Fprintln(os.Stdout, summary.Table())
		}
	}
	return err
}

// applyOverrides superimposes command line flags on loaded configuration.
func applyOverrides(cmd *cli.Command, cfg *config.Config, log *zap.Logger) error {
	if cmd.IsSet("sources") {
		set, err := config.ParseSourceSet(cmd.String("sources"))
		if err != nil {
			log.Warn("Unknown source set requested, keeping configured one", zap.Stringer("sources", cfg.Project.Sources), zap.Error(err))
		} else {
			cfg.Project.Sources = set
		}
	}
	if cmd.IsSet("ext") {
		cfg.Project.Extensions = cmd.StringSlice("ext")
	}
	if cmd.IsSet("inline") {
		cfg.Annotate.Inline = cmd.Bool("inline")
	}
	if cmd.IsSet("sidecar") {
		cfg.Annotate.Sidecar = cmd.Bool("sidecar")
	}
	if cmd.IsSet("embed-hash") {
		cfg.Annotate.EmbedHash = cmd.Bool("embed-hash")
	}
	if cmd.IsSet("workers") {
		cfg.Engine.Workers = cmd.Int("workers")
	}
	if err := gencfg.Validate(cfg); err != nil {
		return fmt.Errorf("invalid command line overrides: %w", err)
	}
	return nil
}

// Optimize processes project independently of CLI framework. Summary is
// returned whenever processing started, even with an error.
func Optimize(ctx context.Context, project string, cfg *config.Config, opts Options, rpt *config.Report, log *zap.Logger) (summary *Summary, err error) {
	if log == nil {
		log = zap.NewNop()
	}

	project, err = filepath.Abs(project)
	if err != nil {
		return nil, err
	}
	root, err := AssetRoot(project, cfg)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate run id: %w", err)
	}
	log = log.With(zap.Stringer("run", id))

	lock := flock.New(lockPath(root))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("unable to acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is in progress for %s (lock %s)", root, lock.Path())
	}
	defer func() {
		if er := lock.Unlock(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to release run lock: %w", er))
		}
	}()

	summary = &Summary{RunID: id.String(), Root: root, DryRun: opts.DryRun}
	defer func(start time.Time) {
		summary.Elapsed = time.Since(start)
	}(time.Now())

	resolver, err := variant.NewResolver(root, log,
		variant.WithTraceBack(cfg.Engine.TraceBack),
		variant.WithVerification(cfg.Engine.VerifyVariants))
	if err != nil {
		return summary, fmt.Errorf("unable to prepare resolver: %w", err)
	}

	annotation := markup.Annotation{
		Inline:    cfg.Annotate.Inline,
		Sidecar:   cfg.Annotate.Sidecar,
		EmbedHash: cfg.Annotate.EmbedHash,
	}
	if annotation.EmbedHash && !(annotation.Inline && annotation.Sidecar) {
		log.Debug("Hash embedding requires both inline and sidecar annotation, ignoring")
	}

	p := &processor{
		engine: markup.NewEngine(annotation,
			func(ref string) variant.Ranked { return variant.Rank(resolver.Resolve(ref), ref) },
			sidecar.Key),
		layout:  markup.Layout{TagIndent: cfg.Annotate.TagIndent, BlockIndent: cfg.Annotate.BlockIndent},
		sidecar: annotation.Sidecar,
		dryRun:  opts.DryRun,
		rpt:     rpt,
		log:     log,
	}

	sources, err := discover(ctx, root, cfg.SourceExtensions(), cfg.Project.ExcludeDirs, log)
	if err != nil {
		return summary, fmt.Errorf("unable to discover sources: %w", err)
	}
	summary.Found = len(sources)
	if len(sources) == 0 {
		log.Warn("Nothing to process", zap.String("root", root), zap.Strings("extensions", cfg.SourceExtensions()))
		if opts.Strict {
			return summary, errors.New("no source files found")
		}
		return summary, nil
	}
	log.Debug("Sources discovered", zap.Int("count", len(sources)), zap.Int("workers", cfg.Engine.Workers))

	results := make([]fileResult, len(sources))
	g := new(errgroup.Group)
	g.SetLimit(cfg.Engine.Workers)
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = p.processFile(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	// merging in discovery order keeps last write wins deterministic
	run := sidecar.NewSink()
	for i, r := range results {
		if len(r.rel) == 0 {
			// never scheduled
			r.rel, r.status, r.err = sources[i].rel, statusFailed, context.Canceled
		}
		summary.add(r)
		run.Merge(r.sink)
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if annotation.Sidecar {
		err = multierr.Append(err, flushSidecar(run, project, root, cfg, opts, rpt, summary, log))
	}
	if opts.Strict && summary.Failed > 0 {
		err = multierr.Append(err, fmt.Errorf("%d of %d files failed", summary.Failed, summary.Found))
	}
	return summary, err
}

func flushSidecar(run *sidecar.Sink, project, root string, cfg *config.Config, opts Options, rpt *config.Report, summary *Summary, log *zap.Logger) error {
	log = log.Named("sidecar")

	path, err := sidecarPath(cfg.Sidecar.Path, PathValues{
		Project: filepath.Base(project),
		Root:    root,
		Format:  cfg.Sidecar.Format.String(),
	})
	if err != nil {
		return err
	}
	summary.Records = run.Len()

	if opts.DryRun {
		if rpt != nil {
			if data, err := run.Encode(cfg.Sidecar.Format); err == nil {
				rpt.StoreData("sidecar/"+filepath.Base(path), data)
			}
		}
		log.Info("Sidecar would be written", zap.String("path", path), zap.Int("records", summary.Records))
		return nil
	}

	written, err := run.Flush(path, cfg.Sidecar.Format, log)
	if err != nil {
		log.Error("Unable to write sidecar", zap.String("path", path), zap.Error(err))
		return err
	}
	if written {
		summary.Sidecar = path
		rpt.Store("sidecar/"+filepath.Base(path), path)
	}
	return nil
}

// AssetRoot returns absolute path of existing asset root of the project.
func AssetRoot(project string, cfg *config.Config) (string, error) {
	root := filepath.FromSlash(cfg.Project.WorkDir)
	if !filepath.IsAbs(root) {
		root = filepath.Join(project, root)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("asset root is not accessible: %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("asset root is not a directory: %s", root)
	}
	return root, nil
}

// lockPath is unique per asset root.
func lockPath(root string) string {
	return filepath.Join(os.TempDir(), misc.GetAppName()+"-"+sidecar.Key(root)+".lock")
}
