package optimize

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"imgpath/config"
	"imgpath/markup"
	"imgpath/sidecar"
	"imgpath/utils/files"
)

// processor holds everything needed to rewrite single source, it is shared by
// all workers.
type processor struct {
	engine  *markup.Engine
	layout  markup.Layout
	sidecar bool
	dryRun  bool
	rpt     *config.Report
	log     *zap.Logger
}

// processFile reads, rewrites and writes back single source. Failures are
// reported in result and never stop the run.
func (p *processor) processFile(ctx context.Context, src source) (res fileResult) {
	res.rel = src.rel
	log := p.log.With(zap.String("file", src.rel))

	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			res.status, res.err = statusFailed, fmt.Errorf("processing panic: %v", r)
		}
	}(time.Now())

	if err := ctx.Err(); err != nil {
		res.status, res.err = statusFailed, err
		return res
	}

	d, ok := markup.ForFile(src.path, p.layout)
	if !ok {
		log.Debug("Skipping file, no dialect for extension")
		return res
	}

	raw, err := os.ReadFile(src.path)
	if err != nil {
		log.Error("Unable to read source", zap.Error(err))
		res.status, res.err = statusFailed, fmt.Errorf("unable to read source: %w", err)
		return res
	}
	text, enc, err := decodeSource(raw)
	if err != nil {
		log.Error("Unable to decode source", zap.Error(err))
		res.status, res.err = statusFailed, err
		return res
	}
	if enc != encUnknown {
		log.Debug("Source has byte order mark", zap.Stringer("encoding", enc))
	}

	out := p.engine.Process(d, text)
	res.stats = out.Stats

	if p.sidecar {
		res.sink = sidecar.NewSink()
		for _, r := range out.Resolved {
			res.sink.Add(r)
		}
	}

	if !out.Changed {
		log.Debug("Source unchanged", zap.Int("references", out.Stats.References), zap.Int("skipped", out.Stats.Guarded))
		return res
	}

	data, err := encodeSource(out.Text, enc)
	if err != nil {
		log.Error("Unable to encode source", zap.Error(err))
		res.status, res.err = statusFailed, err
		return res
	}

	if p.rpt != nil {
		p.rpt.StoreData("sources/"+src.rel, raw)
	}

	res.status = statusUpdated
	if p.dryRun {
		log.Info("Source would be updated", zap.Int("rewritten", out.Stats.Rewritten))
		return res
	}

	if err := files.WriteAtomic(src.path, data, 0644); err != nil {
		log.Error("Unable to write source", zap.Error(err))
		res.status, res.err = statusFailed, fmt.Errorf("unable to write source: %w", err)
		return res
	}
	log.Info("Source updated",
		zap.Int("rewritten", out.Stats.Rewritten),
		zap.String("saved", humanize.Bytes(saved(out.Stats.Saved))))
	return res
}
