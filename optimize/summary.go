package optimize

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"imgpath/markup"
	"imgpath/sidecar"
)

type fileStatus int

const (
	statusUnchanged fileStatus = iota
	statusUpdated
	statusFailed
)

func (s fileStatus) String() string {
	switch s {
	case statusUpdated:
		return "updated"
	case statusFailed:
		return "failed"
	default:
		return "unchanged"
	}
}

// fileResult is outcome of processing single source.
type fileResult struct {
	rel    string
	status fileStatus
	stats  markup.Stats
	// sink has records of the file, nil when sidecar is off
	sink *sidecar.Sink
	err  error
}

// Summary describes single run.
type Summary struct {
	RunID  string
	Root   string
	DryRun bool

	Found     int
	Updated   int
	Unchanged int
	Failed    int
	markup.Stats

	// Records is number of sidecar records produced.
	Records int
	// Sidecar is path of written sidecar, empty when nothing was written.
	Sidecar string
	Elapsed time.Duration

	files []fileResult
}

func (s *Summary) add(r fileResult) {
	s.files = append(s.files, r)
	switch r.status {
	case statusUpdated:
		s.Updated++
	case statusFailed:
		s.Failed++
	default:
		s.Unchanged++
	}
	s.Stats.Add(r.stats)
}

// Log reports run totals.
func (s *Summary) Log(log *zap.Logger) {
	log.Info("Run summary",
		zap.String("run", s.RunID),
		zap.Bool("dry_run", s.DryRun),
		zap.Int("found", s.Found),
		zap.Int("updated", s.Updated),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("failed", s.Failed),
		zap.Int("references", s.References),
		zap.Int("rewritten", s.Rewritten),
		zap.Int("skipped", s.Guarded),
		zap.Int("unresolved", s.Unresolved),
		zap.Int("records", s.Records),
		zap.String("saved", humanize.Bytes(saved(s.Saved))),
		zap.Duration("elapsed", s.Elapsed))
	for _, f := range s.files {
		if f.err != nil {
			log.Warn("File failed", zap.String("file", f.rel), zap.Error(f.err))
		}
	}
}

// Table renders per file results with totals.
func (s *Summary) Table() string {
	headers := []string{"File", "Status", "References", "Rewritten", "Skipped", "Unresolved", "Saved"}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, f := range s.files {
		tw.AppendRow(statsRow(f.rel, f.status.String(), f.stats))
	}
	tw.AppendSeparator()
	tw.AppendRow(statsRow("total", strconv.Itoa(s.Updated)+" updated", s.Stats))

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if i >= 2 {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func statsRow(name, status string, st markup.Stats) table.Row {
	return table.Row{
		name,
		status,
		strconv.Itoa(st.References),
		strconv.Itoa(st.Rewritten),
		strconv.Itoa(st.Guarded),
		strconv.Itoa(st.Unresolved),
		humanize.Bytes(saved(st.Saved)),
	}
}

func saved(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
