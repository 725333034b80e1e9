// Package progress renders a single byte-based progress bar for a corpus
// pass, in the style the rest of the pipeline tooling uses for long-running
// file scans.
package progress

import (
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar tracks bytes consumed out of a known-size input file.
type Bar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// New builds a Bar for path, sized from the file's current byte length.
// Returns a no-op Bar (nil-safe) if path cannot be stat'd.
func New(name, path string) *Bar {
	info, err := os.Stat(path)
	if err != nil {
		return &Bar{}
	}

	p := mpb.New(mpb.WithWidth(80))
	bar := p.AddBar(info.Size(),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)
	return &Bar{progress: p, bar: bar}
}

// Add advances the bar by n bytes.
func (b *Bar) Add(n int) {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.IncrBy(n)
}

// Wait blocks until the bar's render goroutine finishes, flushing the final
// frame. Call once after the tracked pass completes.
func (b *Bar) Wait() {
	if b == nil || b.progress == nil {
		return
	}
	b.progress.Wait()
}
