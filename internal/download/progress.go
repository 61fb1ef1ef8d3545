package download

import (
	"fmt"
	"io"
)

// NewConsoleReporter returns a ProgressFunc printing the completed percentage to w
func NewConsoleReporter(w io.Writer) ProgressFunc {
	return func(total, remaining int64) {
		if total <= 0 {
			return
		}
		percent := float64(total-remaining) / float64(total) * 100
		fmt.Fprintf(w, "Download progress: %.2f%%\n", percent)
	}
}

// progressWriter counts bytes written and reports them after every chunk
type progressWriter struct {
	w       io.Writer
	total   int64
	written int64
	report  ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.report != nil && n > 0 {
		p.report(p.total, p.total-p.written)
	}
	return n, err
}
