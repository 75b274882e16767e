package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/handiism/static-gallery/internal/tui"
)

const progressInterval = 500 * time.Millisecond

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// startProgressLine redraws a single progress line on w until stop is
// called. stop prints the final state and ends the line.
func startProgressLine(w io.Writer, source tui.ProgressSource) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup

	draw := func() {
		p := source.Progress()
		fmt.Fprintf(w, "\rRendering %d/%d (%3.0f%%), %d active", p.Done, p.Total, p.Percent(), p.Active)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				draw()
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		draw()
		fmt.Fprintln(w)
	}
}
