package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/framesink"
	"github.com/vk/scriptui/internal/gui"
)

// framePublisher receives every rendered frame.
type framePublisher interface {
	Publish(number uint64, text, errText string)
	Close()
}

// Run drives the loaded script: a fixed number of frames, or the
// interactive loop when configured.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		stop := a.startHealthcheckServer(a.config.HealthcheckPort)
		defer stop()
	}

	var sink framePublisher
	if a.config.FrameSink != "" {
		p, err := framesink.Dial(ctx, a.config.FrameSink, framesink.Options{})
		if err != nil {
			return fmt.Errorf("failed to open frame sink: %w", err)
		}
		defer p.Close()
		sink = p
	}

	var err error
	if a.config.Interactive {
		a.logger.Info("Starting interactive session.")
		err = a.runInteractive(ctx, sink)
	} else {
		a.logger.Info("Running frames.", "frames", a.config.Frames)
		err = a.runHeadless(ctx, sink)
	}
	a.logger.Debug("App.Run method finished.")
	return err
}

// frame runs one frame and renders it. The rendered text is kept even when
// the script failed.
func (a *App) frame(ctx context.Context, sink framePublisher, focus string) (*gui.Frame, string, error) {
	frame, err := a.host.RunFrame(ctx, a.gui)
	text := gui.Render(frame, focus)
	snap := frameSnapshot{text: text}
	if frame != nil {
		snap.number = frame.Number
	}
	if err != nil {
		snap.err = err.Error()
	}
	a.storeFrame(snap)
	if sink != nil {
		sink.Publish(snap.number, snap.text, snap.err)
	}
	return frame, text, err
}

func (a *App) runHeadless(ctx context.Context, sink framePublisher) error {
	var failed int
	for i := 0; i < a.config.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Click i lands on frame i+2, after the initial frame showed the
		// widget.
		if i > 0 && i-1 < len(a.config.Clicks) {
			target := a.config.Clicks[i-1]
			a.logger.Debug("Queueing click.", "target", target)
			a.gui.QueueClick(target)
		}

		frame, text, err := a.frame(ctx, sink, "")
		number := uint64(i + 1)
		if frame != nil {
			number = frame.Number
		}
		fmt.Fprintf(a.outW, "--- frame %d ---\n%s\n", number, strings.TrimRight(text, "\n"))
		if err != nil {
			failed++
			a.logger.Error("Frame failed.", "frame", number, "error", err)
			if !a.config.KeepGoing {
				return fmt.Errorf("frame %d failed: %w", number, err)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, a.config.Frames)
	}
	a.logger.Info("🏁 Frames finished.", "frames", a.config.Frames)
	return nil
}
