package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/logging"
	"github.com/shareful-ai/shareful/internal/share/validator"
	"github.com/shareful-ai/shareful/internal/watch"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"quiet period before a changed share is re-validated")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate shares as they change",
	Long: `Watch the shares/ tree and re-validate a share whenever its files
change. Bursts of filesystem events (editor save dances, atomic renames)
are debounced into a single validation per share.

Runs until interrupted with Ctrl-C.`,
	Example: `  # Watch the current repository
  shareful watch

  # Calmer output for slow editors
  shareful watch --debounce 1s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(_ *cobra.Command, _ []string) error {
	rp, closer, err := openRepository(true)
	if err != nil {
		return err
	}
	defer closer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(rp,
		watch.WithLogger(logging.Default()),
		watch.WithDebounce(watchDebounce),
	)

	fmt.Fprintf(os.Stdout, "Watching %s (Ctrl-C to stop)\n", rp.SharesDir())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Watch(ctx)
	})
	g.Go(func() error {
		reportEvents(os.Stdout, watcher.Events())
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return errors.NewSystemError(err, "")
	}
	return nil
}

// reportEvents prints validation outcomes until the channel closes.
func reportEvents(w io.Writer, events <-chan watch.Event) {
	reporter := validator.NewReporter(w, validator.FormatText)

	for ev := range events {
		stamp := time.Now().Format("15:04:05")
		switch {
		case ev.Removed:
			fmt.Fprintf(w, "%s %s%s removed%s\n", stamp, colorGray, ev.Slug, colorReset)
		case ev.Err != nil:
			fmt.Fprintf(w, "%s %s%s: %v%s\n", stamp, colorRed, ev.Slug, ev.Err, colorReset)
		default:
			fmt.Fprintf(w, "%s ", stamp)
			_ = reporter.Report(ev.Slug, ev.Result)
		}
	}
}
