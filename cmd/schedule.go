package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lipost/internal/lipost"
	"lipost/internal/lipost/linkedin"
	"lipost/internal/scheduler"
)

var (
	scheduleAt    string
	scheduleIn    time.Duration
	scheduleEvery string
)

func newScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [message]",
		Short: "Defer a post to a future time or a recurring schedule",
		Long: "schedule registers a deferred post and keeps the process alive until it fires. " +
			"Pick the moment with --at (RFC 3339), --in (duration), or --every (cron spec). " +
			"Attach --image or --url to schedule an image or article share instead of plain text.",
		RunE: runSchedule,
		Example: `  lipost schedule -m "Good morning" --at 2025-11-02T09:00:00Z
  lipost schedule -m "Reminder" --in 45m
  lipost schedule -m "Weekly update" --every "0 9 * * MON"`,
	}
	addContentFlags(cmd)
	cmd.Flags().StringVar(&scheduleAt, "at", "", "Fire time as an RFC 3339 timestamp")
	cmd.Flags().DurationVar(&scheduleIn, "in", 0, "Fire after this duration from now")
	cmd.Flags().StringVar(&scheduleEvery, "every", "", "Recurring cron spec (5-field or @every <duration>)")
	cmd.Flags().StringVar(&articleURL, "url", "", "Link to preview (schedules an article share)")
	cmd.Flags().StringVar(&articleTitle, "title", "", "Preview title")
	cmd.Flags().StringVar(&articleDescription, "description", "", "Preview description")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to an image (schedules an image share)")
	cmd.Flags().StringVar(&imageAlt, "alt-text", "", "Alternative text to describe the image")
	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	req, err := scheduledRequest(cmd, args)
	if err != nil {
		return err
	}

	set := 0
	for _, selected := range []bool{scheduleAt != "", scheduleIn != 0, scheduleEvery != ""} {
		if selected {
			set++
		}
	}
	if set == 0 {
		return errors.New("pick a fire time with --at, --in, or --every")
	}
	if set > 1 {
		return errors.New("--at, --in, and --every are mutually exclusive")
	}

	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "[dry-run] would schedule %s post\n", req.Kind())
		return nil
	}

	client := linkedin.New(linkedin.CredentialsFromEnv())
	sched := scheduler.New(client)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if scheduleEvery != "" {
		if _, err := sched.Every(scheduleEvery, req); err != nil {
			return fmt.Errorf("invalid --every spec: %w", err)
		}
		sched.Start()
		fmt.Fprintf(cmd.OutOrStdout(), "posting %s share on %q until interrupted\n", req.Kind(), scheduleEvery)
		<-ctx.Done()
		<-sched.Stop().Done()
		return nil
	}

	at := time.Now().Add(scheduleIn)
	if scheduleAt != "" {
		at, err = time.Parse(time.RFC3339, strings.TrimSpace(scheduleAt))
		if err != nil {
			return fmt.Errorf("invalid --at timestamp (want RFC 3339, e.g. 2025-11-02T09:00:00Z): %w", err)
		}
	}

	job := sched.Schedule(req, at)
	fmt.Fprintf(cmd.OutOrStdout(), "%s post scheduled for %s\n", req.Kind(), at.Format(time.RFC3339))

	select {
	case <-job.Done():
		return nil
	case <-ctx.Done():
		if job.Cancel() {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled before firing")
			return nil
		}
		<-job.Done()
		return nil
	}
}

// scheduledRequest builds the post variant from the attached flags: an image
// wins over an article, which wins over plain text.
func scheduledRequest(cmd *cobra.Command, args []string) (lipost.PostRequest, error) {
	switch {
	case strings.TrimSpace(imagePath) != "":
		return imageRequest(cmd, args)
	case strings.TrimSpace(articleURL) != "":
		return articleRequest(cmd, args)
	default:
		return textRequest(cmd, args)
	}
}
