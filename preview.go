package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/typewriter"
)

var (
	previewCycles int
	previewRoles  []string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play the hero typewriter headline in the terminal",
	Long: `Plays the rotating role headline exactly as the hero section streams it.

Example:
  devfolio preview --cycles 4
  devfolio preview --role "Gopher" --role "SRE"`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewCycles, "cycles", 0, "stop after this many roles have been typed and erased (0 = forever)")
	previewCmd.Flags().StringArrayVar(&previewRoles, "role", nil, "role string to animate (repeatable, overrides site content)")
}

var (
	headlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#64B5F6"))
	cursorStyle   = lipgloss.NewStyle().Blink(true).Foreground(lipgloss.Color("#F48FB1"))
)

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	roles, err := previewSequence(cfg.ContentPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	frames := make(chan typewriter.Frame, 1)
	anim, err := typewriter.New(roles,
		typewriter.WithTiming(cfg.Timing()),
		typewriter.WithLogger(logger),
		typewriter.OnFrame(func(f typewriter.Frame) {
			select {
			case frames <- f:
			case <-ctx.Done():
			}
		}),
	)
	if err != nil {
		return err
	}
	defer anim.Stop()

	out := cmd.OutOrStdout()
	render(out, anim.Snapshot())
	anim.Start()

	cycles := 0
	last := anim.Snapshot().Index
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case f := <-frames:
			render(out, f)
			wrapped := roles.Len() == 1 && f.Text == "" && f.Phase == typewriter.Typing.String()
			if f.Index != last || wrapped {
				last = f.Index
				cycles++
				if previewCycles > 0 && cycles >= previewCycles {
					anim.Stop()
					fmt.Fprintln(out)
					return nil
				}
			}
		}
	}
}

func previewSequence(contentPath string) (typewriter.RoleSequence, error) {
	if len(previewRoles) > 0 {
		return typewriter.NewRoleSequence(previewRoles...)
	}
	site, err := content.Load(contentPath)
	if err != nil {
		return typewriter.RoleSequence{}, err
	}
	return site.Roles(), nil
}

func render(w io.Writer, f typewriter.Frame) {
	fmt.Fprintf(w, "\r\033[K%s%s", headlineStyle.Render(f.Text), cursorStyle.Render("|"))
}
