package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/peacecards/internal/config"
	"github.com/mithrel/peacecards/internal/present"
	"github.com/mithrel/peacecards/internal/present/format"
	"github.com/mithrel/peacecards/internal/wire"
)

const defaultPager = "less -FRSX"

type outputFlags struct {
	format    string
	noHeaders bool
	indent    bool
	noPager   bool
	query     string
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: "+strings.Join(config.OutputFormats(), "|")+" (default from output.format)")
	cmd.Flags().BoolVar(&f.noHeaders, "noheaders", false, "hide column headers and card titles (plain/tui)")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVar(&f.noPager, "no-pager", false, "never pipe output through $PAGER")
	cmd.Flags().StringVar(&f.query, "query", "", "jq expression to filter json/ndjson output")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats(), cobra.ShellCompDirectiveNoFileComp
	})
}

// options resolves flags against the configured defaults.
func (f outputFlags) options(app *wire.App, out io.Writer) (present.Options, error) {
	name := f.format
	if name == "" {
		name = app.Cfg.Format
	}
	mode, ok := present.ParseMode(strings.ToLower(name))
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --format: %s", name)
	}
	if f.query != "" {
		if mode != present.ModeJSON && mode != present.ModeNDJSON {
			return present.Options{}, fmt.Errorf("--query needs --format json or ndjson")
		}
		if _, err := format.CompileQuery(f.query); err != nil {
			return present.Options{}, err
		}
	}
	width := app.Cfg.RenderWidth
	if width == 0 {
		width = terminalWidth(out)
	}
	opts := present.Options{
		Mode:       mode,
		JSONIndent: f.indent,
		Headers:    !f.noHeaders,
		Width:      width,
		Style:      app.Cfg.RenderStyle,
		Query:      f.query,
	}
	if app.Remote != nil {
		opts.Formatter = app.Remote
	}
	return opts, nil
}

// terminalWidth returns the column count of out, or 0 when it is not a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// render writes through the pager unless the mode is interactive.
func (f outputFlags) render(cmd *cobra.Command, mode present.Mode, write func(io.Writer) error) error {
	if mode == present.ModeTUI || f.noPager {
		return write(cmd.OutOrStdout())
	}
	return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), write)
}

func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
