package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/tekkenmd/internal/logging"
	"github.com/yaklabco/tekkenmd/pkg/config"
	"github.com/yaklabco/tekkenmd/pkg/fsutil"
	"github.com/yaklabco/tekkenmd/pkg/render"
	"github.com/yaklabco/tekkenmd/pkg/runner"
)

// imageFilePermissions is the file mode of rendered images.
const imageFilePermissions = 0o644

// ErrTerminalOutput is returned when PNG data would be written to a terminal.
var ErrTerminalOutput = errors.New("refusing to write PNG data to a terminal; use -o FILE or redirect stdout")

type renderFlags struct {
	output    string
	assetsDir string
	noExpand  bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [notation]",
		Short: "Render one notation to a PNG image",
		Long: `Render a single notation string to a PNG image.

The notation is read from the argument, or from standard input when the
argument is omitted or "-". The image goes to standard output unless -o
names a file.

Examples:
  tekkenmd render '"Jin", 1+2, d, df:2' -o jin.png
  echo 'qcf, 1' | tekkenmd render > hadouken.png
  tekkenmd render --no-expand 'qcf, 1' -o literal.png`,
		Args: func(cmd *cobra.Command, args []string) error {
			return usageError(cobra.MaximumNArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: standard output)")
	cmd.Flags().StringVar(&flags.assetsDir, "assets", "", "directory holding the icon assets (default \"assets\")")
	cmd.Flags().BoolVar(&flags.noExpand, "no-expand", false, "draw motion shorthands such as qcf as written")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	workDir, err := workingDir(cmd)
	if err != nil {
		return err
	}

	source, err := readNotation(cmd, args)
	if err != nil {
		return err
	}

	toStdout := flags.output == "" || flags.output == "-"
	if toStdout && isTerminal(cmd.OutOrStdout()) {
		return usageError(ErrTerminalOutput)
	}

	cliCfg := &config.Config{AssetsDir: absFrom(workDir, flags.assetsDir)}
	if flags.noExpand {
		cliCfg.ExpandMotions = config.Bool(false)
	}

	loadResult, err := loadConfig(cmd, workDir, cliCfg)
	if err != nil {
		return err
	}

	renderer, err := runner.NewRenderer(loadResult.Config, loadResult.BaseDir, render.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	logger.Debug("rendering notation",
		logging.FieldInput, notationInput(args),
		logging.FieldAssetsDir, runner.AssetsDir(loadResult.Config, loadResult.BaseDir),
	)

	var buf bytes.Buffer
	res, err := renderer.RenderPNG(ctx, source, &buf)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if n := len(res.Report.Degraded); n > 0 {
		logger.Debug("tokens drawn as text", logging.FieldToken, n)
	}

	if toStdout {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
		return nil
	}

	path := absFrom(workDir, flags.output)
	if err := fsutil.WriteAtomic(ctx, path, buf.Bytes(), imageFilePermissions); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	logger.Info("rendered notation",
		logging.FieldOutput, flags.output,
		logging.FieldWidth, res.Plan.Width,
		logging.FieldHeight, res.Plan.Height,
	)

	return nil
}

// readNotation returns the notation argument, or standard input when the
// argument is omitted or "-".
func readNotation(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		if strings.TrimSpace(args[0]) == "" {
			return "", usageError(errors.New("empty notation"))
		}
		return args[0], nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		return "", usageError(errors.New("no notation given; pass it as an argument or pipe it on standard input"))
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read standard input: %w", err)
	}

	source := strings.TrimSpace(string(data))
	if source == "" {
		return "", usageError(errors.New("empty notation on standard input"))
	}
	return source, nil
}

// notationInput names where readNotation takes the notation from.
func notationInput(args []string) string {
	if len(args) == 1 && args[0] != "-" {
		return "argument"
	}
	return "stdin"
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}
