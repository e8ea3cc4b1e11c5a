package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ByLCY/vellum/compose"
	"github.com/ByLCY/vellum/config"
	"github.com/ByLCY/vellum/pipeline"
)

type renderOpts struct {
	output string
	format string
	debug  string
}

func newRenderCmd(root *rootOpts) *cobra.Command {
	opts := renderOpts{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document descriptor to PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			return runRender(cmd, cfg, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path, or - for stdout (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: pdf or png (default from config, or the output extension)")
	cmd.Flags().StringVar(&opts.debug, "debug", "", "write the layout result as JSON to this path")
	return cmd
}

// outputFormat 依次取 --format、输出文件扩展名、配置中的默认格式。
func outputFormat(flag, output string, cfg config.Config) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(output), ".")); ext {
	case config.FormatPDF, config.FormatPNG:
		return ext
	}
	return cfg.Format
}

func defaultOutput(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func runRender(cmd *cobra.Command, cfg config.Config, input string, opts renderOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	format := outputFormat(opts.format, opts.output, cfg)
	output := opts.output
	if output == "" {
		output = defaultOutput(input, format)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	out, err := p.Render(pipeline.Source{Data: data, BaseDir: filepath.Dir(input)}, format)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if opts.debug != "" {
		if err := writeDebug(out.Result, opts.debug); err != nil {
			return err
		}
		logger.Debug("wrote layout debug", "path", opts.debug)
	}

	if output == "-" {
		if err := writeStdout(cmd.OutOrStdout(), out.Data); err != nil {
			return err
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(output, out.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	}
	prog.done("rendered", "output", output, "sheets", len(out.Result.Sheets))
	return nil
}

var errTerminal = errors.New("refusing to write binary output to a terminal")

func writeStdout(w io.Writer, data []byte) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errTerminal
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

func writeDebug(res *compose.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}
	if err := compose.WriteDebugJSON(res, path); err != nil {
		return fmt.Errorf("write debug json: %w", err)
	}
	return nil
}
