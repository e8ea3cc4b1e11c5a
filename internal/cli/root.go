// Package cli 实现 vellum 命令行：render 将描述文件渲染为 PDF/PNG，serve 启动 HTTP 服务。
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/vellum/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion 设置 --version 输出的版本信息，通常由构建时的 ldflags 注入。
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts 是所有子命令共享的参数。
type rootOpts struct {
	verbose    bool
	configPath string
}

// loadConfig 读取 --config 指定的配置，未指定时使用默认值。
func (o *rootOpts) loadConfig() (config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.configPath)
}

// NewRootCommand 构建完整的命令树。
func NewRootCommand() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:          "vellum",
		Short:        "Vellum lays out paged documents and renders them to PDF or PNG",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("vellum %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (TOML)")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// Execute 运行命令行。
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
