package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowscript/flowscript/internal/config"
	"github.com/flowscript/flowscript/pkg/hostfns/coredata"
	"github.com/flowscript/flowscript/pkg/hostfns/idgen"
	"github.com/flowscript/flowscript/pkg/hostfns/rpc"
	"github.com/flowscript/flowscript/pkg/hostfns/yamlio"
	"github.com/flowscript/flowscript/pkg/runtime"
)

var (
	evalExpr   string
	configPath string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Evaluate a FlowScript record and keep any triggers running",
	Long: `Parse and evaluate a FlowScript record, print the resulting
value, and - if the record declared any Event or Cron triggers - keep
the process alive running them until interrupted (Ctrl-C).

Examples:
  flowrun run pipeline.flow
  flowrun run -e "{ x: 1 + 2 }"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from a file")
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a flowscript.yaml config file")
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	rt, err := newRuntime(configPath, filename)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, handle, diag := rt.Run(ctx, source)
	if diag != nil {
		fmt.Fprintln(os.Stderr, diag.Format(source, filename, true))
		return fmt.Errorf("evaluation failed")
	}

	fmt.Println(result.Inspect())

	if handle.Triggers() > 0 {
		if verbose {
			fmt.Fprintf(os.Stderr, "running %d trigger(s); press Ctrl-C to stop\n", handle.Triggers())
		}
		<-ctx.Done()
	}
	rt.Shutdown(handle)

	return nil
}

// newRuntime builds a Runtime with every pkg/hostfns domain package
// wired in, optionally seeded from a config file (§6.4's host_modules
// list narrows this to a subset when set). sourceName is the file the
// top-level program was read from; it anchors the directory
// `include(path)` resolves relative paths against. An empty sourceName or
// "<eval>" (-e inline source) anchors to the current directory.
func newRuntime(path, sourceName string) (*runtime.Runtime, error) {
	var opts []runtime.Option
	var cfg *config.RuntimeConfig
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		opts = append(opts, runtime.WithConfig(cfg))
	}

	baseDir := "."
	if sourceName != "" && sourceName != "<eval>" {
		baseDir = filepath.Dir(sourceName)
	}
	opts = append(opts, runtime.WithSourceLoader(func(p string) (string, error) {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}))

	rt := runtime.New(opts...)
	registerHostModules(rt, cfg)
	return rt, nil
}

func registerHostModules(rt *runtime.Runtime, cfg *config.RuntimeConfig) {
	want := map[string]bool{"coredata": true, "idgen": true, "yamlio": true, "rpc": true}
	if cfg != nil && len(cfg.HostModules) > 0 {
		want = make(map[string]bool, len(cfg.HostModules))
		for _, name := range cfg.HostModules {
			want[name] = true
		}
	}

	reg := rt.Registry()
	if want["coredata"] {
		coredata.Register(reg)
	}
	if want["idgen"] {
		idgen.Register(reg)
		idgen.RegisterGenerators(rt.Types())
	}
	if want["yamlio"] {
		yamlio.Register(reg)
	}
	if want["rpc"] {
		rpc.NewClient().Register(reg)
	}
}

func readSource(eval string, args []string) (source, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}
