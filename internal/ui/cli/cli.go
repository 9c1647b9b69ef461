package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const versionString = "1.0.0"
const defaultConfigPath = "./data/config/symtab.toml"
const defaultMetricsAddress = "127.0.0.1:9464"

type cliOptions struct {
	configPath   string
	function     string
	class        string
	method       string
	property     string
	constant     string
	methodsNamed string
	file         string
	stats        bool
	export       bool
	serve        bool
	watch        bool
	verbose      bool
	version      bool
	args         []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("symtab", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.StringVar(&opts.function, "function", "", `Look up a function by FQSEN (e.g. \strlen or \App\helper,1)`)
	fs.StringVar(&opts.class, "class", "", `Look up a class, interface or trait by FQSEN (e.g. \App\User)`)
	fs.StringVar(&opts.method, "method", "", `Look up a method by FQSEN (e.g. \App\User::save)`)
	fs.StringVar(&opts.property, "property", "", `Look up a property by FQSEN (e.g. \App\User::name)`)
	fs.StringVar(&opts.constant, "constant", "", `Look up a class constant (\Cls::NAME) or global constant (\NAME)`)
	fs.StringVar(&opts.methodsNamed, "methods-named", "", "List every method with this bare name (requires analysis.dead_code_detection)")
	fs.StringVar(&opts.file, "file", "", "List the top-level declarations recorded for a file")
	fs.BoolVar(&opts.stats, "stats", false, "Print element counts")
	fs.BoolVar(&opts.export, "export", false, "Export the symbol inventory to SQLite (overrides export.enabled)")
	fs.BoolVar(&opts.serve, "serve", false, "Serve /metrics and /health until interrupted")
	fs.BoolVar(&opts.watch, "watch", false, "Reload stub files on change until interrupted")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	if len(opts.args) > 0 {
		return cliOptions{}, fmt.Errorf("unexpected arguments: %s", strings.Join(opts.args, " "))
	}
	return opts, nil
}

func (o cliOptions) hasQuery() bool {
	return o.function != "" || o.class != "" || o.method != "" || o.property != "" ||
		o.constant != "" || o.methodsNamed != "" || o.file != "" || o.stats
}

func (o cliOptions) longRunning() bool {
	return o.serve || o.watch
}
