package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions holds the raw flag values shared by all subcommands.
type rootOptions struct {
	backend      string
	baseURL      string
	examplesPath string
	htmlMode     string
	language     string
	configPath   string
	fetchTimeout time.Duration
	verbose      bool
}

// overrides returns only the flags the user actually set.
func (o *rootOptions) overrides(cmd *cobra.Command) Overrides {
	var ov Overrides
	flags := cmd.Flags()
	if flags.Changed("backend") {
		ov.Backend = &o.backend
	}
	if flags.Changed("base-url") {
		ov.BaseURL = &o.baseURL
	}
	if flags.Changed("examples") {
		ov.ExamplesPath = &o.examplesPath
	}
	if flags.Changed("html-mode") {
		ov.HTMLMode = &o.htmlMode
	}
	if flags.Changed("language") {
		ov.Language = &o.language
	}
	if flags.Changed("fetch-timeout") {
		ov.FetchTimeout = &o.fetchTimeout
	}
	return ov
}

// loadConfig reads .env, the config file and the flags into a Config.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var file *File
	if path := FindConfigFile(o.configPath); path != "" {
		f, err := LoadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		file = f
	}
	return BuildConfig(file, o.overrides(cmd), os.Getenv)
}

// createProvider builds the backend selected by cfg.
func createProvider(cfg Config) (LLMProvider, error) {
	switch cfg.Backend {
	case BackendHosted:
		return NewHostedProvider(cfg.BaseURL, cfg.APIKey, nil)
	case BackendLocal:
		return NewLocalProvider(cfg.BaseURL, cfg.APIKey, nil), nil
	case BackendOllama:
		return NewOllamaProvider(cfg.BaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func banner(backend string) string {
	if backend == BackendHosted {
		return "Welcome to the Advanced AI X Post Generator!"
	}
	return "Welcome to the Open Source X Post Generator!"
}

// readURL prompts on out and reads one line from in.
func readURL(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Please enter the website URL to generate a post for: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read URL: %w", err)
	}
	url := strings.TrimSpace(line)
	if url == "" {
		return "", errors.New("no URL given")
	}
	return url, nil
}

func runGenerate(cmd *cobra.Command, args []string, opts *rootOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	provider, err := createProvider(cfg)
	if err != nil {
		return err
	}
	logger := NewLogger(cmd.ErrOrStderr(), opts.verbose).With("run_id", uuid.NewString())

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, banner(cfg.Backend))

	var url string
	if len(args) == 1 {
		url = args[0]
	} else {
		url, err = readURL(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
	}

	logger.Info("starting run", "url", url, "backend", provider.Name(), "html_mode", cfg.HTMLMode)
	pipeline := NewPipeline(cfg, NewHTTPFetcher(cfg.FetchTimeout), provider, out, logger)
	res, err := pipeline.Run(cmd.Context(), url)
	if err != nil {
		return err
	}
	logger.Info("run finished", "phase", res.Phase, "post_chars", len(res.Post))
	return nil
}

// NewRootCmd creates the xpostgen command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "xpostgen [url]",
		Short: "Generate an X post from a website using an LLM",
		Long: `xpostgen fetches a web page, has a language model extract its core content,
summarizes it and writes an X post in the style of the examples in post-examples.json.

Backends:
  hosted  OpenAI-compatible hosted API (DeepSeek by default, needs DEEPSEEK_API_KEY)
  local   OpenAI-compatible local server (LM Studio at http://127.0.0.1:1234 by default)
  ollama  Ollama server (OLLAMA_HOST or --base-url)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.backend, "backend", "b", BackendHosted, "model backend: hosted, local or ollama")
	pf.StringVar(&opts.baseURL, "base-url", "", "backend endpoint (defaults per backend)")
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+DefaultConfigFile+" or $XDG_CONFIG_HOME/"+xdgConfigFile+")")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")

	f := rootCmd.Flags()
	f.StringVarP(&opts.examplesPath, "examples", "e", DefaultExamplesFile, "JSON file of example posts")
	f.StringVar(&opts.htmlMode, "html-mode", HTMLModeRaw, "HTML sent to the extractor: raw, strip or readability")
	f.StringVar(&opts.language, "language", "", "language of the summary and post (empty lets the model choose)")
	f.DurationVar(&opts.fetchTimeout, "fetch-timeout", 0, "page fetch timeout (0 means none)")

	rootCmd.AddCommand(NewCheckCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

// Execute runs the root command with a context cancelled on interrupt.
// Fetch failures are already reported by the pipeline; other errors are
// printed to stderr here.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	var fe *FetchError
	if err != nil && !errors.As(err, &fe) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
