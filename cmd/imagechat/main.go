// Command imagechat is a terminal chat for generating and editing images.
//
// Usage:
//
//	API_KEY=... imagechat [flags]
//	API_KEY=... imagechat -prompt "a red fox in snow" -variations 2
//
// Flags:
//
//	-config string      Path to config file (default: ~/.imagechat/config.toml)
//	-model string       Model ID (default: gemini-2.5-flash-image)
//	-aspect string      Aspect ratio: 1:1, 16:9, 9:16, 4:3, 3:4
//	-variations int     Number of images per prompt, 1 to 3
//	-out string         Directory where images are saved
//	-prompt string      Generate once without the TUI
//	-image string       Reference image for -prompt (glob patterns allowed)
//	-log string         Log file for TUI mode (default: ~/.imagechat/imagechat.log)
//	-init-config        Write the default config file and exit
//
// The API key is read from API_KEY (or GEMINI_API_KEY) when the first image
// is requested.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fwojciec/imagechat"
	bt "github.com/fwojciec/imagechat/bubbletea"
	"github.com/fwojciec/imagechat/fs"
	"github.com/fwojciec/imagechat/gemini"
	"github.com/fwojciec/imagechat/toml"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "imagechat: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.initConfig {
		return initConfig(opts.configPath, stdout)
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(opts, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := gemini.New(gemini.WithModel(cfg.Model))
	conv := imagechat.NewConversation(imagechat.Greeting(time.Now()))
	orch := imagechat.NewOrchestrator(gen, conv, imagechat.WithLogger(logger))
	saver := &fs.Saver{Dir: cfg.OutputDir}

	logger.Info("starting",
		"model", cfg.Model,
		"aspect_ratio", string(cfg.AspectRatio),
		"variations", cfg.Variations,
		"headless", opts.headless(),
	)

	if opts.headless() {
		sub, err := buildSubmission(opts, cfg)
		if err != nil {
			return err
		}
		return runHeadless(ctx, orch, saver, sub, stdout)
	}

	m := bt.New(orch, imagechat.DefaultTheme(),
		bt.WithSaver(saver),
		bt.WithViewer(&fs.Opener{}),
		bt.WithResolver(fs.ResolveImage),
		bt.WithAspectRatio(cfg.AspectRatio),
		bt.WithVariations(cfg.Variations),
	)
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// runHeadless submits once, prints the caption and writes every image.
func runHeadless(ctx context.Context, orch *imagechat.Orchestrator, saver *fs.Saver, sub imagechat.Submission, w io.Writer) error {
	msg, err := orch.Submit(ctx, sub)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Fprintln(w, msg.Text)

	paths, err := saver.SaveAll(msg)
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
	if err != nil {
		return fmt.Errorf("save images: %w", err)
	}
	return nil
}

func initConfig(path string, w io.Writer) error {
	if path == "" {
		var err error
		if path, err = toml.DefaultPath(); err != nil {
			return err
		}
	}
	if err := toml.Save(path, imagechat.DefaultConfig(), false); err != nil {
		return err
	}
	fmt.Fprintf(w, "Config written to %s\n", path)
	return nil
}
