package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/imagechat"
	"github.com/fwojciec/imagechat/fs"
	"github.com/fwojciec/imagechat/toml"
)

// options holds parsed command-line flags. Zero values mean "not set".
type options struct {
	configPath string
	model      string
	aspect     string
	variations int
	outDir     string
	prompt     string
	image      string
	logPath    string
	initConfig bool
}

func (o options) headless() bool {
	return o.prompt != "" || o.image != ""
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var o options
	fset := flag.NewFlagSet("imagechat", flag.ContinueOnError)
	fset.SetOutput(output)
	fset.StringVar(&o.configPath, "config", "", "Path to config file (default: ~/.imagechat/config.toml)")
	fset.StringVar(&o.model, "model", "", "Model ID")
	fset.StringVar(&o.aspect, "aspect", "", "Aspect ratio: 1:1, 16:9, 9:16, 4:3, 3:4")
	fset.IntVar(&o.variations, "variations", 0, "Number of images per prompt, 1 to 3")
	fset.StringVar(&o.outDir, "out", "", "Directory where images are saved")
	fset.StringVar(&o.prompt, "prompt", "", "Generate once without the TUI")
	fset.StringVar(&o.image, "image", "", "Reference image for -prompt")
	fset.StringVar(&o.logPath, "log", "", "Log file for TUI mode (default: ~/.imagechat/imagechat.log)")
	fset.BoolVar(&o.initConfig, "init-config", false, "Write the default config file and exit")
	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	if fset.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fset.Args(), " "))
	}
	return o, nil
}

// resolveConfig loads the config file and applies flag overrides. A missing
// default file is tolerated; a missing file named by -config is an error.
func resolveConfig(o options) (imagechat.Config, error) {
	var (
		cfg imagechat.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = toml.Load(o.configPath)
	} else if path, perr := toml.DefaultPath(); perr == nil {
		cfg, err = toml.LoadOptional(path)
	} else {
		cfg = imagechat.DefaultConfig()
	}
	if err != nil {
		return imagechat.Config{}, err
	}
	return applyFlags(cfg, o)
}

func applyFlags(cfg imagechat.Config, o options) (imagechat.Config, error) {
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.aspect != "" {
		a, err := imagechat.ParseAspectRatio(o.aspect)
		if err != nil {
			return imagechat.Config{}, fmt.Errorf("-aspect: %w", err)
		}
		cfg.AspectRatio = a
	}
	if o.variations != 0 {
		cfg.Variations = o.variations
	}
	if o.outDir != "" {
		cfg.OutputDir = o.outDir
	}
	if err := cfg.Validate(); err != nil {
		return imagechat.Config{}, err
	}
	return cfg, nil
}

// buildSubmission turns the headless flags into a submission.
func buildSubmission(o options, cfg imagechat.Config) (imagechat.Submission, error) {
	sub := imagechat.Submission{
		Prompt:      o.prompt,
		AspectRatio: cfg.AspectRatio,
		Variations:  cfg.Variations,
	}
	if o.image != "" {
		path, err := fs.ResolveImage(o.image)
		if err != nil {
			return imagechat.Submission{}, fmt.Errorf("-image: %w", err)
		}
		sub.Attachment = &imagechat.Attachment{Path: path}
	}
	if err := sub.Validate(); err != nil {
		return imagechat.Submission{}, err
	}
	return sub, nil
}
