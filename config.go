package imagechat

import "fmt"

// DefaultModel is the image model used when none is configured.
const DefaultModel = "gemini-2.5-flash-image"

// Config holds user defaults. The API credential is deliberately absent: it
// is read from the process environment at first use.
type Config struct {
	Model       string      `toml:"model"`
	AspectRatio AspectRatio `toml:"aspect_ratio"`
	Variations  int         `toml:"variations"`
	OutputDir   string      `toml:"output_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Model:       DefaultModel,
		AspectRatio: AspectSquare,
		Variations:  1,
		OutputDir:   ".",
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty: %w", ErrValidation)
	}
	if err := c.AspectRatio.Validate(); err != nil {
		return err
	}
	if c.Variations < 1 || c.Variations > MaxVariations {
		return fmt.Errorf("variations must be in [1, %d], got %d: %w", MaxVariations, c.Variations, ErrValidation)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty: %w", ErrValidation)
	}
	return nil
}
