package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobricklayer/internal/logging"
	"github.com/yaklabco/gobricklayer/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force     bool
	full      bool
	effective bool
	format    string
	output    string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gobricklayer configuration file",
		Long: `Create a .gobricklayer.yml configuration file in the current directory.
The minimal template sets the layer height, extrusion multiplier and dialect
and lists every other setting commented out.

Examples:
  gobricklayer init                    Create minimal .gobricklayer.yml
  gobricklayer init --full             Create a template with every setting active
  gobricklayer init --format toml      Create .gobricklayer.toml instead
  gobricklayer init --effective        Write the configuration currently in effect
  gobricklayer init -o printer.yml     Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate a template with every setting active")
	cmd.Flags().BoolVar(&flags.effective, "effective", false,
		"Write the resolved configuration from config files and environment")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: .gobricklayer.yml or .gobricklayer.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != config.TemplateYAML && flags.format != config.TemplateTOML {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrUsage, flags.format)
	}
	if flags.full && flags.effective {
		return fmt.Errorf("%w: --full and --effective are mutually exclusive", ErrUsage)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".gobricklayer.yml"
		if flags.format == config.TemplateTOML {
			outputPath = ".gobricklayer.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", outputPath, err)
	}

	var content []byte
	if flags.effective {
		content, err = effectiveConfig(cmd, flags.format)
	} else {
		content, err = config.GenerateTemplate(config.TemplateOptions{
			Full:   flags.full,
			Format: flags.format,
		})
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'gobricklayer dialects' to see the supported slicers")

	return nil
}

// effectiveConfig serializes the configuration resolved from every source
// except command-line flags.
func effectiveConfig(cmd *cobra.Command, format string) ([]byte, error) {
	cfg, _, err := loadSettings(cmd, nil)
	if err != nil {
		return nil, err
	}

	var body []byte
	if format == config.TemplateTOML {
		body, err = cfg.ToTOML()
	} else {
		body, err = cfg.ToYAML()
	}
	if err != nil {
		return nil, fmt.Errorf("serialize configuration: %w", err)
	}

	header := "# gobricklayer configuration resolved on " + time.Now().Format(time.DateOnly)
	return config.WithHeader(header, body), nil
}
