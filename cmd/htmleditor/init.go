package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fromdoppler/htmleditor/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/htmleditor.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a field catalog file",
		Long: `Init writes a .htmleditor field catalog in the current directory.

The file declares the account's custom merge fields and extra aliases.
The built-in basic fields are always available and need not be listed.

Examples:
  # Create .htmleditor in the current directory
  htmleditor init

  # Create the catalog at a specific path
  htmleditor init -o fields.yaml

  # Overwrite an existing file
  htmleditor init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the catalog")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing catalog file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("catalog file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/htmleditor.yaml")
	if err != nil {
		return fmt.Errorf("failed to read catalog template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created catalog file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to declare the account's custom fields and aliases.")

	return nil
}
