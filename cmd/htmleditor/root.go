package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for htmleditor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "htmleditor",
		Short: "Sanitize and analyze e-mail campaign HTML",
		Long: `htmleditor processes HTML content produced by the campaign editor.

It removes harmful markup (scripts, embeds, iframes, meta refresh and
event handler attributes), converts merge-field name tags such as
[[[FIRST_NAME]]] into id tags such as |*|319*|*, sanitizes trackable
links and reports the fields and links each document uses.

Processed documents are archived in a local database so earlier runs
can be inspected with 'htmleditor history'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
