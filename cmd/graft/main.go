// graft - costume assembly for skinned glTF characters.
//
// graft grafts body part meshes authored against one skeleton onto a base
// costume's template skeleton, then writes the result as a single GLB with
// an optional preview image. It can also inspect parts and show an
// assembled costume in the terminal.
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = ""
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "graft",
	Level:  log.InfoLevel,
})

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithCommit(commit),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:   "graft",
		Short: "Assemble skinned glTF costumes from body parts",
		Long: "graft retargets body part meshes onto a base costume's template skeleton " +
			"and writes the assembled costume as a binary glTF file.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newAssembleCmd(),
		newInspectCmd(),
		newPreviewCmd(),
		newViewCmd(),
	)
	return root
}
