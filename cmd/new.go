package cmd

import (
	"log/slog"

	"github.com/jdeanwallace/jinjabread/site"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [project_dir]",
	Short: "Create a new project",
	Long: `Create a starter project with a config file, a Markdown home page and a base
layout. A named project directory must not exist yet; without one the current
directory is used. Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := projectDirArg(args)
		if err := site.NewProject(dir, len(args) > 0); err != nil {
			return err
		}
		slog.Info("project created", "dir", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
