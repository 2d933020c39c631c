package cmd

import (
	"github.com/jdeanwallace/jinjabread/config"
	"github.com/jdeanwallace/jinjabread/site"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [project_dir]",
	Short: "Build the static site",
	Long: `Render every page of the content directory into the output directory and copy
assets and the static directory alongside them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := buildSite(projectDirArg(args), configFile)
		return err
	},
}

// buildSite loads the project's configuration and generates the site.
func buildSite(projectDir, configFile string) (*config.Config, error) {
	cfg, err := config.Load(projectDir, configFile)
	if err != nil {
		return nil, err
	}
	if err := site.New(cfg).Generate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default <project_dir>/jinjabread.toml)")
}
