package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gomu.dev/pkg/gomu/internal/domain"
	m "gomu.dev/pkg/gomu/internal/model"
)

var instrumentDestFlag string
var instrumentDiffFlag bool

// instrumentCmd represents the instrument command.
var instrumentCmd = newInstrumentCmd()

func newInstrumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument [paths...]",
		Short: "Write an instrumented copy of the project",
		Long:  instrumentLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Instrument(context.Background(), domain.InstrumentArgs{
				ListArgs: domain.ListArgs{
					Paths:   parsePaths(args),
					Exclude: viper.GetStringSlice(excludeConfigKey),
				},
				Output:     m.Path(viper.GetString(destConfigKey)),
				Reports:    m.Path(viper.GetString(outputFlagName)),
				RuntimeDir: m.Path(viper.GetString(runtimeDirConfigKey)),
				ShowDiff:   instrumentDiffFlag,
			})
		},
	}

	configureInstrumentFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(instrumentCmd)
}

func configureInstrumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&instrumentDestFlag, destFlagName, "d", viper.GetString(destConfigKey), "destination directory for the instrumented copy")
	bindFlagToConfig(cmd.Flags().Lookup(destFlagName), destConfigKey)

	cmd.Flags().BoolVar(&instrumentDiffFlag, diffFlagName, false, "print a unified diff per instrumented file")

	cmd.Flags().String(runtimeDirFlagName, viper.GetString(runtimeDirConfigKey), "local checkout the runtime module dependency is replaced with")
	bindFlagToConfig(cmd.Flags().Lookup(runtimeDirFlagName), runtimeDirConfigKey)
}
