package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gomu.dev/pkg/gomu/internal/domain"
	m "gomu.dev/pkg/gomu/internal/model"
)

// DefaultMutationTimeout is the default timeout duration for testing a mutation.
const DefaultMutationTimeout = time.Minute * 2

var runTimeoutFlag time.Duration
var runKeepWorkDirFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Run(context.Background(), domain.RunArgs{
				ListArgs: domain.ListArgs{
					Paths:   parsePaths(args),
					Exclude: viper.GetStringSlice(excludeConfigKey),
				},
				Reports:         m.Path(viper.GetString(outputFlagName)),
				RuntimeDir:      m.Path(viper.GetString(runtimeDirConfigKey)),
				MutationTimeout: mutationTimeout(),
				KeepWorkDir:     viper.GetBool(keepWorkDirConfigKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVarP(&runTimeoutFlag, mutationTimeoutFlagName, "t", DefaultMutationTimeout, "timeout for a single mutation test run")

	cmd.Flags().BoolVar(&runKeepWorkDirFlag, keepWorkDirFlagName, viper.GetBool(keepWorkDirConfigKey), "keep the instrumented work directory after the run")
	bindFlagToConfig(cmd.Flags().Lookup(keepWorkDirFlagName), keepWorkDirConfigKey)

	cmd.Flags().String(runtimeDirFlagName, viper.GetString(runtimeDirConfigKey), "local checkout the runtime module dependency is replaced with")
	bindFlagToConfig(cmd.Flags().Lookup(runtimeDirFlagName), runtimeDirConfigKey)
}

// mutationTimeout resolves the per-mutation timeout, preferring the flag over
// the config key (stored in seconds).
func mutationTimeout() time.Duration {
	if runTimeoutFlag != DefaultMutationTimeout {
		return runTimeoutFlag
	}

	if seconds := viper.GetInt64(mutationTimeoutKey); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return DefaultMutationTimeout
}
