package main

import (
	"os"

	"github.com/spf13/cobra"

	"jsgen/internal/prof"
	"jsgen/internal/version"
)

var (
	cpuProfilePath string
	memProfilePath string
)

var rootCmd = &cobra.Command{
	Use: "jsgen",
	Short: "IR to asm.js-dialect code generator",
	Long: `jsgen lowers a legalized IR module into asm.js-dialect source text.`,
}

// main sets the CLI's version string, registers subcommands and persistent
// flags, then executes the root command. A command error exits 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "accepted but ignored (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "accepted but ignored")
	rootCmd.PersistentFlags().Int("max-diagnostics", 4096, "accepted but ignored; the diagnostic bag always holds 4096 entries")
	rootCmd.PersistentFlags().StringVar(&cpuProfilePath, "cpuprofile", "", "write a CPU profile to this path")
	rootCmd.PersistentFlags().StringVar(&memProfilePath, "memprofile", "", "write a heap profile to this path")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cpuProfilePath != "" {
			if err := prof.StartCPU(cpuProfilePath); err != nil {
				return err
			}
		}
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if cpuProfilePath != "" {
			prof.StopCPU()
		}
		if memProfilePath != "" {
			_ = prof.WriteMem(memProfilePath)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
