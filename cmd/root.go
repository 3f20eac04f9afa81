package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vcppgen/vcppgen/pkg/log"
)

const (
	usageLine   = `Usage: vcppgen <name> <toolset> -c <configuration> <platform> -dll <dll path>... -lib <lib path>... -c ...`
	exampleLine = `Example: vcppgen test v141 -c Debug x64 -dll Debug\test.dll -lib Debug\test.lib -c Release x64 -dll Release\test.dll -lib Release\test.lib`
)

// rootCmd represents the base command. The -c/-dll/-lib grammar is not
// POSIX-flag shaped, so cobra hands every token to runGenerate untouched.
var rootCmd = &cobra.Command{
	Use:   "vcppgen [options] <name> <toolset> (-c <configuration> <platform> (-dll <path> | -lib <path>)...)...",
	Short: "Generate a .vcxproj wrapping pre-built DLLs and libs",
	Long: `vcppgen writes <name>.vcxproj into the current directory. The project compiles nothing:
it advertises per-configuration DLL and lib paths so other C++ projects in a solution
can reference it, link against its libs and get its DLLs copied to their output.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(args, cmd.OutOrStdout())
	},
	// Every first token is a project name, "completion" included.
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

// Execute runs the root command and exits non-zero after printing the error
// and usage synopsis. This is called by main.main().
func Execute() {
	err := execute(os.Args[1:], os.Stdout)
	log.Close()
	if err != nil {
		printError(os.Stdout, err)
		os.Exit(1)
	}
}

// execute runs the root command with args. cobra always routes its hidden
// shell-completion commands itself, so those names go straight to
// runGenerate to be treated as project names.
func execute(args []string, out io.Writer) error {
	if len(args) > 0 && (args[0] == cobra.ShellCompRequestCmd || args[0] == cobra.ShellCompNoDescRequestCmd) {
		return runGenerate(args, out)
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.Execute()
}

// printError writes the single-line error, a blank line and the synopsis.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n\n", err)
	printUsage(w)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, usageLine)
	fmt.Fprintln(w, exampleLine)
}
