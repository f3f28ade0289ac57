/*
Package cli provides command-line interface utilities for Saturn.

The cli package includes output formatters, a progress reporter for timed
load runs, exit-code plumbing, and signal handling used by the saturn
command.

Output Formatting:

Command results render as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

Errors that implement ExitCoder carry their process exit code; HandleError
prints the error and maps it for os.Exit:

	func main() {
		os.Exit(cli.HandleError(cmd.Execute()))
	}

Progress Reporting:

For timed load runs, the progress reporter tracks elapsed time and
admission counters:

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(duration)
	// ... workers run, periodically:
	progress.Update(calls, admitted)
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
