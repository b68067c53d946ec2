// Command odbcmd loads, checks and queries OpenDarkBASIC plugin commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "odbcmd:", err)
	}
	code := cli.GetExitCode(err)
	stop()
	os.Exit(code)
}
