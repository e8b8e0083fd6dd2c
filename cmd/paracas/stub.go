package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// listCmd and infoCmd are out of scope per spec §1: human-readable
// instrument registry browsing is not a core responsibility of the
// downloader. Both exist only so the command surface is complete.

type listCmd struct{}

func (*listCmd) Name() string             { return "list" }
func (*listCmd) Synopsis() string         { return "not implemented: instrument registry browsing is out of scope" }
func (*listCmd) Usage() string            { return "list\n" }
func (*listCmd) SetFlags(*flag.FlagSet)   {}
func (*listCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Println("not implemented: instrument registry browsing is out of scope")
	return 2
}

type infoCmd struct{}

func (*infoCmd) Name() string             { return "info" }
func (*infoCmd) Synopsis() string         { return "not implemented: instrument registry browsing is out of scope" }
func (*infoCmd) Usage() string            { return "info <instrument>\n" }
func (*infoCmd) SetFlags(*flag.FlagSet)   {}
func (*infoCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Println("not implemented: instrument registry browsing is out of scope")
	return 2
}
