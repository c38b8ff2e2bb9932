// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"context"
	stdflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
	minArgs int
	maxArgs int
}

func main() {
	ctx := context.Background()
	os.Exit(execute(ctx, os.Args[1:]))
}

func execute(ctx context.Context, args []string) int {
	g := &globals{}
	dsigenCmd := &cobra.Command{
		Use:           "dsigen [options] COMMAND",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	g.flags(dsigenCmd.PersistentFlags())

	rc := 0
	dsigenCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, dsigenCmd.UsageString())
		rc = 1
		return nil
	}

	commands := []command{
		&cmdCompile{globals: g},
		&cmdCodegen{globals: g},
		&cmdWatch{globals: g},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			Args:  cobra.RangeArgs(help.minArgs, help.maxArgs),
			RunE: func(_ *cobra.Command, args []string) error {
				rc = cmd.run(ctx, args)
				return nil
			},
		}
		dsigenCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	dsigenCmd.Flags().AddGoFlagSet(stdflag.CommandLine)
	dsigenCmd.SetArgs(args)
	if _, err := dsigenCmd.ExecuteC(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return rc
}
