package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	utillog "github.com/Azure/dnsmigrator/pkg/util/log"
)

var (
	gitCommit = "unknown"
)

func usage() {
	fmt.Fprint(flag.CommandLine.Output(), "usage: \n")
	fmt.Fprintf(flag.CommandLine.Output(), "       %s plan\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s advance\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s run {phase}\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s validate\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s status\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	ctx := context.Background()
	log := utillog.GetLogger()

	log.Printf("starting, git commit %s", gitCommit)

	var err error
	switch strings.ToLower(flag.Arg(0)) {
	case "plan":
		checkArgs(1)
		err = plan(ctx, log)
	case "advance":
		checkArgs(1)
		err = advance(ctx, log)
	case "run":
		checkArgs(2)
		err = run(ctx, log, flag.Arg(1))
	case "validate":
		checkArgs(1)
		err = validateCmd(ctx, log)
	case "status":
		checkArgs(1)
		err = status(ctx, log)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func checkArgs(required int) {
	if len(flag.Args()) != required {
		usage()
		os.Exit(2)
	}
}
