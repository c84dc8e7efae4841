// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
	"github.com/MKhiriev/go-account-keeper/internal/client"
	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/tui"
	"github.com/MKhiriev/go-account-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewClientLogger("go-account-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	fs := flag.NewFlagSet("account-client", flag.ExitOnError)
	address := fs.String("a", cfg.HTTPAddress, "Server address")
	token := fs.String("t", cfg.Token, "Bearer token")
	version := fs.Bool("version", false, "Print build info and exit")
	_ = fs.Parse(os.Args[1:])

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	if *version {
		printBuildInfo(buildInfo)
		return
	}

	cfg.HTTPAddress = *address
	cfg.Token = *token

	// no subcommand starts the interactive UI, which owns the terminal
	// while it runs, so nothing below it may log to stderr
	interactive := fs.NArg() == 0
	runLog := log
	if interactive {
		runLog = logger.Nop()
	}

	accounts, err := adapter.NewHTTPAccountAdapter(*cfg, runLog)
	if err != nil {
		log.Fatal().Err(err).Msg("create account adapter")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if interactive {
		if err = tui.New(accounts, buildInfo, runLog).Run(ctx); err != nil {
			stop()
			log.Fatal().Err(err).Msg("interactive client failed")
		}
		return
	}

	app := client.NewApp(accounts, client.NewPasswordReader(os.Stdin, os.Stderr), os.Stdout, os.Stderr, log)
	if err = app.Run(ctx, fs.Args()); err != nil {
		stop()
		log.Fatal().Err(err).Msg("command failed")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.Version)
	fmt.Printf("Build date: %s\n", info.Date)
	fmt.Printf("Build commit: %s\n", info.Commit)
}
