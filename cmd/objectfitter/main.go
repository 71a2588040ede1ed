package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"object-fitter/internal/commands"
	"object-fitter/internal/config"
	"object-fitter/internal/logger"
	"object-fitter/internal/session"
	"object-fitter/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "objectfitter:", err)
		os.Exit(1)
	}
}

func run() error {
	var flags config.Flags
	configPath := pflag.StringP("config", "c", config.ConfigPath, "settings file")
	pflag.StringVar(&flags.ScenePath, "scene", "", "scene file to open at startup")
	pflag.StringVar(&flags.LogFile, "log", "", "log file")
	pflag.StringVar(&flags.PrimitivesDir, "primitives", "", "directory of extra primitive definitions")
	pflag.Parse()
	if pflag.NArg() > 0 && flags.ScenePath == "" {
		flags.ScenePath = pflag.Arg(0)
	}

	out := termenv.NewOutput(os.Stdout)
	cfg, cfgErr := config.Load(*configPath)
	if err := cfg.Resolve(flags); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogFile)
	if err != nil {
		// Keep going with in-memory logging.
		fmt.Fprintln(os.Stderr, "objectfitter:", err)
	}
	defer log.Close()

	reg := commands.NewRegistry()
	term := terminal.New(log, reg, out)
	term.Prompt = true
	if cfgErr != nil {
		term.Error(cfgErr)
	}

	sess, err := session.New(cfg, log, term)
	if err != nil {
		return err
	}
	sess.Register(reg)
	if cfg.ScenePath != "" {
		if err := sess.Load(cfg.ScenePath, false); err != nil {
			term.Error(err)
		} else {
			term.Info(fmt.Sprintf("Loaded %s (%d objects)", cfg.ScenePath, len(sess.Scene.Names())))
		}
	}
	term.Println(`Type "help" for commands, "exit" to quit.`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := term.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		return err
	}
	if sess.Scene.Dirty() {
		term.Println("unsaved changes discarded: " + fmt.Sprint(sess.Scene.Modified()))
	}
	return nil
}
