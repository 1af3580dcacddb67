package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	env := newEnv(os.Stdout, os.Stderr)
	for _, c := range commands(env) {
		commander.Register(c, "")
	}

	flag.Parse()
	status := commander.Execute(context.Background())
	env.close()
	os.Exit(int(status))
}
