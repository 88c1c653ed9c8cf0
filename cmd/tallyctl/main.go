package main

import (
	"os"
	"sort"

	"github.com/urfave/cli"
)

var Version string

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "tallyctl"
	app.Version = Version
	app.HelpName = "tallyctl"
	app.Usage = "command line client for the quickly-tally API"
	app.UsageText = "tallyctl [global options] command [command options] [args]"
	app.HideHelp = false
	app.HideVersion = false
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "server, s",
			Value:  "http://localhost:3318",
			Usage:  "API base URL",
			EnvVar: "TALLY_SERVER",
		},
	}
	//commands
	app.Commands = []cli.Command{
		createCommand(),
		voteCommand(),
		infoCommand(),
		resultsCommand(),
		queryCommand(),
		voterKeyCommand(),
		replayCommand(),
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	sort.Sort(cli.FlagsByName(app.Flags))
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		printFailed("%v", err)
		os.Exit(1)
	}
}
