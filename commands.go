package main

import (
	"github.com/urfave/cli"
)

var COMMANDS = []cli.Command{
	{
		Name:   "run",
		Usage:  "Run the control loop against a co-processor link and serve the tuning API",
		Action: runCommand,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "port, p",
				Value: "",
				Usage: "Serial port of the CBF co-processor (empty for a loopback mock link)",
			},
			cli.UintFlag{
				Name:  "baud, b",
				Value: 115200,
				Usage: "Baud rate of the co-processor link",
			},
			cli.StringFlag{
				Name:  "cbf",
				Value: "off",
				Usage: "Safety-filter form: off, eul, eul-iters or pos",
			},
			cli.StringFlag{
				Name:  "law",
				Value: "d9",
				Usage: "Control-law mode: d9 or d6",
			},
			cli.StringFlag{
				Name:  "http",
				Value: "127.0.0.1:8000",
				Usage: "Listen address of the tuning/telemetry API",
			},
			cli.StringFlag{
				Name:  "gains",
				Value: "",
				Usage: "Optional gain profile to load from the cache",
			},
			cli.BoolFlag{
				Name:  "alt-trim",
				Usage: "Enable the integral altitude trim on the thrust channel",
			},
		},
	},

	{
		Name:   "gains",
		Usage:  "Save the design-time gain tables to a named cache profile",
		Action: gainsCommand,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "profile",
				Value: "default",
				Usage: "Profile name to write",
			},
			cli.StringFlag{
				Name:  "cbf",
				Value: "off",
				Usage: "Safety-filter form the tables are designed for",
			},
		},
	},
}
