package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/mikehamer/crazycontrol/cache"
	"github.com/mikehamer/crazycontrol/cbf"
	"github.com/mikehamer/crazycontrol/controller"
)

func gainsCommand(ctx *cli.Context) error {
	mode, err := cbf.ParseMode(ctx.String("cbf"))
	if err != nil {
		return err
	}

	if err := cache.Init(); err != nil {
		return err
	}

	profile := ctx.String("profile")
	snap := controller.NewGains(mode).Snapshot()
	if err := cache.SaveGains(profile, &snap); err != nil {
		return err
	}

	fmt.Printf("Wrote gain profile %q\n", profile)
	return nil
}
