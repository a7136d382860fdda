package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/reoring/dskema/types"
)

func listTypes(cfg *TypesConfig, cc *cli.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: types takes no arguments", cli.ErrUsage)
	}
	for _, name := range types.Names() {
		fmt.Fprintln(cc.Out, name)
	}
	return nil
}
