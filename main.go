package main

import (
	"github.com/mxk/go-cli"

	// CLI registration
	_ "github.com/mxk/dpane/cmd"
)

func main() {
	cli.Main.Summary = "Dual-pane file manager core, headless CLI"
	cli.Main.Run()
}
