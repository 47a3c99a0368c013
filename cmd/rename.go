package cmd

import (
	"fmt"

	"github.com/mxk/go-cli"

	"github.com/mxk/dpane/internal/rename"
	"github.com/mxk/dpane/internal/strlist"
)

var _ = cli.Main.Add(&cli.Cfg{
	Name:    "rename",
	Usage:   "<dir> <old=new> ...",
	Summary: "Rename one or more entries in dir, resolving cyclic swaps",
	MinArgs: 2,
	New:     func() cli.Cmd { return &renameCmd{} },
})

type renameCmd struct{}

func (*renameCmd) Main(args []string) error {
	dir := args[0]
	s, r := strlist.New(), strlist.New()
	for _, a := range args[1:] {
		old, nw, err := splitAssignment(a)
		if err != nil {
			return err
		}
		s.Push(old)
		r.Push(nw)
	}

	plan, err := rename.Build(dir, s, r)
	if err != nil {
		return err
	}
	for _, p := range plan.Trivial {
		fmt.Printf("%s -> %s\n", p.From, p.To)
	}
	for _, cycle := range plan.Cycles {
		for _, p := range cycle {
			fmt.Printf("%s -> %s (cycle)\n", p.From, p.To)
		}
	}
	return rename.Apply(dir, plan)
}
