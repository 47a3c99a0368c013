package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mxk/go-cli"
	"github.com/rivo/uniseg"

	"github.com/mxk/dpane/internal/prettysize"
	"github.com/mxk/dpane/internal/record"
	"github.com/mxk/dpane/internal/scan"
)

var _ = cli.Main.Add(&cli.Cfg{
	Name:    "scan",
	Usage:   "<dir>",
	Summary: "Print a sorted directory listing",
	MinArgs: 1,
	MaxArgs: 1,
	New:     func() cli.Cmd { return &scanCmd{} },
})

type scanCmd struct {
	All bool `cli:"Include hidden entries"`
}

func (cmd *scanCmd) Main(args []string) error {
	res, err := scan.Scan(args[0], record.DefaultOrder(), true)
	if err != nil {
		return err
	}
	nameWidth := 0
	for _, r := range res.Files {
		if !cmd.All && r.Hidden() {
			continue
		}
		if w := uniseg.StringWidth(r.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for _, r := range res.Files {
		if !cmd.All && r.Hidden() {
			continue
		}
		pad := nameWidth - uniseg.StringWidth(r.Name)
		kind := '-'
		switch {
		case r.IsDir():
			kind = 'd'
		case r.IsSymlink():
			kind = 'l'
		}
		fmt.Printf("%c %s%*s  %6s  %s\n", kind, r.Name, pad, "",
			prettysize.Format(r.Size), humanize.Time(r.Mtime))
	}
	fmt.Fprintf(os.Stderr, "%s entries, %s hidden\n",
		humanize.Comma(int64(res.Total)), humanize.Comma(int64(res.Hidden)))
	return nil
}
