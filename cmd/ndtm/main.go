// Command ndtm decides, for each line of standard input, whether the
// non-deterministic Turing machine described by a rule file accepts,
// rejects, or runs past its step budget on that line.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/urfave/cli/v2"

	"github.com/LRuffati/ndtm/internal/ruleio"
	"github.com/LRuffati/ndtm/internal/sched"
	"github.com/LRuffati/ndtm/internal/tape"
)

func main() {
	app := &cli.App{
		Name:      "ndtm",
		Usage:     "decide acceptance of a non-deterministic Turing machine, one input per stdin line",
		ArgsUsage: "<rule-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "blank",
				Value: "_",
				Usage: "the blank symbol; only its first byte is used",
			},
			&cli.IntFlag{
				Name:  "cell-width",
				Value: 5,
				Usage: "the tape's construction-time cell width W",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		glog.Fatalf("ndtm: %v", err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit(fmt.Sprintf("usage: %s %s", c.App.Name, c.App.ArgsUsage), 1)
	}
	filename := c.Args().Get(0)
	width := c.Int("cell-width")
	blankTok := c.String("blank")
	if len(blankTok) == 0 {
		return cli.Exit("--blank must not be empty", 1)
	}
	blank := blankTok[0]

	f, err := os.Open(filename)
	if err != nil {
		return cli.Exit(fmt.Sprintf("ndtm: can't open rule file: %v", err), 1)
	}
	defer f.Close()

	parsed, err := ruleio.Parse(f)
	if err != nil {
		return cli.Exit(fmt.Sprintf("ndtm: %v", err), 1)
	}
	glog.Infof("ndtm: loaded rule file %s, step budget %d", filename, parsed.Budget)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := []byte(scanner.Text())
		t := tape.New(width, blank, input)
		decision := sched.Run(t, parsed.Store, parsed.Budget)
		fmt.Fprintln(out, decision.String())
	}
	if err := scanner.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("ndtm: reading stdin: %v", err), 1)
	}
	return nil
}
