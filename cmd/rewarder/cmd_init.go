package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/rewarder/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Initialize the application state from a genesis file. This can be done only
once for a given home directory.

The genesis file is a JSON document with the "chain_id" and the "app_state"
containing the initial balances ("cash"), reward tokens ("whitelist") and
the configuration of each extension ("conf").
		`)
		fl.PrintDefaults()
	}
	var (
		nf        = addNodeFlags(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	id, err := n.app.InitChain(gen)
	if err != nil {
		return err
	}
	return writeJSON(output, struct {
		ChainID string `json:"chain_id"`
		Height  int64  `json:"height"`
	}{
		ChainID: gen.ChainID,
		Height:  id.Version,
	})
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the address of the named account. The same name is used with the
-from flag to sign messages.
		`)
		fl.PrintDefaults()
	}
	var (
		nameFl = fl.String("name", "", "Account name.")
	)
	fl.Parse(args)

	if *nameFl == "" {
		flagDie("-name is required")
	}
	_, err := fmt.Fprintln(output, signer(*nameFl).Address())
	return err
}
