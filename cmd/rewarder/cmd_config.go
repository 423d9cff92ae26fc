package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/x/distribution"
	"github.com/iov-one/rewarder/x/governor"
	"github.com/iov-one/rewarder/x/whitelist"
)

func cmdUpdateConfig(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Update the configuration of an extension with the JSON document read from
the input. Fields missing from the document keep their current value. Only
the current owner of the configuration can do it.

Supported extensions are "distribution", "governor" and "whitelist".
		`)
		fl.PrintDefaults()
	}
	var (
		nf     = addNodeFlags(fl)
		fromFl = flSigner(fl)
		extFl  = fl.String("extension", "", "Name of the extension to configure.")
	)
	fl.Parse(args)

	var msg rewarder.Msg
	switch *extFl {
	case "distribution":
		var patch distribution.Configuration
		if err := readJSON(input, &patch); err != nil {
			return err
		}
		msg = &distribution.UpdateConfigurationMsg{Patch: &patch}
	case "governor":
		var patch governor.Configuration
		if err := readJSON(input, &patch); err != nil {
			return err
		}
		msg = &governor.UpdateConfigurationMsg{Patch: &patch}
	case "whitelist":
		var patch whitelist.Configuration
		if err := readJSON(input, &patch); err != nil {
			return err
		}
		msg = &whitelist.UpdateConfigurationMsg{Patch: &patch}
	default:
		flagDie("unknown extension %q", *extFl)
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	n, err := nf.open()
	if err != nil {
		return err
	}
	defer n.Close()

	res, err := deliver(n, *nf.now, *fromFl, msg, output)
	if err != nil {
		return err
	}
	return writeJSON(output, res)
}
