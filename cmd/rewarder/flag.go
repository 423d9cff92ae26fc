package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/rewarder"
	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *rewarder.Address {
	var a flagaddress
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q rewarder.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*rewarder.Address)(&a)
}

type flagaddress rewarder.Address

func (a flagaddress) String() string {
	return rewarder.Address(a).String()
}

func (a *flagaddress) Set(raw string) error {
	addr, err := rewarder.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagaddress(addr)
	return nil
}

// flAmount returns an amount flag. Amounts are decimal integers of the
// smallest token unit.
func flAmount(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Amount {
	var a flagamount
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q amount flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*coin.Amount)(&a)
}

type flagamount coin.Amount

func (a flagamount) String() string {
	return coin.Amount(a).String()
}

func (a *flagamount) Set(raw string) error {
	val, err := coin.ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = flagamount(val)
	return nil
}

// flHash returns a 32 byte hash flag, hex encoded with an optional 0x
// prefix.
func flHash(fl *flag.FlagSet, name, usage string) *[]byte {
	var h flaghash
	fl.Var(&h, name, usage)
	return (*[]byte)(&h)
}

type flaghash []byte

func (h flaghash) String() string {
	if len(h) == 0 {
		return ""
	}
	return hexutil.Encode(h)
}

func (h *flaghash) Set(raw string) error {
	val, err := merkle.DecodeHash(raw)
	if err != nil {
		return err
	}
	*h = val
	return nil
}

// flTime returns a time flag. Accepted are unix seconds and RFC3339. The
// default value is the current time.
func flTime(fl *flag.FlagSet, name, usage string) *rewarder.UnixTime {
	t := flagtime(rewarder.AsUnixTime(time.Now()))
	fl.Var(&t, name, usage)
	return (*rewarder.UnixTime)(&t)
}

type flagtime rewarder.UnixTime

func (t flagtime) String() string {
	return strconv.FormatInt(int64(t), 10)
}

func (t *flagtime) Set(raw string) error {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*t = flagtime(n)
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "time %q is neither unix seconds nor RFC3339", raw)
	}
	*t = flagtime(rewarder.AsUnixTime(parsed))
	return nil
}

// nodeFlags are the flags shared by every command that opens the local
// application state.
type nodeFlags struct {
	home     *string
	logLevel *string
	debug    *bool
	now      *rewarder.UnixTime
}

func addNodeFlags(fl *flag.FlagSet) nodeFlags {
	return nodeFlags{
		home:     fl.String("home", env("REWARDER_HOME", defaultHome()), "Directory where the application state is stored."),
		logLevel: fl.String("log-level", env("REWARDER_LOG_LEVEL", "error"), "Log filter, for example 'info' or 'debug'."),
		debug:    fl.Bool("debug", false, "Include error details in the results."),
		now:      flTime(fl, "time", "Block time as unix seconds or RFC3339. Defaults to now."),
	}
}

// open returns the node stored in the home directory.
func (nf nodeFlags) open() (*node, error) {
	logger, err := newLogger(*nf.logLevel)
	if err != nil {
		return nil, err
	}
	return openNode(*nf.home, logger, *nf.debug)
}

// newLogger returns a tendermint logger writing to stderr, filtered by given
// level specification.
func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), opt), nil
}

// signer returns the condition used to sign messages as the named account.
// All accounts are local names, authenticated by the command line.
func signer(name string) rewarder.Condition {
	return rewarder.NewCondition("sigs", "name", []byte(name))
}

// flSigner returns a flag naming the signing account.
func flSigner(fl *flag.FlagSet) *string {
	return fl.String("from", env("REWARDER_FROM", ""), "Name of the account signing the message.")
}

// flagDie terminates the program when an invalid flag value was given.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}
