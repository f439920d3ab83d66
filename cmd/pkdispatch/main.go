// Command pkdispatch is a small CLI front-end over pkg/pkdispatch: each
// subcommand reads canonical S-expressions from its arguments/stdin and
// writes the result S-expression to stdout, letting the dispatcher be
// exercised without writing Go.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ydario/pkdispatch/internal/demobackend"
	"github.com/ydario/pkdispatch/pkg/pkdispatch"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/config"
)

func main() {
	profilePath := flag.String("profile", "", "path to a YAML config.Profile to apply at startup")
	withDemoBackend := flag.Bool("demo-backend", false, "register the secp256k1-schnorr demo backend")
	flag.Parse()

	log.Printf("pkdispatch contract version: %s", pkdispatch.ContractVersion)

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	d := pkdispatch.New(nil)
	if *profilePath != "" {
		if err := applyProfileFile(d, *profilePath); err != nil {
			log.Fatalf("applying profile %s: %v", *profilePath, err)
		}
	}
	if *withDemoBackend {
		if _, err := d.RegisterBackend(demobackend.Name, algo.UsageSign,
			demobackend.Common, "", demobackend.Secret, demobackend.GripParams,
			demobackend.SigParams, "", "", demobackend.New()); err != nil {
			log.Fatalf("registering demo backend: %v", err)
		}
	}

	var err error
	switch args[0] {
	case "genkey":
		err = runGenKey(d, args[1:])
	case "encrypt":
		err = runEncrypt(d, args[1:])
	case "decrypt":
		err = runDecrypt(d, args[1:])
	case "sign":
		err = runSign(d, args[1:])
	case "verify":
		err = runVerify(d, args[1:])
	case "keygrip":
		err = runKeygrip(d, args[1:])
	case "algo-info":
		err = runAlgoInfo(d, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pkdispatch [-profile file] [-demo-backend] <genkey|encrypt|decrypt|sign|verify|keygrip|algo-info> [sexp-args...]")
}

func runAlgoInfo(d *pkdispatch.Dispatcher, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: pkdispatch algo-info <name>")
	}
	name := args[0]
	fmt.Printf("usage=%v enabled=%v\n", d.GetAlgoUsage(name), d.TestAlgo(name, 0))
	return nil
}

func applyProfileFile(d *pkdispatch.Dispatcher, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	p, err := config.LoadProfile(f)
	if err != nil {
		return err
	}
	return d.ApplyProfile(p)
}

// readArgOrStdin returns args[0] if present, else the whole of stdin.
func readArgOrStdin(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func runGenKey(d *pkdispatch.Dispatcher, args []string) error {
	parms, err := readArgOrStdin(args)
	if err != nil {
		return err
	}
	out, err := d.GenKey(parms)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runEncrypt(d *pkdispatch.Dispatcher, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: pkdispatch encrypt <pkey-sexp> <data-sexp>")
	}
	out, err := d.Encrypt(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runDecrypt(d *pkdispatch.Dispatcher, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: pkdispatch decrypt <skey-sexp> <enc-sexp>")
	}
	out, err := d.Decrypt(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runSign(d *pkdispatch.Dispatcher, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: pkdispatch sign <skey-sexp> <hash-sexp>")
	}
	out, err := d.Sign(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runVerify(d *pkdispatch.Dispatcher, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: pkdispatch verify <pkey-sexp> <sig-sexp> <hash-sexp>")
	}
	if err := d.Verify(args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func runKeygrip(d *pkdispatch.Dispatcher, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: pkdispatch keygrip <key-sexp>")
	}
	grip, err := d.Keygrip(args[0])
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(grip[:]))
	return nil
}
