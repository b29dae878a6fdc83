// One-off: decrypt a legacy .qcc key file and save its wallet as a new .cwt file.
// Usage: go run ./cmd/convert_keyfile -in wallet.qcc -out wallet.cwt
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/qcc-wallet/internal/config"
	"github.com/AlexZinkM/qcc-wallet/qcc"
)

func main() {
	in := flag.String("in", "", "legacy .qcc key file")
	out := flag.String("out", "", "new .cwt wallet file")
	passphrase := flag.String("passphrase", "", "key file passphrase (default: the legacy built-in one)")
	flag.Parse()

	if err := convert(*in, *out, *passphrase); err != nil {
		fmt.Fprintln(os.Stderr, "convert failed:", err)
		os.Exit(1)
	}
}

func convert(in, out, passphrase string) error {
	if in == "" || out == "" {
		return errors.New("both -in and -out are required")
	}

	blob, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	password, err := config.ReadPassword("Enter new wallet password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	resp, err := qcc.ImportKeyFile(out, strings.TrimSpace(string(blob)), passphrase, password)
	if err != nil {
		return err
	}
	fmt.Println(resp.Address)
	return nil
}
