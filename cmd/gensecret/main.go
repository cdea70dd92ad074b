// Generates a random value suitable for the SECRET_KEY setting.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const defaultKeyBytesLen = 32

func main() {
	fs := pflag.NewFlagSet("gensecret", pflag.ExitOnError)
	length := fs.IntP("bytes", "n", defaultKeyBytesLen, "Secret key length in bytes")
	_ = fs.Parse(os.Args[1:])

	b := make([]byte, *length)

	_, err := rand.Read(b)
	if err != nil {
		fmt.Printf("error while generating secret key: %v", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}
