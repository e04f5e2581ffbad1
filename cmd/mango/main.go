// Command mango is a demonstration binary in the spirit of the sample
// MangoAC/MangoBM/MangoZI programs named in spec.md §6 — no stable CLI
// contract is claimed; flags and output format may change freely.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/redeaux-corp/mango"
	"github.com/redeaux-corp/mango/internal/catalog"
	"github.com/redeaux-corp/mango/internal/config"
	"github.com/redeaux-corp/mango/internal/keyschedule"
	"github.com/redeaux-corp/mango/internal/profiler"
)

func fatal(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ "+msg+"\n", args...)
	os.Exit(1)
}

func ok(msg string, args ...interface{}) {
	color.New(color.FgGreen).Printf("✓ "+msg+"\n", args...)
}

func loadCatalogBytes(c *cli.Context) []byte {
	path := c.GlobalString("catalog")
	if path == "" {
		fatal("--catalog is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("reading catalog file: %v", err)
	}
	return data
}

func buildOptions(c *cli.Context) mango.Options {
	var salt [keyschedule.SaltSize]byte
	saltStr := c.GlobalString("salt")
	if saltStr == "" {
		fatal("--salt is required (%d raw bytes, hex-encoded)", keyschedule.SaltSize)
	}
	raw, err := hex.DecodeString(saltStr)
	if err != nil || len(raw) != keyschedule.SaltSize {
		fatal("--salt must be %d hex-encoded bytes", keyschedule.SaltSize)
	}
	copy(salt[:], raw)
	return mango.Options{
		Salt:     salt,
		ZoneInfo: []byte(c.GlobalString("zone")),
	}
}

func buildLib(c *cli.Context) *mango.CryptoLib {
	password := c.GlobalString("password")
	if password == "" {
		fatal("--password is required")
	}
	cfg := config.New(config.CatalogSource{Bytes: loadCatalogBytes(c)})
	lib, err := mango.New([]byte(password), buildOptions(c), cfg)
	if err != nil {
		fatal("constructing cipher: %v", err)
	}
	return lib
}

func encryptCommand(c *cli.Context) error {
	inPath := c.Args().Get(0)
	outPath := c.Args().Get(1)
	if inPath == "" || outPath == "" {
		fatal("usage: mango encrypt <in> <out>")
	}
	plaintext, err := os.ReadFile(inPath)
	if err != nil {
		fatal("reading %s: %v", inPath, err)
	}
	lib := buildLib(c)
	ciphertext, err := lib.Encrypt(plaintext)
	if err != nil {
		fatal("encrypt: %v", err)
	}
	if err := os.WriteFile(outPath, ciphertext, 0o600); err != nil {
		fatal("writing %s: %v", outPath, err)
	}
	ok("wrote %d bytes to %s", len(ciphertext), outPath)
	return nil
}

func decryptCommand(c *cli.Context) error {
	inPath := c.Args().Get(0)
	outPath := c.Args().Get(1)
	if inPath == "" || outPath == "" {
		fatal("usage: mango decrypt <in> <out>")
	}
	ciphertext, err := os.ReadFile(inPath)
	if err != nil {
		fatal("reading %s: %v", inPath, err)
	}
	lib := buildLib(c)
	plaintext, err := lib.Decrypt(ciphertext)
	if err != nil {
		fatal("decrypt: %v", err)
	}
	if err := os.WriteFile(outPath, plaintext, 0o600); err != nil {
		fatal("writing %s: %v", outPath, err)
	}
	ok("wrote %d bytes to %s", len(plaintext), outPath)
	return nil
}

func profileCommand(c *cli.Context) error {
	inPath := c.Args().Get(0)
	if inPath == "" {
		fatal("usage: mango profile <in>")
	}
	buf, err := os.ReadFile(inPath)
	if err != nil {
		fatal("reading %s: %v", inPath, err)
	}
	cat, err := catalog.Load(loadCatalogBytes(c))
	if err != nil {
		fatal("loading catalog: %v", err)
	}
	p, err := profiler.New(profiler.DefaultThresholds(), config.DefaultClassificationCacheSize)
	if err != nil {
		fatal("constructing profiler: %v", err)
	}
	prof, class, err := p.Resolve(buf, cat)
	if err != nil {
		fatal("resolve: %v", err)
	}
	fmt.Printf("class:          %s\n", class)
	fmt.Printf("profile:        %s\n", prof.Name)
	fmt.Printf("global_rounds:  %d\n", prof.GlobalRounds)
	fmt.Printf("sequence_len:   %d\n", len(prof.Sequence))
	fmt.Printf("aggregate_score: %.4f\n", prof.AggregateScore)
	return nil
}

func catalogInfoCommand(c *cli.Context) error {
	data := loadCatalogBytes(c)
	cat, err := catalog.Load(data)
	if err != nil {
		fatal("loading catalog: %v", err)
	}
	sum := cat.Checksum()
	fmt.Printf("checksum (blake3-256): %s\n", hex.EncodeToString(sum[:]))
	fmt.Println("profiles:")
	for _, name := range cat.Names() {
		p, _ := cat.Lookup(name)
		fmt.Printf("  %-12s global_rounds=%-3d sequence_len=%-3d score=%.4f\n",
			p.Name, p.GlobalRounds, len(p.Sequence), p.AggregateScore)
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "mango"
	app.Usage = "MANGO adaptive symmetric cipher engine — demonstration CLI"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "catalog", Usage: "path to the profile catalog document"},
		cli.StringFlag{Name: "zone", Usage: "optional public zone label bound into the key schedule"},
		cli.StringFlag{Name: "password", Usage: "password the key schedule is derived from"},
		cli.StringFlag{Name: "salt", Usage: "12-byte salt, hex-encoded"},
	}
	app.Commands = []cli.Command{
		{
			Name:   "encrypt",
			Usage:  "mango encrypt <in> <out> -- encrypt a file",
			Action: encryptCommand,
		},
		{
			Name:   "decrypt",
			Usage:  "mango decrypt <in> <out> -- decrypt a file",
			Action: decryptCommand,
		},
		{
			Name:   "profile",
			Usage:  "mango profile <in> -- classify a file and print the resolved profile",
			Action: profileCommand,
		},
		{
			Name:   "catalog-info",
			Usage:  "print loaded profile names and the catalog's blake3 checksum",
			Action: catalogInfoCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fatal("%v", err)
	}
}
