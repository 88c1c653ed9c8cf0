// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/urfave/cli"
)

func PrintError(c *cli.Context, err error, cmd string) {
	fmt.Println("Incorrect Usage:", err)
	fmt.Println("")
	cli.ShowCommandHelp(c, cmd)
}

// FormatOutput pretty-prints a JSON document to w.
func FormatOutput(w io.Writer, o []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, o, "", "\t"); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func printOK(format string, args ...interface{}) {
	color.Printf("<suc>OK</>\t"+format+"\n", args...)
}

func printFailed(format string, args ...interface{}) {
	color.Printf("<error>ERROR</>\t"+format+"\n", args...)
}
