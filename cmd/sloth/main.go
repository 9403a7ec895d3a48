// sloth generates Quake 3 / XreaL shader definitions from texture directories.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	app := &App{Fs: afero.NewOsFs(), Stdout: os.Stdout}
	if err := app.Command().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
