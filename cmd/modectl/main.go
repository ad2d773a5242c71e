// modectl reads and toggles per-user processing modes
package main

import (
	"os"

	"github.com/wozniakbe/user-mode/cmd/modectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
