// cmd/eikon/main.go
package main

import (
	cmd "github.com/eikonbench/eikon/internal/commands"
)

// main starts the eikon CLI application by delegating to the
// cobra root command defined in the commands package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
