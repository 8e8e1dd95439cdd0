package main

import "github.com/k1LoW/icongen/cmd"

func main() {
	cmd.Execute()
}
