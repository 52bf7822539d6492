package main

import "github.com/seladb/holochain-rust/cmd/n3h-pin/cmd"

func main() {
	cmd.Execute()
}
