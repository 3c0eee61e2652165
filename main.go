package main

import "github.com/wicaksana/internal-portal/cmd"

func main() {
	cmd.Execute()
}
