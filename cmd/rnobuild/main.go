package main

import "github.com/rno-g/rnobuild/cmd/rnobuild/internal"

func main() {
	internal.Execute()
}
