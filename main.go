package main

import "github.com/afoley587/coding-challenges-2025/user-records/cmd"

func main() {
	cmd.Execute()
}
