package main

import "racer/cmd"

func main() {
	cmd.Execute()
}
