package main

import "farmer/cmd"

func main() {
	cmd.Execute()
}
