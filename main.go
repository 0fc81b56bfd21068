// ABOUTME: Entry point for the flowaudio CLI
// ABOUTME: Delegates to the cmd package
package main

import "github.com/FlowAudio/flowaudio-go/cmd"

func main() {
	cmd.Execute()
}
