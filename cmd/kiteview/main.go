// Command kiteview is an interactive demo of the kite engine.
package main

func main() {
	Execute()
}
