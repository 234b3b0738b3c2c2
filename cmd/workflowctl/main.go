package main

import "os"

func main() {
	if err := newRootCmd(defaultEnv).Execute(); err != nil {
		os.Exit(1)
	}
}
