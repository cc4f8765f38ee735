package main

import "github.com/charliek/syslogdash/internal/cli"

func main() {
	cli.Execute()
}
