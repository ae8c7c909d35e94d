package main

import "github.com/sjses80519/dcnSyslogAnalysis-project/internal/cmd"

func main() {
	cmd.Execute()
}
