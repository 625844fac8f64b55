// cmd/alignio/main.go
package main

import (
	"alignio/internal/app"
	"alignio/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
