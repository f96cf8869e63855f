package main

import (
	"github.com/google/go-api-fence/pkg/gofence"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(gofence.Analyzer)
}
