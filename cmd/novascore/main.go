// cmd/novascore/main.go
package main

import (
	"fmt"
	"os"

	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// view errors were already reported through the notifier
		if _, ok := apperrors.AsStandard(err); !ok {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
