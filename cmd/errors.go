package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// PrintError prints userMsg, or the full technical error when --verbose is set.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", technicalErr)
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", userMsg)
}
