package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func CSSCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Build assets/css/output.css with the tailwindcss standalone CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildCSS(watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild on template changes")
	return cmd
}

func buildCSS(watch bool) error {
	bin, err := exec.LookPath("tailwindcss")
	if err != nil {
		fmt.Println("Missing binary: tailwindcss")
		fmt.Println("Install the standalone CLI: https://tailwindcss.com/blog/standalone-cli")
		return fmt.Errorf("tailwindcss not found")
	}

	args := []string{"-i", "assets/css/input.css", "-o", "assets/css/output.css"}
	if watch {
		args = append(args, "--watch")
	} else {
		args = append(args, "--minify")
	}

	return run(bin, args...)
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
