package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gattbridge/gattbridge/internal/attr"
)

// attrsCmd represents the attrs command
var attrsCmd = &cobra.Command{
	Use:   "attrs",
	Short: "Print the attribute table",
	Long: `Prints the attribute table the serve command would use: either the
built-in table or the one loaded from --attrs.`,
	Args: cobra.NoArgs,
	RunE: runAttrs,
}

var attrsFile string

func init() {
	attrsCmd.Flags().StringVar(&attrsFile, "attrs", "", "YAML attribute table replacing the built-in one")
}

func runAttrs(cmd *cobra.Command, args []string) error {
	registry := attr.DefaultRegistry()
	if attrsFile != "" {
		var err error
		registry, err = attr.LoadRegistry(attrsFile)
		if err != nil {
			return err
		}
	}
	cmd.SilenceUsage = true

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tWIDTH\tUNIT\tSCALE\tACCESS")
	for _, d := range registry.All() {
		access := ""
		if d.Readable {
			access += "r"
		}
		if d.Writable {
			access += "w"
		}
		scale := "-"
		if d.Scaled() {
			scale = fmt.Sprintf("%g", d.Scale)
		}
		unit := d.Unit
		if unit == "" {
			unit = "-"
		}
		fmt.Fprintf(w, "%s\t0x%04x\t%d\t%s\t%s\t%s\n", d.Name, d.ShortID, d.Width, unit, scale, access)
	}
	return w.Flush()
}
